package modules

import (
	"errors"
	"image/color"
	"math/rand"
	"testing"

	"github.com/decker502/seqgame/pkg/components"
	"github.com/decker502/seqgame/pkg/config"
	"github.com/decker502/seqgame/pkg/ecs"
)

const frame = 1.0 / 64.0

var flashYellow = color.RGBA{R: 255, G: 255, A: 255}

// visualEvent 一次颜色修改记录
type visualEvent struct {
	target int
	color  color.RGBA
}

// fakeTarget 测试用目标，所有颜色修改记录到共享日志
type fakeTarget struct {
	index   int
	color   color.RGBA
	handler func()
	log     *[]visualEvent
}

func (f *fakeTarget) VisualState() color.RGBA { return f.color }

func (f *fakeTarget) SetVisualState(c color.RGBA) {
	f.color = c
	*f.log = append(*f.log, visualEvent{target: f.index, color: c})
}

func (f *fakeTarget) OnActivate(handler func()) { f.handler = handler }

// click 模拟宿主触发点击事件
func (f *fakeTarget) click() {
	if f.handler != nil {
		f.handler()
	}
}

type fakeContainer struct {
	visible       bool
	cursorVisible bool
	cursorLocked  bool
	visibleCalls  int
}

func (c *fakeContainer) SetVisible(visible bool) {
	c.visible = visible
	c.visibleCalls++
}

func (c *fakeContainer) SetCursorVisible(visible bool) { c.cursorVisible = visible }

func (c *fakeContainer) SetCursorLocked(locked bool) { c.cursorLocked = locked }

type fakeCompletion struct {
	ids []string
}

func (f *fakeCompletion) OnMinigameCompleted(id string) {
	f.ids = append(f.ids, id)
}

// testHarness 小游戏及其全部外部依赖
type testHarness struct {
	module     *SequenceMinigameModule
	targets    []*fakeTarget
	container  *fakeContainer
	completion *fakeCompletion
	log        *[]visualEvent
}

func testConfig() config.SequenceMinigameConfig {
	return config.SequenceMinigameConfig{
		FlashColor:          [4]uint8{255, 255, 0, 255},
		FlashDuration:       0.25,
		DelayBetweenFlashes: 0.125,
		InitialDelay:        0.125,
		MaxSequenceLength:   5,
	}
}

func defaultColor(i int) color.RGBA {
	return color.RGBA{R: uint8(10 * i), G: 100, B: 200, A: 255}
}

func newHarness(t *testing.T, n int, cfg config.SequenceMinigameConfig, seed int64) *testHarness {
	t.Helper()
	log := &[]visualEvent{}
	h := &testHarness{
		container:  &fakeContainer{visible: true, cursorVisible: true},
		completion: &fakeCompletion{},
		log:        log,
	}

	targets := make([]Target, n)
	for i := 0; i < n; i++ {
		ft := &fakeTarget{index: i, color: defaultColor(i), log: log}
		h.targets = append(h.targets, ft)
		targets[i] = ft
	}

	module, err := NewSequenceMinigameModule(ecs.NewEntityManager(), "test", targets, cfg, SequenceMinigameDeps{
		Container:  h.container,
		Completion: h.completion,
		Rand:       rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		t.Fatalf("NewSequenceMinigameModule failed: %v", err)
	}
	h.module = module
	return h
}

// runUntilAwaitingInput 逐帧推进直到可以输入
func (h *testHarness) runUntilAwaitingInput(t *testing.T) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if h.module.Status() == components.SequenceAwaitingInput {
			return
		}
		h.module.Update(frame)
	}
	t.Fatalf("Playback did not finish, status %v", h.module.Status())
}

// setSequence 直接指定序列，用于固定场景
func (h *testHarness) setSequence(sequence ...int) {
	h.module.state().Sequence = sequence
}

func (h *testHarness) assertDefaultColors(t *testing.T) {
	t.Helper()
	for i, target := range h.targets {
		if target.color != defaultColor(i) {
			t.Errorf("Target %d: color %v, want default %v", i, target.color, defaultColor(i))
		}
	}
}

func TestNewSequenceMinigameModuleRejectsEmptyTargets(t *testing.T) {
	_, err := NewSequenceMinigameModule(ecs.NewEntityManager(), "empty", nil, testConfig(), SequenceMinigameDeps{})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewSequenceMinigameModuleRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.FlashDuration = 0

	target := &fakeTarget{log: &[]visualEvent{}}
	_, err := NewSequenceMinigameModule(ecs.NewEntityManager(), "bad", []Target{target}, cfg, SequenceMinigameDeps{})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if target.handler != nil {
		t.Error("A rejected minigame should not subscribe to targets")
	}
}

func TestNewSequenceMinigameModuleStartsPlayback(t *testing.T) {
	h := newHarness(t, 4, testConfig(), 1)

	if h.module.Status() != components.SequencePlaying {
		t.Errorf("Status: got %v, want Playing", h.module.Status())
	}
	if len(h.module.Sequence()) != 4 {
		t.Errorf("Sequence length: got %d, want 4", len(h.module.Sequence()))
	}
	for i, target := range h.targets {
		if target.handler == nil {
			t.Errorf("Target %d has no activation handler", i)
		}
	}
	if h.module.ID() != "test" || h.module.TargetCount() != 4 {
		t.Errorf("Unexpected ID/TargetCount: %s/%d", h.module.ID(), h.module.TargetCount())
	}
}

func TestGenerateSequenceProperties(t *testing.T) {
	for n := 1; n <= 8; n++ {
		for maxLen := 1; maxLen <= 9; maxLen++ {
			cfg := testConfig()
			cfg.MaxSequenceLength = maxLen
			h := newHarness(t, n, cfg, int64(n*100+maxLen))

			for round := 0; round < 5; round++ {
				sequence := h.module.GenerateSequence()

				if len(sequence) != min(n, maxLen) {
					t.Fatalf("N=%d max=%d: length %d, want %d", n, maxLen, len(sequence), min(n, maxLen))
				}
				seen := make(map[int]bool)
				for _, index := range sequence {
					if index < 0 || index >= n {
						t.Fatalf("N=%d: index %d out of range", n, index)
					}
					if seen[index] {
						t.Fatalf("N=%d: duplicate index %d in %v", n, index, sequence)
					}
					seen[index] = true
				}
			}
		}
	}
}

func TestGenerateSequenceReproducible(t *testing.T) {
	a := newHarness(t, 6, testConfig(), 42)
	b := newHarness(t, 6, testConfig(), 42)

	for round := 0; round < 10; round++ {
		sa, sb := a.module.GenerateSequence(), b.module.GenerateSequence()
		for i := range sa {
			if sa[i] != sb[i] {
				t.Fatalf("Round %d: sequences differ: %v vs %v", round, sa, sb)
			}
		}
	}
}

func TestGenerateSequenceDoesNotChangeStatus(t *testing.T) {
	h := newHarness(t, 3, testConfig(), 7)
	h.runUntilAwaitingInput(t)

	h.module.GenerateSequence()
	if h.module.Status() != components.SequenceAwaitingInput {
		t.Errorf("Status changed to %v", h.module.Status())
	}
}

func TestPlaybackRestoresDefaultColors(t *testing.T) {
	h := newHarness(t, 5, testConfig(), 3)
	sequence := h.module.Sequence()

	h.runUntilAwaitingInput(t)

	h.assertDefaultColors(t)
	if h.module.Progress() != 0 {
		t.Errorf("Progress: got %d, want 0", h.module.Progress())
	}

	// 闪烁顺序：每个目标先闪烁再恢复，然后才轮到下一个
	events := *h.log
	if len(events) != 2*len(sequence) {
		t.Fatalf("Expected %d visual events, got %d: %v", 2*len(sequence), len(events), events)
	}
	for i, target := range sequence {
		flash, restore := events[2*i], events[2*i+1]
		if flash.target != target || flash.color != flashYellow {
			t.Errorf("Event %d: expected flash of %d, got %+v", 2*i, target, flash)
		}
		if restore.target != target || restore.color != defaultColor(target) {
			t.Errorf("Event %d: expected restore of %d, got %+v", 2*i+1, target, restore)
		}
	}
}

func TestInputIgnoredWhilePlaying(t *testing.T) {
	h := newHarness(t, 3, testConfig(), 5)
	h.setSequence(2, 0, 1)

	h.targets[2].click()

	if h.module.Progress() != 0 {
		t.Errorf("Input during playback should be ignored, progress %d", h.module.Progress())
	}
	if h.module.Status() != components.SequencePlaying {
		t.Errorf("Status: got %v, want Playing", h.module.Status())
	}
}

func TestCorrectSequenceCompletes(t *testing.T) {
	h := newHarness(t, 3, testConfig(), 11)
	h.setSequence(2, 0, 1)
	h.runUntilAwaitingInput(t)

	h.targets[2].click()
	h.targets[0].click()
	if h.module.Progress() != 2 {
		t.Errorf("Progress: got %d, want 2", h.module.Progress())
	}
	h.targets[1].click()

	if h.module.Status() != components.SequenceCompleted || !h.module.IsCompleted() {
		t.Fatalf("Status: got %v, want Completed", h.module.Status())
	}
	if len(h.completion.ids) != 1 || h.completion.ids[0] != "test" {
		t.Errorf("Completion callback: got %v, want [test]", h.completion.ids)
	}
	if h.container.visible || h.module.IsVisible() {
		t.Error("Container should be hidden after completion")
	}
	if h.container.cursorVisible || !h.container.cursorLocked {
		t.Errorf("Cursor should be hidden and locked, got visible=%v locked=%v",
			h.container.cursorVisible, h.container.cursorLocked)
	}
}

func TestMismatchReplaysSameSequence(t *testing.T) {
	h := newHarness(t, 3, testConfig(), 13)
	h.setSequence(2, 0, 1)
	h.runUntilAwaitingInput(t)

	h.targets[2].click()
	h.targets[1].click() // 第二步应为 0

	if h.module.Progress() != 0 {
		t.Errorf("Progress after mismatch: got %d, want 0", h.module.Progress())
	}
	if h.module.Status() != components.SequencePlaying {
		t.Errorf("Status after mismatch: got %v, want Playing", h.module.Status())
	}
	if got := h.module.Sequence(); got[0] != 2 || got[1] != 0 || got[2] != 1 {
		t.Errorf("Sequence changed after mismatch: %v", got)
	}

	// 重播完成后仍然可以按原序列完成
	*h.log = nil
	h.runUntilAwaitingInput(t)
	if len(*h.log) != 6 || (*h.log)[0].target != 2 {
		t.Errorf("Replay should flash the same sequence, got %v", *h.log)
	}

	h.targets[2].click()
	h.targets[0].click()
	h.targets[1].click()
	if !h.module.IsCompleted() {
		t.Error("Expected completion after replay")
	}
}

func TestMismatchOnFirstStep(t *testing.T) {
	h := newHarness(t, 4, testConfig(), 17)
	sequence := h.module.Sequence()
	h.runUntilAwaitingInput(t)

	wrong := (sequence[0] + 1) % 4
	h.targets[wrong].click()

	if h.module.Status() != components.SequencePlaying || h.module.Progress() != 0 {
		t.Errorf("Expected replay after first-step mismatch, got %v/%d", h.module.Status(), h.module.Progress())
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	h := newHarness(t, 2, testConfig(), 19)
	sequence := h.module.Sequence()
	h.runUntilAwaitingInput(t)
	for _, index := range sequence {
		h.targets[index].click()
	}
	if !h.module.IsCompleted() {
		t.Fatal("Expected completion")
	}
	visibleCalls := h.container.visibleCalls
	*h.log = nil

	if err := h.module.TryOpen(); !errors.Is(err, ErrMinigameCompleted) {
		t.Errorf("TryOpen after completion: got %v, want ErrMinigameCompleted", err)
	}
	for _, target := range h.targets {
		target.click()
	}
	h.module.OnTargetSelected(sequence[0])
	h.module.Playback()
	h.module.Close()
	for i := 0; i < 200; i++ {
		h.module.Update(frame)
	}

	if h.module.Status() != components.SequenceCompleted {
		t.Errorf("Status: got %v, want Completed", h.module.Status())
	}
	if len(h.completion.ids) != 1 {
		t.Errorf("Completion callback invoked %d times, want 1", len(h.completion.ids))
	}
	if h.container.visibleCalls != visibleCalls {
		t.Error("Container should not be touched after completion")
	}
	if len(*h.log) != 0 {
		t.Errorf("No visuals should change after completion, got %v", *h.log)
	}
}

func TestOutOfRangeInputIgnored(t *testing.T) {
	h := newHarness(t, 3, testConfig(), 23)
	h.runUntilAwaitingInput(t)

	h.module.OnTargetSelected(-1)
	h.module.OnTargetSelected(3)
	h.module.OnTargetSelected(100)

	if h.module.Status() != components.SequenceAwaitingInput || h.module.Progress() != 0 {
		t.Errorf("Out-of-range input should be ignored, got %v/%d", h.module.Status(), h.module.Progress())
	}
}

func TestPlaybackSupersedesInFlightTask(t *testing.T) {
	cfg := testConfig()
	cfg.InitialDelay = 0
	h := newHarness(t, 3, cfg, 29)
	h.setSequence(1, 2, 0)
	h.module.Playback()

	// 推进到第一个目标正在闪烁
	h.module.Update(frame)
	if h.targets[1].color != flashYellow {
		t.Fatalf("Target 1 should be lit, got %v", h.targets[1].color)
	}

	// 新的播放取消旧任务，并恢复旧任务点亮的目标
	h.module.Playback()
	if h.targets[1].color != defaultColor(1) {
		t.Errorf("Superseded flash should be restored, got %v", h.targets[1].color)
	}

	*h.log = nil
	h.runUntilAwaitingInput(t)

	// 只有新任务的完整时间线，没有旧任务的残留事件
	events := *h.log
	if len(events) != 6 {
		t.Fatalf("Expected 6 events from a single playback, got %d: %v", len(events), events)
	}
	lit := 0
	for _, e := range events {
		if e.color == flashYellow {
			lit++
		} else {
			lit--
		}
		if lit < 0 || lit > 1 {
			t.Fatalf("At most one target may be lit at a time: %v", events)
		}
	}
	h.assertDefaultColors(t)
}

func TestTryOpenRestartsPlayback(t *testing.T) {
	h := newHarness(t, 4, testConfig(), 31)
	h.runUntilAwaitingInput(t)

	if err := h.module.TryOpen(); err != nil {
		t.Fatalf("TryOpen failed: %v", err)
	}
	if h.module.Status() != components.SequencePlaying {
		t.Errorf("Status after TryOpen: got %v, want Playing", h.module.Status())
	}
	if !h.container.visible || !h.module.IsVisible() {
		t.Error("TryOpen should show the container")
	}
	if len(h.module.Sequence()) != 4 {
		t.Errorf("TryOpen should generate a full sequence, got %v", h.module.Sequence())
	}

	h.runUntilAwaitingInput(t)
	h.assertDefaultColors(t)
}

func TestTryOpenDuringPlaybackLeavesNoResidue(t *testing.T) {
	cfg := testConfig()
	cfg.InitialDelay = 0
	h := newHarness(t, 3, cfg, 37)

	h.module.Update(frame)
	if err := h.module.TryOpen(); err != nil {
		t.Fatalf("TryOpen failed: %v", err)
	}
	h.runUntilAwaitingInput(t)
	h.assertDefaultColors(t)
}

func TestCloseAndReopen(t *testing.T) {
	cfg := testConfig()
	cfg.InitialDelay = 0
	h := newHarness(t, 3, cfg, 41)
	h.module.Update(frame)

	h.module.Close()

	if h.module.Status() != components.SequenceNotStarted {
		t.Errorf("Status after Close: got %v, want NotStarted", h.module.Status())
	}
	if h.container.visible {
		t.Error("Close should hide the container")
	}
	h.assertDefaultColors(t)

	// 关闭后 Update 不再修改任何目标
	*h.log = nil
	for i := 0; i < 100; i++ {
		h.module.Update(frame)
	}
	if len(*h.log) != 0 {
		t.Errorf("Closed minigame should not flash, got %v", *h.log)
	}

	if err := h.module.TryOpen(); err != nil {
		t.Fatalf("TryOpen after Close failed: %v", err)
	}
	h.runUntilAwaitingInput(t)
}

func TestSingleTargetSingleStep(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSequenceLength = 1
	h := newHarness(t, 1, cfg, 43)

	if got := h.module.Sequence(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("Sequence: got %v, want [0]", got)
	}
	h.runUntilAwaitingInput(t)
	h.targets[0].click()

	if !h.module.IsCompleted() {
		t.Error("Single-step sequence should complete on first correct input")
	}
}

func TestNilCollaborators(t *testing.T) {
	target := &fakeTarget{color: defaultColor(0), log: &[]visualEvent{}}
	module, err := NewSequenceMinigameModule(ecs.NewEntityManager(), "bare", []Target{target}, testConfig(), SequenceMinigameDeps{})
	if err != nil {
		t.Fatalf("NewSequenceMinigameModule failed: %v", err)
	}

	for module.Status() != components.SequenceAwaitingInput {
		module.Update(frame)
	}
	target.click()

	if !module.IsCompleted() {
		t.Error("Module without container/completion handler should still complete")
	}
	if err := module.TryOpen(); !errors.Is(err, ErrMinigameCompleted) {
		t.Errorf("Expected ErrMinigameCompleted, got %v", err)
	}
}
