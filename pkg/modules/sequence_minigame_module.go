package modules

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/seqgame/pkg/components"
	"github.com/decker502/seqgame/pkg/config"
	"github.com/decker502/seqgame/pkg/ecs"
)

// ErrMinigameCompleted 小游戏已完成，不能再次打开
var ErrMinigameCompleted = errors.New("minigame already completed")

// Target 宿主 UI 层提供的可点击目标
// 小游戏只持有引用，不拥有目标
type Target interface {
	// VisualState 返回目标当前颜色
	VisualState() color.RGBA
	// SetVisualState 设置目标颜色
	SetVisualState(c color.RGBA)
	// OnActivate 订阅目标的点击事件
	OnActivate(handler func())
}

// Container 宿主提供的小游戏面板与输入焦点控制
type Container interface {
	SetVisible(visible bool)
	SetCursorVisible(visible bool)
	SetCursorLocked(locked bool)
}

// CompletionHandler 小游戏完成时的回调接收者
// 每个小游戏实例只会调用一次
type CompletionHandler interface {
	OnMinigameCompleted(id string)
}

// SequenceMinigameDeps 小游戏的外部依赖
type SequenceMinigameDeps struct {
	Container  Container         // 可为 nil（无面板控制）
	Completion CompletionHandler // 可为 nil（不上报完成）
	Rand       *rand.Rand        // 可为 nil，默认使用当前时间作为种子
}

// SequenceMinigameModule 序列记忆小游戏模块
// 负责 生成序列 → 播放 → 收集输入 → 校验 →（重播 | 完成）的完整流程。
//
// 状态机：
//
//	NotStarted → Playing ⇄ AwaitingInput → Completed（终态）
//
// 所有方法都在游戏主循环所在的 goroutine 中调用，播放通过 Update 逐帧推进。
// 同一时刻最多只有一个播放任务，开始新的播放会取消旧任务。
type SequenceMinigameModule struct {
	entityManager *ecs.EntityManager
	stateEntity   ecs.EntityID

	cfg           config.SequenceMinigameConfig
	targets       []Target
	defaultColors []color.RGBA

	container  Container
	completion CompletionHandler
	rng        *rand.Rand

	// 播放任务及其有效令牌
	playback    *playbackTask
	activeToken uint64
}

// NewSequenceMinigameModule 创建并启动序列记忆小游戏
//
// 参数：
//   - em: EntityManager 实例，小游戏状态保存在其中的一个实体上
//   - id: 小游戏ID，完成时上报
//   - targets: 有序目标列表，下标即目标索引
//   - cfg: 小游戏参数
//   - deps: 外部依赖
//
// 返回：
//   - *SequenceMinigameModule: 已生成第一轮序列并开始播放的模块
//   - error: 目标列表为空或参数非法时返回包装了 config.ErrInvalidConfig 的错误
//
// 注意：
//   - 会缓存每个目标的当前颜色作为默认颜色
//   - 会订阅每个目标的点击事件
func NewSequenceMinigameModule(
	em *ecs.EntityManager,
	id string,
	targets []Target,
	cfg config.SequenceMinigameConfig,
	deps SequenceMinigameDeps,
) (*SequenceMinigameModule, error) {
	if len(targets) == 0 {
		log.Printf("[SequenceMinigame] %s: refusing to start without targets", id)
		return nil, fmt.Errorf("%w: minigame %s has no targets", config.ErrInvalidConfig, id)
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("[SequenceMinigame] %s: refusing to start: %v", id, err)
		return nil, fmt.Errorf("minigame %s: %w", id, err)
	}

	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m := &SequenceMinigameModule{
		entityManager: em,
		cfg:           cfg,
		targets:       targets,
		defaultColors: make([]color.RGBA, len(targets)),
		container:     deps.Container,
		completion:    deps.Completion,
		rng:           rng,
	}

	m.stateEntity = em.CreateEntity()
	ecs.AddComponent(em, m.stateEntity, &components.SequenceMinigameComponent{
		ID:            id,
		Status:        components.SequenceNotStarted,
		PlaybackIndex: -1,
		Visible:       true,
	})

	for i, target := range targets {
		m.defaultColors[i] = target.VisualState()
		target.OnActivate(m.selectHandler(i))
	}

	m.GenerateSequence()
	m.Playback()

	log.Printf("[SequenceMinigame] %s: initialized with %d targets, sequence length %d",
		id, len(targets), len(m.state().Sequence))
	return m, nil
}

// selectHandler 返回绑定了目标索引的点击回调
func (m *SequenceMinigameModule) selectHandler(index int) func() {
	return func() {
		m.OnTargetSelected(index)
	}
}

func (m *SequenceMinigameModule) state() *components.SequenceMinigameComponent {
	st, ok := ecs.GetComponent[*components.SequenceMinigameComponent](m.entityManager, m.stateEntity)
	if !ok {
		// 状态实体被外部删除时重建
		st = &components.SequenceMinigameComponent{Status: components.SequenceNotStarted, PlaybackIndex: -1}
		m.stateEntity = m.entityManager.CreateEntity()
		ecs.AddComponent(m.entityManager, m.stateEntity, st)
	}
	return st
}

// GenerateSequence 生成新的目标序列
// 从 [0, N) 中无放回地随机抽取 min(N, maxSequenceLength) 个索引，覆盖旧序列。
// 不修改游戏状态。
//
// 返回：
//   - []int: 新序列的副本
func (m *SequenceMinigameModule) GenerateSequence() []int {
	length := m.cfg.SequenceLength(len(m.targets))
	sequence := m.rng.Perm(len(m.targets))[:length]

	m.state().Sequence = sequence
	return m.Sequence()
}

// Playback 开始播放当前序列
// 取消正在进行的播放任务后从头开始；已完成时不做任何事。
// 播放在后续的 Update 调用中逐帧推进，结束后进入 AwaitingInput 状态。
func (m *SequenceMinigameModule) Playback() {
	st := m.state()
	if st.Status == components.SequenceCompleted {
		return
	}

	m.cancelPlayback()
	m.playback = newPlaybackTask(m.activeToken, st.Sequence,
		m.cfg.InitialDelay, m.cfg.FlashDuration, m.cfg.DelayBetweenFlashes)

	st.Status = components.SequencePlaying
	st.PlaybackIndex = -1
}

// cancelPlayback 取消当前播放任务
// 使旧令牌失效，并恢复旧任务留下的闪烁目标
func (m *SequenceMinigameModule) cancelPlayback() {
	m.activeToken++
	if m.playback == nil {
		return
	}

	if lit := m.playback.litTarget(); lit >= 0 {
		m.targets[lit].SetVisualState(m.defaultColors[lit])
	}
	m.playback = nil
	m.state().PlaybackIndex = -1
}

// Update 推进播放任务
// 每帧调用一次，deltaTime 为距上一帧经过的时间（秒）
func (m *SequenceMinigameModule) Update(deltaTime float64) {
	task := m.playback
	if task == nil {
		return
	}

	st := m.state()
	done := task.advance(deltaTime, func(cue playbackCue) bool {
		// 每个恢复点都检查令牌，被取代或已完成的任务不能再修改目标
		if task.token != m.activeToken || st.Status == components.SequenceCompleted {
			return false
		}
		switch cue.kind {
		case cueFlash:
			m.targets[cue.target].SetVisualState(m.cfg.FlashRGBA())
			st.PlaybackIndex = cue.position
		case cueRestore:
			m.targets[cue.target].SetVisualState(m.defaultColors[cue.target])
		}
		return true
	})

	if !done || task.token != m.activeToken {
		return
	}

	m.playback = nil
	st.Status = components.SequenceAwaitingInput
	st.Progress = 0
	st.PlaybackIndex = -1
}

// OnTargetSelected 处理玩家点击目标
// 只在 AwaitingInput 状态下生效；越界索引被忽略。
// 点击正确时推进进度，完成整个序列后进入 Completed；
// 点击错误时进度清零并重播同一序列。
func (m *SequenceMinigameModule) OnTargetSelected(index int) {
	if index < 0 || index >= len(m.targets) {
		log.Printf("[SequenceMinigame] Ignoring selection of unknown target %d", index)
		return
	}

	st := m.state()
	if st.Status != components.SequenceAwaitingInput {
		return
	}

	if index != st.Sequence[st.Progress] {
		log.Printf("[SequenceMinigame] %s: wrong sequence (step %d: got %d, want %d)",
			st.ID, st.Progress+1, index, st.Sequence[st.Progress])
		st.Progress = 0
		m.Playback()
		return
	}

	st.Progress++
	if st.Progress >= len(st.Sequence) {
		m.complete()
	}
}

// complete 进入终态：上报完成、关闭面板、归还输入焦点
func (m *SequenceMinigameModule) complete() {
	st := m.state()
	log.Printf("[SequenceMinigame] %s: correct sequence completed!", st.ID)

	m.cancelPlayback()
	st.Status = components.SequenceCompleted

	if m.completion != nil {
		m.completion.OnMinigameCompleted(st.ID)
	}

	st.Visible = false
	if m.container != nil {
		m.container.SetVisible(false)
		m.container.SetCursorVisible(false)
		m.container.SetCursorLocked(true)
	}
}

// TryOpen 打开（或重新打开）小游戏面板，生成新序列并开始播放
//
// 返回：
//   - error: 已完成时返回 ErrMinigameCompleted，状态不变
func (m *SequenceMinigameModule) TryOpen() error {
	st := m.state()
	if st.Status == components.SequenceCompleted {
		log.Printf("[SequenceMinigame] %s: mini-game has already been completed and cannot be reopened", st.ID)
		return ErrMinigameCompleted
	}

	st.Visible = true
	if m.container != nil {
		m.container.SetVisible(true)
	}

	m.GenerateSequence()
	m.Playback()
	return nil
}

// Close 隐藏面板并中止当前回合
// 未完成时回到 NotStarted，之后可以通过 TryOpen 重新开始
func (m *SequenceMinigameModule) Close() {
	st := m.state()
	if st.Status == components.SequenceCompleted {
		return
	}

	m.cancelPlayback()
	st.Status = components.SequenceNotStarted
	st.Progress = 0
	st.Visible = false
	if m.container != nil {
		m.container.SetVisible(false)
	}
}

// ID 返回小游戏ID
func (m *SequenceMinigameModule) ID() string {
	return m.state().ID
}

// Status 返回当前状态
func (m *SequenceMinigameModule) Status() components.SequenceGameStatus {
	return m.state().Status
}

// IsCompleted 检查小游戏是否已完成
func (m *SequenceMinigameModule) IsCompleted() bool {
	return m.state().Status == components.SequenceCompleted
}

// IsVisible 检查面板是否显示
func (m *SequenceMinigameModule) IsVisible() bool {
	return m.state().Visible
}

// Sequence 返回当前序列的副本
func (m *SequenceMinigameModule) Sequence() []int {
	return append([]int(nil), m.state().Sequence...)
}

// Progress 返回已正确复现的步数
func (m *SequenceMinigameModule) Progress() int {
	return m.state().Progress
}

// TargetCount 返回目标数量
func (m *SequenceMinigameModule) TargetCount() int {
	return len(m.targets)
}

// StateEntity 返回保存小游戏状态的实体ID（供渲染系统查询）
func (m *SequenceMinigameModule) StateEntity() ecs.EntityID {
	return m.stateEntity
}
