// verify_sequence 无窗口运行序列记忆小游戏
//
// 使用真实的目标按钮实体、按钮交互系统和小游戏模块，
// 按固定帧长推进，打印播放时间线和每次点击的结果。
//
// 用法：
//
//	go run ./cmd/verify_sequence --seed 42 --mistakes 1
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"os"

	"github.com/decker502/seqgame/pkg/components"
	"github.com/decker502/seqgame/pkg/config"
	"github.com/decker502/seqgame/pkg/ecs"
	"github.com/decker502/seqgame/pkg/entities"
	"github.com/decker502/seqgame/pkg/game"
	"github.com/decker502/seqgame/pkg/modules"
	"github.com/decker502/seqgame/pkg/systems"
	"github.com/decker502/seqgame/pkg/utils"
)

var (
	configPath = flag.String("config", config.SequenceSceneConfigPath, "场景配置文件路径")
	seed       = flag.Int64("seed", 1, "序列随机种子")
	mistakes   = flag.Int("mistakes", 0, "完成前故意点错的次数")
	tps        = flag.Int("tps", 60, "每秒帧数")
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
)

// simulation 模拟运行状态
type simulation struct {
	em       *ecs.EntityManager
	buttons  *systems.TargetButtonSystem
	minigame *modules.SequenceMinigameModule
	manager  *game.MinigameManager
	layouts  []config.TargetLayout

	now     float64
	dt      float64
	pointer utils.PointerState
}

// tracedTarget 打印颜色变化的目标
type tracedTarget struct {
	*entities.ButtonTarget
	index int
	sim   *simulation
	flash color.RGBA
}

func (t *tracedTarget) SetVisualState(c color.RGBA) {
	if c == t.flash {
		fmt.Printf("  t=%6.3fs  target %d ON\n", t.sim.now, t.index)
	} else {
		fmt.Printf("  t=%6.3fs  target %d off\n", t.sim.now, t.index)
	}
	t.ButtonTarget.SetVisualState(c)
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	data, err := os.ReadFile(*configPath)
	if err != nil {
		fmt.Printf("❌ 读取配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.ParseSequenceSceneConfig(data)
	if err != nil {
		fmt.Printf("❌ 配置校验失败: %v\n", err)
		os.Exit(1)
	}

	sim, err := newSimulation(cfg)
	if err != nil {
		fmt.Printf("❌ 创建小游戏失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Minigame %s: %d targets, sequence %v\n", cfg.ID, len(cfg.Targets), sim.minigame.Sequence())

	for attempt := 0; ; attempt++ {
		fmt.Printf("Playback #%d\n", attempt+1)
		if !sim.runUntil(components.SequenceAwaitingInput, 600) {
			fmt.Printf("❌ playback did not finish (status %s)\n", sim.minigame.Status())
			os.Exit(1)
		}

		sequence := sim.minigame.Sequence()
		if attempt < *mistakes {
			wrong := (sequence[0] + 1) % len(cfg.Targets)
			fmt.Printf("  click %d (wrong, expected %d)\n", wrong, sequence[0])
			sim.click(wrong)
			continue
		}

		for _, index := range sequence {
			fmt.Printf("  click %d\n", index)
			sim.click(index)
		}
		break
	}

	if !sim.manager.IsCompleted(cfg.ID) {
		fmt.Printf("❌ minigame not completed (status %s)\n", sim.minigame.Status())
		os.Exit(1)
	}
	fmt.Printf("✅ completed at t=%.3fs\n", sim.now)

	err = sim.manager.TryOpen(cfg.ID)
	if !errors.Is(err, modules.ErrMinigameCompleted) {
		fmt.Printf("❌ reopening a completed minigame returned %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ reopen rejected: %v\n", err)
}

func newSimulation(cfg *config.SequenceSceneConfig) (*simulation, error) {
	em := ecs.NewEntityManager()
	sim := &simulation{
		em:      em,
		buttons: systems.NewTargetButtonSystem(em),
		manager: game.NewMinigameManager(),
		layouts: cfg.Targets,
		dt:      1.0 / float64(*tps),
	}
	sim.buttons.SetPointerSource(func() utils.PointerState {
		pointer := sim.pointer
		sim.pointer = utils.PointerState{}
		return pointer
	})

	targets := make([]modules.Target, 0, len(cfg.Targets))
	for i, id := range entities.NewTargetButtons(em, cfg.Targets) {
		targets = append(targets, &tracedTarget{
			ButtonTarget: entities.NewButtonTarget(em, id),
			index:        i,
			sim:          sim,
			flash:        cfg.Minigame.FlashRGBA(),
		})
	}

	minigame, err := modules.NewSequenceMinigameModule(em, cfg.ID, targets, cfg.Minigame, modules.SequenceMinigameDeps{
		Completion: sim.manager,
		Rand:       rand.New(rand.NewSource(*seed)),
	})
	if err != nil {
		return nil, err
	}
	if err := sim.manager.Register(cfg.ID, minigame); err != nil {
		return nil, err
	}
	sim.minigame = minigame
	return sim, nil
}

// step 推进一帧
func (s *simulation) step() {
	s.buttons.Update(s.dt)
	s.minigame.Update(s.dt)
	s.em.RemoveMarkedEntities()
	s.now += s.dt
}

// runUntil 推进到指定状态，最多 maxFrames 帧
func (s *simulation) runUntil(status components.SequenceGameStatus, maxFrames int) bool {
	for i := 0; i < maxFrames; i++ {
		if s.minigame.Status() == status {
			return true
		}
		s.step()
	}
	return s.minigame.Status() == status
}

// click 在目标中心释放指针
func (s *simulation) click(index int) {
	layout := s.layouts[index]
	s.pointer = utils.PointerState{
		X:            int(layout.X + layout.Width/2),
		Y:            int(layout.Y + layout.Height/2),
		JustReleased: true,
	}
	s.step()
}
