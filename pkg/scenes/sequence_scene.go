package scenes

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math/rand"

	"github.com/decker502/seqgame/pkg/components"
	"github.com/decker502/seqgame/pkg/config"
	"github.com/decker502/seqgame/pkg/ecs"
	"github.com/decker502/seqgame/pkg/entities"
	"github.com/decker502/seqgame/pkg/game"
	"github.com/decker502/seqgame/pkg/modules"
	"github.com/decker502/seqgame/pkg/systems"
	"github.com/decker502/seqgame/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	sceneBackgroundColor = color.RGBA{R: 24, G: 28, B: 36, A: 255}
	panelColor           = color.RGBA{R: 48, G: 54, B: 66, A: 255}
)

// sceneAction 场景响应的按键操作
type sceneAction int

const (
	actionNone       sceneAction = iota
	actionOpen                   // E：打开（重新开始）小游戏
	actionReplay                 // R：重播当前序列
	actionClose                  // Esc：关闭面板
	actionToggleHint             // H：切换答案显示（调试）
)

// SequenceScene 序列记忆小游戏场景
// 宿主侧的全部职责：创建目标按钮、提供面板容器、注册到小游戏管理器、
// 每帧驱动输入系统和小游戏模块
type SequenceScene struct {
	entityManager *ecs.EntityManager

	buttonSystem       *systems.TargetButtonSystem
	buttonRenderSystem *systems.TargetButtonRenderSystem

	minigame        *modules.SequenceMinigameModule
	minigameManager *game.MinigameManager
	settings        *game.SettingsManager
	container       *MinigameContainer

	sceneConfig *config.SequenceSceneConfig

	// pollAction 读取本帧的按键操作，测试时可替换
	pollAction func() sceneAction
}

// NewSequenceScene 创建序列记忆小游戏场景
//
// 参数：
//   - cfg: 场景配置（目标布局和小游戏参数）
//   - manager: 小游戏管理器，同时作为完成通知的接收者
//   - settings: 显示设置，可为 nil
//   - rng: 随机数源，可为 nil
//
// 返回：
//   - *SequenceScene: 已开始第一轮播放的场景
//   - error: 配置非法或注册失败
func NewSequenceScene(
	cfg *config.SequenceSceneConfig,
	manager *game.MinigameManager,
	settings *game.SettingsManager,
	rng *rand.Rand,
) (*SequenceScene, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: scene config is nil", config.ErrInvalidConfig)
	}
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}

	em := ecs.NewEntityManager()
	scene := &SequenceScene{
		entityManager:      em,
		buttonSystem:       systems.NewTargetButtonSystem(em),
		buttonRenderSystem: systems.NewTargetButtonRenderSystem(em),
		minigameManager:    manager,
		settings:           settings,
		container:          NewMinigameContainer(),
		sceneConfig:        cfg,
		pollAction:         pollKeyboardAction,
	}

	buttonIDs := entities.NewTargetButtons(em, cfg.Targets)
	targets := make([]modules.Target, 0, len(buttonIDs))
	for _, id := range buttonIDs {
		targets = append(targets, entities.NewButtonTarget(em, id))
	}

	minigame, err := modules.NewSequenceMinigameModule(em, cfg.ID, targets, cfg.Minigame, modules.SequenceMinigameDeps{
		Container:  scene.container,
		Completion: manager,
		Rand:       rng,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sequence minigame: %w", err)
	}
	scene.minigame = minigame

	if err := manager.Register(cfg.ID, minigame); err != nil {
		return nil, err
	}

	log.Printf("[SequenceScene] Created with %d targets", len(targets))
	return scene, nil
}

// pollKeyboardAction 读取本帧按下的按键
func pollKeyboardAction() sceneAction {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		return actionOpen
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		return actionReplay
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return actionClose
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		return actionToggleHint
	default:
		return actionNone
	}
}

// Update 更新场景
func (s *SequenceScene) Update(deltaTime float64) {
	s.handleAction(s.pollAction())

	if s.container.IsVisible() {
		s.buttonSystem.Update(deltaTime)
	}
	s.minigame.Update(deltaTime)

	s.entityManager.RemoveMarkedEntities()
}

// handleAction 处理按键操作
func (s *SequenceScene) handleAction(action sceneAction) {
	switch action {
	case actionOpen:
		err := s.minigameManager.TryOpen(s.sceneConfig.ID)
		if errors.Is(err, modules.ErrMinigameCompleted) {
			return
		}
		if err != nil {
			log.Printf("[SequenceScene] Failed to open minigame: %v", err)
			return
		}
		s.container.ReleaseCursor()

	case actionReplay:
		if s.minigame.Status() == components.SequenceAwaitingInput {
			s.minigame.Playback()
		}

	case actionClose:
		s.minigame.Close()

	case actionToggleHint:
		settings := s.settings.GetSettings()
		s.settings.SetShowSequence(!settings.ShowSequence)
		if err := s.settings.Save(); err != nil {
			log.Printf("[SequenceScene] Failed to save settings: %v", err)
		}
	}
}

// Draw 绘制场景
func (s *SequenceScene) Draw(screen *ebiten.Image) {
	screen.Fill(sceneBackgroundColor)

	if s.container.IsVisible() {
		margin := float32(config.MinigamePanelMargin)
		vector.DrawFilledRect(screen, margin, margin,
			config.GameWindowWidth-2*margin, config.GameWindowHeight-2*margin,
			panelColor, false)
		s.buttonRenderSystem.Draw(screen)
	}

	if !s.settings.GetSettings().ShowStatus {
		return
	}
	for i, line := range s.statusLines() {
		ebitenutil.DebugPrintAt(screen, line, config.StatusTextX, config.StatusTextY+i*16)
	}
}

// statusLines 返回状态文字
func (s *SequenceScene) statusLines() []string {
	status := s.minigame.Status()
	lines := []string{fmt.Sprintf("Minigame: %s  Status: %s", s.minigame.ID(), status)}

	switch status {
	case components.SequencePlaying:
		lines = append(lines, "Watch the sequence...")
	case components.SequenceAwaitingInput:
		lines = append(lines, fmt.Sprintf("Repeat it: %d/%d  (R to replay)", s.minigame.Progress(), len(s.minigame.Sequence())))
	case components.SequenceNotStarted:
		lines = append(lines, "Press E to open")
	case components.SequenceCompleted:
		lines = append(lines, fmt.Sprintf("Completed! (%d/%d minigames)",
			s.minigameManager.CompletedCount(), len(s.minigameManager.IDs())))
	}

	if s.settings.GetSettings().ShowSequence && status != components.SequenceCompleted {
		lines = append(lines, fmt.Sprintf("Sequence: %v", s.minigame.Sequence()))
	}
	return lines
}

// Minigame 返回场景中的小游戏模块
func (s *SequenceScene) Minigame() *modules.SequenceMinigameModule {
	return s.minigame
}

// SetPointerSource 替换目标按钮的指针来源
func (s *SequenceScene) SetPointerSource(read func() utils.PointerState) {
	s.buttonSystem.SetPointerSource(read)
}

// Container 返回小游戏面板容器
func (s *SequenceScene) Container() *MinigameContainer {
	return s.container
}
