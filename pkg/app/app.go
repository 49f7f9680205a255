// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/seqgame/pkg/config"
	"github.com/decker502/seqgame/pkg/game"
	"github.com/decker502/seqgame/pkg/scenes"
	"github.com/decker502/seqgame/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "seqgame"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Seed 序列随机种子，0 表示使用当前时间
	Seed int64
	// SceneConfigPath 场景配置路径，为空时使用 config.SequenceSceneConfigPath
	SceneConfigPath string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	minigameManager *game.MinigameManager
	verbose         bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	settingsManager := game.NewSettingsManager(openStorage())
	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	path := cfg.SceneConfigPath
	if path == "" {
		path = config.SequenceSceneConfigPath
	}
	sceneConfig, err := config.LoadSequenceSceneConfig(path)
	if err != nil {
		return nil, fmt.Errorf("场景配置加载失败: %w", err)
	}
	log.Printf("[Config] 加载场景配置: %s (%d 个目标)", path, len(sceneConfig.Targets))

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Printf("[App] Sequence seed: %d", seed)

	minigameManager := game.NewMinigameManager()
	minigameManager.SetOnCompleted(func(id string) {
		log.Printf("[App] Minigame %s completed (%d/%d)",
			id, minigameManager.CompletedCount(), len(minigameManager.IDs()))
	})

	// 创建场景管理器
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(sceneID string) (game.Scene, error) {
		if sceneID != scenes.SequenceSceneID {
			return nil, fmt.Errorf("unknown scene: %s", sceneID)
		}
		scene, err := scenes.NewSequenceScene(sceneConfig, minigameManager, settingsManager, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil, err
		}
		return scene, nil
	})

	if err := sceneManager.LoadScene(scenes.SequenceSceneID); err != nil {
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		minigameManager: minigameManager,
		verbose:         cfg.Verbose,
	}, nil
}

// openStorage 打开 gdata 存储
// 失败时返回 nil，设置只保存在内存中
func openStorage() *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: storage directory unavailable: %v", err)
	}

	manager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
		return nil
	}
	return manager
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	}

	a.settingsManager.SetFullscreen(fullscreen)
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Failed to save settings: %v", err)
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// GetMinigameManager 返回小游戏管理器
func (a *App) GetMinigameManager() *game.MinigameManager {
	return a.minigameManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
