package config

// 布局配置常量
// 本文件定义窗口尺寸和小游戏面板的默认布局

const (
	// GameWindowWidth 游戏逻辑屏幕宽度（像素）
	GameWindowWidth = 800

	// GameWindowHeight 游戏逻辑屏幕高度（像素）
	GameWindowHeight = 600

	// MinigamePanelMargin 小游戏面板四周留白（像素）
	MinigamePanelMargin = 80.0

	// TargetHoverOutline 鼠标悬停时目标按钮描边宽度（像素）
	TargetHoverOutline = 3.0

	// StatusTextX, StatusTextY 状态文字的绘制位置
	StatusTextX = 16
	StatusTextY = 16
)

// SequenceSceneConfigPath 序列记忆小游戏场景配置文件路径
const SequenceSceneConfigPath = "data/sequence_minigame.yaml"
