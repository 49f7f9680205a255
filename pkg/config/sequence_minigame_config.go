package config

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/decker502/seqgame/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 配置错误（目标列表为空、时间参数非法等）
// 小游戏在初始化时遇到此错误会拒绝启动
var ErrInvalidConfig = errors.New("invalid minigame configuration")

// SequenceMinigameConfig 序列记忆小游戏的参数
// 实例生命周期内保持不变
type SequenceMinigameConfig struct {
	FlashColor          [4]uint8 `yaml:"flashColor"`          // 闪烁颜色 [R, G, B, A]
	FlashDuration       float64  `yaml:"flashDuration"`       // 每个目标闪烁持续时间（秒）
	DelayBetweenFlashes float64  `yaml:"delayBetweenFlashes"` // 两次闪烁之间的间隔（秒）
	InitialDelay        float64  `yaml:"initialDelay"`        // 播放开始前的延迟（秒）
	MaxSequenceLength   int      `yaml:"maxSequenceLength"`   // 序列最大长度，实际长度不超过目标数量
}

// DefaultSequenceMinigameConfig 返回默认参数：黄色闪烁，各时间 0.5 秒，序列最长 5
func DefaultSequenceMinigameConfig() SequenceMinigameConfig {
	return SequenceMinigameConfig{
		FlashColor:          [4]uint8{255, 235, 4, 255},
		FlashDuration:       0.5,
		DelayBetweenFlashes: 0.5,
		InitialDelay:        0.5,
		MaxSequenceLength:   5,
	}
}

// FlashRGBA 返回闪烁颜色
func (c SequenceMinigameConfig) FlashRGBA() color.RGBA {
	return color.RGBA{R: c.FlashColor[0], G: c.FlashColor[1], B: c.FlashColor[2], A: c.FlashColor[3]}
}

// SequenceLength 返回给定目标数量下的实际序列长度
func (c SequenceMinigameConfig) SequenceLength(targetCount int) int {
	return min(targetCount, c.MaxSequenceLength)
}

// Validate 检查参数合法性
// flashDuration 必须大于 0，两个延迟允许为 0，maxSequenceLength 至少为 1
func (c SequenceMinigameConfig) Validate() error {
	if c.FlashDuration <= 0 {
		return fmt.Errorf("%w: flashDuration must be positive, got %v", ErrInvalidConfig, c.FlashDuration)
	}
	if c.DelayBetweenFlashes < 0 {
		return fmt.Errorf("%w: delayBetweenFlashes cannot be negative, got %v", ErrInvalidConfig, c.DelayBetweenFlashes)
	}
	if c.InitialDelay < 0 {
		return fmt.Errorf("%w: initialDelay cannot be negative, got %v", ErrInvalidConfig, c.InitialDelay)
	}
	if c.MaxSequenceLength < 1 {
		return fmt.Errorf("%w: maxSequenceLength must be at least 1, got %d", ErrInvalidConfig, c.MaxSequenceLength)
	}
	return nil
}

// TargetLayout 单个目标按钮的布局
type TargetLayout struct {
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	Width  float64  `yaml:"width"`
	Height float64  `yaml:"height"`
	Color  [4]uint8 `yaml:"color"` // 默认颜色 [R, G, B, A]
}

// RGBA 返回目标默认颜色
func (l TargetLayout) RGBA() color.RGBA {
	return color.RGBA{R: l.Color[0], G: l.Color[1], B: l.Color[2], A: l.Color[3]}
}

// SequenceSceneConfig 小游戏场景配置文件结构
type SequenceSceneConfig struct {
	ID       string                 `yaml:"id"`       // 小游戏ID，用于注册到小游戏管理器
	Minigame SequenceMinigameConfig `yaml:"minigame"` // 小游戏参数
	Targets  []TargetLayout         `yaml:"targets"`  // 目标按钮布局，下标即目标索引
}

// LoadSequenceSceneConfig 从嵌入资源加载小游戏场景配置
// 参数：
//
//	filepath - 配置文件路径（以 data/ 开头）
//
// 返回：
//
//	*SequenceSceneConfig - 解析并校验后的配置
//	error - 读取、解析或校验失败
func LoadSequenceSceneConfig(filepath string) (*SequenceSceneConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence minigame config %s: %w", filepath, err)
	}

	cfg, err := ParseSequenceSceneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid sequence minigame config %s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseSequenceSceneConfig 解析 YAML 数据
// 文件中缺省的小游戏参数使用默认值
func ParseSequenceSceneConfig(data []byte) (*SequenceSceneConfig, error) {
	cfg := SequenceSceneConfig{
		ID:       "sequence",
		Minigame: DefaultSequenceMinigameConfig(),
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSequenceSceneConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateSequenceSceneConfig 校验场景配置的完整性
func validateSequenceSceneConfig(cfg *SequenceSceneConfig) error {
	if cfg.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidConfig)
	}
	if len(cfg.Targets) == 0 {
		return fmt.Errorf("%w: at least one target is required", ErrInvalidConfig)
	}
	for i, target := range cfg.Targets {
		if target.Width <= 0 || target.Height <= 0 {
			return fmt.Errorf("%w: target %d: size must be positive, got %vx%v", ErrInvalidConfig, i, target.Width, target.Height)
		}
	}
	return cfg.Minigame.Validate()
}
