package components

import "image/color"

// TargetButtonComponent 序列记忆小游戏中的可点击目标
//
// 设计原则：
//   - 纯数据组件，不包含任何方法
//   - Color 是当前显示颜色，由小游戏在播放期间独占写入
//   - OnClick 由小游戏订阅，回调中已绑定目标索引
type TargetButtonComponent struct {
	// Index 目标索引，范围 [0, N)
	Index int

	// Width, Height 按钮尺寸（像素）
	Width  float64
	Height float64

	// Color 当前显示颜色
	Color color.RGBA

	// State 当前交互状态（Normal/Hover/Clicked/Disabled）
	State UIState
	// Enabled 是否响应点击
	Enabled bool

	// OnClick 点击回调函数
	OnClick func()
}
