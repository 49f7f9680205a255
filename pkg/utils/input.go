// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerState 当前帧的指针状态
// 同时支持鼠标和触摸，触摸优先
type PointerState struct {
	// X, Y 指针位置（屏幕坐标）
	X, Y int
	// Pressed 指针是否处于按下状态
	Pressed bool
	// JustReleased 指针是否在本帧释放
	JustReleased bool
}

// 最后一次触摸位置（触摸释放后 ebiten 不再提供位置）
var lastTouchX, lastTouchY int

// GetPointerState 读取当前帧的指针状态
// 每帧只应调用一次，它会更新最后触摸位置
func GetPointerState() PointerState {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		lastTouchX, lastTouchY = ebiten.TouchPosition(touchIDs[0])
		return PointerState{X: lastTouchX, Y: lastTouchY, Pressed: true}
	}

	if len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0 {
		return PointerState{X: lastTouchX, Y: lastTouchY, JustReleased: true}
	}

	x, y := ebiten.CursorPosition()
	return PointerState{
		X:            x,
		Y:            y,
		Pressed:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		JustReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
}

// PointInRect 检测点是否在矩形范围内（包含边界）
func PointInRect(px, py, x, y, width, height float64) bool {
	return px >= x && px <= x+width && py >= y && py <= y+height
}
