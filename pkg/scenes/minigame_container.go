package scenes

import (
	"log"

	"github.com/decker502/seqgame/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// MinigameContainer 小游戏面板容器
// 记录面板可见性，并把光标可见/锁定状态映射为 ebiten 的光标模式
type MinigameContainer struct {
	visible       bool
	cursorVisible bool
	cursorLocked  bool

	// applyCursorMode 设置光标模式，默认 ebiten.SetCursorMode
	applyCursorMode func(mode ebiten.CursorModeType)
}

// NewMinigameContainer 创建可见的面板容器，光标处于可见且未锁定状态
// 移动端没有光标，只记录状态
func NewMinigameContainer() *MinigameContainer {
	c := &MinigameContainer{
		visible:       true,
		cursorVisible: true,
	}
	if !utils.IsMobile() {
		c.applyCursorMode = ebiten.SetCursorMode
	}
	return c
}

// SetVisible 显示或隐藏面板
func (c *MinigameContainer) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible 面板是否显示
func (c *MinigameContainer) IsVisible() bool {
	return c.visible
}

// SetCursorVisible 设置光标是否可见
func (c *MinigameContainer) SetCursorVisible(visible bool) {
	c.cursorVisible = visible
	c.apply()
}

// SetCursorLocked 设置光标是否锁定（捕获）
func (c *MinigameContainer) SetCursorLocked(locked bool) {
	c.cursorLocked = locked
	c.apply()
}

// CursorMode 返回当前状态对应的光标模式
// 锁定优先于隐藏：ebiten 的捕获模式本身就隐藏光标
func (c *MinigameContainer) CursorMode() ebiten.CursorModeType {
	switch {
	case c.cursorLocked:
		return ebiten.CursorModeCaptured
	case !c.cursorVisible:
		return ebiten.CursorModeHidden
	default:
		return ebiten.CursorModeVisible
	}
}

// ReleaseCursor 恢复可见且未锁定的光标
func (c *MinigameContainer) ReleaseCursor() {
	c.cursorVisible = true
	c.cursorLocked = false
	c.apply()
}

func (c *MinigameContainer) apply() {
	mode := c.CursorMode()
	log.Printf("[MinigameContainer] Cursor mode -> %d", mode)
	if c.applyCursorMode != nil {
		c.applyCursorMode(mode)
	}
}
