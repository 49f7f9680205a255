package systems

import (
	"github.com/decker502/seqgame/pkg/components"
	"github.com/decker502/seqgame/pkg/ecs"
	"github.com/decker502/seqgame/pkg/utils"
)

// TargetButtonSystem 目标按钮交互系统
// 负责处理目标按钮的悬停、按下和点击
//
// 职责：
//   - 检测指针悬停（更新按钮状态为 UIHovered）
//   - 检测指针释放（触发 OnClick 回调）
//   - 根据 Enabled 状态决定是否响应交互
type TargetButtonSystem struct {
	entityManager *ecs.EntityManager
	readPointer   func() utils.PointerState
}

// NewTargetButtonSystem 创建目标按钮交互系统
func NewTargetButtonSystem(em *ecs.EntityManager) *TargetButtonSystem {
	return &TargetButtonSystem{
		entityManager: em,
		readPointer:   utils.GetPointerState,
	}
}

// Update 读取指针状态并更新所有目标按钮
func (s *TargetButtonSystem) Update(deltaTime float64) {
	s.HandlePointer(s.readPointer())
}

// HandlePointer 根据给定的指针状态更新按钮状态并触发回调
// 每次释放最多触发一个按钮
func (s *TargetButtonSystem) HandlePointer(pointer utils.PointerState) {
	entities := ecs.GetEntitiesWith2[*components.TargetButtonComponent, *components.PositionComponent](s.entityManager)
	clicked := false

	for _, entityID := range entities {
		button, _ := ecs.GetComponent[*components.TargetButtonComponent](s.entityManager, entityID)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, entityID)

		if !button.Enabled {
			button.State = components.UIDisabled
			continue
		}

		if !utils.PointInRect(float64(pointer.X), float64(pointer.Y), pos.X, pos.Y, button.Width, button.Height) {
			button.State = components.UINormal
			continue
		}

		switch {
		case pointer.Pressed:
			button.State = components.UIClicked
		case pointer.JustReleased && !clicked:
			// 释放瞬间触发回调
			clicked = true
			button.State = components.UIHovered
			if button.OnClick != nil {
				button.OnClick()
			}
		default:
			button.State = components.UIHovered
		}
	}
}

// SetEnabled 启用或禁用所有目标按钮
func (s *TargetButtonSystem) SetEnabled(enabled bool) {
	for _, entityID := range ecs.GetEntitiesWith1[*components.TargetButtonComponent](s.entityManager) {
		button, _ := ecs.GetComponent[*components.TargetButtonComponent](s.entityManager, entityID)
		button.Enabled = enabled
		if enabled {
			button.State = components.UINormal
		} else {
			button.State = components.UIDisabled
		}
	}
}

// SetPointerSource 替换指针状态来源（用于无窗口运行和测试）
func (s *TargetButtonSystem) SetPointerSource(read func() utils.PointerState) {
	if read == nil {
		read = utils.GetPointerState
	}
	s.readPointer = read
}
