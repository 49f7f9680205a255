package systems

import (
	"image/color"

	"github.com/decker502/seqgame/pkg/components"
	"github.com/decker502/seqgame/pkg/config"
	"github.com/decker502/seqgame/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	targetHoverColor   = color.RGBA{R: 255, G: 255, B: 255, A: 220}
	targetPressedColor = color.RGBA{R: 40, G: 40, B: 40, A: 255}
)

// TargetButtonRenderSystem 目标按钮渲染系统
// 按钮绘制为纯色矩形，颜色取自 TargetButtonComponent.Color，
// 悬停和按下时加描边
type TargetButtonRenderSystem struct {
	entityManager *ecs.EntityManager
}

// NewTargetButtonRenderSystem 创建目标按钮渲染系统
func NewTargetButtonRenderSystem(em *ecs.EntityManager) *TargetButtonRenderSystem {
	return &TargetButtonRenderSystem{
		entityManager: em,
	}
}

// Draw 渲染所有目标按钮
func (s *TargetButtonRenderSystem) Draw(screen *ebiten.Image) {
	entities := ecs.GetEntitiesWith2[*components.TargetButtonComponent, *components.PositionComponent](s.entityManager)

	for _, entityID := range entities {
		button, _ := ecs.GetComponent[*components.TargetButtonComponent](s.entityManager, entityID)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, entityID)

		x, y := float32(pos.X), float32(pos.Y)
		w, h := float32(button.Width), float32(button.Height)
		vector.DrawFilledRect(screen, x, y, w, h, button.Color, true)

		if outline, ok := outlineColor(button.State); ok {
			vector.StrokeRect(screen, x, y, w, h, config.TargetHoverOutline, outline, true)
		}
	}
}

// outlineColor 返回按钮状态对应的描边颜色，正常状态不描边
func outlineColor(state components.UIState) (color.RGBA, bool) {
	switch state {
	case components.UIHovered:
		return targetHoverColor, true
	case components.UIClicked:
		return targetPressedColor, true
	default:
		return color.RGBA{}, false
	}
}
