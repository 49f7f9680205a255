package entities

import (
	"image/color"

	"github.com/decker502/seqgame/pkg/components"
	"github.com/decker502/seqgame/pkg/config"
	"github.com/decker502/seqgame/pkg/ecs"
)

// NewTargetButton 创建序列记忆小游戏的目标按钮实体
//
// 参数：
//   - em: 实体管理器
//   - index: 目标索引
//   - layout: 位置、尺寸和默认颜色
//
// 返回：
//   - 按钮实体ID
func NewTargetButton(em *ecs.EntityManager, index int, layout config.TargetLayout) ecs.EntityID {
	entity := em.CreateEntity()

	ecs.AddComponent(em, entity, &components.PositionComponent{
		X: layout.X,
		Y: layout.Y,
	})

	ecs.AddComponent(em, entity, &components.TargetButtonComponent{
		Index:   index,
		Width:   layout.Width,
		Height:  layout.Height,
		Color:   layout.RGBA(),
		State:   components.UINormal,
		Enabled: true,
	})

	return entity
}

// NewTargetButtons 按布局批量创建目标按钮，返回的实体顺序与布局顺序一致
func NewTargetButtons(em *ecs.EntityManager, layouts []config.TargetLayout) []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, len(layouts))
	for i, layout := range layouts {
		ids = append(ids, NewTargetButton(em, i, layout))
	}
	return ids
}

// ButtonTarget 将目标按钮实体适配为小游戏使用的 Target
// 颜色读写直接作用于实体上的 TargetButtonComponent
type ButtonTarget struct {
	em     *ecs.EntityManager
	entity ecs.EntityID
}

// NewButtonTarget 包装一个目标按钮实体
func NewButtonTarget(em *ecs.EntityManager, entity ecs.EntityID) *ButtonTarget {
	return &ButtonTarget{em: em, entity: entity}
}

// Entity 返回被包装的实体ID
func (t *ButtonTarget) Entity() ecs.EntityID {
	return t.entity
}

// VisualState 返回按钮当前颜色，实体不存在时返回透明色
func (t *ButtonTarget) VisualState() color.RGBA {
	button, ok := ecs.GetComponent[*components.TargetButtonComponent](t.em, t.entity)
	if !ok {
		return color.RGBA{}
	}
	return button.Color
}

// SetVisualState 设置按钮颜色
func (t *ButtonTarget) SetVisualState(c color.RGBA) {
	if button, ok := ecs.GetComponent[*components.TargetButtonComponent](t.em, t.entity); ok {
		button.Color = c
	}
}

// OnActivate 设置按钮点击回调
func (t *ButtonTarget) OnActivate(handler func()) {
	if button, ok := ecs.GetComponent[*components.TargetButtonComponent](t.em, t.entity); ok {
		button.OnClick = handler
	}
}
