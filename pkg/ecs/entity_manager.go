package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符，0 保留为无效ID
type EntityID uint64

// EntityManager 管理实体及其组件
// 组件以指针类型为键存放，每个实体每种组件类型最多一个实例
type EntityManager struct {
	nextID     uint64
	components map[EntityID]map[reflect.Type]any
	// 延迟删除队列，在帧末由 RemoveMarkedEntities 统一清理
	pendingDestroy []EntityID
}

// NewEntityManager 创建一个空的 EntityManager
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:     1,
		components: make(map[EntityID]map[reflect.Type]any),
	}
}

// CreateEntity 创建新实体并返回其ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]any)
	return id
}

// Exists 检查实体是否存在（已标记删除但尚未清理的实体仍视为存在）
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// DestroyEntity 标记实体待删除
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.pendingDestroy = append(em.pendingDestroy, id)
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.pendingDestroy {
		delete(em.components, id)
	}
	em.pendingDestroy = em.pendingDestroy[:0]
}

// EntityCount 返回当前存活的实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.components)
}

func (em *EntityManager) addComponent(id EntityID, component any) {
	if compMap, ok := em.components[id]; ok {
		compMap[reflect.TypeOf(component)] = component
	}
}

func (em *EntityManager) getComponent(id EntityID, t reflect.Type) (any, bool) {
	compMap, ok := em.components[id]
	if !ok {
		return nil, false
	}
	comp, ok := compMap[t]
	return comp, ok
}

func (em *EntityManager) removeComponent(id EntityID, t reflect.Type) {
	if compMap, ok := em.components[id]; ok {
		delete(compMap, t)
	}
}

// entitiesWith 查询同时拥有所有指定组件类型的实体
// 结果按ID升序排列，保证系统遍历顺序稳定
func (em *EntityManager) entitiesWith(types ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)
	for id, compMap := range em.components {
		hasAll := true
		for _, t := range types {
			if _, found := compMap[t]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// AddComponent 为实体添加组件，同类型组件会被覆盖
// 实体不存在时静默忽略
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	em.addComponent(id, component)
}

// GetComponent 获取实体的指定类型组件
//
// 示例：
//
//	button, ok := ecs.GetComponent[*components.TargetButtonComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.getComponent(id, typeOf[T]())
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	return typed, ok
}

// HasComponent 检查实体是否拥有指定类型组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	_, ok := em.getComponent(id, typeOf[T]())
	return ok
}

// RemoveComponent 移除实体的指定类型组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.removeComponent(id, typeOf[T]())
}

// GetEntitiesWith1 查询拥有组件 T1 的所有实体
func GetEntitiesWith1[T1 any](em *EntityManager) []EntityID {
	return em.entitiesWith(typeOf[T1]())
}

// GetEntitiesWith2 查询同时拥有组件 T1 和 T2 的所有实体
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	return em.entitiesWith(typeOf[T1](), typeOf[T2]())
}
