package ecs

import "testing"

// 测试组件类型定义
type testPositionComponent struct {
	X, Y float64
}

type testColorComponent struct {
	R, G, B uint8
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// ID从1开始，0保留为无效ID
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}

	if !em.Exists(id1) || !em.Exists(id2) {
		t.Error("Created entities should exist")
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testPositionComponent{X: 100, Y: 200})

	pos, ok := GetComponent[*testPositionComponent](em, id)
	if !ok {
		t.Fatal("Component should be found")
	}
	if pos.X != 100 || pos.Y != 200 {
		t.Errorf("Component data mismatch, expected (100, 200), got (%f, %f)", pos.X, pos.Y)
	}

	// 返回的是同一个指针，修改对后续查询可见
	pos.X = 5
	again, _ := GetComponent[*testPositionComponent](em, id)
	if again.X != 5 {
		t.Errorf("Expected shared pointer, got X=%f", again.X)
	}
}

func TestGetComponentMissing(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	if _, ok := GetComponent[*testColorComponent](em, id); ok {
		t.Error("Missing component should not be found")
	}
	if _, ok := GetComponent[*testColorComponent](em, EntityID(999)); ok {
		t.Error("Component of unknown entity should not be found")
	}
}

func TestHasAndRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	if HasComponent[*testPositionComponent](em, id) {
		t.Error("Should not have component before adding")
	}

	AddComponent(em, id, &testPositionComponent{})
	if !HasComponent[*testPositionComponent](em, id) {
		t.Error("Should have component after adding")
	}

	RemoveComponent[*testPositionComponent](em, id)
	if HasComponent[*testPositionComponent](em, id) {
		t.Error("Should not have component after removal")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testPositionComponent{})

	em.DestroyEntity(id)

	// 清理前实体仍存在
	if !HasComponent[*testPositionComponent](em, id) {
		t.Error("Entity should still exist before cleanup")
	}

	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be removed after cleanup")
	}
	if em.EntityCount() != 0 {
		t.Errorf("Expected 0 entities, got %d", em.EntityCount())
	}
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()

	e1 := em.CreateEntity()
	AddComponent(em, e1, &testPositionComponent{})
	AddComponent(em, e1, &testColorComponent{})

	e2 := em.CreateEntity()
	AddComponent(em, e2, &testPositionComponent{})

	e3 := em.CreateEntity()
	AddComponent(em, e3, &testColorComponent{})

	withPos := GetEntitiesWith1[*testPositionComponent](em)
	if len(withPos) != 2 || withPos[0] != e1 || withPos[1] != e2 {
		t.Errorf("Expected [%d %d], got %v", e1, e2, withPos)
	}

	withBoth := GetEntitiesWith2[*testPositionComponent, *testColorComponent](em)
	if len(withBoth) != 1 || withBoth[0] != e1 {
		t.Errorf("Expected [%d], got %v", e1, withBoth)
	}
}

func TestGetEntitiesWithSortedOrder(t *testing.T) {
	em := NewEntityManager()
	for i := 0; i < 50; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testPositionComponent{X: float64(i)})
	}

	ids := GetEntitiesWith1[*testPositionComponent](em)
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("Entity IDs not sorted at %d: %v", i, ids)
		}
	}
}
