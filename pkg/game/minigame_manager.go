package game

import (
	"errors"
	"fmt"
	"log"
	"sort"
)

// ErrUnknownMinigame 小游戏ID未注册
var ErrUnknownMinigame = errors.New("unknown minigame")

// Minigame 小游戏管理器可以打开的小游戏
type Minigame interface {
	// TryOpen 打开小游戏，已完成时返回错误
	TryOpen() error
	// IsCompleted 小游戏是否已完成
	IsCompleted() bool
}

// MinigameManager 宿主的小游戏注册表
// 负责打开小游戏并接收完成通知，完成记录只保存在内存中。
type MinigameManager struct {
	minigames map[string]Minigame
	completed map[string]bool
	order     []string // 完成顺序

	// onCompleted 可选回调，每个小游戏完成时调用一次
	onCompleted func(id string)
}

// NewMinigameManager 创建空的小游戏管理器
func NewMinigameManager() *MinigameManager {
	return &MinigameManager{
		minigames: make(map[string]Minigame),
		completed: make(map[string]bool),
	}
}

// SetOnCompleted 设置完成回调
func (m *MinigameManager) SetOnCompleted(callback func(id string)) {
	m.onCompleted = callback
}

// Register 注册小游戏
// 同一ID重复注册会返回错误
func (m *MinigameManager) Register(id string, minigame Minigame) error {
	if _, exists := m.minigames[id]; exists {
		return fmt.Errorf("minigame %s already registered", id)
	}
	m.minigames[id] = minigame
	log.Printf("[MinigameManager] Registered minigame: %s", id)
	return nil
}

// TryOpen 打开指定小游戏
//
// 返回：
//   - error: 未注册时返回 ErrUnknownMinigame，小游戏拒绝打开时返回其错误
func (m *MinigameManager) TryOpen(id string) error {
	minigame, ok := m.minigames[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMinigame, id)
	}
	if err := minigame.TryOpen(); err != nil {
		return fmt.Errorf("minigame %s: %w", id, err)
	}
	return nil
}

// OnMinigameCompleted 接收小游戏完成通知
// 同一小游戏重复上报只记录第一次
func (m *MinigameManager) OnMinigameCompleted(id string) {
	if m.completed[id] {
		log.Printf("[MinigameManager] Duplicate completion ignored: %s", id)
		return
	}

	m.completed[id] = true
	m.order = append(m.order, id)
	log.Printf("[MinigameManager] Minigame completed: %s (%d/%d)", id, len(m.completed), len(m.minigames))

	if m.onCompleted != nil {
		m.onCompleted(id)
	}
}

// IsCompleted 检查小游戏是否已完成
func (m *MinigameManager) IsCompleted(id string) bool {
	return m.completed[id]
}

// CompletedCount 返回已完成的小游戏数量
func (m *MinigameManager) CompletedCount() int {
	return len(m.completed)
}

// CompletionOrder 返回按完成先后排列的小游戏ID
func (m *MinigameManager) CompletionOrder() []string {
	return append([]string(nil), m.order...)
}

// AllCompleted 检查所有已注册的小游戏是否都已完成
func (m *MinigameManager) AllCompleted() bool {
	if len(m.minigames) == 0 {
		return false
	}
	for id := range m.minigames {
		if !m.completed[id] {
			return false
		}
	}
	return true
}

// IDs 返回所有已注册的小游戏ID（按字母排序）
func (m *MinigameManager) IDs() []string {
	ids := make([]string, 0, len(m.minigames))
	for id := range m.minigames {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
