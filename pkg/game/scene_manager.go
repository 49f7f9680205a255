package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 根据场景ID创建场景，避免 game 包依赖具体场景实现
type SceneFactory func(sceneID string) (Scene, error)

// SceneManager manages which scene is active.
// Only the current scene's Update and Draw methods are called.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager creates a SceneManager with no active scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadScene 通过工厂函数创建并切换到指定场景
// 创建失败时保留当前场景
func (sm *SceneManager) LoadScene(sceneID string) error {
	log.Printf("[SceneManager] 加载场景: %s", sceneID)

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set, cannot load %s", sceneID)
	}

	scene, err := sm.sceneFactory(sceneID)
	if err != nil {
		return fmt.Errorf("failed to create scene %s: %w", sceneID, err)
	}

	sm.SwitchTo(scene)
	log.Printf("[SceneManager] 成功切换到场景: %s", sceneID)
	return nil
}

// Update updates the currently active scene.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
