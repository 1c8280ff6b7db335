package game

import (
	"fmt"
	"log"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 每个路由只创建一次场景，之后重复挂载
type SceneFactory func(route string) (Scene, error)

// SceneManager manages which routed scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	currentRoute string
	factories    map[string]SceneFactory
	scenes       map[string]Scene

	// pending 在帧边界才执行的切换，避免在点击回调中途销毁当前页面
	pending string

	// OnNavigate 切换成功后调用（记录最后访问的页面）
	OnNavigate func(route string)
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use Navigate to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{
		factories: make(map[string]SceneFactory),
		scenes:    make(map[string]Scene),
	}
}

// Register 注册路由
func (sm *SceneManager) Register(route string, factory SceneFactory) {
	sm.factories[route] = factory
}

// Routes 已注册的路由（按名称排序）
func (sm *SceneManager) Routes() []string {
	out := make([]string, 0, len(sm.factories))
	for r := range sm.factories {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// SwitchTo changes the active scene to the provided scene.
// The previous scene is unmounted and the new one mounted.
func (sm *SceneManager) SwitchTo(scene Scene) error {
	if scene == sm.currentScene {
		return nil
	}
	if m, ok := sm.currentScene.(Mountable); ok {
		m.Leave()
	}
	sm.currentScene = scene
	if m, ok := scene.(Mountable); ok {
		if err := m.Enter(); err != nil {
			return err
		}
	}
	return nil
}

// Navigate 立即切换到指定路由
func (sm *SceneManager) Navigate(route string) error {
	if route == sm.currentRoute && sm.currentScene != nil {
		return nil
	}

	scene, ok := sm.scenes[route]
	if !ok {
		factory, found := sm.factories[route]
		if !found {
			return fmt.Errorf("unknown route %q", route)
		}
		var err error
		if scene, err = factory(route); err != nil {
			return fmt.Errorf("create scene %q: %w", route, err)
		}
		sm.scenes[route] = scene
	}

	log.Printf("[SceneManager] 切换页面: %q -> %q", sm.currentRoute, route)
	sm.currentRoute = route
	if err := sm.SwitchTo(scene); err != nil {
		return fmt.Errorf("enter %q: %w", route, err)
	}
	if sm.OnNavigate != nil {
		sm.OnNavigate(route)
	}
	return nil
}

// RequestNavigate 在下一次 Update 开始时切换路由
func (sm *SceneManager) RequestNavigate(route string) {
	sm.pending = route
}

// GetCurrentScene 返回当前活动的场景
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentRoute 当前路由
func (sm *SceneManager) CurrentRoute() string {
	return sm.currentRoute
}

// Close 卸载当前场景（程序退出时调用）
func (sm *SceneManager) Close() {
	if m, ok := sm.currentScene.(Mountable); ok {
		m.Leave()
	}
	sm.currentScene = nil
	sm.currentRoute = ""
}

// Update updates the currently active scene.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if route := sm.pending; route != "" {
		sm.pending = ""
		if err := sm.Navigate(route); err != nil {
			log.Printf("[SceneManager] 错误: %v", err)
		}
	}
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
