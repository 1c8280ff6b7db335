package scenes

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/gonewx/vinyl/pkg/game"
	"github.com/gonewx/vinyl/pkg/page"
	"github.com/gonewx/vinyl/pkg/ui"
	"github.com/hajimehoshi/ebiten/v2"
)

// Deps 页面场景共享的服务
type Deps struct {
	Resources *game.ResourceManager
	Audio     *game.AudioManager
	Settings  *game.SettingsManager
	Scenes    *game.SceneManager
	// Rand 为 nil 时每个页面按时间播种
	Rand *rand.Rand
}

// PageScene 把一个页面接到 Ebitengine：输入 -> tick -> 绘制
type PageScene struct {
	page   *page.Page
	render *ui.RenderSystem
	input  *ui.InputSystem
}

// NewPageScene 加载页面配置并创建场景
func NewPageScene(deps Deps, path string) (*PageScene, error) {
	cfg, err := deps.Resources.LoadPage(path)
	if err != nil {
		return nil, err
	}

	opts := page.Options{
		Config:   cfg,
		Clips:    deps.Resources,
		Rand:     deps.Rand,
		Navigate: deps.Scenes.RequestNavigate,
	}
	if deps.Settings != nil {
		opts.ReducedMotion = deps.Settings.GetSettings().ReducedMotion
	}
	if pb := cfg.Playback; pb != nil && deps.Audio != nil {
		opts.Media = deps.Audio.Media(pb.Media)
	}

	p, err := page.New(opts)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", path, err)
	}
	log.Printf("[PageScene] created %q from %s", cfg.Route, path)

	return &PageScene{
		page:   p,
		render: ui.NewRenderSystem(p, deps.Resources),
		input:  ui.NewInputSystem(p),
	}, nil
}

// Factory 路由工厂，供 SceneManager 注册
func Factory(deps Deps) game.SceneFactory {
	return func(route string) (game.Scene, error) {
		path, ok := PathFor(route)
		if !ok {
			return nil, fmt.Errorf("no page for route %q", route)
		}
		return NewPageScene(deps, path)
	}
}

// Page 场景中的页面
func (s *PageScene) Page() *page.Page { return s.page }

// Enter 挂载页面
func (s *PageScene) Enter() error { return s.page.Enter() }

// Leave 卸载页面
func (s *PageScene) Leave() { s.page.Leave() }

// Update 处理输入后推进一帧
func (s *PageScene) Update(deltaTime float64) {
	s.input.Update()
	s.page.Tick(deltaTime)
}

// Draw 绘制页面
func (s *PageScene) Draw(screen *ebiten.Image) {
	s.render.Draw(screen)
}
