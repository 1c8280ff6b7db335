package ui

import (
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/page"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputSystem 把滚轮、键盘和鼠标输入转换为页面操作
//
// 输入只设置滚动目标或调用页面的点击处理；实际的滚动在下一个 tick 的
// 采样阶段生效。
type InputSystem struct {
	page *page.Page
}

// NewInputSystem 创建输入系统
func NewInputSystem(p *page.Page) *InputSystem {
	return &InputSystem{page: p}
}

// Update 每帧调用一次（在 page.Tick 之前）
func (s *InputSystem) Update() {
	scroll := s.page.Scroll()
	doc := s.page.Document()

	if _, dy := ebiten.Wheel(); dy != 0 {
		scroll.ScrollBy(-dy * config.ScrollStep)
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyDown), inpututil.IsKeyJustPressed(ebiten.KeyJ):
		scroll.ScrollBy(config.ScrollStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyUp), inpututil.IsKeyJustPressed(ebiten.KeyK):
		scroll.ScrollBy(-config.ScrollStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		scroll.ScrollBy(doc.ViewportHeight() * 0.9)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		scroll.ScrollBy(-doc.ViewportHeight() * 0.9)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		scroll.ScrollTo(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		scroll.ScrollTo(doc.MaxScroll())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.page.Toggle()
	}

	x, y := ebiten.CursorPosition()
	s.page.Hover(float64(x), float64(y))
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.page.Click(float64(x), float64(y))
	}
}
