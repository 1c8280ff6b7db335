package page

import (
	"log"
	"strings"

	"github.com/gonewx/vinyl/pkg/components"
	"github.com/gonewx/vinyl/pkg/ecs"
	"github.com/gonewx/vinyl/pkg/systems"
)

// hit 返回 (x, y) 处最上层的可点击元素
// 文档顺序靠后的元素绘制在上层，因此倒序查找
func (p *Page) hit(x, y float64) (ecs.EntityID, *components.ClickableComponent, bool) {
	em := p.doc.World()
	all := p.doc.Elements()
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		click, ok := ecs.GetComponent[*components.ClickableComponent](em, e)
		if !ok || !click.IsEnabled {
			continue
		}
		if r, ok := systems.ScreenRect(p.doc, e); ok && r.Contains(x, y) {
			return e, click, true
		}
	}
	return 0, nil, false
}

// Click 处理一次点击；返回是否命中了可点击元素
func (p *Page) Click(x, y float64) bool {
	_, click, ok := p.hit(x, y)
	if !ok {
		return false
	}

	switch {
	case click.Action == "toggle":
		playing := p.playback.Toggle()
		log.Printf("[Page] %s: playback toggled (playing=%v)", p.cfg.Route, playing)
	case strings.HasPrefix(click.Action, "route:"):
		route := strings.TrimPrefix(click.Action, "route:")
		if p.opts.Navigate != nil {
			p.opts.Navigate(route)
		} else {
			log.Printf("[Page] Warning: no navigator for route %q", route)
		}
	}
	return true
}

// Hover 更新悬停状态；悬停元素带上 is-hovered 类名
func (p *Page) Hover(x, y float64) {
	em := p.doc.World()
	target, _, hovering := p.hit(x, y)
	for _, e := range ecs.GetEntitiesWith2[*components.ClickableComponent, *components.UIComponent](em) {
		ui, _ := ecs.GetComponent[*components.UIComponent](em, e)
		if ui.State == components.UIDisabled {
			continue
		}
		state := components.UINormal
		if hovering && e == target {
			state = components.UIHovered
		}
		if ui.State == state {
			continue
		}
		if class := ui.State.StateClass(); class != "" {
			p.doc.RemoveClass(e, class)
		}
		ui.State = state
		if class := state.StateClass(); class != "" {
			p.doc.AddClass(e, class)
		}
	}
}
