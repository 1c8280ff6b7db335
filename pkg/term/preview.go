// Package term 在终端里预览页面
//
// 视口被划分为字符单元，每个单元对应一小块像素区域。预览只用于检查
// 布局、滚动触发和播放状态，不追求与桌面渲染一致。
package term

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/gonewx/vinyl/pkg/components"
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/dom"
	"github.com/gonewx/vinyl/pkg/ecs"
	"github.com/gonewx/vinyl/pkg/page"
	"github.com/gonewx/vinyl/pkg/systems"
)

// 各形状使用的字符
const (
	runeFill   = '█'
	runeDisc   = '●'
	runeGroove = '·'
	runeLine   = '─'
	runeClip   = '▒'
)

// Preview 把页面绘制到 tcell 屏幕上并处理键盘鼠标
type Preview struct {
	screen tcell.Screen
	page   *page.Page
	bg     tcell.Color

	buttons tcell.ButtonMask
}

// NewPreview 创建预览
func NewPreview(screen tcell.Screen, p *page.Page) *Preview {
	return &Preview{
		screen: screen,
		page:   p,
		bg:     toColor(config.MustColor(p.Config().Background)),
	}
}

// grid 单元尺寸（像素）与可用于页面的行列数；最后一行是状态栏
func (v *Preview) grid() (cw, ch float64, cols, rows int) {
	cols, rows = v.screen.Size()
	rows--
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	doc := v.page.Document()
	return doc.ViewportWidth() / float64(cols), doc.ViewportHeight() / float64(rows), cols, rows
}

// Draw 绘制一帧
func (v *Preview) Draw() {
	base := tcell.StyleDefault.Background(v.bg)
	v.screen.SetStyle(base)
	v.screen.Clear()

	doc := v.page.Document()
	em := doc.World()
	view := systems.Rect{W: doc.ViewportWidth(), H: doc.ViewportHeight()}

	for _, e := range doc.Elements() {
		shape, ok := ecs.GetComponent[*components.ShapeComponent](em, e)
		if !ok || shape.Kind == components.ShapeNone {
			continue
		}
		r, ok := systems.ScreenRect(doc, e)
		if !ok || !r.Intersects(view) {
			continue
		}
		opacity := systems.Opacity(doc, e)
		if opacity <= 0 {
			continue
		}
		st, _ := ecs.GetComponent[*components.StyleComponent](em, e)
		if st == nil {
			st = components.NewStyleComponent()
		}

		var classes []string
		if el := doc.Element(e); el != nil {
			classes = el.Classes
		}
		clr := systems.ResolveColor(shape, classes, st.Glow, opacity)
		if clr.A == 0 {
			continue
		}
		style := base.Foreground(toColor(clr))

		switch shape.Kind {
		case components.ShapeRect:
			v.fill(r, runeFill, style)
		case components.ShapeDisc:
			v.drawDisc(r, st.Rotation, style, base.Foreground(toColor(systems.Fade(shape.Accent, opacity))))
		case components.ShapeLine:
			cw, ch, _, _ := v.grid()
			y := int((r.Y + r.H/2) / ch)
			for x := int(r.X / cw); x < int(math.Ceil((r.X+r.W)/cw)); x++ {
				v.set(x, y, runeLine, style)
			}
		case components.ShapeText:
			v.drawText(doc, e, r, style)
		case components.ShapeClip:
			v.fill(r, runeClip, style)
		}
	}

	v.drawStatus()
	v.screen.Show()
}

// set 只写入页面区域内的单元
func (v *Preview) set(x, y int, r rune, style tcell.Style) {
	_, _, cols, rows := v.grid()
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return
	}
	v.screen.SetContent(x, y, r, nil, style)
}

// cells 矩形覆盖的单元范围，至少一个单元
func (v *Preview) cells(r systems.Rect) (x0, y0, x1, y1 int) {
	cw, ch, _, _ := v.grid()
	x0, y0 = int(math.Floor(r.X/cw)), int(math.Floor(r.Y/ch))
	x1, y1 = int(math.Ceil((r.X+r.W)/cw)), int(math.Ceil((r.Y+r.H)/ch))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return
}

func (v *Preview) fill(r systems.Rect, ch rune, style tcell.Style) {
	x0, y0, x1, y1 := v.cells(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			v.set(x, y, ch, style)
		}
	}
}

// drawDisc 椭圆内填充，沿当前旋转角画一条刻痕
func (v *Preview) drawDisc(r systems.Rect, degrees float64, style, accent tcell.Style) {
	cw, ch, _, _ := v.grid()
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	rx, ry := r.W/2, r.H/2
	x0, y0, x1, y1 := v.cells(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := ((float64(x)+0.5)*cw - cx) / rx
			dy := ((float64(y)+0.5)*ch - cy) / ry
			if dx*dx+dy*dy <= 1 {
				v.set(x, y, runeDisc, style)
			}
		}
	}

	rad := degrees * math.Pi / 180
	steps := int(math.Max(rx/cw, ry/ch))
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		px := cx + math.Sin(rad)*rx*t
		py := cy - math.Cos(rad)*ry*t
		v.set(int(px/cw), int(py/ch), runeGroove, accent)
	}
}

func (v *Preview) drawText(doc *dom.Document, e ecs.EntityID, r systems.Rect, style tcell.Style) {
	cw, ch, _, _ := v.grid()
	em := doc.World()
	if frag, ok := ecs.GetComponent[*components.FragmentComponent](em, e); ok {
		if !frag.Fragment.Space {
			v.drawString(int(r.X/cw), int(r.Y/ch), frag.Fragment.Text, style)
		}
		return
	}

	txt, ok := ecs.GetComponent[*components.TextComponent](em, e)
	if !ok || txt.Split {
		return
	}
	lineH := txt.Size * config.LineSpacing
	for i, line := range systems.WrapText(txt.Text, txt.Size, r.W) {
		v.drawString(int(r.X/cw), int((r.Y+float64(i)*lineH)/ch), line, style)
	}
}

// drawString 按字素簇写入，宽字符占两个单元
func (v *Preview) drawString(x, y int, s string, style tcell.Style) {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		_, _, cols, rows := v.grid()
		if x >= 0 && x < cols && y >= 0 && y < rows {
			v.screen.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += max(g.Width(), 1)
	}
}

// Status 状态栏文本：路由、滚动位置、播放状态和各触发区域的进度
func (v *Preview) Status() string {
	doc := v.page.Document()
	state := "paused"
	if v.page.Playback().IsPlaying() {
		state = "playing"
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %s  scroll %.0f/%.0f  %s", v.page.Route(), doc.ScrollOffset(), doc.MaxScroll(), state)
	if mgr := v.page.Triggers(); mgr != nil {
		for _, mp := range mgr.Mappers() {
			fmt.Fprintf(&b, "  %s:%3.0f%%", mp.ID(), mp.Progress()*100)
		}
	} else {
		b.WriteString("  (inactive)")
	}
	return b.String()
}

func (v *Preview) drawStatus() {
	cols, rows := v.screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < cols; x++ {
		v.screen.SetContent(x, rows-1, ' ', nil, style)
	}
	x := 0
	g := uniseg.NewGraphemes(v.Status())
	for g.Next() && x < cols {
		runes := g.Runes()
		v.screen.SetContent(x, rows-1, runes[0], runes[1:], style)
		x += max(g.Width(), 1)
	}
}

// HandleEvent 处理一个终端事件；返回 false 表示退出
func (v *Preview) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *Preview) handleKey(ev *tcell.EventKey) bool {
	scroll := v.page.Scroll()
	doc := v.page.Document()
	pageStep := doc.ViewportHeight() * 0.9

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		scroll.ScrollBy(-config.ScrollStep)
	case tcell.KeyDown:
		scroll.ScrollBy(config.ScrollStep)
	case tcell.KeyPgUp:
		scroll.ScrollBy(-pageStep)
	case tcell.KeyPgDn:
		scroll.ScrollBy(pageStep)
	case tcell.KeyHome:
		scroll.ScrollTo(0)
	case tcell.KeyEnd:
		scroll.ScrollTo(doc.MaxScroll())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'k':
			scroll.ScrollBy(-config.ScrollStep)
		case 'j':
			scroll.ScrollBy(config.ScrollStep)
		case ' ':
			v.page.Toggle()
		case 'r':
			if err := v.page.Refresh(); err != nil {
				return false
			}
		}
	}
	return true
}

// handleMouse 滚轮滚动；左键按下的那一刻视为一次点击
func (v *Preview) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	scroll := v.page.Scroll()
	switch {
	case buttons&tcell.WheelUp != 0:
		scroll.ScrollBy(-config.ScrollStep)
	case buttons&tcell.WheelDown != 0:
		scroll.ScrollBy(config.ScrollStep)
	}

	cw, ch, _, _ := v.grid()
	x, y := ev.Position()
	px, py := (float64(x)+0.5)*cw, (float64(y)+0.5)*ch
	v.page.Hover(px, py)
	if buttons&tcell.Button1 != 0 && v.buttons&tcell.Button1 == 0 {
		v.page.Click(px, py)
	}
	v.buttons = buttons
}

// Run 事件循环：按 fps 推进页面并重绘，直到用户退出
func (v *Preview) Run(fps int) {
	if fps <= 0 {
		fps = 30
	}
	dt := 1.0 / float64(fps)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := v.pollEvents(done)

	v.Draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !v.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			v.page.Tick(dt)
			v.Draw()
		}
	}
}

// pollEvents 在独立 goroutine 中读取终端事件
// done 关闭后不再投递，screen.Fini 让 PollEvent 返回 nil 后 goroutine 退出
func (v *Preview) pollEvents(done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 64)
	go func() {
		defer close(events)
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

func toColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
