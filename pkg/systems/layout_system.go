package systems

import (
	"math"

	"github.com/rivo/uniseg"

	"github.com/gonewx/vinyl/internal/splittext"
	"github.com/gonewx/vinyl/pkg/components"
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/dom"
	"github.com/gonewx/vinyl/pkg/ecs"
)

// LayoutSystem 纵向流式布局
//
// 块级元素自上而下排列，Inline 元素（拆分文本的片段）在行内排列并自动折行。
// 固定元素之后额外留出 PinComponent.Spacing 的间距。
// 任何盒子发生变化时递增文档的布局版本，触发区域据此重新解析边界。
type LayoutSystem struct {
	doc *dom.Document
}

// NewLayoutSystem 创建布局系统
func NewLayoutSystem(doc *dom.Document) *LayoutSystem {
	return &LayoutSystem{doc: doc}
}

// Update 重新计算全部盒子，返回布局是否变化
func (s *LayoutSystem) Update() bool {
	width := s.doc.ViewportWidth() - 2*config.PageMarginX
	changed := false
	h := s.flow(dom.Root, config.PageMarginX, 0, width, &changed)
	if h != s.doc.ContentHeight() {
		s.doc.SetContentHeight(h)
		changed = true
	}
	if changed {
		s.doc.Invalidate()
	}
	return changed
}

// flow 在 (x, y) 开始、宽度为 width 的区域内排布 parent 的子元素，返回占用高度
func (s *LayoutSystem) flow(parent ecs.EntityID, x, y, width float64, changed *bool) float64 {
	em := s.doc.World()
	cursorY := y
	lineX, lineH := x, 0.0
	inLine := false

	endLine := func() {
		if inLine {
			cursorY += lineH
		}
		lineX, lineH, inLine = x, 0, false
	}

	for _, c := range s.doc.Children(parent) {
		box, ok := ecs.GetComponent[*components.BoxComponent](em, c)
		if !ok {
			continue
		}

		if box.Inline {
			w, h := s.intrinsic(c, box, width)
			if inLine && lineX+w > x+width {
				endLine()
			}
			inLine = true
			s.place(box, lineX, cursorY, w, h, changed)
			lineX += w
			lineH = math.Max(lineH, h)
			continue
		}

		endLine()
		cursorY += box.MarginTop
		w := width
		bx := x
		if box.Width > 0 && box.Width < width {
			w = box.Width
			bx = x + (width-w)/2
		}
		h := box.Height
		inner := s.flow(c, bx, cursorY, w, changed)
		if h == 0 {
			h = inner
			if h == 0 {
				_, h = s.intrinsic(c, box, w)
			}
		}
		s.place(box, bx, cursorY, w, h, changed)
		cursorY += h + box.MarginBottom
		if pin, ok := ecs.GetComponent[*components.PinComponent](em, c); ok {
			cursorY += pin.Spacing
		}
	}
	endLine()
	return cursorY - y
}

// intrinsic 由内容决定的尺寸
func (s *LayoutSystem) intrinsic(e ecs.EntityID, box *components.BoxComponent, avail float64) (float64, float64) {
	em := s.doc.World()
	if f, ok := ecs.GetComponent[*components.FragmentComponent](em, e); ok {
		size := config.DefaultFontSize
		if owner, ok := ecs.GetComponent[*components.TextComponent](em, f.Owner); ok {
			size = owner.Size
		}
		w := box.Width
		if w == 0 {
			w = MeasureText(f.Fragment.Width, size)
		}
		return w, size * config.LineSpacing
	}
	if txt, ok := ecs.GetComponent[*components.TextComponent](em, e); ok && !txt.Split {
		lines := len(WrapText(txt.Text, txt.Size, avail))
		return avail, float64(lines) * txt.Size * config.LineSpacing
	}
	return box.Width, box.Height
}

func (s *LayoutSystem) place(box *components.BoxComponent, x, y, w, h float64, changed *bool) {
	if box.X != x || box.Y != y || box.LayoutWidth != w || box.LayoutHeight != h {
		box.X, box.Y, box.LayoutWidth, box.LayoutHeight = x, y, w, h
		*changed = true
	}
}

// WrapText 按可用宽度折行
func WrapText(text string, size, width float64) []string {
	cells := int(width / (size * CellRatio))
	frags := splittext.Wrap(text, cells)
	out := make([]string, 0, len(frags))
	for _, f := range frags {
		out = append(out, f.Text)
	}
	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}

// TextWidth 文本的显示宽度（像素）
func TextWidth(text string, size float64) float64 {
	return MeasureText(uniseg.StringWidth(text), size)
}
