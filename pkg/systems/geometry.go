package systems

import (
	"github.com/gonewx/vinyl/pkg/components"
	"github.com/gonewx/vinyl/pkg/dom"
	"github.com/gonewx/vinyl/pkg/ecs"
)

// CellRatio 半角字符宽度相对字号的比例；东亚宽字符占两个单元
const CellRatio = 0.5

// MeasureText 按显示单元估算文本宽度（像素）
func MeasureText(cells int, size float64) float64 {
	return float64(cells) * size * CellRatio
}

// Rect 屏幕坐标中的矩形
type Rect struct {
	X, Y, W, H float64
}

// Contains 点是否在矩形内
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersects 两矩形是否相交
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// ScreenRect 元素当前在屏幕上的矩形
//
// 屏幕位置 = 布局位置 - 滚动偏移 + 视差位移 + 固定位移 + 样式平移，
// 祖先元素的视差、固定和平移会一并作用到后代上。
func ScreenRect(doc *dom.Document, e ecs.EntityID) (Rect, bool) {
	em := doc.World()
	box, ok := ecs.GetComponent[*components.BoxComponent](em, e)
	if !ok {
		return Rect{}, false
	}
	dx, dy := Displacement(doc, e)
	return Rect{
		X: box.X + dx,
		Y: box.Y - doc.ScrollOffset() + dy,
		W: box.LayoutWidth,
		H: box.LayoutHeight,
	}, true
}

// Displacement 元素及其祖先累积的非布局位移
func Displacement(doc *dom.Document, e ecs.EntityID) (dx, dy float64) {
	em := doc.World()
	scroll := doc.ScrollOffset()
	for cur := e; cur != dom.Root; {
		if st, ok := ecs.GetComponent[*components.StyleComponent](em, cur); ok {
			dx += st.X
			dy += st.Y
		}
		if p, ok := ecs.GetComponent[*components.ParallaxComponent](em, cur); ok {
			dy += p.Offset
		}
		if pin, ok := ecs.GetComponent[*components.PinComponent](em, cur); ok {
			dy += pin.Offset(scroll)
		}
		el := doc.Element(cur)
		if el == nil {
			break
		}
		cur = el.Parent
	}
	return dx, dy
}

// Opacity 元素及其祖先不透明度的乘积
func Opacity(doc *dom.Document, e ecs.EntityID) float64 {
	em := doc.World()
	a := 1.0
	for cur := e; cur != dom.Root; {
		if st, ok := ecs.GetComponent[*components.StyleComponent](em, cur); ok {
			a *= clamp01(st.Opacity)
		}
		el := doc.Element(cur)
		if el == nil {
			break
		}
		cur = el.Parent
	}
	return a
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
