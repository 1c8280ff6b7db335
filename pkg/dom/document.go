// Package dom 在 ECS 世界之上提供类似 DOM 的元素查询和布局信息
//
// Document 同时实现 timeline.Resolver（选择器到样式目标）和
// scrolltrigger.Layout（元素盒子、视口和滚动偏移），
// 动画引擎只通过这两个接口接触页面。
package dom

import (
	"log"

	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/internal/timeline"
	"github.com/gonewx/vinyl/pkg/components"
	"github.com/gonewx/vinyl/pkg/ecs"
)

// Root 文档根；顶层元素的父元素
const Root ecs.EntityID = 0

// Document 页面文档
type Document struct {
	em       *ecs.EntityManager
	children map[ecs.EntityID][]ecs.EntityID
	byID     map[string]ecs.EntityID
	order    []ecs.EntityID // 深度优先顺序的缓存，nil 表示需要重建

	width    float64
	viewport float64
	scroll   float64
	content  float64
	version  uint64

	selectors map[string]Selector
	badSel    map[string]bool
}

// NewDocument 创建文档；width/viewportHeight 为视口尺寸
func NewDocument(em *ecs.EntityManager, width, viewportHeight float64) *Document {
	return &Document{
		em:        em,
		children:  make(map[ecs.EntityID][]ecs.EntityID),
		byID:      make(map[string]ecs.EntityID),
		width:     width,
		viewport:  viewportHeight,
		selectors: make(map[string]Selector),
		badSel:    make(map[string]bool),
		version:   1,
	}
}

// World 底层实体管理器
func (d *Document) World() *ecs.EntityManager { return d.em }

// CreateElement 在 parent 下追加一个元素，并挂上默认的盒子和样式组件
func (d *Document) CreateElement(parent ecs.EntityID, tag, id string, classes ...string) ecs.EntityID {
	e := d.em.CreateEntity()
	ecs.AddComponent(d.em, e, &components.ElementComponent{
		ID:      id,
		Tag:     tag,
		Classes: append([]string(nil), classes...),
		Parent:  parent,
	})
	ecs.AddComponent(d.em, e, &components.BoxComponent{})
	ecs.AddComponent(d.em, e, components.NewStyleComponent())

	d.children[parent] = append(d.children[parent], e)
	if id != "" {
		if prev, dup := d.byID[id]; dup {
			log.Printf("[DOM] Warning: duplicate id %q (entity %d and %d)", id, prev, e)
		} else {
			d.byID[id] = e
		}
	}
	d.order = nil
	d.version++
	return e
}

// Remove 删除元素及其全部后代
func (d *Document) Remove(e ecs.EntityID) {
	el := d.Element(e)
	if el == nil {
		return
	}
	for _, c := range append([]ecs.EntityID(nil), d.children[e]...) {
		d.Remove(c)
	}
	siblings := d.children[el.Parent]
	for i, s := range siblings {
		if s == e {
			d.children[el.Parent] = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	delete(d.children, e)
	if el.ID != "" && d.byID[el.ID] == e {
		delete(d.byID, el.ID)
	}
	d.em.DestroyEntity(e)
	d.em.RemoveMarkedEntities()
	d.order = nil
	d.version++
}

// Element 元素组件；实体不存在时返回 nil
func (d *Document) Element(e ecs.EntityID) *components.ElementComponent {
	el, ok := ecs.GetComponent[*components.ElementComponent](d.em, e)
	if !ok {
		return nil
	}
	return el
}

// ElementByID 按 id 查找
func (d *Document) ElementByID(id string) (ecs.EntityID, bool) {
	e, ok := d.byID[id]
	return e, ok
}

// Children 直接子元素（文档顺序）
func (d *Document) Children(e ecs.EntityID) []ecs.EntityID {
	return d.children[e]
}

// Elements 全部元素，深度优先的文档顺序
func (d *Document) Elements() []ecs.EntityID {
	if d.order == nil {
		d.order = make([]ecs.EntityID, 0, len(d.byID))
		d.walk(Root, func(e ecs.EntityID) {
			d.Element(e).Order = len(d.order)
			d.order = append(d.order, e)
		})
	}
	return d.order
}

func (d *Document) walk(parent ecs.EntityID, fn func(ecs.EntityID)) {
	for _, c := range d.children[parent] {
		fn(c)
		d.walk(c, fn)
	}
}

// descendants root 的全部后代（不含 root 本身），文档顺序
func (d *Document) descendants(root ecs.EntityID) []ecs.EntityID {
	if root == Root {
		return d.Elements()
	}
	var out []ecs.EntityID
	d.walk(root, func(e ecs.EntityID) { out = append(out, e) })
	return out
}

// selector 解析并缓存选择器；语法错误只记录一次
func (d *Document) selector(src string) (Selector, bool) {
	if s, ok := d.selectors[src]; ok {
		return s, true
	}
	s, err := ParseSelector(src)
	if err != nil {
		if !d.badSel[src] {
			log.Printf("[DOM] Warning: %v", err)
			d.badSel[src] = true
		}
		return Selector{}, false
	}
	d.selectors[src] = s
	return s, true
}

// Query 返回匹配选择器的全部元素（文档顺序）
func (d *Document) Query(selector string) []ecs.EntityID {
	return d.queryWithin(Root, selector)
}

func (d *Document) queryWithin(root ecs.EntityID, selector string) []ecs.EntityID {
	sel, ok := d.selector(selector)
	if !ok {
		return nil
	}
	var out []ecs.EntityID
	for _, e := range d.descendants(root) {
		if d.matches(e, sel, root) {
			out = append(out, e)
		}
	}
	return out
}

// matches 从右向左匹配：最后一个复合选择器匹配 e，其余依次在祖先链上寻找
// 祖先查找不越过 root
func (d *Document) matches(e ecs.EntityID, sel Selector, root ecs.EntityID) bool {
	for _, ch := range sel.chains {
		if d.matchChain(e, ch, root) {
			return true
		}
	}
	return false
}

func (d *Document) matchChain(e ecs.EntityID, ch chain, root ecs.EntityID) bool {
	el := d.Element(e)
	if el == nil || !ch[len(ch)-1].matches(el) {
		return false
	}
	i := len(ch) - 2
	for cur := el.Parent; i >= 0 && cur != Root && cur != root; {
		pe := d.Element(cur)
		if pe == nil {
			break
		}
		if ch[i].matches(pe) {
			i--
		}
		cur = pe.Parent
	}
	return i < 0
}

// Resolve 实现 timeline.Resolver：返回匹配元素的样式组件
func (d *Document) Resolve(selector string) []timeline.Target {
	return d.styles(d.Query(selector))
}

func (d *Document) styles(list []ecs.EntityID) []timeline.Target {
	out := make([]timeline.Target, 0, len(list))
	for _, e := range list {
		if st, ok := ecs.GetComponent[*components.StyleComponent](d.em, e); ok {
			out = append(out, st)
		}
	}
	return out
}

// Bounds 实现 scrolltrigger.Layout：第一个匹配元素的布局盒子
func (d *Document) Bounds(selector string) (scrolltrigger.Rect, bool) {
	return d.bounds(d.Query(selector))
}

func (d *Document) bounds(list []ecs.EntityID) (scrolltrigger.Rect, bool) {
	if len(list) == 0 {
		return scrolltrigger.Rect{}, false
	}
	box, ok := ecs.GetComponent[*components.BoxComponent](d.em, list[0])
	if !ok {
		return scrolltrigger.Rect{}, false
	}
	return scrolltrigger.Rect{X: box.X, Y: box.Y, W: box.LayoutWidth, H: box.LayoutHeight}, true
}

// ViewportHeight 视口高度
func (d *Document) ViewportHeight() float64 { return d.viewport }

// ViewportWidth 视口宽度
func (d *Document) ViewportWidth() float64 { return d.width }

// ScrollOffset 当前（平滑后的）滚动偏移
func (d *Document) ScrollOffset() float64 { return d.scroll }

// Version 布局版本；盒子、视口或元素结构变化时递增
func (d *Document) Version() uint64 { return d.version }

// SetScroll 更新滚动偏移；滚动本身不改变布局版本
func (d *Document) SetScroll(y float64) { d.scroll = y }

// SetViewport 调整视口尺寸
func (d *Document) SetViewport(width, height float64) {
	if width == d.width && height == d.viewport {
		return
	}
	d.width, d.viewport = width, height
	d.version++
}

// Invalidate 通知布局已变化
func (d *Document) Invalidate() { d.version++ }

// SetContentHeight 记录文档总高度（由 LayoutSystem 写入）
func (d *Document) SetContentHeight(h float64) { d.content = h }

// ContentHeight 文档总高度
func (d *Document) ContentHeight() float64 { return d.content }

// MaxScroll 最大滚动偏移
func (d *Document) MaxScroll() float64 {
	if d.content <= d.viewport {
		return 0
	}
	return d.content - d.viewport
}
