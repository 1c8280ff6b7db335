package dom

import (
	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/internal/timeline"
	"github.com/gonewx/vinyl/pkg/ecs"
)

// Scope 限定在某个容器元素内部的查询视图
//
// 选择器只匹配容器的后代，祖先匹配也不越过容器，
// 因此同一份动画配置可以安全地挂在多个容器上。
// Scope 同样实现 timeline.Resolver 和 scrolltrigger.Layout。
type Scope struct {
	doc   *Document
	root  ecs.EntityID
	found bool
	sel   string
}

// Scoped 以第一个匹配 rootSelector 的元素为容器
// rootSelector 为空时作用于整个文档
func (d *Document) Scoped(rootSelector string) *Scope {
	if rootSelector == "" {
		return &Scope{doc: d, root: Root, found: true}
	}
	list := d.Query(rootSelector)
	if len(list) == 0 {
		return &Scope{doc: d, sel: rootSelector}
	}
	return &Scope{doc: d, root: list[0], found: true, sel: rootSelector}
}

// Found 容器是否存在
func (s *Scope) Found() bool { return s.found }

// Root 容器元素
func (s *Scope) Root() ecs.EntityID { return s.root }

// Document 所属文档
func (s *Scope) Document() *Document { return s.doc }

// Query 在容器内查询
func (s *Scope) Query(selector string) []ecs.EntityID {
	if !s.found {
		return nil
	}
	return s.doc.queryWithin(s.root, selector)
}

// Resolve 实现 timeline.Resolver
func (s *Scope) Resolve(selector string) []timeline.Target {
	return s.doc.styles(s.Query(selector))
}

// Bounds 实现 scrolltrigger.Layout
func (s *Scope) Bounds(selector string) (scrolltrigger.Rect, bool) {
	return s.doc.bounds(s.Query(selector))
}

func (s *Scope) ViewportHeight() float64 { return s.doc.ViewportHeight() }

func (s *Scope) ScrollOffset() float64 { return s.doc.ScrollOffset() }

func (s *Scope) Version() uint64 { return s.doc.Version() }

// SetClass 在容器内设置类名
func (s *Scope) SetClass(selector, class string, on bool) int {
	n := 0
	for _, e := range s.Query(selector) {
		if s.doc.ToggleClass(e, class, on) {
			n++
		}
	}
	return n
}
