package systems

import (
	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/pkg/components"
	"github.com/gonewx/vinyl/pkg/dom"
	"github.com/gonewx/vinyl/pkg/ecs"
)

// PinSource 提供固定状态（scrolltrigger.Manager）
type PinSource interface {
	Pins() []scrolltrigger.PinState
}

// PinSystem 把触发区域的固定状态落实到元素上
//
// 触发区域只报告固定区间，这里负责表现：写入 PinComponent，
// 由 LayoutSystem 留出间距，由 ScreenRect 计算固定期间的位移。
type PinSystem struct {
	doc    *dom.Document
	source PinSource
}

// NewPinSystem 创建固定系统
func NewPinSystem(doc *dom.Document) *PinSystem {
	return &PinSystem{doc: doc}
}

// SetSource 设置状态来源；传 nil 时清除全部固定
func (s *PinSystem) SetSource(src PinSource) {
	s.source = src
	if src == nil {
		s.Update()
	}
}

// Update 同步固定状态
func (s *PinSystem) Update() {
	em := s.doc.World()
	seen := make(map[ecs.EntityID]bool)

	if s.source != nil {
		for _, st := range s.source.Pins() {
			list := s.doc.Query(st.Target)
			if len(list) == 0 {
				continue
			}
			e := list[0]
			seen[e] = true
			pin, ok := ecs.GetComponent[*components.PinComponent](em, e)
			if !ok {
				pin = &components.PinComponent{}
				ecs.AddComponent(em, e, pin)
			}
			pin.Active = st.Active
			pin.Start, pin.End = st.Start, st.End
			pin.Spacing = st.End - st.Start
		}
	}

	for _, e := range ecs.GetEntitiesWith1[*components.PinComponent](em) {
		if !seen[e] {
			ecs.RemoveComponent[*components.PinComponent](em, e)
		}
	}
}
