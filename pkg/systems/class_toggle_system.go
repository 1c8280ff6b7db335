package systems

import (
	"github.com/gonewx/vinyl/internal/scrolltrigger"
)

// RuleWhen 类名规则的触发方式
type RuleWhen int

const (
	// WhenActive 区域激活期间带有类名
	WhenActive RuleWhen = iota
	// WhenThreshold 原始进度越过 At 后带有类名
	WhenThreshold
)

// ClassRule 把触发区域事件映射为类名
type ClassRule struct {
	Target string
	Class  string
	When   RuleWhen
	At     float64
}

// ClassSetter 按选择器设置类名（dom.Document 或 dom.Scope）
type ClassSetter interface {
	SetClass(selector, class string, on bool) int
}

// ClassToggleSystem 表现层：订阅映射器事件并切换元素类名
//
// 映射器只发出离散事件，不直接改动元素。
type ClassToggleSystem struct {
	dom ClassSetter
}

// NewClassToggleSystem 创建类名切换系统
func NewClassToggleSystem(d ClassSetter) *ClassToggleSystem {
	return &ClassToggleSystem{dom: d}
}

// Bind 订阅映射器；返回的函数取消订阅并移除由这些规则添加的类名
func (s *ClassToggleSystem) Bind(m *scrolltrigger.Mapper, rules ...ClassRule) func() {
	applied := make(map[int]bool)
	set := func(i int, on bool) {
		if applied[i] == on {
			return
		}
		applied[i] = on
		s.dom.SetClass(rules[i].Target, rules[i].Class, on)
	}

	unsub := m.Subscribe(func(ev scrolltrigger.Event) {
		for i, r := range rules {
			switch r.When {
			case WhenActive:
				switch ev.Kind {
				case scrolltrigger.EventEnter, scrolltrigger.EventEnterBack:
					set(i, true)
				case scrolltrigger.EventLeave, scrolltrigger.EventLeaveBack:
					set(i, false)
				}
			case WhenThreshold:
				if ev.Kind == scrolltrigger.EventThreshold && ev.Threshold == r.At {
					set(i, ev.Direction == scrolltrigger.Forward)
				}
			}
		}
	})

	return func() {
		unsub()
		for i := range rules {
			set(i, false)
		}
	}
}
