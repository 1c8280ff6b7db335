package systems

import (
	"github.com/gonewx/vinyl/internal/smoother"
	"github.com/gonewx/vinyl/pkg/dom"
)

// ScrollSystem 页面滚动
//
// 输入只修改滚动目标；Update 推进平滑器，把结果写入文档，
// 偏移变化时调用 OnScroll（相当于浏览器的 scroll 事件，只用于采样进度）。
type ScrollSystem struct {
	doc      *dom.Document
	smoother *smoother.Smoother

	target   float64
	last     float64
	onScroll func(offset float64)
	primed   bool
}

// NewScrollSystem 创建滚动系统；没有平滑器时滚动立即生效
func NewScrollSystem(doc *dom.Document) *ScrollSystem {
	return &ScrollSystem{doc: doc}
}

// SetSmoother 更换平滑器（可以为 nil），保留当前滚动位置
func (s *ScrollSystem) SetSmoother(sm *smoother.Smoother) {
	s.smoother = sm
	if sm != nil {
		sm.Jump(s.doc.ScrollOffset())
		sm.SetTarget(s.target)
	}
}

// Smoother 当前平滑器
func (s *ScrollSystem) Smoother() *smoother.Smoother { return s.smoother }

// OnScroll 设置滚动回调；传 nil 取消
func (s *ScrollSystem) OnScroll(fn func(offset float64)) {
	s.onScroll = fn
	s.primed = false
}

// ScrollBy 相对滚动
func (s *ScrollSystem) ScrollBy(dy float64) {
	s.ScrollTo(s.target + dy)
}

// ScrollTo 滚动到指定偏移（限制在文档范围内）
func (s *ScrollSystem) ScrollTo(y float64) {
	s.target = s.clamp(y)
	if s.smoother != nil {
		s.smoother.SetTarget(s.target)
	}
}

// Jump 立即跳到指定偏移，不经过平滑
func (s *ScrollSystem) Jump(y float64) {
	s.ScrollTo(y)
	if s.smoother != nil {
		s.smoother.Jump(s.target)
	}
}

// Target 滚动目标
func (s *ScrollSystem) Target() float64 { return s.target }

func (s *ScrollSystem) clamp(y float64) float64 {
	if y < 0 {
		return 0
	}
	if limit := s.doc.MaxScroll(); y > limit {
		return limit
	}
	return y
}

// Update 推进平滑器并发布新的滚动偏移
func (s *ScrollSystem) Update(dt float64) {
	// 文档变短时目标可能越界
	if t := s.clamp(s.target); t != s.target {
		s.ScrollTo(t)
	}

	offset := s.target
	if s.smoother != nil {
		s.smoother.Update(dt)
		offset = s.clamp(s.smoother.Offset())
	}
	s.doc.SetScroll(offset)

	if s.onScroll != nil && (!s.primed || offset != s.last) {
		s.primed = true
		s.onScroll(offset)
	}
	s.last = offset
}
