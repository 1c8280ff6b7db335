package systems

import (
	"github.com/gonewx/vinyl/pkg/components"
	"github.com/gonewx/vinyl/pkg/dom"
	"github.com/gonewx/vinyl/pkg/ecs"
)

// ParallaxSource 计算视差位移（smoother.Smoother）
type ParallaxSource interface {
	ParallaxAt(speed, elementTop float64) float64
}

// ParallaxSystem data-speed 视差
// 元素中心与视口中心重合时位移为 0
type ParallaxSystem struct {
	doc    *dom.Document
	source ParallaxSource
}

// NewParallaxSystem 创建视差系统
func NewParallaxSystem(doc *dom.Document) *ParallaxSystem {
	return &ParallaxSystem{doc: doc}
}

// SetSource 设置来源；nil 表示关闭视差
func (s *ParallaxSystem) SetSource(src ParallaxSource) {
	s.source = src
}

// Update 更新全部视差位移
func (s *ParallaxSystem) Update() {
	em := s.doc.World()
	for _, e := range ecs.GetEntitiesWith2[*components.ParallaxComponent, *components.BoxComponent](em) {
		p, _ := ecs.GetComponent[*components.ParallaxComponent](em, e)
		if s.source == nil || p.Speed == 0 {
			p.Offset = 0
			continue
		}
		box, _ := ecs.GetComponent[*components.BoxComponent](em, e)
		anchor := box.Y + box.LayoutHeight/2 - s.doc.ViewportHeight()/2
		p.Offset = s.source.ParallaxAt(p.Speed, anchor)
	}
}
