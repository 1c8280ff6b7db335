package systems

import (
	"github.com/gonewx/vinyl/internal/clip"
	"github.com/gonewx/vinyl/pkg/components"
	"github.com/gonewx/vinyl/pkg/dom"
	"github.com/gonewx/vinyl/pkg/ecs"
)

// ClipSystem 驱动元素上的模型动画
// AutoPause 的动画在元素离开视口时暂停，回到视口时继续
type ClipSystem struct {
	doc   *dom.Document
	mixer *clip.Mixer

	autoPaused map[*clip.Action]bool
}

// NewClipSystem 创建模型动画系统
func NewClipSystem(doc *dom.Document, mixer *clip.Mixer) *ClipSystem {
	return &ClipSystem{doc: doc, mixer: mixer, autoPaused: make(map[*clip.Action]bool)}
}

// Mixer 混合器
func (s *ClipSystem) Mixer() *clip.Mixer { return s.mixer }

// Update 处理自动暂停并推进混合器
func (s *ClipSystem) Update(dt float64) {
	em := s.doc.World()
	viewport := Rect{W: s.doc.ViewportWidth(), H: s.doc.ViewportHeight()}

	for _, e := range ecs.GetEntitiesWith1[*components.ClipViewComponent](em) {
		cv, _ := ecs.GetComponent[*components.ClipViewComponent](em, e)
		a := cv.Action
		if a == nil || !cv.AutoPause {
			continue
		}
		r, ok := ScreenRect(s.doc, e)
		visible := ok && r.Intersects(viewport)
		switch {
		case !visible && a.Running():
			a.Pause()
			s.autoPaused[a] = true
		case visible && s.autoPaused[a]:
			delete(s.autoPaused, a)
			a.Play()
		}
	}
	s.mixer.Update(dt)
}
