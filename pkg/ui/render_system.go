// Package ui 页面的 Ebitengine 表现层：绘制文档并把鼠标键盘输入交给页面
package ui

import (
	"image/color"
	"log"
	"math"

	"github.com/gonewx/vinyl/pkg/components"
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/dom"
	"github.com/gonewx/vinyl/pkg/ecs"
	"github.com/gonewx/vinyl/pkg/page"
	"github.com/gonewx/vinyl/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 调试标记和滚动轨道的颜色
var (
	trackColor       = color.RGBA{R: 60, G: 60, B: 60, A: 160}
	thumbColor       = color.RGBA{R: 200, G: 200, B: 200, A: 200}
	markerStartColor = color.RGBA{R: 0, G: 200, B: 90, A: 255}
	markerEndColor   = color.RGBA{R: 230, G: 60, B: 60, A: 255}
)

const (
	trackWidth = 6
	// clipPartSize 剪辑中每个部件在缩放 1 时的边长
	clipPartSize = 24.0
)

// FaceSource 按字号提供字体（game.ResourceManager）
type FaceSource interface {
	Face(size float64) (*text.GoTextFace, error)
}

// RenderSystem 按文档顺序绘制页面元素
type RenderSystem struct {
	page  *page.Page
	faces FaceSource
	bg    color.RGBA
	pixel *ebiten.Image

	warned bool
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(p *page.Page, faces FaceSource) *RenderSystem {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &RenderSystem{
		page:  p,
		faces: faces,
		bg:    config.MustColor(p.Config().Background),
		pixel: pixel,
	}
}

// Draw 绘制整页
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	screen.Fill(s.bg)

	doc := s.page.Document()
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
		clr := systems.ResolveColor(shape, s.classes(doc, e), st.Glow, opacity)

		switch shape.Kind {
		case components.ShapeRect:
			s.drawQuad(screen, r.X+r.W/2, r.Y+r.H/2, r.W*st.Scale, r.H*st.Scale, st.Rotation, clr)
		case components.ShapeDisc:
			s.drawDisc(screen, r, st, clr, systems.Fade(shape.Accent, opacity))
		case components.ShapeLine:
			vector.StrokeLine(screen, float32(r.X), float32(r.Y+r.H/2), float32(r.X+r.W), float32(r.Y+r.H/2), 2, clr, true)
		case components.ShapeText:
			s.drawText(screen, doc, e, r, clr)
		case components.ShapeClip:
			s.drawClip(screen, em, e, r, opacity, clr)
		}
	}

	s.drawTrack(screen, doc)
}

// classes 元素类名（包括指针状态类名）
func (s *RenderSystem) classes(doc *dom.Document, e ecs.EntityID) []string {
	el := doc.Element(e)
	if el == nil {
		return nil
	}
	return el.Classes
}

// drawQuad 以 (cx, cy) 为中心绘制旋转后的矩形
func (s *RenderSystem) drawQuad(screen *ebiten.Image, cx, cy, w, h, degrees float64, clr color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Rotate(degrees * math.Pi / 180)
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(s.pixel, op)
}

// drawDisc 唱片：圆盘加一条跟随旋转的刻线
func (s *RenderSystem) drawDisc(screen *ebiten.Image, r systems.Rect, st *components.StyleComponent, clr, accent color.RGBA) {
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	radius := math.Min(r.W, r.H) / 2 * st.Scale
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(radius), clr, true)
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(radius*0.18), accent, true)

	a := st.Rotation * math.Pi / 180
	x0, y0 := cx+math.Cos(a)*radius*0.3, cy+math.Sin(a)*radius*0.3
	x1, y1 := cx+math.Cos(a)*radius*0.9, cy+math.Sin(a)*radius*0.9
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 3, accent, true)
}

// drawText 绘制文本：普通文本按盒子宽度换行，拆分片段单独绘制
func (s *RenderSystem) drawText(screen *ebiten.Image, doc *dom.Document, e ecs.EntityID, r systems.Rect, clr color.RGBA) {
	em := doc.World()
	if frag, ok := ecs.GetComponent[*components.FragmentComponent](em, e); ok {
		if frag.Fragment.Space {
			return
		}
		owner, _ := ecs.GetComponent[*components.TextComponent](em, frag.Owner)
		if owner == nil {
			return
		}
		s.drawLine(screen, frag.Fragment.Text, owner.Size, r.X, r.Y, clr)
		return
	}

	txt, ok := ecs.GetComponent[*components.TextComponent](em, e)
	if !ok || txt.Split {
		return
	}
	lineH := txt.Size * config.LineSpacing
	for i, line := range systems.WrapText(txt.Text, txt.Size, r.W) {
		s.drawLine(screen, line, txt.Size, r.X, r.Y+float64(i)*lineH, clr)
	}
}

func (s *RenderSystem) drawLine(screen *ebiten.Image, str string, size, x, y float64, clr color.RGBA) {
	face, err := s.faces.Face(size)
	if err != nil {
		if !s.warned {
			log.Printf("[Render] Warning: no font face: %v", err)
			s.warned = true
		}
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.LineSpacing = size * config.LineSpacing
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, face, op)
}

// drawClip 模型动画：每条轨道是一个按姿态变换的方块
func (s *RenderSystem) drawClip(screen *ebiten.Image, em *ecs.EntityManager, e ecs.EntityID, r systems.Rect, opacity float64, clr color.RGBA) {
	view, ok := ecs.GetComponent[*components.ClipViewComponent](em, e)
	if !ok || view.Action == nil {
		// 剪辑缺失：画一个占位框
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, clr, true)
		return
	}
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	for _, track := range view.Action.Clip().Tracks() {
		pose := view.Action.Pose(track)
		w := clipPartSize * pose.ScaleX * view.Scale
		h := clipPartSize * pose.ScaleY * view.Scale
		c := systems.Fade(clr, pose.Alpha)
		s.drawQuad(screen, cx+pose.X*view.Scale, cy+pose.Y*view.Scale, w, h, pose.Rotation, c)
	}
}

// drawTrack 右侧滚动轨道：当前位置和各触发区域的起止标记
func (s *RenderSystem) drawTrack(screen *ebiten.Image, doc *dom.Document) {
	maxScroll := doc.MaxScroll()
	if maxScroll <= 0 {
		return
	}
	w, h := doc.ViewportWidth(), doc.ViewportHeight()
	x := float32(w - trackWidth - 2)
	vector.DrawFilledRect(screen, x, 0, trackWidth, float32(h), trackColor, true)

	thumb := systems.TrackY(doc.ScrollOffset(), maxScroll, h-20)
	vector.DrawFilledRect(screen, x, float32(thumb), trackWidth, 20, thumbColor, true)

	tr := s.page.Triggers()
	if tr == nil {
		return
	}
	for _, m := range tr.Markers() {
		for _, mk := range []struct {
			at  float64
			clr color.RGBA
		}{{m.Start, markerStartColor}, {m.End, markerEndColor}} {
			y := float32(systems.TrackY(mk.at, maxScroll, h))
			vector.StrokeLine(screen, x-10, y, x+trackWidth, y, 2, mk.clr, true)
		}
	}
}
