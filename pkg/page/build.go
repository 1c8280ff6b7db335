package page

import (
	"fmt"
	"image/color"
	"log"
	"sort"

	"github.com/gonewx/vinyl/internal/clip"
	"github.com/gonewx/vinyl/internal/splittext"
	"github.com/gonewx/vinyl/internal/timeline"
	"github.com/gonewx/vinyl/pkg/components"
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/ecs"
)

// fragmentClass 拆分片段使用的类名
var fragmentClass = map[splittext.Kind]string{
	splittext.Chars: "char",
	splittext.Words: "word",
	splittext.Lines: "line",
}

// buildElements 按配置创建元素树（静态文档，不随激活重建）
func (p *Page) buildElements(list []config.ElementConfig, parent ecs.EntityID) error {
	em := p.doc.World()
	for i := range list {
		ec := &list[i]
		e := p.doc.CreateElement(parent, ec.Tag, ec.ID, ec.Classes...)

		box, _ := ecs.GetComponent[*components.BoxComponent](em, e)
		box.Width, box.Height = ec.Width, ec.Height
		box.MarginTop, box.MarginBottom = ec.MarginTop, ec.MarginBottom
		box.Inline = ec.Inline

		if ec.Opacity != nil {
			st, _ := ecs.GetComponent[*components.StyleComponent](em, e)
			st.Opacity = *ec.Opacity
		}

		kind, err := ec.ShapeKind()
		if err != nil {
			return err
		}
		shape := &components.ShapeComponent{
			Kind:   kind,
			Color:  config.MustColor(ec.Color),
			Accent: config.MustColor(ec.Accent),
		}
		if len(ec.ClassColors) > 0 {
			shape.ClassColors = make(map[string]color.RGBA, len(ec.ClassColors))
			for class, c := range ec.ClassColors {
				shape.ClassColors[class] = config.MustColor(c)
			}
		}
		ecs.AddComponent(em, e, shape)

		if ec.Text != "" {
			p.buildText(e, ec, shape)
		}
		if ec.Speed != 0 {
			ecs.AddComponent(em, e, &components.ParallaxComponent{Speed: ec.Speed})
		}
		if ec.Clip != "" {
			p.buildClip(e, ec)
		}
		if ec.Click != "" {
			ecs.AddComponent(em, e, &components.ClickableComponent{IsEnabled: true, Action: ec.Click})
			ecs.AddComponent(em, e, &components.UIComponent{State: components.UINormal})
		}

		if err := p.buildElements(ec.Children, e); err != nil {
			return err
		}
	}
	return nil
}

// buildText 创建文本组件；拆分文本为每个片段创建一个子元素
func (p *Page) buildText(e ecs.EntityID, ec *config.ElementConfig, shape *components.ShapeComponent) {
	em := p.doc.World()
	txt := &components.TextComponent{Text: ec.Text, Size: ec.FontSize}
	ecs.AddComponent(em, e, txt)
	if ec.Split == "" {
		return
	}

	kind, _ := splittext.ParseKind(ec.Split)
	txt.Split = true
	txt.Kind = kind
	for _, f := range splittext.Split(ec.Text, kind) {
		class := fragmentClass[kind]
		if f.Space {
			class = "space"
		}
		child := p.doc.CreateElement(e, "span", "", class)
		box, _ := ecs.GetComponent[*components.BoxComponent](em, child)
		box.Inline = kind != splittext.Lines
		ecs.AddComponent(em, child, &components.FragmentComponent{Owner: e, Fragment: f})
		ecs.AddComponent(em, child, &components.ShapeComponent{
			Kind:        components.ShapeText,
			Color:       shape.Color,
			ClassColors: shape.ClassColors,
		})
	}
}

// buildClip 挂上模型动画；剪辑缺失时元素保持静止
func (p *Page) buildClip(e ecs.EntityID, ec *config.ElementConfig) {
	if p.opts.Clips == nil {
		log.Printf("[Page] Warning: no clip source, %q stays static", ec.Clip)
		return
	}
	c, err := p.opts.Clips.Clip(ec.Clip)
	if err != nil {
		log.Printf("[Page] Warning: clip %q unavailable: %v", ec.Clip, err)
		return
	}
	action := p.mixer.ClipAction(c)
	action.ClampWhenFinished = ec.ClipClamp
	if ec.ClipLoop == "once" {
		action.Loop = clip.LoopOnce
	}
	action.Play()
	ecs.AddComponent(p.doc.World(), e, &components.ClipViewComponent{
		Name:      ec.Clip,
		Action:    action,
		Scale:     ec.ClipScale,
		AutoPause: true,
	})
}

// buildTimeline 按配置组装时间线；未知标签等组合错误原样返回
func (p *Page) buildTimeline(tc *config.TimelineConfig, resolver timeline.Resolver, paused bool) (*timeline.Timeline, error) {
	tl := timeline.New(timeline.Options{
		Paused:      tc.Paused || paused,
		Repeat:      tc.Repeat,
		Yoyo:        tc.Yoyo,
		RepeatDelay: tc.RepeatDelay,
		Defaults:    timeline.Defaults{Ease: tc.Defaults.Ease, Duration: tc.Defaults.Duration},
		Resolver:    resolver,
		Rand:        p.rng,
	})
	for _, l := range tc.Labels {
		if err := tl.AddLabel(l.Name, l.Position); err != nil {
			return nil, fmt.Errorf("timeline %q label %q: %w", tc.Name, l.Name, err)
		}
	}
	for i := range tc.Tweens {
		tw, err := buildTween(&tc.Tweens[i])
		if err != nil {
			return nil, fmt.Errorf("timeline %q tween %d: %w", tc.Name, i, err)
		}
		if err := tl.Add(tw, tc.Tweens[i].Position); err != nil {
			return nil, fmt.Errorf("timeline %q tween %d: %w", tc.Name, i, err)
		}
	}
	return tl, nil
}

func buildTween(tc *config.TweenConfig) (timeline.Tween, error) {
	tw := timeline.Tween{
		Targets:  tc.Targets,
		Duration: tc.Duration,
		Instant:  tc.Set,
		Ease:     tc.Ease,
	}
	var err error
	if tw.Props, err = parseProps(tc.To); err != nil {
		return tw, err
	}
	if len(tc.From) > 0 {
		if tw.From, err = parseProps(tc.From); err != nil {
			return tw, err
		}
	}
	if st := tc.Stagger; st != nil {
		order, err := timeline.ParseOrder(st.Order)
		if err != nil {
			return tw, err
		}
		tw.Stagger = timeline.Stagger{Each: st.Each, Amount: st.Amount, Order: order}
	}
	return tw, nil
}

func parseProps(in map[string]string) (map[string]timeline.Value, error) {
	out := make(map[string]timeline.Value, len(in))
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, err := timeline.ParseValue(in[name])
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
