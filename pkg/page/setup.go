package page

import (
	"fmt"
	"log"

	"github.com/gonewx/vinyl/internal/effect"
	"github.com/gonewx/vinyl/internal/engine"
	"github.com/gonewx/vinyl/internal/lifecycle"
	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/internal/smoother"
	"github.com/gonewx/vinyl/internal/timeline"
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/dom"
	"github.com/gonewx/vinyl/pkg/systems"
)

// setupShell 外壳激活：页面级平滑滚动和视差
func (p *Page) setupShell(s *lifecycle.Scope) error {
	smooth := p.cfg.Smoother.Smooth
	effects := p.cfg.Smoother.Effects
	if p.opts.ReducedMotion {
		smooth, effects = 0, false
	}
	sm, err := smoother.New(smooth, effects)
	if err != nil {
		return err
	}

	p.scroll.SetSmoother(sm)
	s.Defer(func() { p.scroll.SetSmoother(nil) })
	if effects {
		p.parallax.SetSource(sm)
		s.Defer(func() { p.parallax.SetSource(nil) })
	}

	p.scroll.Jump(0)
	return nil
}

// setupStructure 结构激活：时间线、触发区域、递归效果和播放绑定
//
// 前置条件不满足时直接返回错误，此前登记的资源由生命周期管理器回收。
func (p *Page) setupStructure(s *lifecycle.Scope) error {
	scope := p.doc.Scoped(p.cfg.Scope)
	if err := s.Require(p.cfg.Scope, scope.Found()); err != nil {
		return err
	}
	pb := p.cfg.Playback
	if pb != nil {
		if err := s.Require(pb.Toggle, len(scope.Query(pb.Toggle)) > 0); err != nil {
			return err
		}
	}

	// 最先登记、最后执行：时间线全部销毁后再把写过的样式还原
	rec := timeline.NewRecorder()
	s.Defer(rec.Revert)
	resolver := rec.Resolver(scope)

	timelines := make(map[string]*timeline.Timeline, len(p.cfg.Timelines))
	var effects []*effect.Recursive
	p.timelines, p.effects = timelines, nil
	s.Defer(func() {
		p.timelines = make(map[string]*timeline.Timeline)
		p.effects = nil
		p.triggers = nil
	})

	mgr := scrolltrigger.NewManager(scope)
	p.triggers = mgr
	h := p.ticker.AddSampler("triggers", mgr.Update)
	s.Defer(h.Remove)
	p.scroll.OnScroll(mgr.Sample)
	s.Defer(func() { p.scroll.OnScroll(nil) })
	p.pins.SetSource(mgr)
	s.Defer(func() { p.pins.SetSource(nil) })

	// 被触发区域驱动的时间线和初始暂停的播放时间线都以暂停状态创建
	driven := make(map[string]bool)
	for _, tc := range p.cfg.Triggers {
		if tc.Timeline != "" {
			driven[tc.Timeline] = true
		}
	}
	for i := range p.cfg.Timelines {
		tc := &p.cfg.Timelines[i]
		paused := driven[tc.Name]
		if pb != nil && pb.Timeline == tc.Name && !p.playback.IsPlaying() {
			paused = true
		}
		tl, err := p.buildTimeline(tc, resolver, paused)
		if err != nil {
			return err
		}
		s.Own(tl)
		th := p.ticker.AddTimeline(tc.Name, tl)
		s.Defer(th.Remove)
		timelines[tc.Name] = tl
	}

	toggles := systems.NewClassToggleSystem(scope)
	for i := range p.cfg.Triggers {
		tc := &p.cfg.Triggers[i]
		region, rules, err := buildRegion(tc)
		if err != nil {
			return err
		}
		mp, err := mgr.Bind(region, timelines[tc.Timeline])
		if err != nil {
			return fmt.Errorf("trigger %q: %w", region.ID, err)
		}
		s.Own(mp)
		if len(rules) > 0 {
			s.Defer(toggles.Bind(mp, rules...))
		}
	}

	if !p.opts.ReducedMotion {
		for i := range p.cfg.Effects {
			fx, err := p.startEffect(&p.cfg.Effects[i], scope.Resolve(p.cfg.Effects[i].Pool))
			if err != nil {
				return err
			}
			s.Own(fx)
			effects = append(effects, fx)
		}
	}
	p.effects = effects

	if pb != nil {
		p.bindPlayback(s, scope, pb, timelines[pb.Timeline])
	}

	log.Printf("[Page] %s: activated (%d timelines, %d triggers, %d effects)",
		p.cfg.Route, len(timelines), mgr.Len(), len(effects))
	return nil
}

// buildRegion 把触发配置转换为区域和类名规则
// 阈值规则使用的进度值合并进区域的阈值列表
func buildRegion(tc *config.TriggerConfig) (scrolltrigger.Region, []systems.ClassRule, error) {
	region := scrolltrigger.Region{
		ID:         tc.ID,
		Target:     tc.Target,
		Start:      tc.Start,
		End:        tc.End,
		Scrub:      tc.Scrub,
		Pin:        tc.Pin,
		Thresholds: append([]float64(nil), tc.Thresholds...),
		Markers:    tc.Markers,
	}
	if tc.ToggleActions != "" {
		acts, err := scrolltrigger.ParseToggleActions(tc.ToggleActions)
		if err != nil {
			return region, nil, fmt.Errorf("trigger %q: %w", tc.ID, err)
		}
		region.Actions = &acts
	}

	var rules []systems.ClassRule
	for _, rc := range tc.ToggleClass {
		rule := systems.ClassRule{Target: rc.Target, Class: rc.Class, At: rc.At}
		if rule.Target == "" {
			rule.Target = tc.Target
		}
		if rc.When == "threshold" {
			rule.When = systems.WhenThreshold
			if !containsFloat(region.Thresholds, rc.At) {
				region.Thresholds = append(region.Thresholds, rc.At)
			}
		}
		rules = append(rules, rule)
	}
	return region, rules, nil
}

// startEffect 创建并启动一个递归效果，并挂上每帧推进的钩子
// 钩子在效果进入 TornDown 后自行移除，因此离开页面时进行中的周期仍会播完
func (p *Page) startEffect(ec *config.EffectConfig, pool []timeline.Target) (*effect.Recursive, error) {
	props, err := parseProps(ec.Props)
	if err != nil {
		return nil, fmt.Errorf("effect %q: %w", ec.Name, err)
	}
	fx := &effect.Recursive{
		Name:     ec.Name,
		Pool:     pool,
		Pick:     ec.Pick,
		Props:    props,
		Duration: ec.Duration,
		Hold:     ec.Hold,
		Delay:    ec.Delay,
		Ease:     ec.Ease,
		Rand:     p.rng,
	}
	if err := fx.Start(); err != nil {
		return nil, err
	}

	var h *engine.Handle
	h = p.ticker.AddHook("effect/"+ec.Name, func(dt float64) {
		fx.Update(dt)
		if fx.State() == effect.TornDown {
			h.Remove()
		}
	})
	return fx, nil
}

// bindPlayback 把播放控制绑定到本次激活的时间线和媒体元素
func (p *Page) bindPlayback(s *lifecycle.Scope, scope *dom.Scope, pb *config.PlaybackConfig, tl *timeline.Timeline) {
	if p.opts.Media != nil {
		p.playback.BindMedia(p.opts.Media)
	}
	if tl != nil {
		p.playback.Bind(tl)
	}
	s.Defer(p.playback.Unbind)

	if pb.Class == "" {
		return
	}
	scope.SetClass(pb.Toggle, pb.Class, p.playback.IsPlaying())
	unsub := p.playback.OnChange(func(playing bool) {
		scope.SetClass(pb.Toggle, pb.Class, playing)
	})
	s.Defer(func() {
		unsub()
		scope.SetClass(pb.Toggle, pb.Class, false)
	})
}

func containsFloat(list []float64, v float64) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
