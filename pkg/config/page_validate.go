package config

import (
	"fmt"
	"strings"

	"github.com/gonewx/vinyl/internal/ease"
	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/internal/splittext"
	"github.com/gonewx/vinyl/internal/timeline"
)

// invalid 以配置路径包装 ErrInvalidPage
func invalid(path string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidPage, path, fmt.Sprintf(format, args...))
}

// validatePageConfig 校验页面配置
//
// 只检查语法和引用关系；选择器是否能匹配到元素、标签是否存在
// 留到构建时间线时处理（匹配为空是合法的空操作）。
func validatePageConfig(cfg *PageConfig) error {
	if cfg.Route == "" {
		return invalid("route", "route is required")
	}
	if _, err := ParseColor(cfg.Background); err != nil {
		return invalid("background", "%v", err)
	}
	if cfg.Smoother.Smooth < 0 {
		return invalid("smoother.smooth", "must not be negative, got %g", cfg.Smoother.Smooth)
	}

	ids := make(map[string]bool)
	if err := validateElements("elements", cfg.Elements, ids); err != nil {
		return err
	}

	timelines := make(map[string]bool)
	for i := range cfg.Timelines {
		tl := &cfg.Timelines[i]
		path := fmt.Sprintf("timelines[%d]", i)
		if tl.Name == "" {
			return invalid(path+".name", "name is required")
		}
		if timelines[tl.Name] {
			return invalid(path+".name", "duplicate timeline %q", tl.Name)
		}
		timelines[tl.Name] = true
		if err := validateTimeline(path, tl); err != nil {
			return err
		}
	}

	for i := range cfg.Triggers {
		if err := validateTrigger(fmt.Sprintf("triggers[%d]", i), &cfg.Triggers[i], timelines); err != nil {
			return err
		}
	}

	for i := range cfg.Effects {
		ef := &cfg.Effects[i]
		path := fmt.Sprintf("effects[%d]", i)
		if ef.Name == "" {
			return invalid(path+".name", "name is required")
		}
		if ef.Pool == "" {
			return invalid(path+".pool", "pool selector is required")
		}
		if ef.Duration < 0 || ef.Hold < 0 || ef.Delay < 0 {
			return invalid(path, "durations must not be negative")
		}
		if err := validateEase(path+".ease", ef.Ease); err != nil {
			return err
		}
		if err := validateProps(path+".props", ef.Props); err != nil {
			return err
		}
	}

	if pb := cfg.Playback; pb != nil {
		if pb.Timeline == "" || !timelines[pb.Timeline] {
			return invalid("playback.timeline", "unknown timeline %q", pb.Timeline)
		}
		if pb.Toggle == "" {
			return invalid("playback.toggle", "toggle selector is required")
		}
	}
	return nil
}

func validateElements(path string, list []ElementConfig, ids map[string]bool) error {
	for i := range list {
		e := &list[i]
		p := fmt.Sprintf("%s[%d]", path, i)
		if e.ID != "" {
			if ids[e.ID] {
				return invalid(p+".id", "duplicate id %q", e.ID)
			}
			ids[e.ID] = true
		}
		for _, c := range e.Classes {
			if c == "" || strings.ContainsAny(c, " .#,") {
				return invalid(p+".classes", "bad class name %q", c)
			}
		}
		if _, err := e.ShapeKind(); err != nil {
			return invalid(p+".shape", "%v", err)
		}
		if e.Split != "" {
			if _, ok := splittext.ParseKind(e.Split); !ok {
				return invalid(p+".split", "unknown split kind %q", e.Split)
			}
			if e.Text == "" {
				return invalid(p+".split", "split requires text")
			}
		}
		if e.Shape == "clip" && e.Clip == "" {
			return invalid(p+".clip", "clip shape requires a clip name")
		}
		switch e.ClipLoop {
		case "", "repeat", "once":
		default:
			return invalid(p+".clipLoop", "must be repeat or once, got %q", e.ClipLoop)
		}
		if e.Width < 0 || e.Height < 0 {
			return invalid(p, "size must not be negative")
		}
		for key, col := range map[string]string{"color": e.Color, "accent": e.Accent} {
			if col == "" {
				continue
			}
			if _, err := ParseColor(col); err != nil {
				return invalid(p+"."+key, "%v", err)
			}
		}
		for class, col := range e.ClassColors {
			if _, err := ParseColor(col); err != nil {
				return invalid(p+".classColors."+class, "%v", err)
			}
		}
		if e.Click != "" && e.Click != "toggle" && !strings.HasPrefix(e.Click, "route:") {
			return invalid(p+".click", "unknown click action %q", e.Click)
		}
		if err := validateElements(p+".children", e.Children, ids); err != nil {
			return err
		}
	}
	return nil
}

func validateTimeline(path string, tl *TimelineConfig) error {
	if tl.Repeat < -1 {
		return invalid(path+".repeat", "must be -1 (infinite) or a non-negative count, got %d", tl.Repeat)
	}
	if err := validateEase(path+".defaults.ease", tl.Defaults.Ease); err != nil {
		return err
	}
	for j, l := range tl.Labels {
		lp := fmt.Sprintf("%s.labels[%d]", path, j)
		if l.Name == "" {
			return invalid(lp+".name", "name is required")
		}
		if _, err := timeline.ParsePosition(l.Position); err != nil {
			return invalid(lp+".position", "%v", err)
		}
	}
	for j := range tl.Tweens {
		tw := &tl.Tweens[j]
		tp := fmt.Sprintf("%s.tweens[%d]", path, j)
		if len(tw.Targets) == 0 {
			return invalid(tp+".targets", "at least one target is required")
		}
		if len(tw.To) == 0 {
			return invalid(tp+".to", "tween animates no properties")
		}
		for name := range tw.From {
			if _, ok := tw.To[name]; !ok {
				return invalid(tp+".from."+name, "from value needs a matching to value")
			}
		}
		if tw.Duration < 0 {
			return invalid(tp+".duration", "must not be negative")
		}
		if err := validateEase(tp+".ease", tw.Ease); err != nil {
			return err
		}
		if err := validateProps(tp+".to", tw.To); err != nil {
			return err
		}
		if err := validateProps(tp+".from", tw.From); err != nil {
			return err
		}
		if _, err := timeline.ParsePosition(tw.Position); err != nil {
			return invalid(tp+".position", "%v", err)
		}
		if st := tw.Stagger; st != nil {
			if st.Each < 0 || st.Amount < 0 {
				return invalid(tp+".stagger", "must not be negative")
			}
			if _, err := timeline.ParseOrder(st.Order); err != nil {
				return invalid(tp+".stagger.from", "%v", err)
			}
		}
	}
	return nil
}

func validateTrigger(path string, tr *TriggerConfig, timelines map[string]bool) error {
	if tr.Timeline != "" && !timelines[tr.Timeline] {
		return invalid(path+".timeline", "unknown timeline %q", tr.Timeline)
	}
	if _, err := scrolltrigger.ParseBoundary(orDefault(tr.Start, "top bottom"), false); err != nil {
		return invalid(path+".start", "%v", err)
	}
	if _, err := scrolltrigger.ParseBoundary(orDefault(tr.End, "bottom top"), true); err != nil {
		return invalid(path+".end", "%v", err)
	}
	if tr.Target == "" && tr.Pin {
		return invalid(path+".target", "a pinned trigger needs a target")
	}
	if _, err := scrolltrigger.ParseToggleActions(tr.ToggleActions); err != nil {
		return invalid(path+".toggleActions", "%v", err)
	}
	for k, th := range tr.Thresholds {
		if th <= 0 || th >= 1 {
			return invalid(fmt.Sprintf("%s.thresholds[%d]", path, k), "must be inside (0, 1), got %g", th)
		}
	}
	for k, rule := range tr.ToggleClass {
		rp := fmt.Sprintf("%s.toggleClass[%d]", path, k)
		if rule.Class == "" {
			return invalid(rp+".class", "class is required")
		}
		if rule.Target == "" && tr.Target == "" {
			return invalid(rp+".target", "target is required when the trigger has none")
		}
		switch rule.When {
		case "", "active":
		case "threshold":
			if rule.At <= 0 || rule.At >= 1 {
				return invalid(rp+".at", "must be inside (0, 1), got %g", rule.At)
			}
		default:
			return invalid(rp+".when", "must be active or threshold, got %q", rule.When)
		}
	}
	return nil
}

func validateEase(path, name string) error {
	if name == "" {
		return nil
	}
	if _, err := ease.Parse(name); err != nil {
		return invalid(path, "%v", err)
	}
	return nil
}

func validateProps(path string, props map[string]string) error {
	for name, v := range props {
		if _, err := timeline.ParseValue(v); err != nil {
			return invalid(path+"."+name, "%v", err)
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
