package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonewx/vinyl/pkg/components"
)

const samplePage = `route: home
title: "vinyl"
scope: "#home"
smoother:
  smooth: 2
  effects: true
elements:
  - tag: main
    id: home
    children:
      - tag: h1
        classes: [title]
        text: "没有永远的年轻"
        split: chars
      - classes: [box, box-a]
        shape: rect
        height: 120
        color: "#3b82f6"
        speed: 0.5
timelines:
  - name: reveal
    defaults: {ease: power2.out, duration: 0.5}
    labels:
      - {name: intro, position: "0"}
    tweens:
      - targets: ".title .char"
        from: {opacity: "0", y: "20"}
        to: {opacity: "1", y: "0"}
        stagger: 0.05
        position: intro
      - targets: [".box-a"]
        to: {rotation: "+=360"}
        stagger: {amount: 1, from: random}
        position: "<"
triggers:
  - target: ".box-a"
    timeline: reveal
    start: "center center"
    end: "+=300"
    scrub: 1.5
    pin: true
    markers: true
    toggleClass:
      - {class: halfway, when: threshold, at: 0.5}
`

func TestParsePageConfig(t *testing.T) {
	cfg, err := ParsePageConfig([]byte(samplePage))
	if err != nil {
		t.Fatalf("ParsePageConfig failed: %v", err)
	}

	if cfg.Route != "home" || cfg.Scope != "#home" {
		t.Errorf("route/scope = %q/%q", cfg.Route, cfg.Scope)
	}
	if cfg.Background != "#111111" {
		t.Errorf("default background = %q", cfg.Background)
	}

	title := cfg.Elements[0].Children[0]
	if title.Shape != "text" {
		t.Errorf("text element should default to shape text, got %q", title.Shape)
	}
	if title.FontSize != DefaultFontSize {
		t.Errorf("FontSize = %v, want %v", title.FontSize, DefaultFontSize)
	}
	if kind, _ := cfg.Elements[0].Children[1].ShapeKind(); kind != components.ShapeRect {
		t.Errorf("box shape = %v, want rect", kind)
	}
	if title.Color != DefaultForeground {
		t.Errorf("text without color = %q, want %q", title.Color, DefaultForeground)
	}
	if got := cfg.Elements[0].Children[1].Color; got != "#3b82f6" {
		t.Errorf("explicit color overwritten: %q", got)
	}
	if got := cfg.Elements[0].Color; got != "" {
		t.Errorf("shapeless container color = %q, want empty", got)
	}

	tw := cfg.Timelines[0].Tweens
	if tw[0].Stagger == nil || tw[0].Stagger.Each != 0.05 {
		t.Errorf("scalar stagger = %+v, want each 0.05", tw[0].Stagger)
	}
	if tw[1].Stagger.Amount != 1 || tw[1].Stagger.Order != "random" {
		t.Errorf("mapping stagger = %+v", tw[1].Stagger)
	}
	if len(tw[0].Targets) != 1 || tw[0].Targets[0] != ".title .char" {
		t.Errorf("scalar targets = %v", tw[0].Targets)
	}

	tr := cfg.Triggers[0]
	if !tr.Scrub.Enabled || tr.Scrub.Lag != 1.5 {
		t.Errorf("scrub = %+v, want smooth(1.5)", tr.Scrub)
	}
	if !tr.Pin || !tr.Markers {
		t.Error("pin and markers should be set")
	}
}

func replaceOnce(old, repl string) func(string) string {
	return func(s string) string { return strings.Replace(s, old, repl, 1) }
}

func TestParsePageConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s string) string
		wantSub string
	}{
		{"missing route", replaceOnce("route: home", ""), "route"},
		{"bad ease", replaceOnce("power2.out", "wobble"), "timelines[0].defaults.ease"},
		{"bad color", replaceOnce("#3b82f6", "blue"), "elements[0].children[1].color"},
		{"bad split", replaceOnce("split: chars", "split: glyphs"), "split"},
		{"bad boundary", replaceOnce(`"center center"`, `"middle middle"`), "triggers[0].start"},
		{"unknown timeline", replaceOnce("timeline: reveal", "timeline: nope"), "triggers[0].timeline"},
		{"bad position", replaceOnce(`position: "<"`, `position: "<x"`), "tweens[1].position"},
		{"bad value", replaceOnce(`"+=360"`, `"+=spin"`), "tweens[1].to.rotation"},
		{"from without to", replaceOnce(`from: {opacity: "0", y: "20"}`, `from: {opacity: "0", x: "20"}`), "tweens[0].from.x"},
		{"bad threshold", replaceOnce("at: 0.5", "at: 1.5"), "toggleClass[0].at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePageConfig([]byte(tt.mutate(samplePage)))
			if !errors.Is(err, ErrInvalidPage) {
				t.Fatalf("error = %v, want ErrInvalidPage", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should name %q", err, tt.wantSub)
			}
		})
	}
}

func TestParsePageConfigUnknownLabelIsDeferred(t *testing.T) {
	// 标签引用在构建时间线时才检查
	page := strings.Replace(samplePage, "position: intro", "position: outro+=1", 1)
	if _, err := ParsePageConfig([]byte(page)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadPageConfig(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "home.yaml")
		if err := os.WriteFile(path, []byte(samplePage), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}
		cfg, err := LoadPageConfig(path)
		if err != nil {
			t.Fatalf("LoadPageConfig failed: %v", err)
		}
		if len(cfg.Timelines) != 1 {
			t.Errorf("timelines = %d, want 1", len(cfg.Timelines))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadPageConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		a       uint8
		wantErr bool
	}{
		{"#fff", 255, 255, 255, 255, false},
		{"#3b82f6", 0x3b, 0x82, 0xf6, 255, false},
		{"#00000080", 0, 0, 0, 0x80, false},
		{"blue", 0, 0, 0, 0, true},
		{"#12345", 0, 0, 0, 0, true},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (c.R != tt.r || c.G != tt.g || c.B != tt.b || c.A != tt.a) {
			t.Errorf("ParseColor(%q) = %v", tt.in, c)
		}
	}
}

func TestShippedPageConfigs(t *testing.T) {
	for _, path := range []string{"../../data/pages/home.yaml", "../../data/pages/lyrics.yaml"} {
		cfg, err := LoadPageConfig(path)
		if err != nil {
			t.Errorf("%s: %v", path, err)
			continue
		}
		if cfg.Playback == nil || cfg.Playback.Toggle == "" {
			t.Errorf("%s: playback toggle missing", path)
		}
	}

	home, err := LoadPageConfig("../../data/pages/home.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if home.Compat.RebuildOnToggle {
		t.Error("home should keep its structure across toggles")
	}
	lyrics, err := LoadPageConfig("../../data/pages/lyrics.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !lyrics.Compat.RebuildOnToggle {
		t.Error("lyrics page is expected to run in rebuild compat mode")
	}
}
