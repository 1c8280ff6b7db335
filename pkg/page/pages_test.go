package page

import (
	"math/rand"
	"testing"

	"github.com/gonewx/vinyl/internal/plugin"
	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/internal/smoother"
	"github.com/gonewx/vinyl/pkg/config"
)

// TestShippedPagesActivate 随程序发布的页面都能完整激活
func TestShippedPagesActivate(t *testing.T) {
	plugin.Ensure(scrolltrigger.Plugin, smoother.Plugin)

	tests := []struct {
		path      string
		timelines int
		triggers  int
		effects   int
	}{
		{"../../data/pages/home.yaml", 5, 4, 1},
		{"../../data/pages/lyrics.yaml", 4, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cfg, err := config.LoadPageConfig(tt.path)
			if err != nil {
				t.Fatalf("LoadPageConfig: %v", err)
			}
			p, err := New(Options{Config: cfg, Rand: rand.New(rand.NewSource(1))})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if err := p.Enter(); err != nil {
				t.Fatalf("Enter: %v", err)
			}
			if !p.Active() {
				t.Fatal("page should be active after Enter")
			}
			if got := len(cfg.Timelines); got != tt.timelines {
				t.Errorf("timelines = %d, want %d", got, tt.timelines)
			}
			for _, tc := range cfg.Timelines {
				if p.Timeline(tc.Name) == nil {
					t.Errorf("timeline %q was not built", tc.Name)
				}
			}
			if got := len(p.Triggers().Mappers()); got != tt.triggers {
				t.Errorf("mappers = %d, want %d", got, tt.triggers)
			}
			if got := len(p.Effects()); got != tt.effects {
				t.Errorf("effects = %d, want %d", got, tt.effects)
			}

			p.Scroll().Jump(600)
			run(p, 1)
			p.Toggle()
			run(p, 0.5)
			p.Leave()
			if p.Active() {
				t.Error("page still active after Leave")
			}
		})
	}
}

func TestClipDir(t *testing.T) {
	c, err := ClipDir("../../data/models").Clip("desktop")
	if err != nil {
		t.Fatalf("Clip: %v", err)
	}
	if len(c.Tracks()) != 4 {
		t.Errorf("tracks = %v", c.Tracks())
	}
	if _, err := ClipDir("../../data/models").Clip("nope"); err == nil {
		t.Error("missing clip should fail")
	}
}
