package systems

import (
	"testing"

	"github.com/gonewx/vinyl/internal/plugin"
	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/pkg/dom"
	"github.com/gonewx/vinyl/pkg/ecs"
)

func TestClassToggleSystem(t *testing.T) {
	plugin.Ensure(scrolltrigger.Plugin)
	d := dom.NewDocument(ecs.NewEntityManager(), 800, 600)
	a := d.CreateElement(dom.Root, "div", "a")

	mgr := scrolltrigger.NewManager(d)
	mp, err := mgr.Bind(scrolltrigger.Region{ID: "walk", Start: "0", End: "100", Thresholds: []float64{0.5}}, nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	sys := NewClassToggleSystem(d)
	unbind := sys.Bind(mp,
		ClassRule{Target: "#a", Class: "is-active", When: WhenActive},
		ClassRule{Target: "#a", Class: "halfway", When: WhenThreshold, At: 0.5},
	)

	step := func(scroll float64) {
		mgr.Sample(scroll)
		mgr.Update(1.0 / 60)
	}

	step(30)
	if !d.HasClass(a, "is-active") || d.HasClass(a, "halfway") {
		t.Errorf("at 30: classes = %v", d.Element(a).Classes)
	}
	step(70)
	if !d.HasClass(a, "halfway") {
		t.Error("crossing 0.5 forward should add halfway")
	}
	step(40)
	if d.HasClass(a, "halfway") {
		t.Error("crossing 0.5 backward should remove halfway")
	}
	step(200)
	if d.HasClass(a, "is-active") {
		t.Error("leaving the region should remove is-active")
	}

	step(50)
	unbind()
	if len(d.Element(a).Classes) != 0 {
		t.Errorf("unbind should revert classes, got %v", d.Element(a).Classes)
	}
	step(90)
	if len(d.Element(a).Classes) != 0 {
		t.Error("no class changes after unbind")
	}
}
