package engine

import (
	"math"
	"testing"

	"github.com/gonewx/vinyl/internal/timeline"
)

func TestStageOrdering(t *testing.T) {
	tk := NewTicker()
	var order []string
	// 注册顺序与执行阶段无关
	tk.AddHook("sync", func(float64) { order = append(order, "hook") })
	tk.AddAdvancer("disc", func(float64) { order = append(order, "advance") })
	tk.AddSampler("mapper", func(float64) { order = append(order, "sample") })

	tk.Tick(1.0 / 60)

	want := []string{"sample", "advance", "hook"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRemoveDuringTick(t *testing.T) {
	tk := NewTicker()
	ran := 0
	var hook *Handle
	tk.AddSampler("teardown", func(float64) { hook.Remove() })
	hook = tk.AddHook("effect", func(float64) { ran++ })

	tk.Tick(0.016)
	if ran != 0 {
		t.Errorf("removed hook ran %d times in the same tick", ran)
	}
	if !hook.Removed() || tk.Len(StageHook) != 0 {
		t.Errorf("hook still registered")
	}
	hook.Remove()
}

func TestRemoveSiblingInSameStage(t *testing.T) {
	tk := NewTicker()
	var second *Handle
	calls := 0
	tk.AddAdvancer("first", func(float64) { second.Remove() })
	second = tk.AddAdvancer("second", func(float64) { calls++ })
	tk.Tick(0.016)
	tk.Tick(0.016)
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestClockAndMaxStep(t *testing.T) {
	tk := NewTicker()
	var seen []float64
	tk.AddHook("dt", func(dt float64) { seen = append(seen, dt) })

	tk.Tick(0.02)
	tk.Tick(2)
	tk.Tick(-1)

	c := tk.Clock()
	if c.Frame != 3 {
		t.Errorf("frame = %d, want 3", c.Frame)
	}
	if math.Abs(c.Elapsed-0.12) > 1e-9 {
		t.Errorf("elapsed = %v, want 0.12", c.Elapsed)
	}
	if seen[1] != DefaultMaxStep || seen[2] != 0 {
		t.Errorf("dts = %v", seen)
	}
}

func TestPanicRecovered(t *testing.T) {
	tk := NewTicker()
	after := 0
	tk.AddSampler("bad", func(float64) { panic("sampler") })
	tk.AddAdvancer("good", func(float64) { after++ })
	tk.Tick(0.016)
	if after != 1 {
		t.Errorf("later stages must still run, after = %d", after)
	}
}

type spinner struct{ r float64 }

func (s *spinner) Get(string) (float64, bool) { return s.r, true }
func (s *spinner) Set(_ string, v float64)    { s.r = v }

func TestAddTimeline(t *testing.T) {
	tk := NewTicker()
	disc := &spinner{}
	tl := timeline.New(timeline.Options{Repeat: -1, Defaults: timeline.Defaults{Ease: "none"}})
	_ = tl.Add(timeline.Tween{Direct: timeline.Targets(disc), Props: map[string]timeline.Value{"rotation": timeline.By(360)}, Duration: 1}, "")

	h := tk.AddTimeline("disc", tl)
	tk.Tick(0.05)
	tk.Tick(0.05)
	if math.Abs(disc.r-36) > 1e-6 {
		t.Errorf("rotation = %v, want 36", disc.r)
	}

	tl.Kill()
	tk.Tick(0.05)
	if !h.Removed() || tk.Len(StageAdvance) != 0 {
		t.Error("killed timeline should be removed from the ticker")
	}
}

// TestScrollWritesBeforeAdvance 同一帧内采样阶段写入的进度先于自主推进生效
func TestScrollWritesBeforeAdvance(t *testing.T) {
	tk := NewTicker()
	var log []string
	scrolled := timeline.New(timeline.Options{Paused: true, OnUpdate: func() { log = append(log, "scroll") }})
	auto := timeline.New(timeline.Options{OnUpdate: func() { log = append(log, "auto") }})
	for _, tl := range []*timeline.Timeline{scrolled, auto} {
		_ = tl.Add(timeline.Tween{Direct: timeline.Targets(&spinner{}), Props: map[string]timeline.Value{"x": timeline.To(1)}, Duration: 1}, "")
	}

	tk.AddTimeline("auto", auto)
	tk.AddSampler("mapper", func(float64) { scrolled.SetProgress(0.5) })
	tk.Tick(0.016)

	if len(log) != 2 || log[0] != "scroll" || log[1] != "auto" {
		t.Errorf("write order = %v", log)
	}
}
