package scrolltrigger

import (
	"errors"
	"math"
	"testing"

	"github.com/gonewx/vinyl/internal/plugin"
	"github.com/gonewx/vinyl/internal/timeline"
)

type fakeLayout struct {
	rects   map[string]Rect
	vh      float64
	scroll  float64
	version uint64
}

func (l *fakeLayout) Bounds(sel string) (Rect, bool) {
	r, ok := l.rects[sel]
	return r, ok
}
func (l *fakeLayout) ViewportHeight() float64 { return l.vh }
func (l *fakeLayout) ScrollOffset() float64   { return l.scroll }
func (l *fakeLayout) Version() uint64         { return l.version }

type prop struct{ v map[string]float64 }

func (p *prop) Get(name string) (float64, bool) { v, ok := p.v[name]; return v, ok }
func (p *prop) Set(name string, v float64)      { p.v[name] = v }

func newLayout() *fakeLayout {
	return &fakeLayout{rects: map[string]Rect{}, vh: 800}
}

func newManager(t *testing.T, l Layout) *Manager {
	t.Helper()
	plugin.Ensure(Plugin)
	return NewManager(l)
}

func newTimeline(t *testing.T) (*timeline.Timeline, *prop) {
	t.Helper()
	target := &prop{v: map[string]float64{"x": 0}}
	tl := timeline.New(timeline.Options{Paused: true, Defaults: timeline.Defaults{Ease: "none"}})
	if err := tl.Add(timeline.Tween{Direct: timeline.Targets(target), Props: map[string]timeline.Value{"x": timeline.To(100)}, Duration: 2}, ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return tl, target
}

const dt = 1.0 / 60

// TestExactMapping start=0, end=500, scrub 精确绑定
func TestExactMapping(t *testing.T) {
	mgr := newManager(t, newLayout())
	tl, target := newTimeline(t)

	mp, err := mgr.Bind(Region{ID: "disc", Start: "0", End: "500", Scrub: ScrubExact}, tl)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	mgr.Sample(250)
	mgr.Update(dt)
	if mp.Progress() != 0.5 {
		t.Errorf("progress at 250 = %v, want 0.5", mp.Progress())
	}
	if tl.Progress() != 0.5 || target.v["x"] != 50 {
		t.Errorf("timeline progress = %v, x = %v", tl.Progress(), target.v["x"])
	}

	mgr.Sample(600)
	mgr.Update(dt)
	if mp.Progress() != 1.0 {
		t.Errorf("progress at 600 = %v, want 1.0", mp.Progress())
	}

	mgr.Sample(-40)
	mgr.Update(dt)
	if mp.Progress() != 0 {
		t.Errorf("progress at -40 = %v, want 0", mp.Progress())
	}
}

func TestBindRequiresPlugin(t *testing.T) {
	plugin.Reset()
	defer plugin.Ensure(Plugin)

	mgr := NewManager(newLayout())
	if _, err := mgr.Bind(Region{Start: "0", End: "10"}, nil); !errors.Is(err, ErrPluginNotRegistered) {
		t.Errorf("expected ErrPluginNotRegistered, got %v", err)
	}
}

func TestMonotonicProgress(t *testing.T) {
	l := newLayout()
	l.rects["#pin"] = Rect{Y: 1200, H: 600}
	mgr := newManager(t, l)
	mp, err := mgr.Bind(Region{Target: "#pin", Start: "top center", End: "+=300", Scrub: ScrubExact}, nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	prev := -1.0
	for s := 0.0; s <= 2000; s += 7 {
		mgr.Sample(s)
		p := mp.RawProgress()
		if p < prev {
			t.Fatalf("progress decreased at %v: %v < %v", s, p, prev)
		}
		if p < 0 || p > 1 {
			t.Fatalf("progress %v out of range at %v", p, s)
		}
		prev = p
	}
}

func TestBoundaryResolution(t *testing.T) {
	l := newLayout()
	l.rects[".box"] = Rect{Y: 1000, H: 400}
	mgr := newManager(t, l)

	tests := []struct {
		start, end     string
		wantS, wantEnd float64
	}{
		{"top bottom", "bottom top", 200, 1400},
		{"center center", "+=300", 800, 1100},
		{"top+=100 80%", "bottom-=50 top", 460, 1350},
		{"25% 0px", "100px 100", 1100, 1000},
		{"120", "-=20", 120, 100},
	}
	for _, tt := range tests {
		mp, err := mgr.Bind(Region{Target: ".box", Start: tt.start, End: tt.end}, nil)
		if err != nil {
			t.Fatalf("Bind(%q, %q): %v", tt.start, tt.end, err)
		}
		s, e := mp.Offsets()
		if math.Abs(s-tt.wantS) > 1e-9 || math.Abs(e-tt.wantEnd) > 1e-9 {
			t.Errorf("%q/%q = (%v, %v), want (%v, %v)", tt.start, tt.end, s, e, tt.wantS, tt.wantEnd)
		}
	}
}

func TestParseBoundaryErrors(t *testing.T) {
	for _, expr := range []string{"", "middle top", "top bottom extra", "top+=x center", "50%% top"} {
		if _, err := ParseBoundary(expr, true); !errors.Is(err, ErrBadBoundary) {
			t.Errorf("ParseBoundary(%q) error = %v, want ErrBadBoundary", expr, err)
		}
	}
	if _, err := ParseBoundary("+=300", false); !errors.Is(err, ErrBadBoundary) {
		t.Errorf("relative start should be rejected, got %v", err)
	}

	mgr := newManager(t, newLayout())
	if _, err := mgr.Bind(Region{Start: "sideways"}, nil); !errors.Is(err, ErrBadBoundary) {
		t.Errorf("Bind with bad start: %v", err)
	}
}

func TestScrubSmoothing(t *testing.T) {
	mgr := newManager(t, newLayout())
	tl, _ := newTimeline(t)
	mp, err := mgr.Bind(Region{Start: "0", End: "500", Scrub: ScrubSmooth(0.5)}, tl)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	mgr.Update(0.1)

	mgr.Sample(500)
	mgr.Update(0.1)
	if math.Abs(mp.Progress()-0.2) > 1e-9 {
		t.Fatalf("after one step progress = %v, want 0.2", mp.Progress())
	}
	mgr.Update(0.1)
	if math.Abs(mp.Progress()-0.36) > 1e-9 {
		t.Fatalf("after two steps progress = %v, want 0.36", mp.Progress())
	}

	prev := mp.Progress()
	for i := 0; i < 200; i++ {
		mgr.Update(0.1)
		if mp.Progress() < prev || mp.Progress() > 1 {
			t.Fatalf("smoothing overshot or went backwards: %v -> %v", prev, mp.Progress())
		}
		prev = mp.Progress()
	}
	if mp.Progress() != 1 {
		t.Errorf("smoothing did not settle, progress = %v", mp.Progress())
	}
	if math.Abs(tl.Progress()-1) > 1e-9 {
		t.Errorf("timeline progress = %v, want 1", tl.Progress())
	}
}

func TestEventSequence(t *testing.T) {
	mgr := newManager(t, newLayout())
	mp, err := mgr.Bind(Region{ID: "section", Start: "100", End: "200", Pin: true}, nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	var got []EventKind
	mp.Subscribe(func(ev Event) {
		got = append(got, ev.Kind)
		if ev.Trigger != "section" {
			t.Errorf("event trigger = %q", ev.Trigger)
		}
	})

	for _, s := range []float64{50, 150, 250, 150, 50, 250} {
		mgr.Sample(s)
		mgr.Update(dt)
	}

	want := []EventKind{
		EventEnter, EventPinStart,
		EventLeave, EventPinEnd,
		EventEnterBack, EventPinStart,
		EventLeaveBack, EventPinEnd,
		EventEnter, EventLeave,
	}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPinsReportState(t *testing.T) {
	l := newLayout()
	l.rects["#story"] = Rect{Y: 800, H: 800}
	mgr := newManager(t, l)
	if _, err := mgr.Bind(Region{Target: "#story", Start: "top top", End: "+=300", Pin: true, Markers: true}, nil); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	mgr.Sample(900)
	mgr.Update(dt)
	pins := mgr.Pins()
	if len(pins) != 1 || !pins[0].Active || pins[0].Start != 800 || pins[0].End != 1100 {
		t.Errorf("pins = %+v", pins)
	}
	if m := mgr.Markers(); len(m) != 1 || m[0].ID != "#story" {
		t.Errorf("markers = %+v", m)
	}
}

// TestPinOpenInterval 恰好位于起点或终点时进度为 0 或 1，不算固定
func TestPinOpenInterval(t *testing.T) {
	mgr := newManager(t, newLayout())
	mp, err := mgr.Bind(Region{Start: "100", End: "400", Pin: true}, nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	tests := []struct {
		scroll   float64
		progress float64
		pinned   bool
	}{
		{100, 0, false},
		{101, 1.0 / 300, true},
		{250, 0.5, true},
		{400, 1, false},
		{399, 299.0 / 300, true},
		{100, 0, false},
	}
	for _, tt := range tests {
		mgr.Sample(tt.scroll)
		mgr.Update(dt)
		if math.Abs(mp.Progress()-tt.progress) > 1e-9 {
			t.Errorf("scroll=%v progress = %v, want %v", tt.scroll, mp.Progress(), tt.progress)
		}
		if mp.Pinned() != tt.pinned {
			t.Errorf("scroll=%v pinned = %v, want %v", tt.scroll, mp.Pinned(), tt.pinned)
		}
		if pins := mgr.Pins(); len(pins) != 1 || pins[0].Active != tt.pinned {
			t.Errorf("scroll=%v pins = %+v", tt.scroll, pins)
		}
	}
}

func TestToggleActions(t *testing.T) {
	mgr := newManager(t, newLayout())
	tl, _ := newTimeline(t)
	acts, err := ParseToggleActions("play none none reverse")
	if err != nil {
		t.Fatalf("ParseToggleActions: %v", err)
	}
	if _, err := mgr.Bind(Region{Start: "100", End: "200", Actions: &acts}, tl); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	mgr.Sample(150)
	mgr.Update(dt)
	if tl.Paused() || tl.Reversed() {
		t.Fatalf("after enter: paused=%v reversed=%v", tl.Paused(), tl.Reversed())
	}

	tl.Advance(1)
	mgr.Sample(20)
	mgr.Update(dt)
	if tl.Paused() || !tl.Reversed() {
		t.Fatalf("after leaveBack: paused=%v reversed=%v", tl.Paused(), tl.Reversed())
	}
	if math.Abs(tl.Time()-1) > 1e-9 {
		t.Errorf("toggle actions must not move the playhead, time = %v", tl.Time())
	}
}

func TestParseToggleActions(t *testing.T) {
	got, err := ParseToggleActions("")
	if err != nil || got != DefaultToggleActions {
		t.Errorf("empty = %v, %v", got, err)
	}
	got, err = ParseToggleActions("restart pause resume reset")
	want := ToggleActions{ActionRestart, ActionPause, ActionResume, ActionReset}
	if err != nil || got != want {
		t.Errorf("got %v, %v", got, err)
	}
	for _, bad := range []string{"play", "play none none jump"} {
		if _, err := ParseToggleActions(bad); err == nil {
			t.Errorf("ParseToggleActions(%q) should fail", bad)
		}
	}
}

func TestThresholdEvents(t *testing.T) {
	mgr := newManager(t, newLayout())
	mp, err := mgr.Bind(Region{ID: "lyrics", Start: "100", End: "200", Thresholds: []float64{0.5}}, nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	var got []Event
	unsubscribe := mgr.Subscribe(func(ev Event) {
		if ev.Kind == EventThreshold {
			got = append(got, ev)
		}
	})
	defer unsubscribe()

	for _, s := range []float64{110, 175, 180, 120} {
		mgr.Sample(s)
		mgr.Update(dt)
	}

	if len(got) != 2 {
		t.Fatalf("threshold events = %+v, want 2", got)
	}
	if got[0].Direction != Forward || got[0].Threshold != 0.5 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Direction != Backward {
		t.Errorf("second = %+v", got[1])
	}
	if mp.Direction() != Backward {
		t.Errorf("direction = %v", mp.Direction())
	}
}

func TestOnUpdatePanicRecovered(t *testing.T) {
	mgr := newManager(t, newLayout())
	tl, target := newTimeline(t)
	calls := 0
	_, err := mgr.Bind(Region{Start: "0", End: "100", Scrub: ScrubExact, OnUpdate: func(p float64, _ Direction) {
		calls++
		panic("boom")
	}}, tl)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	mgr.Sample(25)
	mgr.Update(dt)
	mgr.Sample(75)
	mgr.Update(dt)

	if calls != 2 {
		t.Errorf("onUpdate calls = %d, want 2", calls)
	}
	if target.v["x"] != 75 {
		t.Errorf("sampling must continue after a panic, x = %v", target.v["x"])
	}
}

func TestPanickingListenerDoesNotBlockOthers(t *testing.T) {
	mgr := newManager(t, newLayout())
	mp, _ := mgr.Bind(Region{Start: "0", End: "100"}, nil)
	second := 0
	mp.Subscribe(func(Event) { panic("first") })
	mp.Subscribe(func(Event) { second++ })

	mgr.Sample(50)
	mgr.Update(dt)
	if second != 1 {
		t.Errorf("second listener calls = %d, want 1", second)
	}
}

// TestKillLeavesNoListener 解除绑定后不再有任何回调
func TestKillLeavesNoListener(t *testing.T) {
	mgr := newManager(t, newLayout())
	tl, target := newTimeline(t)
	fired := 0
	mp, _ := mgr.Bind(Region{Start: "0", End: "100", Scrub: ScrubExact, Thresholds: []float64{0.5},
		OnUpdate: func(float64, Direction) { fired++ }}, tl)
	mp.Subscribe(func(Event) { fired++ })

	mp.Kill()
	if mgr.Len() != 0 || !mp.Killed() {
		t.Fatalf("mapper still registered after Kill")
	}

	mgr.Sample(80)
	mgr.Update(dt)
	if fired != 0 {
		t.Errorf("callbacks after kill = %d, want 0", fired)
	}
	if target.v["x"] != 0 {
		t.Errorf("timeline written after kill, x = %v", target.v["x"])
	}
}

func TestKillDuringUpdate(t *testing.T) {
	mgr := newManager(t, newLayout())
	var second *Mapper
	calls := 0
	first, _ := mgr.Bind(Region{Start: "0", End: "100", OnUpdate: func(float64, Direction) { second.Kill() }}, nil)
	second, _ = mgr.Bind(Region{Start: "0", End: "100", OnUpdate: func(float64, Direction) { calls++ }}, nil)

	mgr.Sample(50)
	mgr.Update(dt)
	if calls != 0 {
		t.Errorf("mapper killed earlier in the same tick still ran")
	}
	if first.Killed() || !second.Killed() || mgr.Len() != 1 {
		t.Errorf("unexpected mapper state, len = %d", mgr.Len())
	}
}

func TestUnresolvedTargetIsNoop(t *testing.T) {
	l := newLayout()
	mgr := newManager(t, l)
	tl, target := newTimeline(t)
	mp, err := mgr.Bind(Region{Target: ".later", Start: "top top", End: "bottom top", Scrub: ScrubExact}, tl)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	mgr.Sample(100)
	mgr.Update(dt)
	if !mp.Inactive() || target.v["x"] != 0 {
		t.Fatalf("inactive = %v, x = %v", mp.Inactive(), target.v["x"])
	}

	// 元素出现后布局版本变化，下一帧自动刷新
	l.rects[".later"] = Rect{Y: 0, H: 200}
	l.version++
	mgr.Update(dt)
	if mp.Inactive() {
		t.Fatal("mapper should resolve after layout change")
	}
	if target.v["x"] != 50 {
		t.Errorf("x = %v, want 50", target.v["x"])
	}
}

func TestLayoutChangeMovesBoundaries(t *testing.T) {
	l := newLayout()
	l.rects["#a"] = Rect{Y: 1000, H: 100}
	mgr := newManager(t, l)
	mp, _ := mgr.Bind(Region{Target: "#a", Start: "top top", End: "bottom top"}, nil)

	// 版本未变化时沿用缓存的偏移
	l.rects["#a"] = Rect{Y: 1500, H: 100}
	mgr.Update(dt)
	if s, e := mp.Offsets(); s != 1000 || e != 1100 {
		t.Errorf("offsets = (%v, %v), want (1000, 1100)", s, e)
	}

	l.version++
	mgr.Update(dt)
	if s, e := mp.Offsets(); s != 1500 || e != 1600 {
		t.Errorf("offsets = (%v, %v), want (1500, 1600) after version bump", s, e)
	}

	l.rects["#a"] = Rect{Y: 2000, H: 100}
	mgr.Refresh()
	if s, _ := mp.Offsets(); s != 2000 {
		t.Errorf("start = %v, want 2000 after Refresh", s)
	}
}
