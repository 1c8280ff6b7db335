package timeline

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"
)

// 测试用目标：记录属性值与写入次数
type fakeTarget struct {
	props  map[string]float64
	writes int
}

func newFakeTarget(props map[string]float64) *fakeTarget {
	if props == nil {
		props = map[string]float64{}
	}
	return &fakeTarget{props: props}
}

func (f *fakeTarget) Get(prop string) (float64, bool) {
	v, ok := f.props[prop]
	return v, ok
}

func (f *fakeTarget) Set(prop string, value float64) {
	f.props[prop] = value
	f.writes++
}

type fakeResolver map[string][]Target

func (r fakeResolver) Resolve(selector string) []Target {
	return r[selector]
}

const epsilon = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// TestSimultaneousSegments 第二段以 "<" 与第一段同时开始，中点处两者都完成 50%
func TestSimultaneousSegments(t *testing.T) {
	a := newFakeTarget(map[string]float64{"x": 0})
	b := newFakeTarget(map[string]float64{"y": 0})

	tl := New(Options{Paused: true, Defaults: Defaults{Ease: "none"}})
	if err := tl.Add(Tween{Direct: []Target{a}, Props: map[string]Value{"x": To(100)}, Duration: 2}, ""); err != nil {
		t.Fatalf("Add first: %v", err)
	}
	if err := tl.Add(Tween{Direct: []Target{b}, Props: map[string]Value{"y": To(10)}, Duration: 2}, "<"); err != nil {
		t.Fatalf("Add second: %v", err)
	}

	if !near(tl.Duration(), 2) {
		t.Fatalf("Duration = %v, want 2", tl.Duration())
	}

	tl.Seek(tl.Duration() / 2)

	segs := tl.Segments()
	for i, s := range segs {
		if !near(s.Progress, 0.5) {
			t.Errorf("segment %d progress = %v, want 0.5", i, s.Progress)
		}
	}
	if !near(a.props["x"], 50) || !near(b.props["y"], 5) {
		t.Errorf("values = (%v, %v), want (50, 5)", a.props["x"], b.props["y"])
	}
}

// TestSequentialFadeIns 六段顺序淡入，每段 0.5 秒
func TestSequentialFadeIns(t *testing.T) {
	tl := New(Options{Paused: true, Defaults: Defaults{Ease: "none"}})

	targets := make([]*fakeTarget, 6)
	for i := range targets {
		targets[i] = newFakeTarget(map[string]float64{"opacity": 0})
		err := tl.Add(Tween{
			Direct:   []Target{targets[i]},
			Props:    map[string]Value{"opacity": To(1)},
			Duration: 0.5,
		}, "")
		if err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}

	if !near(tl.Duration(), 3.0) {
		t.Fatalf("Duration = %v, want 3.0", tl.Duration())
	}

	tl.Seek(2.6)

	completed := 0
	for _, tg := range targets[:5] {
		if near(tg.props["opacity"], 1) {
			completed++
		}
	}
	if completed != 5 {
		t.Errorf("completed = %d, want 5", completed)
	}
	if !near(targets[5].props["opacity"], 0.2) {
		t.Errorf("sixth opacity = %v, want 0.2", targets[5].props["opacity"])
	}
	if p := tl.Segments()[5].Progress; !near(p, 0.2) {
		t.Errorf("sixth progress = %v, want 0.2", p)
	}
}

// TestSetProgressIdempotent 相同进度重复设置得到相同的渲染结果
func TestSetProgressIdempotent(t *testing.T) {
	disc := newFakeTarget(map[string]float64{"rotation": 0})
	title := newFakeTarget(map[string]float64{"opacity": 0, "y": 40})

	tl := New(Options{Paused: true})
	_ = tl.Add(Tween{Direct: []Target{disc}, Props: map[string]Value{"rotation": By(360)}, Duration: 1, Ease: "power2.inOut"}, "")
	_ = tl.Add(Tween{Direct: []Target{title}, Props: map[string]Value{"opacity": To(1), "y": To(0)}, Duration: 1}, "<0.5")

	for _, p := range []float64{0, 0.1, 0.33, 0.5, 0.75, 0.99, 1, 0.2} {
		tl.SetProgress(p)
		first := []float64{disc.props["rotation"], title.props["opacity"], title.props["y"]}
		tl.SetProgress(p)
		second := []float64{disc.props["rotation"], title.props["opacity"], title.props["y"]}
		for i := range first {
			if !near(first[i], second[i]) {
				t.Errorf("p=%v value %d: %v then %v", p, i, first[i], second[i])
			}
		}
	}
}

// TestOverlapLastWriteWins 同一目标上重叠的片段，后添加者在重叠帧上获胜
func TestOverlapLastWriteWins(t *testing.T) {
	box := newFakeTarget(map[string]float64{"x": 0})
	tl := New(Options{Paused: true, Defaults: Defaults{Ease: "none"}})
	_ = tl.Add(Tween{Direct: []Target{box}, Props: map[string]Value{"x": To(100)}, Duration: 1}, "0")
	_ = tl.Add(Tween{Direct: []Target{box}, Props: map[string]Value{"x": To(200)}, Duration: 1}, "0.5")

	tl.Seek(0.5)
	if !near(box.props["x"], 50) {
		t.Fatalf("x at 0.5 = %v, want 50", box.props["x"])
	}

	// 第二段在 0.5 处记录起始值 50，1.0 时进度 0.5 → 125
	tl.Seek(1.0)
	if !near(box.props["x"], 125) {
		t.Errorf("x at 1.0 = %v, want 125", box.props["x"])
	}
}

// TestChainedSameProperty 连续片段首尾相接，向后跳转能还原
func TestChainedSameProperty(t *testing.T) {
	box := newFakeTarget(map[string]float64{"x": 0})
	tl := New(Options{Paused: true, Defaults: Defaults{Ease: "none"}})
	_ = tl.Add(Tween{Direct: []Target{box}, Props: map[string]Value{"x": To(100)}, Duration: 1}, "")
	_ = tl.Add(Tween{Direct: []Target{box}, Props: map[string]Value{"x": To(0)}, Duration: 1}, ">")

	tl.Seek(1.5)
	if !near(box.props["x"], 50) {
		t.Fatalf("x at 1.5 = %v, want 50", box.props["x"])
	}
	tl.Seek(0.25)
	if !near(box.props["x"], 25) {
		t.Errorf("x at 0.25 = %v, want 25", box.props["x"])
	}
	tl.Seek(2)
	if !near(box.props["x"], 0) {
		t.Errorf("x at 2 = %v, want 0", box.props["x"])
	}
}

func TestLabels(t *testing.T) {
	a := newFakeTarget(nil)
	tl := New(Options{Paused: true})
	if err := tl.AddLabel("chorus", "2"); err != nil {
		t.Fatalf("AddLabel: %v", err)
	}
	if err := tl.Add(Tween{Direct: []Target{a}, Props: map[string]Value{"x": To(1)}, Duration: 1}, "chorus+=0.5"); err != nil {
		t.Fatalf("Add at label: %v", err)
	}
	if s := tl.Segments()[0].Start; !near(s, 2.5) {
		t.Errorf("start = %v, want 2.5", s)
	}

	err := tl.Add(Tween{Direct: []Target{a}, Props: map[string]Value{"x": To(2)}}, "bridge")
	if !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("expected ErrUnknownLabel, got %v", err)
	}
	if len(tl.Segments()) != 1 {
		t.Errorf("failed Add must not append segments")
	}
}

func TestNegativeStartRejected(t *testing.T) {
	tl := New(Options{Paused: true})
	_ = tl.Add(Tween{Direct: []Target{newFakeTarget(nil)}, Props: map[string]Value{"x": To(1)}, Duration: 1}, "")

	err := tl.Add(Tween{Direct: []Target{newFakeTarget(nil)}, Props: map[string]Value{"x": To(1)}}, "<-2")
	if !errors.Is(err, ErrNegativeStart) {
		t.Errorf("expected ErrNegativeStart, got %v", err)
	}
}

func TestRelativeOffsets(t *testing.T) {
	tl := New(Options{Paused: true})
	add := func(pos string) {
		t.Helper()
		if err := tl.Add(Tween{Direct: []Target{newFakeTarget(nil)}, Props: map[string]Value{"x": To(1)}, Duration: 1}, pos); err != nil {
			t.Fatalf("Add(%q): %v", pos, err)
		}
	}
	add("")       // 0 - 1
	add(">-0.25") // 0.75 - 1.75
	add("+=1")    // 2.75 - 3.75
	add("<")      // 2.75 - 3.75

	want := []float64{0, 0.75, 2.75, 2.75}
	for i, s := range tl.Segments() {
		if !near(s.Start, want[i]) {
			t.Errorf("segment %d start = %v, want %v", i, s.Start, want[i])
		}
	}
	if !near(tl.Duration(), 3.75) {
		t.Errorf("Duration = %v, want 3.75", tl.Duration())
	}
}

func TestRepeatYoyo(t *testing.T) {
	box := newFakeTarget(map[string]float64{"x": 0})
	tl := New(Options{Paused: true, Repeat: 1, Yoyo: true, Defaults: Defaults{Ease: "none"}})
	_ = tl.Add(Tween{Direct: []Target{box}, Props: map[string]Value{"x": To(10)}, Duration: 1}, "")

	if !near(tl.TotalDuration(), 2) {
		t.Fatalf("TotalDuration = %v, want 2", tl.TotalDuration())
	}

	tl.Seek(0.5)
	if !near(box.props["x"], 5) {
		t.Errorf("x at 0.5 = %v, want 5", box.props["x"])
	}
	tl.Seek(1.75)
	if !near(box.props["x"], 2.5) {
		t.Errorf("x at 1.75 (reversed cycle) = %v, want 2.5", box.props["x"])
	}
	if tl.Cycle() != 1 {
		t.Errorf("Cycle = %d, want 1", tl.Cycle())
	}
	tl.Seek(2)
	if !near(box.props["x"], 0) {
		t.Errorf("x at end of yoyo = %v, want 0", box.props["x"])
	}
}

func TestInfiniteRepeatAdvance(t *testing.T) {
	box := newFakeTarget(map[string]float64{"rotation": 0})
	repeats := 0
	tl := New(Options{Repeat: -1, Defaults: Defaults{Ease: "none"}, OnRepeat: func() { repeats++ }})
	_ = tl.Add(Tween{Direct: []Target{box}, Props: map[string]Value{"rotation": By(360)}, Duration: 1}, "")

	if !math.IsInf(tl.TotalDuration(), 1) {
		t.Fatalf("TotalDuration should be +Inf")
	}

	for i := 0; i < 3; i++ {
		tl.Advance(0.6)
	}
	if repeats != 1 {
		t.Errorf("repeats = %d, want 1", repeats)
	}
	if !near(tl.Time(), 0.8) {
		t.Errorf("Time = %v, want 0.8", tl.Time())
	}
	// 每次循环从起始值重新开始
	if !near(box.props["rotation"], 288) {
		t.Errorf("rotation = %v, want 288", box.props["rotation"])
	}
}

// TestPauseKeepsPlayhead 暂停后继续播放从原位置开始
func TestPauseKeepsPlayhead(t *testing.T) {
	tl := New(Options{Repeat: -1, Defaults: Defaults{Ease: "none"}})
	_ = tl.Add(Tween{Direct: []Target{newFakeTarget(nil)}, Props: map[string]Value{"rotation": By(360)}, Duration: 2}, "")

	tl.Advance(1.2)
	tl.Pause()
	tl.Advance(5)
	if !near(tl.Time(), 1.2) {
		t.Fatalf("paused Time = %v, want 1.2", tl.Time())
	}
	tl.Play()
	tl.Advance(0.1)
	if !near(tl.Time(), 1.3) {
		t.Errorf("resumed Time = %v, want 1.3", tl.Time())
	}
}

func TestStaggerEach(t *testing.T) {
	targets := []Target{newFakeTarget(nil), newFakeTarget(nil), newFakeTarget(nil)}
	tl := New(Options{Paused: true, Resolver: fakeResolver{".char": targets}})
	err := tl.Add(Tween{
		Targets:  []string{".char"},
		Props:    map[string]Value{"opacity": To(1)},
		Duration: 0.3,
		Stagger:  Stagger{Each: 0.2},
	}, "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	want := []float64{0, 0.2, 0.4}
	for i, s := range tl.Segments() {
		if !near(s.Start, want[i]) {
			t.Errorf("segment %d start = %v, want %v", i, s.Start, want[i])
		}
	}
	if !near(tl.Duration(), 0.7) {
		t.Errorf("Duration = %v, want 0.7", tl.Duration())
	}

	// ">" 指向整组的结束
	_ = tl.Add(Tween{Direct: []Target{newFakeTarget(nil)}, Props: map[string]Value{"x": To(1)}, Duration: 1}, ">")
	if s := tl.Segments()[3].Start; !near(s, 0.7) {
		t.Errorf("after-group start = %v, want 0.7", s)
	}
}

func TestStaggerAmountRandom(t *testing.T) {
	targets := make([]Target, 5)
	for i := range targets {
		targets[i] = newFakeTarget(nil)
	}
	tl := New(Options{Paused: true, Rand: rand.New(rand.NewSource(7))})
	_ = tl.Add(Tween{
		Direct:   targets,
		Props:    map[string]Value{"glow": To(1)},
		Duration: 0.5,
		Stagger:  Stagger{Amount: 1, Order: OrderRandom},
	}, "")

	starts := make([]float64, 0, 5)
	for _, s := range tl.Segments() {
		starts = append(starts, s.Start)
	}
	sort.Float64s(starts)
	for i, s := range starts {
		if !near(s, float64(i)*0.25) {
			t.Errorf("sorted start %d = %v, want %v", i, s, float64(i)*0.25)
		}
	}
}

// TestUnresolvedSelectorIsNoop 没有匹配的选择器不报错、不影响相邻片段
func TestUnresolvedSelectorIsNoop(t *testing.T) {
	real := newFakeTarget(map[string]float64{"x": 0})
	called := false
	tl := New(Options{Paused: true, Resolver: fakeResolver{}, Defaults: Defaults{Ease: "none"}})

	if err := tl.Add(Tween{Targets: []string{".missing"}, Props: map[string]Value{"x": To(1)}, Duration: 1, OnComplete: func() { called = true }}, ""); err != nil {
		t.Fatalf("Add missing: %v", err)
	}
	if err := tl.Add(Tween{Direct: []Target{real}, Props: map[string]Value{"x": To(10)}, Duration: 1}, "<"); err != nil {
		t.Fatalf("Add real: %v", err)
	}

	tl.Seek(1)
	if !near(real.props["x"], 10) {
		t.Errorf("sibling x = %v, want 10", real.props["x"])
	}
	if called {
		t.Error("no-op segment must not fire callbacks")
	}
}

func TestNestedTimeline(t *testing.T) {
	box := newFakeTarget(map[string]float64{"x": 0})
	sub := New(Options{Defaults: Defaults{Ease: "none"}})
	_ = sub.Add(Tween{Direct: []Target{box}, Props: map[string]Value{"x": To(10)}, Duration: 1}, "")

	parent := New(Options{Paused: true})
	if err := parent.AddTimeline(sub, "0.5"); err != nil {
		t.Fatalf("AddTimeline: %v", err)
	}
	if !near(parent.Duration(), 1.5) {
		t.Errorf("Duration = %v, want 1.5", parent.Duration())
	}

	parent.Seek(1.0)
	if !near(box.props["x"], 5) {
		t.Errorf("x = %v, want 5", box.props["x"])
	}

	// 被嵌套的时间线不再自主推进
	sub.Advance(10)
	if !near(box.props["x"], 5) {
		t.Errorf("nested Advance changed x to %v", box.props["x"])
	}

	inf := New(Options{Repeat: -1})
	if err := parent.AddTimeline(inf, ""); !errors.Is(err, ErrInfiniteChild) {
		t.Errorf("expected ErrInfiniteChild, got %v", err)
	}
}

func TestCallbacksRecovered(t *testing.T) {
	completions := 0
	tl := New(Options{
		OnUpdate:   func() { panic("boom") },
		OnComplete: func() { completions++ },
	})
	_ = tl.Add(Tween{Direct: []Target{newFakeTarget(nil)}, Props: map[string]Value{"x": To(1)}, Duration: 0.5}, "")
	calls := 0
	_ = tl.Call(func() { calls++ }, "0.25")

	tl.Advance(0.3)
	tl.Advance(0.3)
	tl.Advance(0.3)

	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
	if calls != 1 {
		t.Errorf("Call fired %d times, want 1", calls)
	}
	if !tl.Finished() {
		t.Error("timeline should be finished")
	}
}

func TestKill(t *testing.T) {
	box := newFakeTarget(map[string]float64{"x": 0})
	tl := New(Options{})
	_ = tl.Add(Tween{Direct: []Target{box}, Props: map[string]Value{"x": To(1)}, Duration: 1}, "")
	tl.Advance(0.1)
	writes := box.writes

	tl.Kill()
	tl.Advance(0.5)
	tl.SetProgress(1)
	if box.writes != writes {
		t.Errorf("killed timeline wrote %d more times", box.writes-writes)
	}
	if err := tl.Add(Tween{Direct: []Target{box}}, ""); !errors.Is(err, ErrKilled) {
		t.Errorf("expected ErrKilled, got %v", err)
	}
}

func TestFromValues(t *testing.T) {
	box := newFakeTarget(map[string]float64{"y": 0})
	tl := New(Options{Paused: true, Defaults: Defaults{Ease: "none"}})
	_ = tl.Add(Tween{
		Direct:   []Target{box},
		From:     map[string]Value{"y": To(40)},
		Props:    map[string]Value{"y": To(0)},
		Duration: 1,
	}, "")

	tl.SetProgress(0)
	if !near(box.props["y"], 40) {
		t.Errorf("y at 0 = %v, want 40", box.props["y"])
	}
	tl.SetProgress(0.5)
	if !near(box.props["y"], 20) {
		t.Errorf("y at 0.5 = %v, want 20", box.props["y"])
	}
}

// TestRecorderRevertsToOriginalValues 销毁后还原首次写入前的值
func TestRecorderRevertsToOriginalValues(t *testing.T) {
	box := newFakeTarget(map[string]float64{"x": 10})
	rec := NewRecorder()

	tl := New(Options{Paused: true, Defaults: Defaults{Ease: "none"}, Resolver: rec.Resolver(fakeResolver{"#box": {box}})})
	if err := tl.Add(Tween{Targets: []string{"#box"}, Props: map[string]Value{"x": To(100)}, Duration: 1}, ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := tl.Add(Tween{Targets: []string{"#box"}, Props: map[string]Value{"x": By(50)}, Duration: 1}, ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	tl.SetProgress(1)
	if !near(box.props["x"], 150) {
		t.Fatalf("x at end = %v, want 150", box.props["x"])
	}
	if rec.Len() != 1 {
		t.Errorf("recorded props = %d, want 1", rec.Len())
	}

	tl.Kill()
	rec.Revert()
	if box.props["x"] != 10 {
		t.Errorf("x after revert = %v, want 10", box.props["x"])
	}

	// 还原后的写入不再记录，也不会被再次还原
	rec.Wrap(box).Set("x", 3)
	rec.Revert()
	if box.props["x"] != 3 {
		t.Errorf("x after second revert = %v, want 3", box.props["x"])
	}
}
