// Package timeline 实现动画时间线
//
// 时间线是若干片段（Segment）的有序组合，共用一个播放头。每个片段描述一个目标上的
// 一组属性过渡：时长、缓动以及相对开始位置（绝对时间、相对上一段的开始/结束、命名标签）。
//
// 播放头可以自主推进（Advance，由每帧 tick 驱动），也可以被滚动进度直接设置
// （SetProgress）。渲染规则：
//   - 自上次渲染以来被跨过的片段先写出其终点（向前）或起点（向后）状态；
//   - 然后按添加顺序写出播放头所在的活动片段，因此同一目标上重叠的片段中，
//     后添加的片段在重叠的帧上获胜（按帧的最后写入获胜，而不是按片段）。
//
// 本包不是线程安全的：所有调用都应发生在同一个 tick 循环中。
package timeline

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/gonewx/vinyl/internal/ease"
)

var (
	// ErrUnknownLabel 位置标记引用了不存在的标签
	ErrUnknownLabel = errors.New("unknown label")
	// ErrNegativeStart 位置标记换算后的开始时间小于 0
	ErrNegativeStart = errors.New("negative start time")
	// ErrBadPosition 位置标记语法错误
	ErrBadPosition = errors.New("bad position token")
	// ErrInfiniteChild 无限重复的时间线不能被嵌套
	ErrInfiniteChild = errors.New("cannot nest an infinitely repeating timeline")
	// ErrKilled 时间线已销毁
	ErrKilled = errors.New("timeline killed")
)

// DefaultDuration 片段的默认时长（秒）
const DefaultDuration = 0.5

// beforeStart 向后跨过片段时使用的本地时间，使片段回到起点状态
const beforeStart = -1.0

// maxRepeatEvents 单次推进中最多触发的 OnRepeat 次数
const maxRepeatEvents = 64

// Defaults 片段的默认参数
type Defaults struct {
	Ease     string
	Duration float64
}

// Options 创建时间线的参数
type Options struct {
	// Paused 创建后是否暂停
	Paused bool
	// Repeat 重复次数，-1 表示无限
	Repeat int
	// Yoyo 每次重复时反向播放
	Yoyo bool
	// RepeatDelay 两次重复之间的间隔（秒）
	RepeatDelay float64
	Defaults    Defaults
	// Resolver 用于解析片段中的选择器
	Resolver Resolver
	// Rand 随机交错顺序使用的随机源；为 nil 时按时间播种
	Rand *rand.Rand

	OnComplete func()
	OnRepeat   func()
	OnUpdate   func()
}

// SegmentInfo 片段的只读快照
type SegmentInfo struct {
	Start    float64
	Duration float64
	// Progress 片段自身的原始进度 [0, 1]
	Progress float64
	Nested   bool
}

// Timeline 动画时间线
type Timeline struct {
	opts     Options
	children []child
	labels   map[string]float64
	rng      *rand.Rand

	lastStart float64 // 上一次 Add 的开始时间
	lastEnd   float64 // 上一次 Add 的结束时间
	duration  float64 // 单次循环时长：所有子项结束时间的最大值

	total    float64 // 包含重复在内的播放头位置
	local    float64 // 当前循环内的播放头位置
	cycle    int
	rendered bool
	finished bool

	paused   bool
	reversed bool
	killed   bool
	parent   *Timeline
}

// New 创建时间线
func New(opts Options) *Timeline {
	return &Timeline{
		opts:   opts,
		labels: make(map[string]float64),
		paused: opts.Paused,
		rng:    opts.Rand,
	}
}

// Add 追加一次补间；多个目标时按 Stagger 展开为多个片段
//
// 参数：
//   - tw: 补间配置
//   - position: 位置标记，见 ParsePosition
//
// 返回：
//   - error: 位置标记无法解析、引用未知标签、或缓动名称未知
func (t *Timeline) Add(tw Tween, position string) error {
	if t.killed {
		return ErrKilled
	}

	at, err := t.resolveToken(position)
	if err != nil {
		return err
	}

	easeName := tw.Ease
	if easeName == "" {
		easeName = t.opts.Defaults.Ease
	}
	easeFn, err := ease.Parse(easeName)
	if err != nil {
		return fmt.Errorf("add tween: %w", err)
	}

	dur := tw.Duration
	switch {
	case tw.Instant:
		dur = 0
	case dur <= 0:
		dur = t.opts.Defaults.Duration
		if dur <= 0 {
			dur = DefaultDuration
		}
	}

	targets := t.collect(tw)
	onComplete := tw.OnComplete
	if len(targets) == 0 {
		// 选择器没有匹配：保留时间占位，但不写任何属性、不触发回调
		targets = []Target{nil}
		onComplete = nil
	}

	offsets := tw.Stagger.offsets(len(targets), t)
	end := at
	for i, target := range targets {
		seg := &segment{
			start:      at + offsets[i],
			dur:        dur,
			target:     target,
			tracks:     buildTracks(tw),
			easeFn:     easeFn,
			onComplete: onComplete,
		}
		t.children = append(t.children, seg)
		end = math.Max(end, seg.start+dur)
	}

	t.mark(at, end)
	return nil
}

// AddTimeline 把另一条时间线作为子项嵌入
// 子时间线的播放头从此由父时间线驱动
func (t *Timeline) AddTimeline(sub *Timeline, position string) error {
	if t.killed {
		return ErrKilled
	}
	if sub.opts.Repeat < 0 {
		return ErrInfiniteChild
	}
	at, err := t.resolveToken(position)
	if err != nil {
		return err
	}

	sub.parent = t
	t.children = append(t.children, &nested{start: at, tl: sub})
	t.mark(at, at+sub.TotalDuration())
	return nil
}

// AddLabel 在指定位置添加命名标签
func (t *Timeline) AddLabel(name, position string) error {
	if t.killed {
		return ErrKilled
	}
	at, err := t.resolveToken(position)
	if err != nil {
		return err
	}
	t.labels[name] = at
	return nil
}

// Call 在指定位置插入回调；向前经过该位置时调用
func (t *Timeline) Call(fn func(), position string) error {
	if t.killed {
		return ErrKilled
	}
	at, err := t.resolveToken(position)
	if err != nil {
		return err
	}
	t.children = append(t.children, &segment{start: at, easeFn: ease.Linear, onComplete: fn})
	t.mark(at, at)
	return nil
}

// Labels 返回标签表的副本
func (t *Timeline) Labels() map[string]float64 {
	out := make(map[string]float64, len(t.labels))
	for k, v := range t.labels {
		out[k] = v
	}
	return out
}

// Segments 返回所有子项的快照（按添加顺序）
func (t *Timeline) Segments() []SegmentInfo {
	out := make([]SegmentInfo, 0, len(t.children))
	for _, c := range t.children {
		start, dur := c.bounds()
		_, isNested := c.(*nested)
		out = append(out, SegmentInfo{Start: start, Duration: dur, Progress: c.progress(), Nested: isNested})
	}
	return out
}

func (t *Timeline) mark(start, end float64) {
	t.lastStart = start
	t.lastEnd = end
	if end > t.duration {
		t.duration = end
	}
}

func (t *Timeline) collect(tw Tween) []Target {
	targets := append([]Target(nil), tw.Direct...)
	for _, sel := range tw.Targets {
		if t.opts.Resolver == nil {
			log.Printf("[Timeline] Warning: no resolver for selector %q", sel)
			continue
		}
		found := t.opts.Resolver.Resolve(sel)
		if len(found) == 0 {
			log.Printf("[Timeline] Warning: selector %q matched no targets", sel)
		}
		targets = append(targets, found...)
	}
	return targets
}

func buildTracks(tw Tween) []propTrack {
	names := make([]string, 0, len(tw.Props))
	for name := range tw.Props {
		names = append(names, name)
	}
	sort.Strings(names)

	tracks := make([]propTrack, 0, len(names))
	for _, name := range names {
		tr := propTrack{name: name, to: tw.Props[name]}
		if from, ok := tw.From[name]; ok {
			f := from
			tr.from = &f
		}
		tracks = append(tracks, tr)
	}
	return tracks
}

func (t *Timeline) random() *rand.Rand {
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return t.rng
}

// ---- 播放控制 ----

// Play 继续播放（不重置播放头）
func (t *Timeline) Play() {
	t.paused = false
}

// Pause 暂停（不重置播放头）
func (t *Timeline) Pause() {
	t.paused = true
}

// Paused 是否暂停
func (t *Timeline) Paused() bool {
	return t.paused
}

// Reverse 切换自主推进的方向
func (t *Timeline) Reverse() {
	t.reversed = !t.reversed
}

// Reversed 是否反向推进
func (t *Timeline) Reversed() bool {
	return t.reversed
}

// Restart 回到开头并正向播放
func (t *Timeline) Restart() {
	t.reversed = false
	t.renderTotal(0)
	t.paused = false
}

// Kill 销毁时间线：之后的推进、跳转和添加都不再生效，回调被清空
func (t *Timeline) Kill() {
	if t.killed {
		return
	}
	t.killed = true
	for _, c := range t.children {
		if n, ok := c.(*nested); ok {
			n.tl.Kill()
		}
	}
	t.children = nil
	t.opts.OnComplete = nil
	t.opts.OnRepeat = nil
	t.opts.OnUpdate = nil
}

// Killed 是否已销毁
func (t *Timeline) Killed() bool {
	return t.killed
}

// Nested 是否被嵌入到另一条时间线中
func (t *Timeline) Nested() bool {
	return t.parent != nil
}

// Duration 单次循环时长（所有片段结束时间的最大值）
func (t *Timeline) Duration() float64 {
	return t.duration
}

// TotalDuration 包含重复的总时长；无限重复时为 +Inf
func (t *Timeline) TotalDuration() float64 {
	if t.opts.Repeat < 0 {
		if t.duration <= 0 {
			return 0
		}
		return math.Inf(1)
	}
	n := float64(t.opts.Repeat)
	return t.duration*(n+1) + t.opts.RepeatDelay*n
}

// Time 当前循环内的播放头位置（秒）
func (t *Timeline) Time() float64 {
	return t.local
}

// TotalTime 包含重复的播放头位置（秒）
func (t *Timeline) TotalTime() float64 {
	return t.total
}

// Cycle 当前所在的重复序号（从 0 开始）
func (t *Timeline) Cycle() int {
	return t.cycle
}

// Progress 当前循环内的进度 [0, 1]
func (t *Timeline) Progress() float64 {
	if t.duration <= 0 {
		if t.rendered {
			return 1
		}
		return 0
	}
	return t.local / t.duration
}

// TotalProgress 总进度 [0, 1]；无限重复时等于 Progress
func (t *Timeline) TotalProgress() float64 {
	td := t.TotalDuration()
	if math.IsInf(td, 1) {
		return t.Progress()
	}
	if td <= 0 {
		return t.Progress()
	}
	return t.total / td
}

// Finished 是否已播放到总时长的终点
func (t *Timeline) Finished() bool {
	return t.finished
}

// Seek 把播放头移动到 seconds（包含重复的总时间）
func (t *Timeline) Seek(seconds float64) {
	if t.killed {
		return
	}
	t.renderTotal(clamp(seconds, 0, t.TotalDuration()))
}

// SetProgress 把播放头设置为当前循环内的 p × Duration
// 幂等：用相同的 p 重复调用得到相同的渲染结果
func (t *Timeline) SetProgress(p float64) {
	if t.killed {
		return
	}
	p = clamp01(p)
	base := t.cycleStart(t.cycle)
	offset := p * t.duration
	if t.opts.Yoyo && t.cycle%2 == 1 {
		offset = t.duration - offset
	}
	t.renderTotal(clamp(base+offset, 0, t.TotalDuration()))
}

// Advance 按 dt 秒自主推进播放头
// 暂停、已销毁或被嵌套的时间线不推进
func (t *Timeline) Advance(dt float64) {
	if t.killed || t.paused || t.parent != nil {
		return
	}
	if t.reversed {
		dt = -dt
	}
	next := clamp(t.total+dt, 0, t.TotalDuration())
	if t.rendered && next == t.total {
		return
	}
	t.renderTotal(next)
}

// ---- 渲染 ----

func (t *Timeline) cycleStart(cycle int) float64 {
	return float64(cycle) * (t.duration + t.opts.RepeatDelay)
}

// locate 把总时间换算为（循环序号，循环内时间）
func (t *Timeline) locate(total float64) (int, float64) {
	if t.duration <= 0 {
		return 0, 0
	}

	td := t.TotalDuration()
	var cycle int
	var local float64
	if !math.IsInf(td, 1) && total >= td {
		cycle = t.opts.Repeat
		local = t.duration
	} else {
		cycle = int(math.Floor(total / (t.duration + t.opts.RepeatDelay)))
		local = math.Min(total-t.cycleStart(cycle), t.duration)
	}

	if t.opts.Yoyo && cycle%2 == 1 {
		local = t.duration - local
	}
	return cycle, local
}

// boundary 返回某个循环在其起点或终点时的循环内时间
func (t *Timeline) boundary(cycle int, atEnd bool) float64 {
	local := 0.0
	if atEnd {
		local = t.duration
	}
	if t.opts.Yoyo && cycle%2 == 1 {
		local = t.duration - local
	}
	return local
}

func (t *Timeline) renderTotal(total float64) {
	if t.killed {
		return
	}

	cycle, local := t.locate(total)
	if t.rendered && cycle != t.cycle {
		if cycle > t.cycle {
			t.renderLocal(t.boundary(t.cycle, true))
			t.renderLocal(t.boundary(cycle, false))
			for i := 0; i < cycle-t.cycle && i < maxRepeatEvents; i++ {
				if t.opts.OnRepeat != nil {
					safeCall("timeline onRepeat", t.opts.OnRepeat)
				}
			}
		} else {
			t.renderLocal(t.boundary(t.cycle, false))
			t.renderLocal(t.boundary(cycle, true))
		}
	}

	t.cycle = cycle
	t.total = total
	t.renderLocal(local)

	if t.killed {
		// 回调中销毁了自己
		return
	}
	if t.opts.OnUpdate != nil {
		safeCall("timeline onUpdate", t.opts.OnUpdate)
	}

	td := t.TotalDuration()
	if !math.IsInf(td, 1) && total >= td {
		if !t.finished {
			t.finished = true
			if t.opts.OnComplete != nil {
				safeCall("timeline onComplete", t.opts.OnComplete)
			}
		}
	} else {
		t.finished = false
	}
}

func (t *Timeline) renderLocal(local float64) {
	prev := t.local
	if !t.rendered {
		prev = 0
	}
	forward := local >= prev
	lo, hi := math.Min(prev, local), math.Max(prev, local)

	children := t.children
	active := make([]bool, len(children))

	// 第一遍：被跨过的子项写出终点/起点
	for k := range children {
		i := k
		if !forward {
			i = len(children) - 1 - k
		}
		c := children[i]
		start, dur := c.bounds()
		if isActive(start, dur, local) {
			active[i] = true
			continue
		}
		end := start + dur
		if start > hi || end < lo {
			continue
		}
		if local >= end {
			c.render(dur)
		} else if c.initialized() {
			c.render(beforeStart)
		}
	}

	// 第二遍：活动子项按添加顺序写出，后添加者获胜
	for i, c := range children {
		if !active[i] {
			continue
		}
		start, _ := c.bounds()
		c.render(local - start)
	}

	t.local = local
	t.rendered = true
}

func isActive(start, dur, local float64) bool {
	if dur <= 0 {
		return local == start
	}
	return local >= start && local <= start+dur
}

// safeCall 调用用户回调；回调 panic 时记录日志并继续
func safeCall(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Timeline] Warning: %s panicked: %v", name, r)
		}
	}()
	fn()
}
