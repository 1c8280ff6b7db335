package timeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gonewx/vinyl/internal/ease"
)

// Target 可被动画写入属性的对象（例如页面元素的样式）
type Target interface {
	// Get 读取属性当前值；属性不存在时返回 false
	Get(prop string) (float64, bool)
	// Set 写入属性值
	Set(prop string, value float64)
}

// Resolver 把选择器解析为目标列表
// 解析结果为空时对应的片段变为空操作
type Resolver interface {
	Resolve(selector string) []Target
}

// Value 属性目标值
type Value struct {
	Amount float64
	// Relative 为 true 时 Amount 是相对起始值的增量（"+=360"）
	Relative bool
}

// To 绝对目标值
func To(v float64) Value {
	return Value{Amount: v}
}

// By 相对增量
func By(delta float64) Value {
	return Value{Amount: delta, Relative: true}
}

// ParseValue 解析 "0.5"、"+=360"、"-=20" 形式的属性值
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+=") || strings.HasPrefix(s, "-=") {
		v, err := parseRelative(s)
		if err != nil {
			return Value{}, fmt.Errorf("invalid relative value %q: %w", s, err)
		}
		return By(v), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return To(v), nil
}

// resolveFrom 以 base 为基准计算实际数值
func (v Value) resolveFrom(base float64) float64 {
	if v.Relative {
		return base + v.Amount
	}
	return v.Amount
}

// Order 交错顺序
type Order int

const (
	// OrderSequential 按目标顺序依次开始
	OrderSequential Order = iota
	// OrderRandom 随机顺序（使用时间线的随机源）
	OrderRandom
)

// ParseOrder 解析 "sequential" / "random"
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential", "start":
		return OrderSequential, nil
	case "random":
		return OrderRandom, nil
	}
	return OrderSequential, fmt.Errorf("unknown stagger order %q", s)
}

// Stagger 同一次 Add 中多个目标之间的错开
type Stagger struct {
	// Each 相邻目标之间的固定延迟（秒）
	Each float64
	// Amount 全部错开的总时长（秒），非零时覆盖 Each
	Amount float64
	Order  Order
}

// offsets 为 n 个目标计算各自的开始偏移
func (s Stagger) offsets(n int, t *Timeline) []float64 {
	out := make([]float64, n)
	if n <= 1 {
		return out
	}

	each := s.Each
	if s.Amount > 0 {
		each = s.Amount / float64(n-1)
	}
	if each == 0 {
		return out
	}

	slots := make([]int, n)
	for i := range slots {
		slots[i] = i
	}
	if s.Order == OrderRandom {
		t.random().Shuffle(n, func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })
	}

	for i := range out {
		out[i] = float64(slots[i]) * each
	}
	return out
}

// Tween 一次 Add 调用的配置，展开后每个目标对应一个片段
type Tween struct {
	// Targets 选择器列表，通过时间线的 Resolver 解析
	Targets []string
	// Direct 已解析的目标，与 Targets 的解析结果合并
	Direct []Target
	// Props 属性目标值
	Props map[string]Value
	// From 可选的起始值；缺省时使用首次渲染时的当前值
	From map[string]Value
	// Duration 时长（秒），<= 0 时使用时间线默认值
	Duration float64
	// Instant 为 true 时时长为 0（立即设置）
	Instant bool
	// Ease 缓动名称，空则使用时间线默认值
	Ease    string
	Stagger Stagger
	// OnComplete 每个片段向前播放到终点时调用
	OnComplete func()
}

// propTrack 单个属性的插值轨道
type propTrack struct {
	name     string
	to       Value
	from     *Value
	startVal float64
	endVal   float64
}

// child 时间线中的一个子项：普通片段或嵌套时间线
type child interface {
	bounds() (start, dur float64)
	// render 在子项的本地时间 local 处写出状态
	render(local float64)
	// initialized 是否已经渲染过（记录过起始值）
	initialized() bool
	progress() float64
}

// segment 单个目标上的一组属性过渡
type segment struct {
	start      float64
	dur        float64
	target     Target // 为 nil 时是空操作（选择器没有匹配到目标）
	tracks     []propTrack
	easeFn     ease.Func
	onComplete func()

	inited    bool
	completed bool
	last      float64 // 最近一次渲染的原始进度
}

func (s *segment) bounds() (float64, float64) { return s.start, s.dur }

func (s *segment) initialized() bool { return s.inited }

func (s *segment) progress() float64 { return s.last }

// init 记录起始值（首次渲染时执行，使同一属性上的连续片段首尾相接）
func (s *segment) init() {
	s.inited = true
	if s.target == nil {
		return
	}
	for i := range s.tracks {
		tr := &s.tracks[i]
		current, _ := s.target.Get(tr.name)
		if tr.from != nil {
			tr.startVal = tr.from.resolveFrom(current)
		} else {
			tr.startVal = current
		}
		tr.endVal = tr.to.resolveFrom(tr.startVal)
	}
}

func (s *segment) render(local float64) {
	if !s.inited {
		s.init()
	}

	p := 1.0
	if s.dur > 0 {
		p = clamp01(local / s.dur)
	} else if local < 0 {
		p = 0
	}
	s.last = p

	if s.target != nil {
		e := s.easeFn(p)
		for _, tr := range s.tracks {
			s.target.Set(tr.name, lerp(tr.startVal, tr.endVal, e))
		}
	}

	if p >= 1 {
		if !s.completed {
			s.completed = true
			if s.onComplete != nil {
				safeCall("segment onComplete", s.onComplete)
			}
		}
	} else {
		s.completed = false
	}
}

// nested 作为子项嵌入的时间线，播放头由父时间线驱动
type nested struct {
	start float64
	tl    *Timeline
}

func (n *nested) bounds() (float64, float64) { return n.start, n.tl.TotalDuration() }

func (n *nested) initialized() bool { return n.tl.rendered }

func (n *nested) progress() float64 { return n.tl.TotalProgress() }

func (n *nested) render(local float64) {
	n.tl.renderTotal(clamp(local, 0, n.tl.TotalDuration()))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// Targets 把已解析的目标组装为列表，便于填写 Tween.Direct
func Targets(list ...Target) []Target {
	return list
}
