package scrolltrigger

import (
	"log"
	"math"

	"github.com/gonewx/vinyl/internal/timeline"
)

// Region 触发区域配置
type Region struct {
	// ID 事件中使用的名字，缺省为 Target
	ID string
	// Target 目标元素选择器；start/end 都是绝对偏移时可以为空
	Target string
	// Start 默认 "top bottom"
	Start string
	// End 默认 "bottom top"
	End   string
	Scrub Scrub
	// Pin 区域激活期间固定目标元素
	Pin bool
	// Actions 非 scrub 模式下的切换动作；零值等价于 DefaultToggleActions
	Actions *ToggleActions
	// Thresholds 原始进度越过这些值时发出 EventThreshold
	Thresholds []float64
	// Markers 调试标记
	Markers bool
	// OnUpdate 原始进度变化时调用；panic 会被捕获并记录
	OnUpdate func(progress float64, dir Direction)
}

type regionState int

const (
	stateBefore regionState = iota
	stateInside
	stateAfter
)

// Mapper 把一个触发区域绑定到一条时间线的播放头
type Mapper struct {
	mgr    *Manager
	region Region
	tl     *timeline.Timeline
	acts   ToggleActions

	startB, endB Boundary
	start, end   float64
	noop         bool
	warned       bool

	scroll    float64
	raw       float64
	lastRaw   float64
	effective float64
	lastEff   float64
	dir       Direction
	state     regionState
	pinned    bool
	updated   bool
	killed    bool

	subs listeners
}

func newMapper(mgr *Manager, region Region, tl *timeline.Timeline) (*Mapper, error) {
	if region.ID == "" {
		region.ID = region.Target
	}
	if region.Start == "" {
		region.Start = "top bottom"
	}
	if region.End == "" {
		region.End = "bottom top"
	}
	startB, err := ParseBoundary(region.Start, false)
	if err != nil {
		return nil, err
	}
	endB, err := ParseBoundary(region.End, true)
	if err != nil {
		return nil, err
	}

	acts := DefaultToggleActions
	if region.Actions != nil {
		acts = *region.Actions
	}
	return &Mapper{
		mgr:    mgr,
		region: region,
		tl:     tl,
		acts:   acts,
		startB: startB,
		endB:   endB,
		dir:    Forward,
	}, nil
}

// resolve 根据当前布局重新计算 start/end 偏移
func (m *Mapper) resolve(layout Layout) {
	var elem Rect
	needs := m.startB.needsElement() || m.endB.needsElement()
	if needs {
		r, ok := Rect{}, false
		if m.region.Target != "" {
			r, ok = layout.Bounds(m.region.Target)
		}
		if !ok {
			if !m.warned {
				log.Printf("[ScrollTrigger] Warning: target %q not found, trigger %q is inactive", m.region.Target, m.region.ID)
				m.warned = true
			}
			m.noop = true
			return
		}
		elem = r
	}
	m.noop = false

	vh := layout.ViewportHeight()
	m.start = m.startB.resolve(elem, vh, 0)
	m.end = m.endB.resolve(elem, vh, m.start)
}

// sample 事件时调用：只更新原始进度，不写样式
func (m *Mapper) sample(scroll float64) {
	m.scroll = scroll
	m.raw = m.compute(scroll)
}

// compute progress = clamp((scroll - start) / (end - start), 0, 1)
func (m *Mapper) compute(scroll float64) float64 {
	span := m.end - m.start
	if span <= 0 {
		if scroll >= m.start {
			return 1
		}
		return 0
	}
	p := (scroll - m.start) / span
	return math.Max(0, math.Min(1, p))
}

func (m *Mapper) classify(scroll float64) regionState {
	switch {
	case scroll < m.start:
		return stateBefore
	case scroll > m.end:
		return stateAfter
	}
	return stateInside
}

// update tick 时调用：平滑、写时间线、发出事件
func (m *Mapper) update(dt float64) {
	if m.killed || m.noop {
		return
	}

	first := !m.updated
	m.updated = true
	raw := m.raw
	changed := first || raw != m.lastRaw
	if raw > m.lastRaw {
		m.dir = Forward
	} else if raw < m.lastRaw {
		m.dir = Backward
	}

	if first {
		m.effective = raw
	} else {
		m.effective = m.region.Scrub.step(m.effective, raw, dt)
	}
	if m.tl != nil && m.region.Scrub.Enabled && (first || m.effective != m.lastEff) {
		m.tl.SetProgress(m.effective)
	}
	m.lastEff = m.effective

	if next := m.classify(m.scroll); next != m.state {
		m.transition(m.state, next)
		m.state = next
		if m.killed {
			return
		}
	}

	if m.region.Pin {
		// 只在开区间 (0, 1) 内固定；恰好位于起点或终点时不固定
		pinned := raw > 0 && raw < 1
		if pinned != m.pinned {
			m.pinned = pinned
			kind := EventPinEnd
			if pinned {
				kind = EventPinStart
			}
			m.emit(Event{Kind: kind})
			if m.killed {
				return
			}
		}
	}

	if changed {
		prev := m.lastRaw
		for _, th := range m.region.Thresholds {
			crossedUp := prev < th && raw >= th
			crossedDown := !first && prev >= th && raw < th
			if crossedUp || crossedDown {
				m.emit(Event{Kind: EventThreshold, Threshold: th})
				if m.killed {
					return
				}
			}
		}
		if m.region.OnUpdate != nil {
			m.callUpdate(raw)
		}
	}
	m.lastRaw = raw
}

// transition 区域状态变化：发出事件并执行切换动作
func (m *Mapper) transition(from, to regionState) {
	type step struct {
		kind EventKind
		idx  int
	}
	var steps []step
	switch {
	case from == stateBefore && to == stateInside:
		steps = []step{{EventEnter, 0}}
	case from == stateBefore && to == stateAfter:
		steps = []step{{EventEnter, 0}, {EventLeave, 1}}
	case from == stateInside && to == stateAfter:
		steps = []step{{EventLeave, 1}}
	case from == stateAfter && to == stateInside:
		steps = []step{{EventEnterBack, 2}}
	case from == stateAfter && to == stateBefore:
		steps = []step{{EventEnterBack, 2}, {EventLeaveBack, 3}}
	case from == stateInside && to == stateBefore:
		steps = []step{{EventLeaveBack, 3}}
	}

	for _, s := range steps {
		if m.tl != nil && !m.region.Scrub.Enabled {
			m.acts[s.idx].apply(m.tl)
		}
		m.emit(Event{Kind: s.kind})
		if m.killed {
			return
		}
	}
}

func (m *Mapper) emit(ev Event) {
	ev.Trigger = m.region.ID
	ev.Target = m.region.Target
	ev.Progress = m.raw
	ev.Direction = m.dir
	m.subs.emit(ev)
	if m.mgr != nil && !m.killed {
		m.mgr.subs.emit(ev)
	}
}

func (m *Mapper) callUpdate(raw float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ScrollTrigger] Warning: onUpdate of %q panicked: %v", m.region.ID, r)
		}
	}()
	m.region.OnUpdate(raw, m.dir)
}

// Subscribe 订阅该映射器的事件，返回取消函数
func (m *Mapper) Subscribe(fn func(Event)) func() {
	return m.subs.add(fn)
}

// Kill 同步解除绑定：之后的 tick 不再引用该映射器
func (m *Mapper) Kill() {
	if m.killed {
		return
	}
	m.killed = true
	m.subs.clear()
	m.region.OnUpdate = nil
	if m.mgr != nil {
		m.mgr.remove(m)
	}
}

// Killed 是否已解除绑定
func (m *Mapper) Killed() bool { return m.killed }

// ID 区域 ID
func (m *Mapper) ID() string { return m.region.ID }

// Progress 平滑后的进度（即写入时间线的进度）
func (m *Mapper) Progress() float64 { return m.effective }

// RawProgress 由滚动偏移直接换算的进度
func (m *Mapper) RawProgress() float64 { return m.raw }

// Direction 最近一次进度变化的方向
func (m *Mapper) Direction() Direction { return m.dir }

// Active 滚动偏移是否位于 [start, end] 内
func (m *Mapper) Active() bool { return m.updated && m.state == stateInside }

// Pinned 是否处于固定状态
func (m *Mapper) Pinned() bool { return m.pinned }

// Offsets 已解析的 start/end 滚动偏移
func (m *Mapper) Offsets() (start, end float64) { return m.start, m.end }

// Timeline 绑定的时间线（可能为 nil）
func (m *Mapper) Timeline() *timeline.Timeline { return m.tl }

// Inactive 目标元素未找到时为 true
func (m *Mapper) Inactive() bool { return m.noop }
