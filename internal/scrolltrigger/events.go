package scrolltrigger

import "log"

// EventKind 映射器发出的离散状态事件
type EventKind int

const (
	// EventEnter 向前滚动进入区域
	EventEnter EventKind = iota
	// EventLeave 向前滚动离开区域（越过 end）
	EventLeave
	// EventEnterBack 向后滚动重新进入区域
	EventEnterBack
	// EventLeaveBack 向后滚动离开区域（回到 start 之前）
	EventLeaveBack
	// EventPinStart 开始固定
	EventPinStart
	// EventPinEnd 结束固定
	EventPinEnd
	// EventThreshold 原始进度越过某个阈值
	EventThreshold
)

func (k EventKind) String() string {
	switch k {
	case EventEnter:
		return "enter"
	case EventLeave:
		return "leave"
	case EventEnterBack:
		return "enterBack"
	case EventLeaveBack:
		return "leaveBack"
	case EventPinStart:
		return "pinStart"
	case EventPinEnd:
		return "pinEnd"
	case EventThreshold:
		return "threshold"
	}
	return "unknown"
}

// Direction 滚动方向
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Event 状态事件
type Event struct {
	Kind EventKind
	// Trigger 区域 ID（Region.ID，缺省为目标选择器）
	Trigger string
	// Target 区域的目标选择器
	Target    string
	Progress  float64
	Direction Direction
	// Threshold 仅 EventThreshold 使用
	Threshold float64
}

type listener struct {
	fn      func(Event)
	removed bool
}

// listeners 订阅者列表；分发期间允许取消订阅
type listeners struct {
	items []*listener
}

func (l *listeners) add(fn func(Event)) func() {
	item := &listener{fn: fn}
	l.items = append(l.items, item)
	return func() {
		if item.removed {
			return
		}
		item.removed = true
		for i, it := range l.items {
			if it == item {
				l.items = append(l.items[:i], l.items[i+1:]...)
				break
			}
		}
	}
}

func (l *listeners) emit(ev Event) {
	snapshot := append([]*listener(nil), l.items...)
	for _, it := range snapshot {
		if it.removed {
			continue
		}
		deliver(it.fn, ev)
	}
}

func (l *listeners) clear() {
	for _, it := range l.items {
		it.removed = true
	}
	l.items = nil
}

func deliver(fn func(Event), ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ScrollTrigger] Warning: %s listener for %q panicked: %v", ev.Kind, ev.Trigger, r)
		}
	}()
	fn(ev)
}
