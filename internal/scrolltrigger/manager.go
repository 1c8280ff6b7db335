// Package scrolltrigger 把滚动位置映射为时间线进度
//
// 每个触发区域（Region）由起止边界表达式描述，边界在布局变化时重新解析。
// 滚动事件只调用 Manager.Sample 更新原始进度；样式写入只发生在 tick 时的
// Manager.Update 中，且在任何时间线自主推进之前完成。
package scrolltrigger

import (
	"log"

	"github.com/gonewx/vinyl/internal/plugin"
	"github.com/gonewx/vinyl/internal/timeline"
)

// Markers 调试标记：区域的起止偏移
type Markers struct {
	ID    string
	Start float64
	End   float64
}

// PinState 区域的固定状态，供表现层使用
type PinState struct {
	Target string
	Start  float64
	End    float64
	Active bool
}

// Manager 管理所有映射器
type Manager struct {
	layout  Layout
	mappers []*Mapper
	version uint64
	scroll  float64
	subs    listeners
}

// NewManager 创建管理器
func NewManager(layout Layout) *Manager {
	m := &Manager{layout: layout}
	if layout != nil {
		m.scroll = layout.ScrollOffset()
		m.version = layout.Version()
	}
	return m
}

// Bind 把触发区域绑定到时间线；tl 可以为 nil（只使用事件和回调）
// scrub 模式下时间线被暂停，播放头完全由滚动进度决定
func (m *Manager) Bind(region Region, tl *timeline.Timeline) (*Mapper, error) {
	if !plugin.Registered(PluginName) {
		return nil, ErrPluginNotRegistered
	}
	mp, err := newMapper(m, region, tl)
	if err != nil {
		return nil, err
	}
	if tl != nil && region.Scrub.Enabled {
		tl.Pause()
	}
	if m.layout != nil {
		mp.resolve(m.layout)
	}
	mp.sample(m.scroll)
	m.mappers = append(m.mappers, mp)

	log.Printf("[ScrollTrigger] bound %q: start=%.1f end=%.1f scrub=%s pin=%v", mp.region.ID, mp.start, mp.end, region.Scrub, region.Pin)
	return mp, nil
}

// Sample 滚动事件时调用：记录偏移并更新各映射器的原始进度
func (m *Manager) Sample(scroll float64) {
	m.scroll = scroll
	for _, mp := range m.mappers {
		mp.sample(scroll)
	}
}

// Refresh 重新解析所有边界
func (m *Manager) Refresh() {
	if m.layout == nil {
		return
	}
	m.version = m.layout.Version()
	for _, mp := range m.mappers {
		mp.resolve(m.layout)
		mp.sample(m.scroll)
	}
}

// Update tick 时调用：布局变化时刷新，然后推进平滑并写入时间线
func (m *Manager) Update(dt float64) {
	if m.layout != nil && m.layout.Version() != m.version {
		m.Refresh()
	}
	snapshot := append([]*Mapper(nil), m.mappers...)
	for _, mp := range snapshot {
		if mp.killed {
			continue
		}
		mp.update(dt)
	}
}

// Subscribe 订阅所有映射器的事件
func (m *Manager) Subscribe(fn func(Event)) func() {
	return m.subs.add(fn)
}

// Mappers 当前存活的映射器
func (m *Manager) Mappers() []*Mapper {
	return append([]*Mapper(nil), m.mappers...)
}

// Len 存活映射器数量
func (m *Manager) Len() int {
	return len(m.mappers)
}

// Scroll 最近一次采样的滚动偏移
func (m *Manager) Scroll() float64 {
	return m.scroll
}

// Markers 开启了调试标记的区域
func (m *Manager) Markers() []Markers {
	var out []Markers
	for _, mp := range m.mappers {
		if mp.region.Markers && !mp.noop {
			out = append(out, Markers{ID: mp.region.ID, Start: mp.start, End: mp.end})
		}
	}
	return out
}

// Pins 所有开启了 pin 的区域的状态
func (m *Manager) Pins() []PinState {
	var out []PinState
	for _, mp := range m.mappers {
		if mp.region.Pin && !mp.noop {
			out = append(out, PinState{Target: mp.region.Target, Start: mp.start, End: mp.end, Active: mp.pinned})
		}
	}
	return out
}

// KillAll 解除所有绑定；管理器级别的订阅保留
func (m *Manager) KillAll() {
	for _, mp := range m.Mappers() {
		mp.Kill()
	}
}

func (m *Manager) remove(mp *Mapper) {
	for i, x := range m.mappers {
		if x == mp {
			m.mappers = append(m.mappers[:i], m.mappers[i+1:]...)
			return
		}
	}
}
