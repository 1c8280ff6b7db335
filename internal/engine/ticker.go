// Package engine 每帧的 tick 循环
//
// 一次 Tick 分三个阶段依次执行：
//  1. sampler：滚动映射器采样进度并写入各自的时间线
//  2. advancer：时间线自主推进播放头（不受滚动控制的动画）
//  3. hook：推进之后的同步工作（播放状态同步、循环效果）
//
// 因此同一帧内滚动驱动的动画总是先于自主动画完成写入。
package engine

import (
	"log"

	"github.com/gonewx/vinyl/internal/timeline"
)

// Stage tick 阶段
type Stage int

const (
	StageSample Stage = iota
	StageAdvance
	StageHook
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageSample:
		return "sample"
	case StageAdvance:
		return "advance"
	case StageHook:
		return "hook"
	}
	return "unknown"
}

// DefaultMaxStep 单帧 dt 的上限（秒），避免窗口拖动等造成的跳帧
const DefaultMaxStep = 0.1

type entry struct {
	name    string
	stage   Stage
	fn      func(dt float64)
	removed bool
}

// Handle 已注册的回调；Remove 是同步的
type Handle struct {
	t *Ticker
	e *entry
}

// Remove 移除回调；同一帧内尚未执行到的也不会再执行
func (h *Handle) Remove() {
	if h == nil || h.e.removed {
		return
	}
	h.e.removed = true
	h.t.remove(h.e)
}

// Removed 是否已移除
func (h *Handle) Removed() bool {
	return h.e.removed
}

// Ticker tick 循环
type Ticker struct {
	stages  [stageCount][]*entry
	clock   Clock
	MaxStep float64
}

// NewTicker 创建 tick 循环
func NewTicker() *Ticker {
	return &Ticker{MaxStep: DefaultMaxStep}
}

// AddSampler 注册滚动采样阶段的回调
func (t *Ticker) AddSampler(name string, fn func(dt float64)) *Handle {
	return t.add(StageSample, name, fn)
}

// AddAdvancer 注册自主推进阶段的回调
func (t *Ticker) AddAdvancer(name string, fn func(dt float64)) *Handle {
	return t.add(StageAdvance, name, fn)
}

// AddHook 注册推进之后的回调
func (t *Ticker) AddHook(name string, fn func(dt float64)) *Handle {
	return t.add(StageHook, name, fn)
}

// AddTimeline 把时间线的 Advance 注册为自主推进；时间线销毁后自动移除
func (t *Ticker) AddTimeline(name string, tl *timeline.Timeline) *Handle {
	var h *Handle
	h = t.AddAdvancer(name, func(dt float64) {
		if tl.Killed() {
			h.Remove()
			return
		}
		tl.Advance(dt)
	})
	return h
}

func (t *Ticker) add(stage Stage, name string, fn func(dt float64)) *Handle {
	e := &entry{name: name, stage: stage, fn: fn}
	t.stages[stage] = append(t.stages[stage], e)
	return &Handle{t: t, e: e}
}

func (t *Ticker) remove(e *entry) {
	list := t.stages[e.stage]
	for i, x := range list {
		if x == e {
			t.stages[e.stage] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Tick 执行一帧
func (t *Ticker) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	if t.MaxStep > 0 && dt > t.MaxStep {
		dt = t.MaxStep
	}
	t.clock.advance(dt)

	for stage := Stage(0); stage < stageCount; stage++ {
		snapshot := append([]*entry(nil), t.stages[stage]...)
		for _, e := range snapshot {
			if e.removed {
				continue
			}
			run(e, dt)
		}
	}
}

func run(e *entry, dt float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] Warning: %s %q panicked: %v", e.stage, e.name, r)
		}
	}()
	e.fn(dt)
}

// Clock 帧计数与累计时间
func (t *Ticker) Clock() Clock {
	return t.clock
}

// Len 某个阶段已注册的回调数
func (t *Ticker) Len(stage Stage) int {
	return len(t.stages[stage])
}
