// Package effect 自调度的循环效果
//
// 每个周期从目标池中随机选取一部分目标，施加一次短暂的样式变化（去并返回），
// 周期结束的回调决定是否调度下一个周期。Stop 只清除存活标志：正在进行的
// 周期会正常结束，之后不再调度新的周期。
package effect

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gonewx/vinyl/internal/ease"
	"github.com/gonewx/vinyl/internal/timeline"
)

// State 效果状态
type State int

const (
	// Idle 尚未启动
	Idle State = iota
	// Scheduled 等待下一个周期开始
	Scheduled
	// Running 周期进行中
	Running
	// TornDown 已停止，不会再有周期
	TornDown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduled:
		return "scheduled"
	case Running:
		return "running"
	case TornDown:
		return "torn-down"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Recursive 自调度效果
type Recursive struct {
	Name string
	// Pool 候选目标
	Pool []timeline.Target
	// Pick 每个周期选取的目标数，<= 0 时为 1
	Pick int
	// Props 变化的目标值；周期后半段回到原值
	Props map[string]timeline.Value
	// Duration 单程时长（秒），整个周期为 2×Duration + Hold
	Duration float64
	// Hold 在变化后的状态停留的时间
	Hold float64
	// Delay 两个周期之间的间隔
	Delay float64
	Ease  string
	// Rand 选择目标的随机源；为 nil 时按时间播种
	Rand *rand.Rand
	// OnCycle 每个周期开始时调用，参数为选中的目标下标
	OnCycle func(cycle int, picked []int)

	state   State
	live    bool
	wait    float64
	current *timeline.Timeline
	started int
	cycles  int
}

// Start 进入 Scheduled 状态；只能从 Idle 启动
func (e *Recursive) Start() error {
	if e.state != Idle {
		return fmt.Errorf("effect %q: cannot start from state %s", e.Name, e.state)
	}
	if _, err := ease.Parse(e.Ease); err != nil {
		return fmt.Errorf("effect %q: %w", e.Name, err)
	}
	if e.Duration <= 0 {
		e.Duration = timeline.DefaultDuration
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.live = true
	e.state = Scheduled
	e.wait = e.Delay
	log.Printf("[Effect] %s: started with %d targets", e.Name, len(e.Pool))
	return nil
}

// Stop 清除存活标志
// 等待中的效果立即停止；进行中的周期会结束，但不会调度下一个
func (e *Recursive) Stop() {
	if !e.live && e.state != Idle {
		return
	}
	e.live = false
	switch e.state {
	case Idle, Scheduled:
		e.state = TornDown
		log.Printf("[Effect] %s: torn down", e.Name)
	case Running:
		log.Printf("[Effect] %s: stopping after the current cycle", e.Name)
	}
}

// Kill 同 Stop
func (e *Recursive) Kill() {
	e.Stop()
}

// State 当前状态
func (e *Recursive) State() State {
	return e.state
}

// Cycles 已完成的周期数
func (e *Recursive) Cycles() int {
	return e.cycles
}

// Started 已开始的周期数
func (e *Recursive) Started() int {
	return e.started
}

// Update 每帧推进
func (e *Recursive) Update(dt float64) {
	switch e.state {
	case Scheduled:
		e.wait -= dt
		if e.wait > 0 {
			return
		}
		e.run()
	case Running:
		if e.current != nil {
			e.current.Advance(dt)
		}
	}
}

// run 开始一个周期：重新选取目标并创建本周期的时间线
func (e *Recursive) run() {
	picked := e.pick()
	targets := make([]timeline.Target, len(picked))
	for i, idx := range picked {
		targets[i] = e.Pool[idx]
	}

	tl := timeline.New(timeline.Options{
		Repeat:      1,
		Yoyo:        true,
		RepeatDelay: e.Hold,
		Defaults:    timeline.Defaults{Ease: e.Ease},
		OnComplete:  e.complete,
	})
	err := tl.Add(timeline.Tween{Direct: targets, Props: e.Props, Duration: e.Duration}, "")
	if err != nil {
		log.Printf("[Effect] %s: cannot build cycle: %v", e.Name, err)
		e.live = false
		e.state = TornDown
		return
	}

	e.state = Running
	e.current = tl
	e.started++
	if e.OnCycle != nil {
		e.OnCycle(e.started, picked)
	}
}

// complete 周期结束回调：唯一负责调度下一个周期的地方
func (e *Recursive) complete() {
	e.cycles++
	e.current = nil
	if !e.live {
		e.state = TornDown
		log.Printf("[Effect] %s: torn down after %d cycles", e.Name, e.cycles)
		return
	}
	e.state = Scheduled
	e.wait = e.Delay
}

// pick 随机选取 Pick 个不重复的目标下标
func (e *Recursive) pick() []int {
	n := len(e.Pool)
	k := e.Pick
	if k <= 0 {
		k = 1
	}
	if k > n {
		k = n
	}
	return e.Rand.Perm(n)[:k]
}
