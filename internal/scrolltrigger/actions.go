package scrolltrigger

import (
	"fmt"
	"math"
	"strings"

	"github.com/gonewx/vinyl/internal/timeline"
)

// Action 进入/离开触发区域时对时间线执行的动作
type Action int

const (
	ActionNone Action = iota
	ActionPlay
	ActionPause
	ActionResume
	ActionReverse
	ActionRestart
	ActionReset
	ActionComplete
)

var actionNames = map[string]Action{
	"none":     ActionNone,
	"play":     ActionPlay,
	"pause":    ActionPause,
	"resume":   ActionResume,
	"reverse":  ActionReverse,
	"restart":  ActionRestart,
	"reset":    ActionReset,
	"complete": ActionComplete,
}

// ToggleActions 依次对应 onEnter、onLeave、onEnterBack、onLeaveBack
type ToggleActions [4]Action

// DefaultToggleActions "play none none none"
var DefaultToggleActions = ToggleActions{ActionPlay, ActionNone, ActionNone, ActionNone}

// ParseToggleActions 解析 "play none none reverse" 形式的配置；空字符串返回默认值
func ParseToggleActions(s string) (ToggleActions, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return DefaultToggleActions, nil
	}
	if len(fields) != 4 {
		return ToggleActions{}, fmt.Errorf("toggle actions need 4 entries, got %d (%q)", len(fields), s)
	}
	var out ToggleActions
	for i, f := range fields {
		a, ok := actionNames[f]
		if !ok {
			return ToggleActions{}, fmt.Errorf("unknown toggle action %q", f)
		}
		out[i] = a
	}
	return out, nil
}

// apply 对时间线执行动作
func (a Action) apply(tl *timeline.Timeline) {
	switch a {
	case ActionPlay:
		if tl.Reversed() {
			tl.Reverse()
		}
		tl.Play()
	case ActionPause:
		tl.Pause()
	case ActionResume:
		tl.Play()
	case ActionReverse:
		if !tl.Reversed() {
			tl.Reverse()
		}
		tl.Play()
	case ActionRestart:
		tl.Restart()
	case ActionReset:
		if tl.Reversed() {
			tl.Reverse()
		}
		tl.Seek(0)
		tl.Pause()
	case ActionComplete:
		if td := tl.TotalDuration(); !math.IsInf(td, 1) {
			tl.Seek(td)
		}
		tl.Pause()
	}
}
