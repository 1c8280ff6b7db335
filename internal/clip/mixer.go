package clip

import (
	"log"
	"math"
)

// LoopMode of an action.
type LoopMode int

const (
	// LoopRepeat wraps to the first frame at the end
	LoopRepeat LoopMode = iota
	// LoopOnce stops at the end
	LoopOnce
)

// Action plays one clip.
type Action struct {
	clip *Clip

	// ClampWhenFinished keeps the last frame when a LoopOnce action ends,
	// otherwise the action resets to the rest pose.
	ClampWhenFinished bool
	Loop              LoopMode
	TimeScale         float64

	time     float64
	playing  bool
	paused   bool
	finished bool
}

// Play starts (or restarts after finishing) the action.
func (a *Action) Play() {
	if a.finished {
		a.time = 0
		a.finished = false
	}
	a.playing = true
	a.paused = false
}

// Stop resets the action to the start.
func (a *Action) Stop() {
	a.playing = false
	a.paused = false
	a.finished = false
	a.time = 0
}

// Pause freezes the action; Mixer.Update skips paused actions entirely.
func (a *Action) Pause() {
	a.paused = true
}

// Paused reports whether the action is paused.
func (a *Action) Paused() bool {
	return a.paused
}

// Running reports whether the action advances on Update.
func (a *Action) Running() bool {
	return a.playing && !a.paused && !a.finished
}

// Finished reports whether a LoopOnce action reached its end.
func (a *Action) Finished() bool {
	return a.finished
}

// Time is the local time in seconds.
func (a *Action) Time() float64 {
	return a.time
}

// Clip returns the played clip.
func (a *Action) Clip() *Clip {
	return a.clip
}

func (a *Action) advance(dt float64) {
	if !a.Running() {
		return
	}
	scale := a.TimeScale
	if scale == 0 {
		scale = 1
	}
	a.time += dt * scale

	dur := a.clip.Duration()
	if dur <= 0 {
		return
	}
	switch a.Loop {
	case LoopRepeat:
		a.time = math.Mod(a.time, dur)
		if a.time < 0 {
			a.time += dur
		}
	case LoopOnce:
		if a.time >= dur {
			a.finished = true
			if a.ClampWhenFinished {
				a.time = dur
			} else {
				a.time = 0
				a.playing = false
			}
			log.Printf("[Clip] %s finished (clamp=%v)", a.clip.Name, a.ClampWhenFinished)
		}
	}
}

// Pose returns the interpolated transform of a track at the action time.
func (a *Action) Pose(track string) Transform {
	if !a.playing && !a.finished {
		t, _ := a.clip.Frame(track, 0)
		return t
	}
	pos := a.time * float64(a.clip.FPS)
	last := a.clip.Frames() - 1
	if pos >= float64(last) {
		if a.Loop == LoopRepeat && last > 0 {
			// 最后一帧与第一帧之间插值
			from, _ := a.clip.Frame(track, last)
			to, _ := a.clip.Frame(track, 0)
			return lerpTransform(from, to, pos-float64(last))
		}
		t, _ := a.clip.Frame(track, last)
		return t
	}
	i := int(math.Floor(pos))
	from, _ := a.clip.Frame(track, i)
	to, _ := a.clip.Frame(track, i+1)
	return lerpTransform(from, to, pos-float64(i))
}

// Mixer drives the actions of one model.
type Mixer struct {
	actions []*Action
}

// NewMixer creates an empty mixer.
func NewMixer() *Mixer {
	return &Mixer{}
}

// ClipAction returns the action for a clip, creating it on first use.
func (m *Mixer) ClipAction(c *Clip) *Action {
	for _, a := range m.actions {
		if a.clip == c {
			return a
		}
	}
	a := &Action{clip: c}
	m.actions = append(m.actions, a)
	return a
}

// Update advances every running action. Paused actions are not touched.
func (m *Mixer) Update(dt float64) {
	for _, a := range m.actions {
		if a.paused {
			continue
		}
		a.advance(dt)
	}
}
