package clip

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
)

// ErrEmptyClip is returned for clips without tracks or frames.
var ErrEmptyClip = errors.New("clip has no frames")

// Clip is a parsed clip with fully resolved (inherited) frames.
type Clip struct {
	Name   string
	FPS    int
	tracks map[string][]Transform
	order  []string
	frames int
}

// ParseClipFile reads and parses a clip file from disk.
//
// Example:
//
//	c, err := clip.ParseClipFile("data/models/desktop.clip")
//	if err != nil {
//	    log.Fatalf("Failed to parse clip: %v", err)
//	}
func ParseClipFile(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip file '%s': %w", path, err)
	}
	c, err := ParseClip(path, data)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ParseClip parses clip XML. The content has no root element, so it is
// wrapped in <clip> before decoding.
func ParseClip(name string, data []byte) (*Clip, error) {
	wrapped := "<clip>" + string(data) + "</clip>"

	var raw ClipXML
	if err := xml.Unmarshal([]byte(wrapped), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse clip '%s': %w", name, err)
	}
	return build(name, &raw)
}

func build(name string, raw *ClipXML) (*Clip, error) {
	if raw.FPS <= 0 {
		raw.FPS = 12
	}
	c := &Clip{Name: name, FPS: raw.FPS, tracks: make(map[string][]Transform)}
	for _, tr := range raw.Tracks {
		if len(tr.Frames) == 0 {
			continue
		}
		c.tracks[tr.Name] = resolveFrames(tr.Frames)
		c.order = append(c.order, tr.Name)
		if len(tr.Frames) > c.frames {
			c.frames = len(tr.Frames)
		}
	}
	if c.frames == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyClip)
	}
	return c, nil
}

// resolveFrames applies cumulative inheritance.
func resolveFrames(frames []FrameXML) []Transform {
	out := make([]Transform, len(frames))
	cur := Rest
	for i, f := range frames {
		inherit(&cur.X, f.X)
		inherit(&cur.Y, f.Y)
		inherit(&cur.ScaleX, f.ScaleX)
		inherit(&cur.ScaleY, f.ScaleY)
		inherit(&cur.Rotation, f.Rotation)
		inherit(&cur.Alpha, f.Alpha)
		out[i] = cur
	}
	return out
}

func inherit(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// Tracks returns the track names in file order.
func (c *Clip) Tracks() []string {
	return append([]string(nil), c.order...)
}

// Frames returns the length of the longest track.
func (c *Clip) Frames() int {
	return c.frames
}

// Duration in seconds.
func (c *Clip) Duration() float64 {
	return float64(c.frames) / float64(c.FPS)
}

// Frame returns the resolved transform of a track at an integer frame.
// Tracks shorter than the clip hold their last frame.
func (c *Clip) Frame(track string, i int) (Transform, bool) {
	frames, ok := c.tracks[track]
	if !ok {
		return Rest, false
	}
	if i < 0 {
		i = 0
	}
	if i >= len(frames) {
		i = len(frames) - 1
	}
	return frames[i], true
}
