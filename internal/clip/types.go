// Package clip provides model animation clips and a small mixer to play them.
//
// A clip file is reanim-like XML without a root element: an <fps> value and a
// list of <track> elements, each holding <t> frames. Every frame field is
// optional; a missing field inherits the previous frame's value.
package clip

// ClipXML is the raw structure of a clip file.
type ClipXML struct {
	// FPS is the clip frame rate
	FPS int `xml:"fps"`

	// Tracks are the animated parts of the model, e.g. "screen", "keyboard"
	Tracks []TrackXML `xml:"track"`
}

// TrackXML is one animated part.
type TrackXML struct {
	Name   string     `xml:"name"`
	Frames []FrameXML `xml:"t"`
}

// FrameXML is a single keyframe. Nil fields inherit from the previous frame.
type FrameXML struct {
	X *float64 `xml:"x,omitempty"`
	Y *float64 `xml:"y,omitempty"`

	// ScaleX / ScaleY default to 1
	ScaleX *float64 `xml:"sx,omitempty"`
	ScaleY *float64 `xml:"sy,omitempty"`

	// Rotation in degrees
	Rotation *float64 `xml:"r,omitempty"`

	// Alpha in [0, 1], defaults to 1
	Alpha *float64 `xml:"a,omitempty"`
}

// Transform is the resolved state of a track at one point in time.
type Transform struct {
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
	Alpha          float64
}

// Rest is the transform of a track with no keyframes.
var Rest = Transform{ScaleX: 1, ScaleY: 1, Alpha: 1}

func lerpTransform(a, b Transform, t float64) Transform {
	mix := func(x, y float64) float64 { return x + (y-x)*t }
	return Transform{
		X:        mix(a.X, b.X),
		Y:        mix(a.Y, b.Y),
		ScaleX:   mix(a.ScaleX, b.ScaleX),
		ScaleY:   mix(a.ScaleY, b.ScaleY),
		Rotation: mix(a.Rotation, b.Rotation),
		Alpha:    mix(a.Alpha, b.Alpha),
	}
}
