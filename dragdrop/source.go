package dragdrop

import (
	"github.com/itchio/savior"
	"github.com/itchio/wharf/state"
)

// Outcome is how a drag gesture ended
type Outcome int

const (
	// Rejected means nobody consumed the payload: the pointer was released
	// outside any target, a target refused it, or the drag was cancelled.
	Rejected Outcome = iota
	// Accepted means a target validated and consumed the payload
	Accepted
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// A Gesture runs a modal pointer drag to completion and returns
// whatever was under the pointer on release, or nil.
type Gesture interface {
	Track(payload Payload, effect Effect) Acceptor
}

// GestureFunc adapts a function to the Gesture interface
type GestureFunc func(payload Payload, effect Effect) Acceptor

func (f GestureFunc) Track(payload Payload, effect Effect) Acceptor {
	return f(payload, effect)
}

// SourceParams configures a Source
type SourceParams struct {
	Marker InstallerMarker
	// Icon is the resource the presentation layer draws
	Icon string
	// Gesture runs the drag on press. When nil, a press is treated
	// as a click: a drag that ends where it started.
	Gesture Gesture
	// Hint is called whenever a drag ends without being accepted
	Hint     func()
	Consumer *state.Consumer
}

// Source is the draggable app icon. It only negotiates the gesture:
// it never changes installation state.
type Source struct {
	marker   InstallerMarker
	icon     string
	gesture  Gesture
	hint     func()
	consumer *state.Consumer
}

var _ Control = (*Source)(nil)

func NewSource(params *SourceParams) *Source {
	consumer := params.Consumer
	if consumer == nil {
		consumer = savior.NopConsumer()
	}

	return &Source{
		marker:   params.Marker,
		icon:     params.Icon,
		gesture:  params.Gesture,
		hint:     params.Hint,
		consumer: consumer,
	}
}

// Press starts a drag, for toolkits that deliver pointer
// events one by one. The drag must be released exactly once.
func (s *Source) Press() *Drag {
	return &Drag{
		source:  s,
		payload: s.marker,
	}
}

// BeginDrag runs a whole drag through a modal gesture
func (s *Source) BeginDrag(g Gesture) Outcome {
	d := s.Press()
	return d.Release(g.Track(d.Payload(), EffectCopy))
}

func (s *Source) Appearance() Appearance {
	return Appearance{
		Icon:    s.icon,
		Tooltip: "Drag me onto the folder to install",
		Cursor:  CursorGrab,
	}
}

func (s *Source) HandlePress() {
	if s.gesture != nil {
		s.BeginDrag(s.gesture)
		return
	}
	s.Press().Release(nil)
}

// HandleDrop always refuses: the icon is not a drop target
func (s *Source) HandleDrop(payload Payload) bool {
	return false
}

func (s *Source) abandoned() {
	s.consumer.Debugf("Drag ended without a taker")
	if s.hint != nil {
		s.hint()
	}
}

// Drag is one gesture in progress
type Drag struct {
	source   *Source
	payload  Payload
	released bool
}

// Payload returns what this drag carries
func (d *Drag) Payload() Payload {
	return d.payload
}

// Release ends the drag over target, which may be nil when the
// pointer isn't over any drop target. Releasing a drag a second
// time returns Rejected without consulting target.
func (d *Drag) Release(target Acceptor) Outcome {
	if d.released {
		return Rejected
	}
	d.released = true

	if target != nil && target.HandleDrop(d.payload) {
		return Accepted
	}

	d.source.abandoned()
	return Rejected
}
