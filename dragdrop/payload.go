// Package dragdrop implements the drag-to-install gesture without
// depending on any widget toolkit: an app icon that can be dragged,
// and a folder that only accepts drags coming from that icon.
package dragdrop

// Payload is the data carried by a drag gesture. The only payload
// that exists is InstallerMarker: anything else a toolkit might
// deliver has no Payload representation at all.
type Payload interface {
	isPayload()
}

// InstallerMarker says "this drag started on this installer's app icon".
// ID distinguishes installers from one another.
type InstallerMarker struct {
	ID string
}

var _ Payload = InstallerMarker{}

func (InstallerMarker) isPayload() {}

// Text is the representation used by toolkits that can only
// carry text in a drag.
func (m InstallerMarker) Text() string {
	return m.ID
}

// Decode turns text received by a toolkit drop target into a payload.
// It returns nil unless the text is exactly this marker's text.
func (m InstallerMarker) Decode(text string) Payload {
	if m.ID == "" || text != m.Text() {
		return nil
	}
	return m
}

// Effect is the operation a drag offers to its targets
type Effect int

const (
	// EffectCopy means the source data is never moved or mutated
	EffectCopy Effect = iota
)
