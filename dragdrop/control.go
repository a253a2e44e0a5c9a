package dragdrop

// Cursor is a hint for the pointer shape over a control
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorGrab
)

// Appearance is everything a presentation layer needs to draw a control
type Appearance struct {
	// Icon names a bundled resource, or a built-in icon when prefixed with "theme:"
	Icon    string
	Tooltip string
	Cursor  Cursor
}

// Control is the capability set shared by the app icon and the folder.
// Widget toolkits wrap a Control and forward pointer events to it.
type Control interface {
	Appearance() Appearance
	HandlePress()
	HandleDrop(payload Payload) bool
}

// Acceptor is anything a drag can be released over
type Acceptor interface {
	HandleDrop(payload Payload) bool
}
