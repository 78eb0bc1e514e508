// Package cam holds the video ends of the call: cameras that produce
// frames and displays that show them and surface key presses.
package cam

import "github.com/ShikharGupta-75/Video-Call-translator/pic"

// Camera produces frames on demand.
type Camera interface {
	Read() (*pic.Frame, error)
	Close() error
}

// Event is a user action reported by a display.
type Event int

const (
	// EventQuit asks the call to end.
	EventQuit Event = iota + 1
	// EventToggleTranslate flips the translation flag.
	EventToggleTranslate
)

func (e Event) String() string {
	switch e {
	case EventQuit:
		return "quit"
	case EventToggleTranslate:
		return "toggle-translate"
	}
	return "unknown"
}

// Display renders the local and remote panes and queues up key
// events. Implementations must never block the caller; frames that
// cannot be shown right away are dropped.
type Display interface {
	ShowLocal(*pic.Frame)
	ShowRemote(*pic.Frame)
	ShowText(string)
	Events() []Event
	Close() error
}

// Nop is a display for headless runs: it shows nothing and reports no
// events, leaving shutdown to the interrupt signal.
type Nop struct{}

func (Nop) ShowLocal(*pic.Frame)  {}
func (Nop) ShowRemote(*pic.Frame) {}
func (Nop) ShowText(string)       {}
func (Nop) Events() []Event       { return nil }
func (Nop) Close() error          { return nil }
