package editor

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownEvent = errors.New("unknown event type")
	ErrMissingKey   = errors.New("key event without key")
)

// EventType names an input event.
type EventType string

const (
	PointerDown EventType = "pointer_down"
	PointerMove EventType = "pointer_move"
	PointerUp   EventType = "pointer_up"
	KeyDown     EventType = "key_down"
	KeyUp       EventType = "key_up"
)

// Event is one pointer or keyboard input. Pointer events use X and Y; key
// events use Key.
type Event struct {
	Type EventType `json:"type"`
	X    float64   `json:"x,omitempty"`
	Y    float64   `json:"y,omitempty"`
	Key  string    `json:"key,omitempty"`
}

// Validate checks that e can be applied.
func (e Event) Validate() error {
	switch e.Type {
	case PointerDown, PointerMove, PointerUp:
		return nil
	case KeyDown, KeyUp:
		if e.Key == "" {
			return ErrMissingKey
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
}
