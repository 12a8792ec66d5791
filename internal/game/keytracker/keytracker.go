// keytracker.go - edge detection for toggle keys on Ebiten v2.8.8
// Movement keys are polled every tick; toggles fire once per press.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Pressed reports whether a key is currently down.
type Pressed func(ebiten.Key) bool

// KeyStateTracker tracks the previous state of every key it has been asked about.
type KeyStateTracker struct {
	prevPressed map[ebiten.Key]bool
	pressed     Pressed
}

// New creates a tracker reading the live keyboard.
func New() *KeyStateTracker {
	return NewWithSource(ebiten.IsKeyPressed)
}

// NewWithSource creates a tracker reading key state from pressed.
func NewWithSource(pressed Pressed) *KeyStateTracker {
	return &KeyStateTracker{
		prevPressed: make(map[ebiten.Key]bool),
		pressed:     pressed,
	}
}

// IsKeyJustPressed returns true if the key was not pressed last tick but is pressed this tick.
// Call it once per key per tick.
func (k *KeyStateTracker) IsKeyJustPressed(key ebiten.Key) bool {
	pressed := k.pressed(key)
	justPressed := pressed && !k.prevPressed[key]
	k.prevPressed[key] = pressed
	return justPressed
}
