// Package sprite holds the billboard objects placed in the world and the
// per-frame snapshot the renderer projects.
package sprite

import "time"

// Object is one billboard as the renderer sees it for a single frame.
type Object struct {
	X, Y        float64 // World position in tile units
	Frame       string  // Texture key of the current frame
	Scale       float64 // Size relative to a wall; 0 uses the renderer default
	HeightShift float64 // Vertical shift as a fraction of the projected height
	Ratio       float64 // Width over height of the frame; 0 means square
}

// Snapshot copies objs into dst, reusing its capacity. The renderer takes a
// snapshot once at frame start so later edits to objs cannot reach a frame
// already in flight.
func Snapshot(objs []Object, dst []Object) []Object {
	dst = dst[:0]
	return append(dst, objs...)
}

// Sprite is anything the Handler can place in the world.
type Sprite interface {
	Update(now time.Time)
	Object() Object
}

// Static is a sprite with a single frame.
type Static struct {
	obj Object
}

// NewStatic creates a static sprite from its frame description.
func NewStatic(obj Object) *Static {
	return &Static{obj: obj}
}

func (s *Static) Update(time.Time) {}

func (s *Static) Object() Object { return s.obj }

// Animated cycles through Frames, advancing one frame every AnimationTime.
type Animated struct {
	obj           Object
	frames        []string
	animationTime time.Duration
	current       int
	lastStep      time.Time
}

// NewAnimated creates an animated sprite. obj.Frame is ignored; the first entry
// of frames is shown first. A non-positive animationTime freezes the animation.
func NewAnimated(obj Object, frames []string, animationTime time.Duration) *Animated {
	a := &Animated{
		obj:           obj,
		frames:        append([]string(nil), frames...),
		animationTime: animationTime,
	}
	if len(a.frames) > 0 {
		a.obj.Frame = a.frames[0]
	}
	return a
}

// Update advances the animation. Missed steps are caught up one frame at a
// time, so a long stall does not skip the cycle out of order.
func (a *Animated) Update(now time.Time) {
	if len(a.frames) < 2 || a.animationTime <= 0 {
		return
	}
	if a.lastStep.IsZero() {
		a.lastStep = now
		return
	}
	steps := int(now.Sub(a.lastStep) / a.animationTime)
	if steps <= 0 {
		return
	}
	a.current = (a.current + steps) % len(a.frames)
	a.lastStep = a.lastStep.Add(time.Duration(steps) * a.animationTime)
	a.obj.Frame = a.frames[a.current]
}

func (a *Animated) Object() Object { return a.obj }

// Handler owns the sprites placed in the world.
type Handler struct {
	sprites []Sprite
}

func NewHandler() *Handler {
	return &Handler{}
}

// Add places a sprite. Insertion order is the snapshot order, which breaks
// depth ties deterministically.
func (h *Handler) Add(s Sprite) {
	h.sprites = append(h.sprites, s)
}

// Len returns the number of sprites.
func (h *Handler) Len() int { return len(h.sprites) }

// Update advances every sprite.
func (h *Handler) Update(now time.Time) {
	for _, s := range h.sprites {
		s.Update(now)
	}
}

// Objects appends the current object of every sprite to dst[:0].
func (h *Handler) Objects(dst []Object) []Object {
	dst = dst[:0]
	for _, s := range h.sprites {
		dst = append(dst, s.Object())
	}
	return dst
}
