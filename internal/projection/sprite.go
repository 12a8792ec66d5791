package projection

import (
	"image"
	"math"

	"raycaster/internal/mathutil"
	"raycaster/internal/raycast"
	"raycaster/internal/sprite"
)

// SpriteProjection is one visible billboard on screen.
type SpriteProjection struct {
	Index   int // Position in the frame's sprite snapshot
	Frame   string
	Depth   float64 // Perpendicular distance, comparable with wall depth
	ScreenX float64 // Horizontal center in pixels
	Dest    image.Rectangle
}

// Sprite projects obj as seen from pose. ok is false when the sprite is behind
// the near clip plane or entirely off screen.
func (p *Projector) Sprite(pose raycast.Pose, obj sprite.Object) (proj SpriteProjection, ok bool) {
	dx := obj.X - pose.X
	dy := obj.Y - pose.Y
	delta := mathutil.NormalizeAngle(math.Atan2(dy, dx) - pose.Heading)

	perp := math.Hypot(dx, dy) * math.Cos(delta)
	if !(perp > p.nearClip) {
		return SpriteProjection{}, false
	}

	screenX := (float64(p.vp.NumRays)/2 + delta/p.deltaAngle) * float64(p.scale)

	scale := obj.Scale
	if scale <= 0 {
		scale = p.spriteScale
	}
	ratio := obj.Ratio
	if ratio <= 0 {
		ratio = 1
	}
	height := p.screenDist / perp * scale
	width := height * ratio
	halfWidth := width / 2

	// Padded by half the sprite so partially visible sprites still draw
	if screenX+halfWidth < 0 || screenX-halfWidth > float64(p.vp.Width) {
		return SpriteProjection{}, false
	}

	shift := height * obj.HeightShift
	left := int(math.Floor(screenX - halfWidth))
	top := int(math.Floor(float64(p.halfHeight) - height/2 + shift))
	proj = SpriteProjection{
		Frame:   obj.Frame,
		Depth:   perp,
		ScreenX: screenX,
		Dest:    image.Rect(left, top, left+int(width), top+int(height)),
	}
	return proj, true
}

// Sprites projects every visible object into dst, keeping snapshot order.
func (p *Projector) Sprites(pose raycast.Pose, objs []sprite.Object, dst []SpriteProjection) []SpriteProjection {
	dst = dst[:0]
	for i := range objs {
		if sp, ok := p.Sprite(pose, objs[i]); ok {
			sp.Index = i
			dst = append(dst, sp)
		}
	}
	return dst
}
