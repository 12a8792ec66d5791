// Package projection turns per-column wall hits and world-space sprites into
// screen rectangles with matching texture source regions.
package projection

import (
	"image"
	"math"

	"raycaster/internal/mathutil"
	"raycaster/internal/raycast"
	"raycaster/internal/texture"
)

const (
	// DepthEpsilon keeps the projected height finite at zero depth.
	DepthEpsilon = 1e-4
	// DefaultNearClip hides sprites closer than this perpendicular distance.
	DefaultNearClip = 0.5
	// DefaultSpriteScale sizes sprites relative to a wall.
	DefaultSpriteScale = 0.7
)

// Viewport describes the screen and camera the projector maps onto.
type Viewport struct {
	Width, Height int
	NumRays       int
	TextureSize   int
	FOV           float64 // Radians
	// ScreenDist is the eye to screen distance; 0 derives it from Width and FOV.
	ScreenDist  float64
	NearClip    float64 // 0 uses DefaultNearClip
	SpriteScale float64 // 0 uses DefaultSpriteScale
}

// WallColumn is one projected wall strip.
type WallColumn struct {
	Column int
	Depth  float64 // Perpendicular depth used for sorting
	Height float64 // Unclipped projected height in pixels
	Dest   image.Rectangle
	Src    image.Rectangle // Region of the wall texture
	WallID int
	Shade  float64 // 1 is full brightness
}

// Projector maps hits and sprites to the screen. It is immutable once built.
type Projector struct {
	vp          Viewport
	scale       int // Column width in pixels
	halfHeight  int
	screenDist  float64
	deltaAngle  float64
	nearClip    float64
	spriteScale float64
}

// NewProjector creates a projector for the viewport, filling in defaults.
func NewProjector(v Viewport) *Projector {
	if v.NumRays < 1 {
		v.NumRays = 1
	}
	if v.TextureSize < 1 {
		v.TextureSize = 1
	}
	p := &Projector{
		vp:          v,
		scale:       mathutil.IntMax(1, v.Width/v.NumRays),
		halfHeight:  v.Height / 2,
		screenDist:  v.ScreenDist,
		deltaAngle:  v.FOV / float64(v.NumRays),
		nearClip:    v.NearClip,
		spriteScale: v.SpriteScale,
	}
	if p.screenDist <= 0 {
		p.screenDist = float64(v.Width) / 2 / math.Tan(v.FOV/2)
	}
	if p.nearClip <= 0 {
		p.nearClip = DefaultNearClip
	}
	if p.spriteScale <= 0 {
		p.spriteScale = DefaultSpriteScale
	}
	return p
}

// Viewport returns the viewport with defaults applied.
func (p *Projector) Viewport() Viewport { return p.vp }

// Scale returns the column width in pixels.
func (p *Projector) Scale() int { return p.scale }

// ScreenDist returns the projection constant.
func (p *Projector) ScreenDist() float64 { return p.screenDist }

// ProjectedHeight returns the on-screen height of a wall at depth.
func (p *Projector) ProjectedHeight(depth float64) float64 {
	return p.screenDist / (math.Max(depth, 0) + DepthEpsilon)
}

// Shade returns the distance falloff for depth: 1 / (1 + depth^5 * 0.0002).
func Shade(depth float64) float64 {
	return 1 / (1 + math.Pow(math.Max(depth, 0), 5)*0.0002)
}

// Wall projects one column hit.
//
// When the wall is shorter than the viewport the whole texture column is
// drawn centered on the horizon. Otherwise only the vertically centered slice
// that fits the screen is taken and drawn at full viewport height.
func (p *Projector) Wall(hit raycast.Hit) WallColumn {
	tex := p.vp.TextureSize
	proj := p.ProjectedHeight(hit.Depth)
	x := hit.Column * p.scale
	srcX := texture.SourceX(hit.Offset, tex, p.scale)
	srcW := mathutil.IntMin(p.scale, tex)

	col := WallColumn{
		Column: hit.Column,
		Depth:  hit.Depth,
		Height: proj,
		WallID: hit.WallID,
		Shade:  Shade(hit.Depth),
	}

	if proj < float64(p.vp.Height) {
		h := int(proj)
		top := p.halfHeight - h/2
		col.Dest = image.Rect(x, top, x+p.scale, top+h)
		col.Src = image.Rect(srcX, 0, srcX+srcW, tex)
		return col
	}

	// Crop to the slice that covers the viewport
	texH := mathutil.IntClamp(int(math.Round(float64(tex)*float64(p.vp.Height)/proj)), 1, tex)
	top := tex/2 - texH/2
	col.Dest = image.Rect(x, 0, x+p.scale, p.vp.Height)
	col.Src = image.Rect(srcX, top, srcX+srcW, top+texH)
	return col
}

// Walls projects every hit into dst, reusing its capacity.
func (p *Projector) Walls(hits []raycast.Hit, dst []WallColumn) []WallColumn {
	dst = dst[:0]
	for i := range hits {
		dst = append(dst, p.Wall(hits[i]))
	}
	return dst
}
