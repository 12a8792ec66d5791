package raycast

import (
	"math"

	"raycaster/internal/mathutil"
	"raycaster/internal/threading/core"
	"raycaster/internal/world"
)

const (
	// MinTrig keeps sin/cos away from zero so slope divisions stay finite
	// for axis-aligned rays.
	MinTrig = 1e-6
	// BoundaryBias nudges a scan that steps toward decreasing coordinates
	// just inside the neighbouring tile, so it never sits exactly on a grid line.
	BoundaryBias = 1e-6
	// DefaultAngleBias is added to every ray angle (see Settings.AngleBias).
	DefaultAngleBias = 1e-4
)

// Grid is the occupancy query the caster marches through.
type Grid interface {
	Lookup(col, row int) (int, bool)
}

// spanner is implemented by grids that know their extent; the caster uses it
// to make sure the step bound covers the whole map.
type spanner interface {
	Span() int
}

// Settings are the fixed casting parameters. They are swapped only between
// frames by building a new Caster.
type Settings struct {
	FOV       float64 // Radians
	NumRays   int
	MaxDepth  int     // Grid lines stepped per scan
	AngleBias float64 // Added to every ray angle
}

// Caster casts one ray per screen column using a split horizontal/vertical
// grid-line scan (DDA). It keeps no per-frame state, so a Caster may be shared
// by concurrent readers.
type Caster struct {
	grid       Grid
	fov        float64
	numRays    int
	deltaAngle float64
	angleBias  float64
	maxSteps   int
}

// NewCaster creates a caster over grid. If the grid reports its span, the step
// bound is raised so a ray can always cross the whole map.
func NewCaster(grid Grid, s Settings) *Caster {
	numRays := s.NumRays
	if numRays < 1 {
		numRays = 1
	}
	steps := s.MaxDepth
	if sp, ok := grid.(spanner); ok {
		steps = mathutil.IntMax(steps, sp.Span()+1)
	}
	if steps < 1 {
		steps = 1
	}
	return &Caster{
		grid:       grid,
		fov:        s.FOV,
		numRays:    numRays,
		deltaAngle: s.FOV / float64(numRays),
		angleBias:  s.AngleBias,
		maxSteps:   steps,
	}
}

// NumRays returns the number of columns cast per frame.
func (c *Caster) NumRays() int { return c.numRays }

// DeltaAngle returns the angle between adjacent rays.
func (c *Caster) DeltaAngle() float64 { return c.deltaAngle }

// MaxSteps returns the effective step bound per scan.
func (c *Caster) MaxSteps() int { return c.maxSteps }

// RayAngle returns the world angle of the given column's ray.
func (c *Caster) RayAngle(heading float64, column int) float64 {
	return heading - c.fov/2 + c.angleBias + float64(column)*c.deltaAngle
}

// FishEye converts a raw ray distance into the perpendicular distance to the
// camera plane. angularOffset is the ray's angle relative to the heading.
func FishEye(raw, angularOffset float64) float64 {
	return raw * math.Cos(angularOffset)
}

// Cast casts every column for pose p into dst, growing it if needed, and
// returns the filled slice. Reusing dst across frames avoids allocation.
func (c *Caster) Cast(p Pose, dst []Hit) []Hit {
	dst = growHits(dst, c.numRays)
	for i := range dst {
		dst[i] = c.CastRay(p, i)
	}
	return dst
}

// CastParallel is Cast spread over the worker pool. Each column writes only
// its own slot, so the result is identical to Cast.
func (c *Caster) CastParallel(pool *core.WorkerPool, p Pose, dst []Hit) []Hit {
	dst = growHits(dst, c.numRays)
	pool.ParallelFor(0, c.numRays, func(i int) {
		dst[i] = c.CastRay(p, i)
	})
	return dst
}

// CastRay casts the ray for a single column.
func (c *Caster) CastRay(p Pose, column int) Hit {
	ray := c.Trace(p, c.RayAngle(p.Heading, column))
	ray.Index = column
	return c.resolve(p, &ray)
}

// Trace runs both grid-line scans for a ray at angle from p.
func (c *Caster) Trace(p Pose, angle float64) Ray {
	sin := mathutil.AwayFromZero(math.Sin(angle), MinTrig)
	cos := mathutil.AwayFromZero(math.Cos(angle), MinTrig)

	return Ray{
		Angle:      angle,
		Sin:        sin,
		Cos:        cos,
		Horizontal: c.scanHorizontal(p, sin, cos),
		Vertical:   c.scanVertical(p, sin, cos),
	}
}

// scanHorizontal steps across successive horizontal grid lines (y = integer).
func (c *Caster) scanHorizontal(p Pose, sin, cos float64) Crossing {
	tileY := math.Floor(p.Y)
	y, dy := tileY+1, 1.0
	if sin < 0 {
		y, dy = tileY-BoundaryBias, -1
	}

	depth := (y - p.Y) / sin
	x := p.X + depth*cos
	deltaDepth := dy / sin
	dx := deltaDepth * cos

	for i := 0; i < c.maxSteps; i++ {
		tile := world.Tile{Col: int(math.Floor(x)), Row: int(math.Floor(y))}
		if id, ok := c.grid.Lookup(tile.Col, tile.Row); ok {
			return Crossing{X: x, Y: y, Depth: depth, Tile: tile, WallID: id, Hit: true}
		}
		x += dx
		y += dy
		depth += deltaDepth
	}
	return Crossing{X: x, Y: y, Depth: depth}
}

// scanVertical steps across successive vertical grid lines (x = integer).
func (c *Caster) scanVertical(p Pose, sin, cos float64) Crossing {
	tileX := math.Floor(p.X)
	x, dx := tileX+1, 1.0
	if cos < 0 {
		x, dx = tileX-BoundaryBias, -1
	}

	depth := (x - p.X) / cos
	y := p.Y + depth*sin
	deltaDepth := dx / cos
	dy := deltaDepth * sin

	for i := 0; i < c.maxSteps; i++ {
		tile := world.Tile{Col: int(math.Floor(x)), Row: int(math.Floor(y))}
		if id, ok := c.grid.Lookup(tile.Col, tile.Row); ok {
			return Crossing{X: x, Y: y, Depth: depth, Tile: tile, WallID: id, Hit: true}
		}
		x += dx
		y += dy
		depth += deltaDepth
	}
	return Crossing{X: x, Y: y, Depth: depth}
}

// resolve picks the winning crossing and derives the texture offset and the
// corrected depth. A crossing that found a wall beats one that ran out of
// steps; between two walls the nearer wins.
func (c *Caster) resolve(p Pose, ray *Ray) Hit {
	h, v := &ray.Horizontal, &ray.Vertical

	useVertical := v.Depth < h.Depth
	if h.Hit != v.Hit {
		useVertical = v.Hit
	}

	hit := Hit{Column: ray.Index, Angle: ray.Angle}
	var offset float64
	if useVertical {
		hit.RawDepth, hit.WallID, hit.Tile = v.Depth, v.WallID, v.Tile
		hit.X, hit.Y, hit.Side, hit.Void = v.X, v.Y, SideVertical, !v.Hit
		offset = mathutil.Frac(v.Y)
		if ray.Cos < 0 {
			offset = 1 - offset
		}
	} else {
		hit.RawDepth, hit.WallID, hit.Tile = h.Depth, h.WallID, h.Tile
		hit.X, hit.Y, hit.Side, hit.Void = h.X, h.Y, SideHorizontal, !h.Hit
		offset = mathutil.Frac(h.X)
		if ray.Sin > 0 {
			offset = 1 - offset
		}
	}

	hit.Offset = mathutil.UnitInterval(offset)
	hit.Depth = FishEye(hit.RawDepth, p.Heading-ray.Angle)
	return hit
}

func growHits(dst []Hit, n int) []Hit {
	if cap(dst) < n {
		return make([]Hit, n)
	}
	return dst[:n]
}
