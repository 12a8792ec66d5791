package raycast

import "raycaster/internal/world"

// Pose is the viewer's position in tile units and heading in radians.
// The caster only reads it.
type Pose struct {
	X, Y    float64
	Heading float64
}

// Side tells which family of grid lines a ray struck.
type Side int

const (
	// SideVertical is a crossing of a vertical grid line (x = integer),
	// i.e. an east or west wall face.
	SideVertical Side = iota
	// SideHorizontal is a crossing of a horizontal grid line (y = integer),
	// i.e. a north or south wall face.
	SideHorizontal
)

func (s Side) String() string {
	if s == SideHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// Crossing is the result of stepping one family of grid lines.
type Crossing struct {
	X, Y   float64 // Point where the scan stopped
	Depth  float64 // Raw (euclidean) distance from the origin along the ray
	Tile   world.Tile
	WallID int
	Hit    bool // False when the step bound ran out first
}

// Ray holds a single column's intermediate state. It is rebuilt every frame.
type Ray struct {
	Index      int
	Angle      float64
	Sin, Cos   float64 // Clamped away from zero
	Horizontal Crossing
	Vertical   Crossing
}

// Hit is the per-column output of the caster.
type Hit struct {
	Column   int
	Angle    float64
	RawDepth float64 // Distance along the ray
	Depth    float64 // Perpendicular distance, fish-eye corrected
	Offset   float64 // Position along the struck face in [0, 1)
	WallID   int
	Tile     world.Tile
	Side     Side
	X, Y     float64 // Hit point in tile units
	Void     bool    // No wall within the step bound
}
