package game

import (
	"math"

	"raycaster/internal/raycast"
)

// Occupancy is the wall query movement collides against.
type Occupancy interface {
	IsWall(col, row int) bool
}

// Input is the movement intent read from the keyboard for one tick.
type Input struct {
	Forward, Back           bool
	StrafeLeft, StrafeRight bool
	TurnLeft, TurnRight     bool
}

// Player is the viewer moving through the map.
type Player struct {
	X, Y  float64
	Angle float64
}

// GetForwardX returns the X component of the forward direction vector
func (p *Player) GetForwardX() float64 {
	return math.Cos(p.Angle)
}

// GetForwardY returns the Y component of the forward direction vector
func (p *Player) GetForwardY() float64 {
	return math.Sin(p.Angle)
}

// GetRightX returns the X component of the right direction vector
func (p *Player) GetRightX() float64 {
	return math.Cos(p.Angle + math.Pi/2)
}

// GetRightY returns the Y component of the right direction vector
func (p *Player) GetRightY() float64 {
	return math.Sin(p.Angle + math.Pi/2)
}

// Pose returns the read-only view handed to the renderer.
func (p *Player) Pose() raycast.Pose {
	return raycast.Pose{X: p.X, Y: p.Y, Heading: p.Angle}
}

// Update applies one tick of input. It returns the angle turned, which the
// sky scroll follows.
func (p *Player) Update(in Input, dt, moveSpeed, rotSpeed, radius float64, grid Occupancy) float64 {
	turn := 0.0
	if in.TurnLeft {
		turn -= rotSpeed * dt
	}
	if in.TurnRight {
		turn += rotSpeed * dt
	}
	p.Angle = math.Mod(p.Angle+turn, 2*math.Pi)
	if p.Angle < 0 {
		p.Angle += 2 * math.Pi
	}

	step := moveSpeed * dt
	var dx, dy float64
	if in.Forward {
		dx += p.GetForwardX() * step
		dy += p.GetForwardY() * step
	}
	if in.Back {
		dx -= p.GetForwardX() * step
		dy -= p.GetForwardY() * step
	}
	if in.StrafeRight {
		dx += p.GetRightX() * step
		dy += p.GetRightY() * step
	}
	if in.StrafeLeft {
		dx -= p.GetRightX() * step
		dy -= p.GetRightY() * step
	}
	// Diagonal input is no faster than straight movement
	if in.Forward != in.Back && in.StrafeLeft != in.StrafeRight {
		dx /= math.Sqrt2
		dy /= math.Sqrt2
	}
	p.Move(dx, dy, radius, grid)
	return turn
}

// Move slides the player by (dx, dy), resolving each axis separately so the
// player glides along walls instead of stopping dead.
func (p *Player) Move(dx, dy, radius float64, grid Occupancy) {
	if p.canStand(p.X+dx, p.Y, radius, grid) {
		p.X += dx
	}
	if p.canStand(p.X, p.Y+dy, radius, grid) {
		p.Y += dy
	}
}

// canStand reports whether a circle of radius at (x, y) touches no wall tile.
func (p *Player) canStand(x, y, radius float64, grid Occupancy) bool {
	minCol := int(math.Floor(x - radius))
	maxCol := int(math.Floor(x + radius))
	minRow := int(math.Floor(y - radius))
	maxRow := int(math.Floor(y + radius))
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if grid.IsWall(col, row) {
				return false
			}
		}
	}
	return true
}
