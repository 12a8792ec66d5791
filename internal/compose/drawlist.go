// Package compose merges projected walls and sprites into one draw list and
// orders it far to near for the painter's algorithm.
package compose

import (
	"fmt"
	"image"
	"sort"

	"raycaster/internal/projection"
)

// Kind says which texture family a drawable samples.
type Kind int

const (
	KindWall Kind = iota
	KindSprite
)

func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindSprite:
		return "sprite"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Region names the texture a drawable samples and the area inside it.
// For sprites Rect is empty and the whole frame is used.
type Region struct {
	Wall   int
	Sprite string
	Rect   image.Rectangle
}

// Drawable is one entry of the frame's draw list.
type Drawable struct {
	Kind   Kind
	Depth  float64
	Dest   image.Rectangle
	Source Region
	Shade  float64 // Brightness multiplier, 1 for sprites
}

// Merge appends the wall columns (in column order) and then the sprites (in
// snapshot order) to dst[:0].
func Merge(dst []Drawable, walls []projection.WallColumn, sprites []projection.SpriteProjection) []Drawable {
	dst = dst[:0]
	for i := range walls {
		w := &walls[i]
		dst = append(dst, Drawable{
			Kind:   KindWall,
			Depth:  w.Depth,
			Dest:   w.Dest,
			Source: Region{Wall: w.WallID, Rect: w.Src},
			Shade:  w.Shade,
		})
	}
	for i := range sprites {
		s := &sprites[i]
		dst = append(dst, Drawable{
			Kind:   KindSprite,
			Depth:  s.Depth,
			Dest:   s.Dest,
			Source: Region{Sprite: s.Frame},
			Shade:  1,
		})
	}
	return dst
}

// Sort orders list by depth, farthest first. The sort is stable, so entries at
// equal depth keep their merge order: walls before sprites, each in input order.
func Sort(list []Drawable) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Depth > list[j].Depth
	})
}

// IsPainterOrdered reports whether depths never increase along list.
func IsPainterOrdered(list []Drawable) bool {
	for i := 1; i < len(list); i++ {
		if list[i].Depth > list[i-1].Depth {
			return false
		}
	}
	return true
}
