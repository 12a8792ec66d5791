package world

import (
	"errors"
	"fmt"
	"sort"
)

// Tile is an integer grid coordinate. It is comparable, so it is used
// directly as the map key for wall occupancy.
type Tile struct {
	Col, Row int
}

var (
	ErrEmptyMap     = errors.New("map has no rows")
	ErrRaggedMap    = errors.New("map rows have inconsistent width")
	ErrNegativeTile = errors.New("map tile code is negative")
)

// GridMap is the sparse occupancy map the ray caster marches through.
// Only walls are stored; an absent tile is open space. It is immutable after
// construction and safe for concurrent readers.
type GridMap struct {
	walls  map[Tile]int
	width  int
	height int
}

// NewGridMap builds a grid map from a rectangular array of tile codes indexed
// [row][col]. Zero is open floor, positive values are wall texture ids.
func NewGridMap(rows [][]int) (*GridMap, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMap
	}

	width := len(rows[0])
	g := &GridMap{
		walls:  make(map[Tile]int),
		width:  width,
		height: len(rows),
	}

	for row, line := range rows {
		if len(line) != width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, expected %d", ErrRaggedMap, row, len(line), width)
		}
		for col, id := range line {
			switch {
			case id < 0:
				return nil, fmt.Errorf("%w: %d at (%d, %d)", ErrNegativeTile, id, col, row)
			case id > 0:
				g.walls[Tile{Col: col, Row: row}] = id
			}
		}
	}

	return g, nil
}

// Lookup returns the wall id at (col, row). Open or out-of-range tiles
// report ok == false.
func (g *GridMap) Lookup(col, row int) (int, bool) {
	id, ok := g.walls[Tile{Col: col, Row: row}]
	return id, ok
}

// IsWall reports whether (col, row) holds a wall.
func (g *GridMap) IsWall(col, row int) bool {
	_, ok := g.walls[Tile{Col: col, Row: row}]
	return ok
}

func (g *GridMap) Width() int  { return g.width }
func (g *GridMap) Height() int { return g.height }

// Len returns the number of wall tiles.
func (g *GridMap) Len() int { return len(g.walls) }

// Span is the largest number of grid lines a single axis scan can cross
// inside the map.
func (g *GridMap) Span() int {
	if g.width > g.height {
		return g.width
	}
	return g.height
}

// Walls returns every wall tile in row-major order.
func (g *GridMap) Walls() []Tile {
	tiles := make([]Tile, 0, len(g.walls))
	for t := range g.walls {
		tiles = append(tiles, t)
	}
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Row != tiles[j].Row {
			return tiles[i].Row < tiles[j].Row
		}
		return tiles[i].Col < tiles[j].Col
	})
	return tiles
}
