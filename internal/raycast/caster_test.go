package raycast

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"raycaster/internal/threading/core"
	"raycaster/internal/world"
)

// scenarioRows is a 12x7 room with a border of walls and two single
// interior walls behind the viewer.
var scenarioRows = [][]int{
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0, 1},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
}

func mustGrid(t *testing.T, rows [][]int) *world.GridMap {
	t.Helper()
	g, err := world.NewGridMap(rows)
	if err != nil {
		t.Fatalf("NewGridMap: %v", err)
	}
	return g
}

// squareRoom returns an n x n room whose border is wall.
func squareRoom(n int) [][]int {
	rows := make([][]int, n)
	for r := range rows {
		rows[r] = make([]int, n)
		for c := range rows[r] {
			if r == 0 || c == 0 || r == n-1 || c == n-1 {
				rows[r][c] = 1
			}
		}
	}
	return rows
}

// openGrid is a Grid without a known span; every tile is open.
type openGrid struct{}

func (openGrid) Lookup(col, row int) (int, bool) { return 0, false }

func assertFinite(t *testing.T, h Hit) {
	t.Helper()
	for name, v := range map[string]float64{"depth": h.Depth, "raw": h.RawDepth, "offset": h.Offset, "x": h.X, "y": h.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("column %d: %s is not finite: %v", h.Column, name, v)
		}
	}
}

func TestScenarioTwelveBySeven(t *testing.T) {
	g := mustGrid(t, scenarioRows)
	caster := NewCaster(g, Settings{FOV: math.Pi / 3, NumRays: 8, MaxDepth: 20, AngleBias: DefaultAngleBias})
	pose := Pose{X: 6.5, Y: 3.5, Heading: 0}

	hits := caster.Cast(pose, nil)
	if len(hits) != 8 {
		t.Fatalf("Expected 8 hits, got %d", len(hits))
	}

	// Leftmost ray (-30 deg) clips the north wall before reaching the east
	// wall: it crosses y=1 at x = 6.5 + 2.5/tan(30deg).
	first := hits[0]
	angle := -math.Pi/6 + DefaultAngleBias
	wantX := 6.5 + (3.5-1)/math.Tan(-angle)
	if first.Side != SideHorizontal || first.Tile != (world.Tile{Col: 10, Row: 0}) {
		t.Errorf("ray 0: expected north wall at (10,0), got %v side %v", first.Tile, first.Side)
	}
	if math.Abs(first.Offset-(wantX-10)) > 1e-3 {
		t.Errorf("ray 0: offset %.5f, want %.5f", first.Offset, wantX-10)
	}
	if math.Abs(first.Depth-(wantX-6.5)) > 1e-3 {
		t.Errorf("ray 0: depth %.5f, want %.5f", first.Depth, wantX-6.5)
	}

	// The remaining rays hit the east face x=11, perpendicular to the view
	// axis at distance 4.5.
	for i := 1; i < 8; i++ {
		h := hits[i]
		if h.Void || h.WallID != 1 {
			t.Fatalf("ray %d: expected border wall hit, got %+v", i, h)
		}
		if h.Side != SideVertical || h.Tile.Col != 11 {
			t.Errorf("ray %d: expected east face, got tile %v side %v", i, h.Tile, h.Side)
		}
		if math.Abs(h.Depth-4.5) > 1e-9 {
			t.Errorf("ray %d: depth %.12f, want 4.5", i, h.Depth)
		}
		a := -math.Pi/6 + DefaultAngleBias + float64(i)*math.Pi/24
		y := 3.5 + 4.5*math.Tan(a)
		want := y - math.Floor(y)
		if math.Abs(h.Offset-want) > 1e-6 {
			t.Errorf("ray %d: offset %.6f, want %.6f", i, h.Offset, want)
		}
	}

	// Center ray is almost dead ahead: halfway along the tile face.
	if math.Abs(hits[4].Offset-0.5) > 1e-3 {
		t.Errorf("center ray offset %.5f, want ~0.5", hits[4].Offset)
	}
}

func TestAxisAlignedDepthMatchesDistance(t *testing.T) {
	g := mustGrid(t, squareRoom(11))
	// Two rays with no bias: column 1 points exactly along the heading.
	caster := NewCaster(g, Settings{FOV: math.Pi / 3, NumRays: 2, MaxDepth: 20})

	for _, heading := range []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2} {
		pose := Pose{X: 5.5, Y: 5.5, Heading: heading}
		h := caster.CastRay(pose, 1)
		assertFinite(t, h)

		if h.Void {
			t.Fatalf("heading %.3f: ray escaped", heading)
		}
		// Wall faces are at 1 and 10; both 4.5 away from the center.
		if math.Abs(h.Depth-4.5) > 1e-4 {
			t.Errorf("heading %.3f: depth %.8f, want 4.5", heading, h.Depth)
		}
		if math.Abs(h.Depth-h.RawDepth) > 1e-9 {
			t.Errorf("heading %.3f: correction should be ~1, raw %.10f depth %.10f", heading, h.RawDepth, h.Depth)
		}
	}
}

func TestEnclosedMapNoRayEscapes(t *testing.T) {
	mapData := world.DefaultMap()
	g, err := mapData.Grid()
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	caster := NewCaster(g, Settings{FOV: math.Pi / 3, NumRays: 64, MaxDepth: 20, AngleBias: DefaultAngleBias})
	if caster.MaxSteps() < g.Span()+1 {
		t.Fatalf("step bound %d does not cover span %d", caster.MaxSteps(), g.Span())
	}

	rng := rand.New(rand.NewSource(7))
	hits := make([]Hit, 0, 64)
	poses := 0
	for poses < 200 {
		x := 1 + rng.Float64()*float64(g.Width()-2)
		y := 1 + rng.Float64()*float64(g.Height()-2)
		if g.IsWall(int(x), int(y)) {
			continue
		}
		poses++

		pose := Pose{X: x, Y: y, Heading: rng.Float64() * 2 * math.Pi}
		hits = caster.Cast(pose, hits)
		for _, h := range hits {
			assertFinite(t, h)
			if h.Void || h.WallID == 0 {
				t.Fatalf("pose %+v column %d escaped the map", pose, h.Column)
			}
		}
	}
}

func TestOffsetInUnitInterval(t *testing.T) {
	g := mustGrid(t, scenarioRows)
	caster := NewCaster(g, Settings{FOV: math.Pi / 3, NumRays: 120, MaxDepth: 20, AngleBias: DefaultAngleBias})

	rng := rand.New(rand.NewSource(11))
	var hits []Hit
	for i := 0; i < 100; i++ {
		pose := Pose{
			X:       1 + rng.Float64()*10,
			Y:       1 + rng.Float64()*5,
			Heading: rng.Float64()*4*math.Pi - 2*math.Pi,
		}
		hits = caster.Cast(pose, hits)
		for _, h := range hits {
			if h.Offset < 0 || h.Offset >= 1 {
				t.Fatalf("pose %+v column %d: offset %v outside [0,1)", pose, h.Column, h.Offset)
			}
		}
	}

	// Exactly on grid corners, where the fractional part is 0 before mirroring
	for _, pose := range []Pose{{X: 6, Y: 3, Heading: math.Pi / 4}, {X: 6, Y: 3, Heading: 5 * math.Pi / 4}} {
		for _, h := range caster.Cast(pose, nil) {
			if h.Offset < 0 || h.Offset >= 1 {
				t.Fatalf("corner pose %+v column %d: offset %v outside [0,1)", pose, h.Column, h.Offset)
			}
		}
	}
}

func TestFishEyeCorrectionIsExact(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		r := rng.Float64() * 50
		theta := (rng.Float64() - 0.5) * math.Pi
		if got, want := FishEye(r, theta), r*math.Cos(theta); got != want {
			t.Fatalf("FishEye(%v, %v) = %v, want %v", r, theta, got, want)
		}
	}

	g := mustGrid(t, scenarioRows)
	caster := NewCaster(g, Settings{FOV: math.Pi / 3, NumRays: 60, MaxDepth: 20, AngleBias: DefaultAngleBias})
	pose := Pose{X: 4.25, Y: 2.75, Heading: 0.6}
	for _, h := range caster.Cast(pose, nil) {
		theta := pose.Heading - h.Angle
		if h.Depth != h.RawDepth*math.Cos(theta) {
			t.Fatalf("column %d: depth %v != raw %v * cos(%v)", h.Column, h.Depth, h.RawDepth, theta)
		}
	}
}

func TestTileBoundaryPoseTerminates(t *testing.T) {
	g := mustGrid(t, scenarioRows)
	caster := NewCaster(g, Settings{FOV: math.Pi / 3, NumRays: 8, MaxDepth: 20, AngleBias: DefaultAngleBias})

	headings := []float64{0, math.Pi / 2, math.Pi, -math.Pi / 2, math.Pi / 4}
	for _, heading := range headings {
		pose := Pose{X: 6.0, Y: 3.0, Heading: heading}
		hits := caster.Cast(pose, nil)
		if len(hits) != 8 {
			t.Fatalf("heading %.3f: expected 8 hits, got %d", heading, len(hits))
		}
		for _, h := range hits {
			assertFinite(t, h)
			if h.Void {
				t.Errorf("heading %.3f column %d: unexpected void", heading, h.Column)
			}
		}
	}
}

func TestOpenGridRespectsStepBound(t *testing.T) {
	caster := NewCaster(openGrid{}, Settings{FOV: math.Pi / 3, NumRays: 16, MaxDepth: 5})
	if caster.MaxSteps() != 5 {
		t.Fatalf("Expected bound 5 for grid without span, got %d", caster.MaxSteps())
	}

	for _, h := range caster.Cast(Pose{X: 0.5, Y: 0.5, Heading: 0}, nil) {
		assertFinite(t, h)
		if !h.Void || h.WallID != 0 {
			t.Errorf("column %d: expected void hit, got %+v", h.Column, h)
		}
		if h.Depth <= 0 {
			t.Errorf("column %d: void depth should be positive, got %v", h.Column, h.Depth)
		}
	}
}

func TestCastIsIdempotentAndReusesBuffer(t *testing.T) {
	g := mustGrid(t, scenarioRows)
	caster := NewCaster(g, Settings{FOV: math.Pi / 3, NumRays: 32, MaxDepth: 20, AngleBias: DefaultAngleBias})
	pose := Pose{X: 3.3, Y: 4.1, Heading: 1.2}

	first := caster.Cast(pose, nil)
	second := caster.Cast(pose, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("Two casts of the same pose differ")
	}

	buf := make([]Hit, 0, 32)
	out := caster.Cast(pose, buf)
	if &out[0] != &buf[:1][0] {
		t.Error("Cast should reuse a buffer with enough capacity")
	}
}

func TestCastParallelMatchesSequential(t *testing.T) {
	g := mustGrid(t, scenarioRows)
	caster := NewCaster(g, Settings{FOV: math.Pi / 3, NumRays: 200, MaxDepth: 20, AngleBias: DefaultAngleBias})
	pool := core.NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	pose := Pose{X: 8.2, Y: 1.7, Heading: 2.4}
	sequential := caster.Cast(pose, nil)
	parallel := caster.CastParallel(pool, pose, nil)
	if !reflect.DeepEqual(sequential, parallel) {
		t.Fatal("Parallel cast differs from sequential cast")
	}
}
