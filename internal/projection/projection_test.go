package projection

import (
	"math"
	"testing"

	"raycaster/internal/raycast"
	"raycaster/internal/sprite"
)

func testViewport() Viewport {
	return Viewport{Width: 800, Height: 600, NumRays: 400, TextureSize: 64, FOV: math.Pi / 3}
}

func TestNewProjectorDefaults(t *testing.T) {
	p := NewProjector(testViewport())

	if p.Scale() != 2 {
		t.Errorf("Expected column width 2, got %d", p.Scale())
	}
	want := 400 / math.Tan(math.Pi/6)
	if math.Abs(p.ScreenDist()-want) > 1e-9 {
		t.Errorf("Expected screen distance %f, got %f", want, p.ScreenDist())
	}

	v := testViewport()
	v.ScreenDist = 500
	if got := NewProjector(v).ScreenDist(); got != 500 {
		t.Errorf("Expected explicit screen distance 500, got %f", got)
	}
}

func TestWallShortColumnUsesWholeTexture(t *testing.T) {
	p := NewProjector(testViewport())
	col := p.Wall(raycast.Hit{Column: 10, Depth: 4, Offset: 0.5, WallID: 3})

	proj := p.ScreenDist() / (4 + DepthEpsilon)
	h := int(proj)
	if col.Dest.Min.X != 20 || col.Dest.Dx() != 2 {
		t.Errorf("Expected dest x range [20,22), got %v", col.Dest)
	}
	if col.Dest.Dy() != h {
		t.Errorf("Expected dest height %d, got %d", h, col.Dest.Dy())
	}
	if col.Dest.Min.Y != 300-h/2 {
		t.Errorf("Expected column centered on the horizon, top %d, got %d", 300-h/2, col.Dest.Min.Y)
	}
	if col.Src.Min.Y != 0 || col.Src.Max.Y != 64 {
		t.Errorf("Expected full texture height, got %v", col.Src)
	}
	if col.Src.Min.X != 31 || col.Src.Dx() != 2 {
		t.Errorf("Expected source x 31 width 2, got %v", col.Src)
	}
	if col.WallID != 3 || col.Depth != 4 {
		t.Errorf("Expected wall id and depth carried over, got %d %f", col.WallID, col.Depth)
	}
}

func TestWallTallColumnCropsTexture(t *testing.T) {
	p := NewProjector(testViewport())
	col := p.Wall(raycast.Hit{Column: 0, Depth: 0.5, Offset: 0})

	if col.Dest.Min.Y != 0 || col.Dest.Max.Y != 600 {
		t.Errorf("Expected full-height destination, got %v", col.Dest)
	}
	proj := p.ScreenDist() / (0.5 + DepthEpsilon)
	wantH := int(math.Round(64 * 600 / proj))
	if col.Src.Dy() != wantH {
		t.Errorf("Expected source height %d, got %d", wantH, col.Src.Dy())
	}
	if col.Src.Min.Y != 32-wantH/2 {
		t.Errorf("Expected source centered vertically, top %d, got %d", 32-wantH/2, col.Src.Min.Y)
	}
}

func TestWallRegimesMeetAtViewportHeight(t *testing.T) {
	p := NewProjector(testViewport())
	// Depth at which the projected height equals the viewport height
	boundary := p.ScreenDist()/600 - DepthEpsilon

	below := p.Wall(raycast.Hit{Depth: boundary * (1 + 1e-9)})
	above := p.Wall(raycast.Hit{Depth: boundary * (1 - 1e-9)})

	if below.Height >= 600 || above.Height < 600 {
		t.Fatalf("boundary depth wrong: heights %f and %f", below.Height, above.Height)
	}
	if below.Src.Dy() != 64 || above.Src.Dy() != 64 {
		t.Errorf("Expected both regimes to use the full texture at the boundary, got %d and %d", below.Src.Dy(), above.Src.Dy())
	}
	if d := above.Dest.Dy() - below.Dest.Dy(); d < 0 || d > 1 {
		t.Errorf("Destination height jumps by %d pixels at the boundary", d)
	}
}

func TestWallZeroDepthStaysInsideTexture(t *testing.T) {
	p := NewProjector(testViewport())
	for _, offset := range []float64{0, 0.25, math.Nextafter(1, 0), 1, math.NaN()} {
		col := p.Wall(raycast.Hit{Depth: 0, Offset: offset})
		if col.Src.Min.X < 0 || col.Src.Max.X > 64 || col.Src.Min.Y < 0 || col.Src.Max.Y > 64 || col.Src.Empty() {
			t.Errorf("offset %v: source %v outside texture", offset, col.Src)
		}
		if math.IsInf(col.Height, 0) || math.IsNaN(col.Height) {
			t.Errorf("offset %v: height %f not finite", offset, col.Height)
		}
	}
}

func TestShadeFalloff(t *testing.T) {
	if Shade(0) != 1 {
		t.Errorf("Expected full brightness at depth 0, got %f", Shade(0))
	}
	prev := 1.0
	for d := 1.0; d <= 20; d++ {
		s := Shade(d)
		if s <= 0 || s >= prev {
			t.Errorf("Shade(%f) = %f, expected strictly decreasing positive value", d, s)
		}
		prev = s
	}
	if got, want := Shade(10), 1/(1+1e5*0.0002); math.Abs(got-want) > 1e-12 {
		t.Errorf("Shade(10) = %f, want %f", got, want)
	}
}

func TestWallsReusesBuffer(t *testing.T) {
	p := NewProjector(testViewport())
	hits := []raycast.Hit{{Column: 0, Depth: 2}, {Column: 1, Depth: 3}}
	buf := make([]WallColumn, 0, 8)
	cols := p.Walls(hits, buf)
	if len(cols) != 2 || &cols[0] != &buf[:1][0] {
		t.Error("Expected Walls to fill the provided buffer")
	}
}

func TestSpriteProjection(t *testing.T) {
	p := NewProjector(testViewport())

	tests := []struct {
		name    string
		pose    raycast.Pose
		obj     sprite.Object
		visible bool
	}{
		{"straight ahead", raycast.Pose{}, sprite.Object{X: 5, Frame: "a"}, true},
		{"behind", raycast.Pose{}, sprite.Object{X: -5}, false},
		{"inside near clip", raycast.Pose{}, sprite.Object{X: 0.4}, false},
		{"far to the side", raycast.Pose{}, sprite.Object{X: 1, Y: 5}, false},
		{"slightly right", raycast.Pose{}, sprite.Object{X: 5, Y: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := p.Sprite(tt.pose, tt.obj)
			if ok != tt.visible {
				t.Errorf("visible = %v, want %v", ok, tt.visible)
			}
		})
	}

	sp, _ := p.Sprite(raycast.Pose{}, sprite.Object{X: 5, Frame: "a"})
	if math.Abs(sp.ScreenX-400) > 1e-9 {
		t.Errorf("Expected sprite straight ahead at screen center, got %f", sp.ScreenX)
	}
	if math.Abs(sp.Depth-5) > 1e-12 {
		t.Errorf("Expected perpendicular depth 5, got %f", sp.Depth)
	}
	wantH := int(p.ScreenDist() / 5 * DefaultSpriteScale)
	if sp.Dest.Dy() != wantH || sp.Dest.Dx() != wantH {
		t.Errorf("Expected %dx%d square sprite, got %v", wantH, wantH, sp.Dest)
	}
	if sp.Frame != "a" {
		t.Errorf("Expected frame to be carried, got %q", sp.Frame)
	}
}

func TestSpriteUsesPerpendicularDistance(t *testing.T) {
	p := NewProjector(testViewport())
	sp, ok := p.Sprite(raycast.Pose{}, sprite.Object{X: 3, Y: 1})
	if !ok {
		t.Fatal("Expected sprite to be visible")
	}
	want := math.Hypot(3, 1) * math.Cos(math.Atan2(1, 3))
	if math.Abs(sp.Depth-want) > 1e-12 {
		t.Errorf("Expected perpendicular depth %f, got %f", want, sp.Depth)
	}
	if sp.Depth >= math.Hypot(3, 1) {
		t.Error("Perpendicular depth should be shorter than euclidean distance")
	}
}

func TestSpriteHeadingWrapsAround(t *testing.T) {
	p := NewProjector(testViewport())
	obj := sprite.Object{X: 5, Y: 0}

	a, okA := p.Sprite(raycast.Pose{Heading: 2*math.Pi - 0.1}, obj)
	b, okB := p.Sprite(raycast.Pose{Heading: -0.1}, obj)
	if !okA || !okB {
		t.Fatal("Expected sprite visible for both headings")
	}
	if math.Abs(a.ScreenX-b.ScreenX) > 1e-6 {
		t.Errorf("Screen x differs across the wrap: %f vs %f", a.ScreenX, b.ScreenX)
	}
	if a.ScreenX <= 400 {
		t.Errorf("Sprite at a positive relative angle should be right of center, got %f", a.ScreenX)
	}
}

func TestSpriteHeightShiftAndRatio(t *testing.T) {
	p := NewProjector(testViewport())
	base, _ := p.Sprite(raycast.Pose{}, sprite.Object{X: 4})
	shifted, _ := p.Sprite(raycast.Pose{}, sprite.Object{X: 4, HeightShift: 0.27, Ratio: 0.5})

	if shifted.Dest.Min.Y <= base.Dest.Min.Y {
		t.Errorf("Expected positive height shift to move the sprite down: %d vs %d", shifted.Dest.Min.Y, base.Dest.Min.Y)
	}
	if shifted.Dest.Dx() >= base.Dest.Dx() {
		t.Errorf("Expected ratio 0.5 to narrow the sprite: %d vs %d", shifted.Dest.Dx(), base.Dest.Dx())
	}
}

func TestSpritesKeepsSnapshotIndex(t *testing.T) {
	p := NewProjector(testViewport())
	objs := []sprite.Object{{X: -3}, {X: 6}, {X: 3}}
	got := p.Sprites(raycast.Pose{}, objs, nil)
	if len(got) != 2 {
		t.Fatalf("Expected 2 visible sprites, got %d", len(got))
	}
	if got[0].Index != 1 || got[1].Index != 2 {
		t.Errorf("Expected indexes 1 and 2, got %d and %d", got[0].Index, got[1].Index)
	}
}
