package mathutil

import (
	"math"
	"testing"
)

func TestIntClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{12, 0, 10, 10},
		{4, 7, 3, 7},
	}
	for _, tt := range tests {
		if got := IntClamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("IntClamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestAwayFromZero(t *testing.T) {
	if got := AwayFromZero(0, 1e-6); got != 1e-6 {
		t.Errorf("AwayFromZero(0) = %g, want 1e-6", got)
	}
	if got := AwayFromZero(-1e-9, 1e-6); got != -1e-6 {
		t.Errorf("AwayFromZero(-1e-9) = %g, want -1e-6", got)
	}
	if got := AwayFromZero(0.5, 1e-6); got != 0.5 {
		t.Errorf("AwayFromZero(0.5) = %g, want 0.5", got)
	}
}

func TestFrac(t *testing.T) {
	tests := []struct{ v, want float64 }{
		{3.25, 0.25},
		{-0.25, 0.75},
		{7, 0},
	}
	for _, tt := range tests {
		if got := Frac(tt.v); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Frac(%g) = %g, want %g", tt.v, got, tt.want)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-5 * math.Pi / 2, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%g) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestUnitInterval(t *testing.T) {
	if got := UnitInterval(1); got >= 1 {
		t.Errorf("UnitInterval(1) = %g, want < 1", got)
	}
	if got := UnitInterval(math.NaN()); got != 0 {
		t.Errorf("UnitInterval(NaN) = %g, want 0", got)
	}
	if got := UnitInterval(-0.1); got != 0 {
		t.Errorf("UnitInterval(-0.1) = %g, want 0", got)
	}
}
