package mathutil

import "math"

// AwayFromZero returns v unchanged unless |v| < min, in which case it returns
// ±min keeping the sign of v (zero maps to +min).
func AwayFromZero(v, min float64) float64 {
	if v >= min || v <= -min {
		return v
	}
	if math.Signbit(v) {
		return -min
	}
	return min
}

// Frac returns the fractional part of v in [0, 1), also for negative v.
func Frac(v float64) float64 {
	f := v - math.Floor(v)
	if f >= 1 {
		return 0
	}
	return f
}

// NormalizeAngle wraps a in radians into (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// UnitInterval clamps v into [0, 1). NaN is treated as 0.
func UnitInterval(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= 1 {
		return math.Nextafter(1, 0)
	}
	return v
}
