package texture

import (
	"image"
	"image/color"
	"math/rand"
)

// SkyPlaceholder draws a w x h sky band: a vertical gradient with a few soft
// cloud streaks. The pattern wraps horizontally so it can be scrolled.
func SkyPlaceholder(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return img
	}
	top := color.RGBA{20, 40, 110, 255}
	horizon := color.RGBA{120, 160, 210, 255}
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h)
		c := color.RGBA{
			R: lerp8(top.R, horizon.R, t),
			G: lerp8(top.G, horizon.G, t),
			B: lerp8(top.B, horizon.B, t),
			A: 255,
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	// Fixed seed keeps the sky identical between runs
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 12; i++ {
		cx, cy := rng.Intn(w), rng.Intn(h*2/3+1)
		cw, ch := w/20+rng.Intn(w/10+1), 2+rng.Intn(h/20+2)
		for y := cy; y < cy+ch && y < h; y++ {
			for dx := 0; dx < cw; dx++ {
				x := (cx + dx) % w
				p := img.RGBAAt(x, y)
				img.SetRGBA(x, y, color.RGBA{
					R: lerp8(p.R, 235, 0.5),
					G: lerp8(p.G, 240, 0.5),
					B: lerp8(p.B, 250, 0.5),
					A: 255,
				})
			}
		}
	}
	return img
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
