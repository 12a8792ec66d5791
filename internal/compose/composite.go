package compose

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// SourceProvider returns texture strips already scaled to their destination
// size. texture.Sampler implements it.
type SourceProvider interface {
	Column(id int, src image.Rectangle, w, h int) *image.RGBA
	Sprite(key string, w, h int) *image.RGBA
}

// Composite blits list onto dst in order, so a painter-ordered list leaves the
// nearest surface visible. Sprites are alpha blended; walls are darkened by
// their shade.
func Composite(dst draw.Image, list []Drawable, src SourceProvider) {
	for i := range list {
		d := &list[i]
		w, h := d.Dest.Dx(), d.Dest.Dy()
		if w <= 0 || h <= 0 || !d.Dest.Overlaps(dst.Bounds()) {
			continue
		}

		var img *image.RGBA
		switch d.Kind {
		case KindSprite:
			img = src.Sprite(d.Source.Sprite, w, h)
		default:
			img = src.Column(d.Source.Wall, d.Source.Rect, w, h)
		}
		draw.Draw(dst, d.Dest, img, img.Bounds().Min, draw.Over)

		if d.Kind == KindWall && d.Shade < 1 {
			darken(dst, d.Dest, d.Shade)
		}
	}
}

// darken scales the colors inside r by shade by laying translucent black over
// them. Walls are opaque, so this equals multiplying each channel.
func darken(dst draw.Image, r image.Rectangle, shade float64) {
	if shade < 0 {
		shade = 0
	}
	alpha := uint8((1-shade)*255 + 0.5)
	if alpha == 0 {
		return
	}
	mask := image.NewUniform(color.Alpha{A: alpha})
	draw.DrawMask(dst, r, image.Black, image.Point{}, mask, image.Point{}, draw.Over)
}

// Clear fills dst with c, e.g. as the backdrop before compositing.
func Clear(dst draw.Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}
