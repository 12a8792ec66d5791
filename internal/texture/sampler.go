package texture

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"raycaster/internal/mathutil"
	"raycaster/internal/threading/rendering"
)

// SourceX maps a wall offset to the left edge of the texture column that is
// colWidth texels wide. Offsets outside [0, 1), including 1.0 and NaN, are
// clamped so the column always lies inside the texture.
func SourceX(offset float64, texSize, colWidth int) int {
	span := mathutil.IntMax(0, texSize-colWidth)
	x := int(math.Floor(mathutil.UnitInterval(offset) * float64(span)))
	return mathutil.IntClamp(x, 0, span)
}

// Sampler cuts texture strips and scales them to their on-screen size.
type Sampler struct {
	table *Table
	cache *rendering.ColumnCache
}

// NewSampler creates a sampler over table. cache may be nil, in which case
// every strip is scaled on demand.
func NewSampler(table *Table, cache *rendering.ColumnCache) *Sampler {
	return &Sampler{table: table, cache: cache}
}

// Table returns the texture table the sampler reads.
func (s *Sampler) Table() *Table { return s.table }

// Column returns the src region of wall texture id scaled to w x h. src is
// clamped into the texture; an empty result falls back to the texture's first
// column.
func (s *Sampler) Column(id int, src image.Rectangle, w, h int) *image.RGBA {
	tex := s.table.Wall(id)
	src = clampRect(src, tex.Bounds())
	return s.scaled(rendering.ColumnKey{WallID: id, Src: src, Width: w, Height: h}, tex)
}

// Sprite returns the whole frame for key scaled to w x h.
func (s *Sampler) Sprite(key string, w, h int) *image.RGBA {
	tex := s.table.Sprite(key)
	return s.scaled(rendering.ColumnKey{Sprite: key, Src: tex.Bounds(), Width: w, Height: h}, tex)
}

func (s *Sampler) scaled(key rendering.ColumnKey, tex *image.RGBA) *image.RGBA {
	if key.Width <= 0 || key.Height <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	create := func() *image.RGBA {
		dst := image.NewRGBA(image.Rect(0, 0, key.Width, key.Height))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), tex, key.Src, draw.Src, nil)
		return dst
	}
	if s.cache == nil {
		return create()
	}
	return s.cache.GetOrCreate(key, create)
}

func clampRect(r, bounds image.Rectangle) image.Rectangle {
	r = r.Canon().Intersect(bounds)
	if r.Empty() {
		return image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+1, bounds.Max.Y)
	}
	return r
}
