// Package texture stores wall and sprite images and cuts the scaled strips
// the compositor blits.
package texture

import (
	"hash/fnv"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"
)

// Table maps wall ids and sprite keys to images. Wall textures are normalized
// to Size x Size on insert. Missing entries resolve to generated placeholders,
// so a lookup never fails mid-frame.
type Table struct {
	size    int
	mu      sync.RWMutex
	walls   map[int]*image.RGBA
	sprites map[string]*image.RGBA

	sources   map[int]image.Image // Unscaled wall images, kept for Resize
	generated map[string]bool     // Sprite keys holding a placeholder
}

// NewTable creates an empty table for square wall textures of the given size.
func NewTable(size int) *Table {
	if size < 1 {
		size = 1
	}
	return &Table{
		size:    size,
		walls:     make(map[int]*image.RGBA),
		sprites:   make(map[string]*image.RGBA),
		sources:   make(map[int]image.Image),
		generated: make(map[string]bool),
	}
}

// Size returns the edge length of every wall texture.
func (t *Table) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// SetWall stores img as the texture for wall id, scaled to Size x Size.
func (t *Table) SetWall(id int, img image.Image) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sources[id] = img
	t.walls[id] = normalize(img, t.size)
}

// Resize changes the wall texture size. Loaded walls are rescaled from their
// original images and placeholders are dropped so they regenerate at the new
// size. Loaded sprite frames are kept as they are.
func (t *Table) Resize(size int) {
	if size < 1 {
		size = 1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if size == t.size {
		return
	}
	t.size = size
	t.walls = make(map[int]*image.RGBA, len(t.sources))
	for id, img := range t.sources {
		t.walls[id] = normalize(img, size)
	}
	for key := range t.generated {
		delete(t.sprites, key)
	}
	clear(t.generated)
}

func normalize(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// SetSprite stores a copy of img as the frame for key.
func (t *Table) SetSprite(key string, img image.Image) {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	t.mu.Lock()
	t.sprites[key] = dst
	delete(t.generated, key)
	t.mu.Unlock()
}

// HasWall reports whether a real texture was stored for id.
func (t *Table) HasWall(id int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.sources[id]
	return ok
}

// Wall returns the texture for id, generating a placeholder on first use.
func (t *Table) Wall(id int) *image.RGBA {
	t.mu.RLock()
	img, ok := t.walls[id]
	t.mu.RUnlock()
	if ok {
		return img
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if img, ok := t.walls[id]; ok {
		return img
	}
	img = BrickPlaceholder(id, t.size)
	t.walls[id] = img
	return img
}

// Sprite returns the frame for key, generating a placeholder on first use.
func (t *Table) Sprite(key string) *image.RGBA {
	t.mu.RLock()
	img, ok := t.sprites[key]
	t.mu.RUnlock()
	if ok {
		return img
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if img, ok := t.sprites[key]; ok {
		return img
	}
	img = SpritePlaceholder(key, t.size)
	t.sprites[key] = img
	t.generated[key] = true
	return img
}

// Wall id palette for placeholders; id 0 (void) is dark grey.
var brickColors = []color.RGBA{
	{60, 60, 60, 255},
	{150, 60, 45, 255},
	{110, 110, 120, 255},
	{70, 110, 60, 255},
	{60, 80, 140, 255},
	{150, 120, 60, 255},
	{120, 60, 120, 255},
	{60, 130, 130, 255},
	{160, 150, 140, 255},
}

// BrickPlaceholder draws a running-bond brick pattern tinted by wall id.
func BrickPlaceholder(id, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	base := brickColors[0]
	if id > 0 {
		base = brickColors[1+(id-1)%(len(brickColors)-1)]
	}
	mortar := color.RGBA{base.R / 3, base.G / 3, base.B / 3, 255}

	brickH := size / 8
	if brickH < 2 {
		brickH = 2
	}
	brickW := brickH * 2
	for y := 0; y < size; y++ {
		row := y / brickH
		shift := 0
		if row%2 == 1 {
			shift = brickW / 2
		}
		for x := 0; x < size; x++ {
			if y%brickH == 0 || (x+shift)%brickW == 0 {
				img.SetRGBA(x, y, mortar)
				continue
			}
			img.SetRGBA(x, y, base)
		}
	}
	return img
}

// SpritePlaceholder draws a filled disc on a transparent background, with a
// color derived from the key so different sprites stay distinguishable.
func SpritePlaceholder(key string, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	h := fnv.New32a()
	h.Write([]byte(key))
	sum := h.Sum32()
	fill := color.RGBA{uint8(sum>>16) | 0x40, uint8(sum>>8) | 0x40, uint8(sum) | 0x40, 255}

	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, fill)
			}
		}
	}
	return img
}
