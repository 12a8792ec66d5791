package game

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"raycaster/internal/compose"
)

const (
	minimapTile    = 6
	minimapMargin  = 8
	minimapRayStep = 8 // Draw every n-th ray on the minimap
)

var (
	minimapWall   = color.RGBA{200, 200, 200, 220}
	minimapPlayer = color.RGBA{255, 220, 0, 255}
	minimapRay    = color.RGBA{255, 80, 80, 160}
	overlayText   = color.RGBA{255, 255, 255, 255}
	overlayPanel  = color.RGBA{0, 0, 0, 140}
)

// drawBackdrop draws the scrolling sky and the flat floor.
func (g *Game) drawBackdrop(screen *ebiten.Image) {
	w := float64(g.config.GetScreenWidth())

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(-g.skyOffset, 0)
	screen.DrawImage(g.skyImg, opts)
	opts.GeoM.Translate(w, 0)
	screen.DrawImage(g.skyImg, opts)

	floor := &ebiten.DrawImageOptions{}
	floor.GeoM.Translate(0, float64(g.config.GetScreenHeight()/2))
	screen.DrawImage(g.floorImg, floor)
}

// drawList blits a painter-ordered draw list. Each entry samples its texture
// region on the GPU and is stretched to its destination rectangle.
func (g *Game) drawList(screen *ebiten.Image, list []compose.Drawable) {
	for i := range list {
		d := &list[i]
		if d.Dest.Empty() {
			continue
		}

		var src *ebiten.Image
		switch d.Kind {
		case compose.KindSprite:
			src = g.textures.SpriteImage(d.Source.Sprite)
		default:
			tex := g.textures.WallImage(d.Source.Wall)
			src = tex.SubImage(d.Source.Rect).(*ebiten.Image)
		}
		sb := src.Bounds()
		if sb.Empty() {
			continue
		}

		opts := &ebiten.DrawImageOptions{}
		opts.GeoM.Scale(float64(d.Dest.Dx())/float64(sb.Dx()), float64(d.Dest.Dy())/float64(sb.Dy()))
		opts.GeoM.Translate(float64(d.Dest.Min.X), float64(d.Dest.Min.Y))
		if d.Shade < 1 {
			s := float32(d.Shade)
			opts.ColorScale.Scale(s, s, s, 1.0)
		}
		screen.DrawImage(src, opts)
	}
}

// drawMinimap draws the wall tiles, the player and a fan of the cast rays.
func (g *Game) drawMinimap(screen *ebiten.Image) {
	tile := float32(minimapTile)
	ox, oy := float32(minimapMargin), float32(minimapMargin)

	vector.DrawFilledRect(screen, ox, oy, float32(g.grid.Width())*tile, float32(g.grid.Height())*tile, overlayPanel, false)
	for _, t := range g.grid.Walls() {
		vector.DrawFilledRect(screen, ox+float32(t.Col)*tile, oy+float32(t.Row)*tile, tile-1, tile-1, minimapWall, false)
	}

	px := ox + float32(g.player.X)*tile
	py := oy + float32(g.player.Y)*tile
	hits := g.renderer.Hits()
	for i := 0; i < len(hits); i += minimapRayStep {
		h := hits[i]
		vector.StrokeLine(screen, px, py, ox+float32(h.X)*tile, oy+float32(h.Y)*tile, 1, minimapRay, true)
	}
	vector.DrawFilledCircle(screen, px, py, tile/2, minimapPlayer, true)

	hx := px + float32(math.Cos(g.player.Angle))*tile*2
	hy := py + float32(math.Sin(g.player.Angle))*tile*2
	vector.StrokeLine(screen, px, py, hx, hy, 2, minimapPlayer, true)
}

// drawOverlay prints frame statistics in the top right corner.
func (g *Game) drawOverlay(screen *ebiten.Image, drawables int) {
	lines := []string{
		fmt.Sprintf("FPS %.1f  TPS %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("pos %.2f, %.2f  angle %.1f", g.player.X, g.player.Y, g.player.Angle*180/math.Pi),
		fmt.Sprintf("drawables %d", drawables),
	}
	if g.monitor != nil {
		stats := g.monitor.GetStats()
		lines = append(lines,
			fmt.Sprintf("cast %.2fms  compose %.2fms", ms(stats.LastRaycast.Nanoseconds()), ms(stats.LastCompose.Nanoseconds())),
		)
	}

	face := basicfont.Face7x13
	lineH := face.Metrics().Height.Ceil()
	width := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}

	panel := image.Rect(0, 0, width+12, lineH*len(lines)+8)
	x := g.config.GetScreenWidth() - panel.Dx() - minimapMargin
	vector.DrawFilledRect(screen, float32(x), minimapMargin, float32(panel.Dx()), float32(panel.Dy()), overlayPanel, false)
	for i, line := range lines {
		ebitext.Draw(screen, line, face, x+6, minimapMargin+4+face.Ascent+i*lineH, overlayText)
	}
}

func ms(ns int64) float64 {
	return float64(ns) / 1e6
}
