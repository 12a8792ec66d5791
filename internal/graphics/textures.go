package graphics

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"raycaster/internal/texture"
)

// TextureManager fills a texture table from disk and keeps GPU copies of its
// images for the window renderer. Files that do not exist are left to the
// table's placeholders.
type TextureManager struct {
	table      *texture.Table
	textureDir string
	spriteDir  string
	logger     *log.Logger

	walls   map[int]*ebiten.Image
	sprites map[string]*ebiten.Image
}

// NewTextureManager creates a manager that loads walls from textureDir/<id>.png
// and sprites from spriteDir/<name>.png.
func NewTextureManager(table *texture.Table, textureDir, spriteDir string, logger *log.Logger) *TextureManager {
	return &TextureManager{
		table:      table,
		textureDir: textureDir,
		spriteDir:  spriteDir,
		logger:     logger,
		walls:      make(map[int]*ebiten.Image),
		sprites:    make(map[string]*ebiten.Image),
	}
}

// Table returns the texture table being filled.
func (tm *TextureManager) Table() *texture.Table { return tm.table }

// LoadWalls loads the texture of every id. It returns how many files were
// found; missing files are not an error, undecodable ones are.
func (tm *TextureManager) LoadWalls(ids []int) (int, error) {
	loaded := 0
	var errs []error
	for _, id := range ids {
		path := filepath.Join(tm.textureDir, strconv.Itoa(id)+".png")
		img, err := LoadImage(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			tm.logger.Debug("wall texture missing, using placeholder", "id", id, "path", path)
			continue
		case err != nil:
			errs = append(errs, err)
			continue
		}
		tm.table.SetWall(id, img)
		delete(tm.walls, id)
		loaded++
	}
	return loaded, errors.Join(errs...)
}

// LoadSprites loads one frame per name.
func (tm *TextureManager) LoadSprites(names []string) (int, error) {
	loaded := 0
	var errs []error
	for _, name := range names {
		path := filepath.Join(tm.spriteDir, name+".png")
		img, err := LoadImage(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			tm.logger.Debug("sprite missing, using placeholder", "name", name, "path", path)
			continue
		case err != nil:
			errs = append(errs, err)
			continue
		}
		tm.table.SetSprite(name, img)
		delete(tm.sprites, name)
		loaded++
	}
	return loaded, errors.Join(errs...)
}

// Resize rescales the wall textures to size and drops the GPU copies that
// were made at the old size.
func (tm *TextureManager) Resize(size int) {
	if size == tm.table.Size() {
		return
	}
	tm.table.Resize(size)
	clear(tm.walls)
	clear(tm.sprites)
	tm.logger.Debug("textures resized", "size", tm.table.Size())
}

// WallImage returns the GPU copy of wall texture id.
func (tm *TextureManager) WallImage(id int) *ebiten.Image {
	if img, ok := tm.walls[id]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(tm.table.Wall(id))
	tm.walls[id] = img
	return img
}

// SpriteImage returns the GPU copy of sprite frame name.
func (tm *TextureManager) SpriteImage(name string) *ebiten.Image {
	if img, ok := tm.sprites[name]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(tm.table.Sprite(name))
	tm.sprites[name] = img
	return img
}

// LoadImage decodes an image file. A missing file yields an error matching
// fs.ErrNotExist.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
