package world

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMapFromFile(t *testing.T) {
	mapDir := t.TempDir()
	mapPath := filepath.Join(mapDir, "test.map")
	content := "# test room\n" +
		"1111\n" +
		"\n" +
		"1@.2\n" +
		"1a.2\n" +
		"1111\n"
	if err := os.WriteFile(mapPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}

	mapData, err := LoadMap(mapPath)
	if err != nil {
		t.Fatalf("load map: %v", err)
	}

	if mapData.Width != 4 || mapData.Height != 4 {
		t.Fatalf("Expected 4x4 map, got %dx%d", mapData.Width, mapData.Height)
	}
	if !mapData.HasStart || mapData.StartX != 1 || mapData.StartY != 1 {
		t.Errorf("Expected start at (1,1), got (%d,%d) has=%v", mapData.StartX, mapData.StartY, mapData.HasStart)
	}
	if got := mapData.Rows[1][3]; got != 2 {
		t.Errorf("Expected wall id 2 at (3,1), got %d", got)
	}
	if got := mapData.Rows[2][1]; got != 10 {
		t.Errorf("Expected wall id 10 for 'a', got %d", got)
	}

	g, err := mapData.Grid()
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if g.IsWall(1, 1) {
		t.Error("Player start should be open floor")
	}
}

func TestParseMapErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"inconsistent width", "111\n11\n", "line 2"},
		{"unknown symbol", "1?1\n", "unknown tile symbol"},
		{"duplicate start", "@@\n", "duplicate player start"},
		{"only comments", "# nothing\n\n", "no valid map data"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseMap(strings.NewReader(tc.content))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}

	_, err := ParseMap(strings.NewReader("111\n11\n"))
	if !errors.Is(err, ErrRaggedMap) {
		t.Errorf("Expected ErrRaggedMap, got %v", err)
	}
}

func TestLoadMapMissingFile(t *testing.T) {
	_, err := LoadMap(filepath.Join(t.TempDir(), "missing.map"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Expected not-exist error, got %v", err)
	}
}

func TestDefaultMapIsEnclosed(t *testing.T) {
	mapData := DefaultMap()
	if mapData.Width != 48 || mapData.Height != 22 {
		t.Fatalf("Expected 48x22 default map, got %dx%d", mapData.Width, mapData.Height)
	}
	if !mapData.HasStart {
		t.Fatal("Default map should define a player start")
	}

	g, err := mapData.Grid()
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	for col := 0; col < g.Width(); col++ {
		if !g.IsWall(col, 0) || !g.IsWall(col, g.Height()-1) {
			t.Fatalf("Expected border wall in column %d", col)
		}
	}
	for row := 0; row < g.Height(); row++ {
		if !g.IsWall(0, row) || !g.IsWall(g.Width()-1, row) {
			t.Fatalf("Expected border wall in row %d", row)
		}
	}
}
