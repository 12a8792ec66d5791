package world

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

//go:embed maps/default.map
var defaultMap []byte

// MapData contains the loaded map information
type MapData struct {
	Width    int
	Height   int
	Rows     [][]int
	StartX   int
	StartY   int
	HasStart bool
}

// LoadMap loads a map from the specified file path
func LoadMap(mapPath string) (*MapData, error) {
	file, err := os.Open(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file %s: %w", mapPath, err)
	}
	defer file.Close()

	data, err := ParseMap(file)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", mapPath, err)
	}
	return data, nil
}

// DefaultMap returns the built-in world layout.
func DefaultMap() *MapData {
	data, err := ParseMap(bytes.NewReader(defaultMap))
	if err != nil {
		panic("embedded default map is invalid: " + err.Error())
	}
	return data
}

// ParseMap reads the text map format: one rune per tile, '.' for open floor,
// '1'-'9' and 'a'-'z' for wall ids 1-35, '@' for the player start. Empty
// lines and lines starting with '#' are skipped.
func ParseMap(r io.Reader) (*MapData, error) {
	mapData := &MapData{StartX: -1, StartY: -1}
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if mapData.Width == 0 {
			mapData.Width = utf8.RuneCountInString(line)
		} else if n := utf8.RuneCountInString(line); n != mapData.Width {
			return nil, fmt.Errorf("line %d: %w: expected %d, got %d", lineNo, ErrRaggedMap, mapData.Width, n)
		}

		row := make([]int, 0, mapData.Width)
		for col, symbol := range []rune(line) {
			switch {
			case symbol == '.':
				row = append(row, 0)
			case symbol == '@':
				if mapData.HasStart {
					return nil, fmt.Errorf("line %d: duplicate player start", lineNo)
				}
				mapData.StartX, mapData.StartY = col, len(mapData.Rows)
				mapData.HasStart = true
				row = append(row, 0)
			case symbol >= '1' && symbol <= '9':
				row = append(row, int(symbol-'0'))
			case symbol >= 'a' && symbol <= 'z':
				row = append(row, int(symbol-'a')+10)
			default:
				return nil, fmt.Errorf("line %d col %d: unknown tile symbol %q", lineNo, col+1, symbol)
			}
		}
		mapData.Rows = append(mapData.Rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading map file: %w", err)
	}

	if len(mapData.Rows) == 0 {
		return nil, fmt.Errorf("map file contains no valid map data: %w", ErrEmptyMap)
	}

	mapData.Height = len(mapData.Rows)
	return mapData, nil
}

// Grid builds the occupancy map for the loaded rows.
func (md *MapData) Grid() (*GridMap, error) {
	return NewGridMap(md.Rows)
}
