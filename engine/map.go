package engine

import (
	"fmt"

	"github.com/Okabintaro/high-impact/jsn"
)

// maxMapNameLen is the longest allowed map layer name.
const maxMapNameLen = 15

// TileMap is one tile layer of a level: a grid of tile indices over a
// single tileset image. Maps are built once during level load, stay
// immutable while their scene runs, and are reclaimed wholesale by the
// arena reset at the next scene swap.
type TileMap struct {
	Width    int
	Height   int
	TileSize int

	// Distance is the parallax scroll divisor; 1 scrolls with the camera.
	Distance   float64
	Foreground bool
	Repeat     bool
	Name       string

	// Data holds tile indices row-major: 0 is empty, values >= 1 are
	// 1-based indices into the tileset.
	Data []uint16

	// Tileset is the decoded tileset image; nil for an all-empty layer.
	Tileset Image
}

// NewMap creates a map from already-resolved data. data length must be
// width*height.
func NewMap(width, height, tileSize int, data []uint16) (*TileMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid map dimensions %dx%d", width, height)
	}
	if len(data) != width*height {
		return nil, fmt.Errorf("map data length %d does not match %dx%d", len(data), width, height)
	}
	return &TileMap{Width: width, Height: height, TileSize: tileSize, Distance: 1, Data: data}, nil
}

// TileAt returns the tile index at x,y, or 0 when out of bounds.
func (m *TileMap) TileAt(x, y int) uint16 {
	if m == nil || x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.Data[y*m.Width+x]
}

// mapFromDef builds a map from the engine's own self-describing JSON map
// schema: name, width, height, tilesize, optional distance, foreground,
// repeat, tileset image path, and a flat data array of local tile indices.
func (e *Engine) mapFromDef(def *jsn.Node) (*TileMap, error) {
	if e.running {
		return nil, fmt.Errorf("cannot create map during gameplay")
	}

	width := int(def.ValueForKey("width").Num())
	height := int(def.ValueForKey("height").Num())
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid map dimensions %dx%d", width, height)
	}

	m := &TileMap{
		Width:      width,
		Height:     height,
		TileSize:   int(def.ValueForKey("tilesize").Num()),
		Distance:   1,
		Foreground: def.ValueForKey("foreground").Bool(),
		Repeat:     def.ValueForKey("repeat").Bool(),
	}

	if dist := def.ValueForKey("distance"); dist != nil {
		m.Distance = dist.Num()
		if m.Distance == 0 {
			return nil, fmt.Errorf("invalid distance for map")
		}
	}

	if name := def.ValueForKey("name"); name.Type() == jsn.TypeString {
		if name.Len() > maxMapNameLen {
			return nil, fmt.Errorf("map name exceeds %d chars: %s", maxMapNameLen, name.Str())
		}
		m.Name = name.Str()
	}

	data := def.ValueForKey("data")
	if data == nil {
		return nil, fmt.Errorf("map %s has no data", m.Name)
	}
	if data.Len() != width*height {
		return nil, fmt.Errorf("map %s data length %d does not match %dx%d", m.Name, data.Len(), width, height)
	}
	m.Data = make([]uint16, width*height)
	for i := 0; i < data.Len(); i++ {
		raw := data.ValueAt(i).Num()
		if raw < 0 || raw > 0xFFFF {
			return nil, fmt.Errorf("map %s: tile is out of range", m.Name)
		}
		m.Data[i] = uint16(raw)
	}

	if tileset := def.ValueForKey("tileset"); tileset.Type() == jsn.TypeString {
		img, err := e.images.Load(tileset.Str())
		if err != nil {
			return nil, fmt.Errorf("map %s: load tileset: %w", m.Name, err)
		}
		m.Tileset = img
	}

	return m, nil
}
