package engine

import (
	"github.com/jakecoffman/cp"

	"github.com/Okabintaro/high-impact/arena"
	"github.com/Okabintaro/high-impact/jsn"
)

// Image is a decoded image resource handle, usually a tileset.
type Image interface {
	Size() (w, h int)
}

// Marker is a resource store with arena mark/reset semantics. The engine
// captures marks at init and rolls back to them on every scene swap.
type Marker interface {
	Mark() arena.Mark
	Reset(m arena.Mark)
}

// ImageLoader loads and owns decoded images.
type ImageLoader interface {
	Marker
	Load(path string) (Image, error)
}

// AssetLoader reads level and tileset definition files as JSON trees.
type AssetLoader interface {
	JSON(path string) (*jsn.Node, error)
}

// Renderer is the draw submission interface. The engine never touches the
// graphics backend directly; render.EbitenRenderer is the stock
// implementation.
type Renderer interface {
	Marker

	// FramePrepare begins a frame.
	FramePrepare()
	// FrameEnd submits the frame.
	FrameEnd()
	// DrawMap draws a tile map offset by the viewport scaled with the
	// map's parallax distance.
	DrawMap(m *TileMap, viewport cp.Vector)
	// SnapPx snaps a world position to whole pixels.
	SnapPx(v cp.Vector) cp.Vector
	// DrawCalls reports draw calls submitted since FramePrepare.
	DrawCalls() int
}
