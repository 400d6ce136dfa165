package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/Okabintaro/high-impact/arena"
	"github.com/Okabintaro/high-impact/engine"
	"github.com/Okabintaro/high-impact/entity"
)

// EbitenRenderer draws maps and sprites onto an ebiten target image. The
// target is the screen handed to Game.Draw and must be set before each
// engine frame.
type EbitenRenderer struct {
	log        *zap.Logger
	target     *ebiten.Image
	drawCalls  int
	lastCalls  int
	offscreens *arena.Pool[*ebiten.Image]
}

// NewEbitenRenderer creates a renderer with no target bound yet.
func NewEbitenRenderer(log *zap.Logger) *EbitenRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &EbitenRenderer{
		log: log,
		offscreens: arena.NewPool(func(img *ebiten.Image) {
			img.Deallocate()
		}),
	}
}

// SetTarget binds the frame's draw target.
func (r *EbitenRenderer) SetTarget(screen *ebiten.Image) {
	r.target = screen
}

// NewTarget allocates an offscreen render target owned by the renderer's
// texture arena; it is deallocated by the scene-swap Reset.
func (r *EbitenRenderer) NewTarget(w, h int) *ebiten.Image {
	img := ebiten.NewImage(w, h)
	r.offscreens.Add(img)
	return img
}

// FramePrepare begins a frame.
func (r *EbitenRenderer) FramePrepare() {
	r.drawCalls = 0
}

// FrameEnd submits the frame. Ebiten flushes on return from Draw, so this
// only latches the draw-call counter.
func (r *EbitenRenderer) FrameEnd() {
	r.lastCalls = r.drawCalls
}

// DrawCalls reports draw calls submitted in the last finished frame.
func (r *EbitenRenderer) DrawCalls() int { return r.lastCalls }

// SnapPx snaps a world position to whole pixels.
func (r *EbitenRenderer) SnapPx(v cp.Vector) cp.Vector {
	return cp.Vector{X: math.Round(v.X), Y: math.Round(v.Y)}
}

// Mark returns a checkpoint of the renderer's texture arena.
func (r *EbitenRenderer) Mark() arena.Mark { return r.offscreens.Mark() }

// Reset deallocates every offscreen target created after m.
func (r *EbitenRenderer) Reset(m arena.Mark) { r.offscreens.Reset(m) }

// DrawMap draws every non-zero tile of m, offset by the viewport divided
// by the map's parallax distance. Repeating maps wrap around the target.
func (r *EbitenRenderer) DrawMap(m *engine.TileMap, viewport cp.Vector) {
	if r.target == nil || m == nil || m.Tileset == nil || m.TileSize <= 0 {
		return
	}
	img, ok := m.Tileset.(*Image)
	if !ok {
		return
	}

	offset := viewport
	if m.Distance != 0 {
		offset = viewport.Mult(1 / m.Distance)
	}

	tilesetW, _ := img.Size()
	tilesPerRow := tilesetW / m.TileSize
	if tilesPerRow <= 0 {
		return
	}

	mapW := float64(m.Width * m.TileSize)
	mapH := float64(m.Height * m.TileSize)
	targetW := float64(r.target.Bounds().Dx())
	targetH := float64(r.target.Bounds().Dy())

	startX, endX := -offset.X, -offset.X
	startY, endY := -offset.Y, -offset.Y
	if m.Repeat {
		startX = math.Mod(-offset.X, mapW) - mapW
		startY = math.Mod(-offset.Y, mapH) - mapH
		endX = targetW
		endY = targetH
	}

	for oy := startY; oy <= endY; oy += mapH {
		for ox := startX; ox <= endX; ox += mapW {
			r.drawMapOnce(m, img, tilesPerRow, ox, oy)
		}
	}
}

func (r *EbitenRenderer) drawMapOnce(m *engine.TileMap, img *Image, tilesPerRow int, ox, oy float64) {
	ts := m.TileSize
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			tile := int(m.Data[y*m.Width+x])
			if tile == 0 {
				continue
			}
			local := tile - 1
			sx := (local % tilesPerRow) * ts
			sy := (local / tilesPerRow) * ts
			sub := img.Ebiten().SubImage(imageRect(sx, sy, ts)).(*ebiten.Image)

			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(ox+float64(x*ts), oy+float64(y*ts))
			r.target.DrawImage(sub, op)
			r.drawCalls++
		}
	}
}

// DrawSprite draws s at a screen position. Entities are expected to have
// subtracted the viewport already.
func (r *EbitenRenderer) DrawSprite(s entity.Sprite, pos cp.Vector) {
	if r.target == nil {
		return
	}
	img, ok := s.(*Image)
	if !ok {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(pos.X, pos.Y)
	r.target.DrawImage(img.Ebiten(), op)
	r.drawCalls++
}
