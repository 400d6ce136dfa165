package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Okabintaro/high-impact/engine"
)

// Game adapts an Engine to ebiten.Game. The whole engine frame (update and
// draw) runs inside Draw, matching the engine's single frame operation;
// a frame error is carried over and aborts the run loop from Update.
type Game struct {
	eng      *engine.Engine
	renderer *EbitenRenderer
	width    int
	height   int
	frameErr error
}

// NewGame wraps eng for ebiten.RunGame with a fixed logical resolution.
func NewGame(eng *engine.Engine, renderer *EbitenRenderer, width, height int) *Game {
	return &Game{eng: eng, renderer: renderer, width: width, height: height}
}

// Update only surfaces errors from the previous frame; the engine advances
// in Draw where the screen is available.
func (g *Game) Update() error {
	return g.frameErr
}

// Draw runs one engine frame against the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.frameErr != nil {
		return
	}
	g.renderer.SetTarget(screen)
	g.frameErr = g.eng.Update()
}

// Layout reports the fixed logical resolution.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
