package main

import (
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Okabintaro/high-impact/config"
	"github.com/Okabintaro/high-impact/engine"
	"github.com/Okabintaro/high-impact/input"
	"github.com/Okabintaro/high-impact/render"
)

// demoGame adapts ebiten's callbacks: input is polled in Update, the whole
// engine frame runs in Draw, and the pause menu freezes game time by
// zeroing the time scale.
type demoGame struct {
	game *render.Game
	eng  *engine.Engine
	cfg  *config.Config

	ui        *ebitenui.UI
	paused    bool
	savedTime float64
}

func newDemoGame(eng *engine.Engine, renderer *render.EbitenRenderer, cfg *config.Config) *demoGame {
	g := &demoGame{
		game: render.NewGame(eng, renderer, cfg.Window.Width, cfg.Window.Height),
		eng:  eng,
		cfg:  cfg,
	}
	g.ui = newPauseUI(g)
	return g
}

func (g *demoGame) togglePause() {
	if g.paused {
		g.eng.TimeScale = g.savedTime
	} else {
		g.savedTime = g.eng.TimeScale
		g.eng.TimeScale = 0
	}
	g.paused = !g.paused
}

func (g *demoGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.togglePause()
	}
	if g.paused {
		g.ui.Update()
		return g.game.Update()
	}

	pollInput(g.eng.Input())
	return g.game.Update()
}

func (g *demoGame) Draw(screen *ebiten.Image) {
	g.game.Draw(screen)
	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *demoGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.game.Layout(outsideWidth, outsideHeight)
}

// pollInput maps physical keys onto the engine's logical buttons.
func pollInput(in *input.State) {
	keys := map[ebiten.Key]input.Button{
		ebiten.KeyA:     input.ButtonLeft,
		ebiten.KeyLeft:  input.ButtonLeft,
		ebiten.KeyD:     input.ButtonRight,
		ebiten.KeyRight: input.ButtonRight,
		ebiten.KeyW:     input.ButtonUp,
		ebiten.KeyUp:    input.ButtonUp,
		ebiten.KeyS:     input.ButtonDown,
		ebiten.KeyDown:  input.ButtonDown,
		ebiten.KeySpace: input.ButtonJump,
		ebiten.KeyE:     input.ButtonAction,
	}
	for key, button := range keys {
		if ebiten.IsKeyPressed(key) {
			in.Press(button)
		} else {
			in.Release(button)
		}
	}

	x, y := ebiten.CursorPosition()
	in.MouseX = float64(x)
	in.MouseY = float64(y)
}
