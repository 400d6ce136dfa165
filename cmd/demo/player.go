package main

import (
	"github.com/jakecoffman/cp"

	"github.com/Okabintaro/high-impact/entity"
	"github.com/Okabintaro/high-impact/input"
	"github.com/Okabintaro/high-impact/jsn"
)

const (
	playerSize  = 24.0
	playerSpeed = 140.0
	playerJump  = 260.0
)

// Player is a minimal chipmunk-driven player body. It spawns from level
// data like any other entity type.
type Player struct {
	entity.EntBase

	scene *DemoScene
	body  *cp.Body
	in    *input.State
}

// NewPlayer creates a player bound to the demo scene's physics space.
func NewPlayer(scene *DemoScene) *Player {
	return &Player{scene: scene}
}

// SetInput wires the engine input state; without it the player is inert.
func (p *Player) SetInput(in *input.State) { p.in = in }

func (p *Player) Update(tick float64) {
	if p.body == nil {
		if p.scene == nil || p.scene.space == nil {
			return
		}
		p.body = cp.NewBody(1, cp.INFINITY)
		p.body.SetPosition(p.Pos)
		shape := cp.NewBox(p.body, playerSize, playerSize, 0)
		shape.SetFriction(0.6)
		p.scene.space.AddBody(p.body)
		p.scene.space.AddShape(shape)
	}

	if p.in != nil {
		v := p.body.Velocity()
		switch {
		case p.in.Held(input.ButtonLeft):
			v.X = -playerSpeed
		case p.in.Held(input.ButtonRight):
			v.X = playerSpeed
		default:
			v.X = 0
		}
		if p.in.JustPressed(input.ButtonJump) {
			v.Y = -playerJump
		}
		p.body.SetVelocity(v.X, v.Y)
	}

	p.Pos = p.body.Position()
}

func (p *Player) Configure(reg *entity.Registry, settings *jsn.Node) error {
	if err := p.EntBase.Configure(reg, settings); err != nil {
		return err
	}
	if speed := settings.ValueForKey("speed"); speed.Type() == jsn.TypeNumber {
		p.Vel.X = speed.Num()
	}
	return nil
}

// Coin is a static pickup marker used by the demo levels.
type Coin struct {
	entity.EntBase
}
