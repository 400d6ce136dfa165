package main

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/Okabintaro/high-impact/common"
	"github.com/Okabintaro/high-impact/config"
	"github.com/Okabintaro/high-impact/engine"
	"github.com/Okabintaro/high-impact/entity"
)

const collisionTypeSolid cp.CollisionType = 1

// DemoScene loads the configured level and runs a small chipmunk space for
// the player against the level's collision map.
type DemoScene struct {
	engine.BaseScene

	cfg   *config.Config
	space *cp.Space
}

// NewDemoScene creates the scene; the space is built in Init so a scene
// swap rebuilds it from scratch.
func NewDemoScene(cfg *config.Config) *DemoScene {
	return &DemoScene{cfg: cfg}
}

func (s *DemoScene) Init(e *engine.Engine) error {
	s.space = cp.NewSpace()
	s.space.Iterations = 10
	s.space.SetGravity(cp.Vector{X: 0, Y: e.Gravity * 240})

	lvl := s.cfg.Level
	if lvl.Path != "" {
		var err error
		if lvl.Tiled {
			err = e.LoadLevelTiled(lvl.Path, lvl.ProjectDir)
		} else {
			err = e.LoadLevel(lvl.Path)
		}
		if err != nil {
			return fmt.Errorf("demo scene: %w", err)
		}
		if lvl.HotReload {
			if err := e.WatchLevel(); err != nil {
				return fmt.Errorf("demo scene: watch level: %w", err)
			}
		}
	}

	s.buildStaticShapes(e.CollisionMap())
	return nil
}

func (s *DemoScene) Update(e *engine.Engine) {
	var player *Player
	e.Entities().Each(func(ent entity.Entity) {
		if p, ok := ent.(*Player); ok {
			p.SetInput(e.Input())
			player = p
		}
	})
	if e.Tick > 0 {
		s.space.Step(e.Tick)
	}
	e.BaseUpdate()

	// Camera eases toward the player.
	if player != nil {
		target := player.Pos.Add(cp.Vector{
			X: -float64(s.cfg.Window.Width) / 2,
			Y: -float64(s.cfg.Window.Height) / 2,
		})
		e.Viewport = cp.Vector{
			X: common.Lerp(e.Viewport.X, target.X, 0.1),
			Y: common.Lerp(e.Viewport.Y, target.Y, 0.1),
		}
	}
}

func (s *DemoScene) Cleanup(*engine.Engine) {
	s.space = nil
}

// buildStaticShapes merges horizontal runs of solid collision tiles into
// static segment-free box shapes so the space holds fewer bodies than one
// per tile.
func (s *DemoScene) buildStaticShapes(m *engine.TileMap) {
	if m == nil || m.TileSize <= 0 {
		return
	}
	ts := float64(m.TileSize)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; {
			if m.TileAt(x, y) == 0 {
				x++
				continue
			}
			run := x
			for run < m.Width && m.TileAt(run, y) != 0 {
				run++
			}

			x0 := float64(x) * ts
			x1 := float64(run) * ts
			y0 := float64(y) * ts
			y1 := y0 + ts

			body := cp.NewStaticBody()
			body.SetPosition(cp.Vector{X: (x0 + x1) / 2, Y: (y0 + y1) / 2})
			shape := cp.NewBox(body, x1-x0, y1-y0, 0)
			shape.SetFriction(0.8)
			shape.SetCollisionType(collisionTypeSolid)
			s.space.AddBody(body)
			s.space.AddShape(shape)

			x = run
		}
	}
}
