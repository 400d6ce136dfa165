// Package engine is the frame-orchestration and level-loading core of a
// lightweight 2D game engine, a Go port of high_impact. It owns the scene
// lifecycle (deferred swaps, arena resets), per-frame timing and dispatch,
// and the translation of Tiled or native JSON level data into tile maps
// and entities.
package engine

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/Okabintaro/high-impact/arena"
	"github.com/Okabintaro/high-impact/common"
	"github.com/Okabintaro/high-impact/entity"
	"github.com/Okabintaro/high-impact/input"
	"github.com/Okabintaro/high-impact/platform"
)

const (
	// MaxBackgroundMaps caps the background map list; exceeding it is a
	// content configuration error.
	MaxBackgroundMaps = 16

	// defaultMaxTick clamps a single frame's logical tick so a stall (a
	// debugger pause, a window drag) doesn't produce a huge catch-up step.
	defaultMaxTick = 1.0 / 15

	// bumpSize is the capacity of the per-scene bump buffer.
	bumpSize = 1 << 20
)

// Perf holds last-frame performance counters, in seconds.
type Perf struct {
	Update    float64
	Draw      float64
	Total     float64
	DrawCalls int
}

// Deps are the collaborators an Engine is built from. Log, Clock, Assets,
// Images, and Renderer are required; Sounds is optional.
type Deps struct {
	Log      *zap.Logger
	Clock    platform.Clock
	Assets   AssetLoader
	Images   ImageLoader
	Renderer Renderer
	Sounds   Marker
}

// Engine is the single process-wide engine state, passed explicitly to
// scene callbacks instead of living in a global.
type Engine struct {
	// TimeReal is wall time at the start of the current frame.
	TimeReal float64
	// Time is accumulated scaled game time since the scene started.
	Time float64
	// TimeScale multiplies real elapsed time into the logical tick.
	TimeScale float64
	// Tick is this frame's logical time step, already clamped.
	Tick float64
	// Frame counts frames since the scene started.
	Frame int
	// Viewport is the top-left world offset of the camera.
	Viewport cp.Vector
	// Gravity is the world gravity constant read by entities.
	Gravity float64
	// Perf holds last-frame timings.
	Perf Perf

	log      *zap.Logger
	clock    platform.Clock
	assets   AssetLoader
	images   ImageLoader
	renderer Renderer
	sounds   Marker

	bump     *arena.Buffer
	temp     *arena.Temp
	entities *entity.Registry
	in       *input.State

	backgroundMaps []*TileMap
	collisionMap   *TileMap

	scene     Scene
	sceneNext Scene
	running   bool
	maxTick   float64

	initMarks struct {
		textures arena.Mark
		images   arena.Mark
		sounds   arena.Mark
		bump     arena.Mark
	}

	watcher   *Watcher
	lastLevel levelRef
}

type levelRef struct {
	path       string
	projectDir string
	tiled      bool
}

// New creates an engine and captures the init arena marks that every scene
// swap rolls back to.
func New(deps Deps) (*Engine, error) {
	if deps.Clock == nil || deps.Assets == nil || deps.Images == nil || deps.Renderer == nil {
		return nil, fmt.Errorf("engine: missing required dependency")
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	e := &Engine{
		TimeScale: 1,
		Gravity:   1,
		log:       log,
		clock:     deps.Clock,
		assets:    deps.Assets,
		images:    deps.Images,
		renderer:  deps.Renderer,
		sounds:    deps.Sounds,
		bump:      arena.NewBuffer(bumpSize),
		temp:      arena.NewTemp(),
		entities:  entity.NewRegistry(log),
		in:        input.NewState(),
		maxTick:   defaultMaxTick,
	}
	e.backgroundMaps = make([]*TileMap, 0, MaxBackgroundMaps)
	e.TimeReal = e.clock.Now()

	e.initMarks.textures = e.renderer.Mark()
	e.initMarks.images = e.images.Mark()
	if e.sounds != nil {
		e.initMarks.sounds = e.sounds.Mark()
	}
	e.initMarks.bump = e.bump.Mark()
	return e, nil
}

// Entities returns the entity registry.
func (e *Engine) Entities() *entity.Registry { return e.entities }

// Input returns the per-frame input state.
func (e *Engine) Input() *input.State { return e.in }

// Renderer returns the draw submission interface for custom scene draws.
func (e *Engine) Renderer() Renderer { return e.renderer }

// Log returns the engine logger.
func (e *Engine) Log() *zap.Logger { return e.log }

// SetMaxTick overrides the per-frame tick clamp, in seconds.
func (e *Engine) SetMaxTick(t float64) {
	if t > 0 {
		e.maxTick = t
	}
}

// IsRunning reports whether a scene is active and mid-frame work is legal.
func (e *Engine) IsRunning() bool { return e.running }

// SetScene schedules a scene swap. The swap is deferred to the start of
// the next frame so the outgoing scene finishes its frame intact.
func (e *Engine) SetScene(s Scene) {
	e.sceneNext = s
}

// AddBackgroundMap appends a map to the background list. List order is
// draw order.
func (e *Engine) AddBackgroundMap(m *TileMap) error {
	if len(e.backgroundMaps) >= MaxBackgroundMaps {
		return fmt.Errorf("background map limit (%d) reached", MaxBackgroundMaps)
	}
	e.backgroundMaps = append(e.backgroundMaps, m)
	return nil
}

// BackgroundMaps returns the background map list in draw order.
func (e *Engine) BackgroundMaps() []*TileMap { return e.backgroundMaps }

// SetCollisionMap sets the single collision map.
func (e *Engine) SetCollisionMap(m *TileMap) {
	e.collisionMap = m
}

// CollisionMap returns the collision map, or nil.
func (e *Engine) CollisionMap() *TileMap { return e.collisionMap }

// Update runs one full frame: pending scene swap, timing, scene update,
// draw submission, input edge clear, and temp leak check. It is the only
// place engine state advances.
func (e *Engine) Update() error {
	frameStart := e.clock.Now()

	e.drainWatcher()

	if e.sceneNext != nil {
		e.running = false
		if e.scene != nil {
			e.scene.Cleanup(e)
		}

		e.renderer.Reset(e.initMarks.textures)
		e.images.Reset(e.initMarks.images)
		if e.sounds != nil {
			e.sounds.Reset(e.initMarks.sounds)
		}
		e.bump.Reset(e.initMarks.bump)
		e.entities.Reset()

		e.backgroundMaps = e.backgroundMaps[:0]
		e.collisionMap = nil
		e.Time = 0
		e.Frame = 0
		e.Viewport = cp.Vector{}

		next := e.sceneNext
		e.sceneNext = nil
		e.scene = next
		if err := next.Init(e); err != nil {
			return fmt.Errorf("scene init: %w", err)
		}
	}
	e.running = true

	if e.scene == nil {
		panic("engine: no scene set")
	}

	now := e.clock.Now()
	realDelta := now - e.TimeReal
	e.TimeReal = now
	e.Tick = common.Clamp(realDelta*e.TimeScale, 0, e.maxTick)
	e.Time += e.Tick
	e.Frame++

	// Everything bump-allocated inside update/draw is scratch and is
	// rolled back when the frame's work is done.
	frameMark := e.bump.Mark()

	e.scene.Update(e)
	e.Perf.Update = e.clock.Now() - now

	e.renderer.FramePrepare()
	e.scene.Draw(e)
	e.renderer.FrameEnd()
	e.Perf.Draw = (e.clock.Now() - now) - e.Perf.Update

	e.bump.Reset(frameMark)

	e.in.ClearEdges()
	if n := e.temp.Live(); n > 0 {
		panic(fmt.Sprintf("engine: %d temp allocations leaked past frame end", n))
	}

	e.Perf.DrawCalls = e.renderer.DrawCalls()
	e.Perf.Total = e.clock.Now() - frameStart
	return nil
}

// BaseUpdate is the default scene update: advance every entity.
func (e *Engine) BaseUpdate() {
	e.entities.UpdateAll(e.Tick)
}

// BaseDraw is the default scene draw: background maps in list order, then
// entities, then foreground maps in list order.
func (e *Engine) BaseDraw() {
	px := e.renderer.SnapPx(e.Viewport)

	for _, m := range e.backgroundMaps {
		if !m.Foreground {
			e.renderer.DrawMap(m, px)
		}
	}

	if c, ok := e.renderer.(entity.Canvas); ok {
		e.entities.DrawAll(c, px)
	}

	for _, m := range e.backgroundMaps {
		if m.Foreground {
			e.renderer.DrawMap(m, px)
		}
	}
}

// resetLevelState clears entity and map state before a level load.
func (e *Engine) resetLevelState() {
	e.entities.Reset()
	e.backgroundMaps = e.backgroundMaps[:0]
	e.collisionMap = nil
}

// loadAssetJSON parses an asset into a temp-tracked JSON tree. The caller
// must release the handle before returning, on every path.
func (e *Engine) loadAssetJSON(path string) (*jsnTree, error) {
	tree, err := e.assets.JSON(path)
	if err != nil {
		return nil, err
	}
	return &jsnTree{node: tree, handle: e.temp.Put(tree), temp: e.temp}, nil
}
