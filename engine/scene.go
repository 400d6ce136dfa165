package engine

// Scene is one unit of game flow (title screen, a level, game over).
// Variants are supplied entirely by the embedding game; embed BaseScene to
// pick up default behavior for the hooks you don't care about.
type Scene interface {
	// Init runs once, right after the engine adopts the scene.
	Init(e *Engine) error
	// Update advances game state by e.Tick.
	Update(e *Engine)
	// Draw submits the frame.
	Draw(e *Engine)
	// Cleanup runs right before the scene is torn down.
	Cleanup(e *Engine)
}

// BaseScene provides the default scene behavior: Update advances all
// entities, Draw renders background maps, entities, then foreground maps.
type BaseScene struct{}

func (BaseScene) Init(*Engine) error { return nil }

func (BaseScene) Update(e *Engine) { e.BaseUpdate() }

func (BaseScene) Draw(e *Engine) { e.BaseDraw() }

func (BaseScene) Cleanup(*Engine) {}
