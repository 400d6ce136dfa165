// Package entity implements the engine's entity registry: named entity
// types, spawning, per-frame advancement, and settings application. Entity
// behavior itself is supplied by the embedding game; the engine only owns
// instantiation and bookkeeping.
package entity

import (
	"github.com/jakecoffman/cp"

	"github.com/Okabintaro/high-impact/jsn"
)

// Sprite is a drawable image resource handle.
type Sprite interface {
	Size() (w, h int)
}

// Canvas is the drawing surface handed to entities each frame.
type Canvas interface {
	DrawSprite(s Sprite, pos cp.Vector)
}

// Entity is one live game object. Embedders implement it, usually by
// embedding EntBase and overriding the hooks they need.
type Entity interface {
	// Base returns the shared position/name record.
	Base() *EntBase
	// Update advances the entity by tick seconds.
	Update(tick float64)
	// Draw renders the entity relative to the viewport.
	Draw(c Canvas, viewport cp.Vector)
	// Configure applies a settings node after every entity in the level
	// has been spawned; settings may reference other entities by name
	// through the registry.
	Configure(reg *Registry, settings *jsn.Node) error
}

// EntBase carries the state every entity shares. Embed it in concrete types.
type EntBase struct {
	Pos  cp.Vector
	Vel  cp.Vector
	Name string
}

// Base returns the record itself so embedding satisfies the interface.
func (b *EntBase) Base() *EntBase { return b }

// Update applies velocity. Override for real behavior.
func (b *EntBase) Update(tick float64) {
	b.Pos = b.Pos.Add(b.Vel.Mult(tick))
}

// Draw is a no-op by default.
func (b *EntBase) Draw(Canvas, cp.Vector) {}

// Configure copies a "name" setting if present and ignores the rest.
func (b *EntBase) Configure(_ *Registry, settings *jsn.Node) error {
	if name := settings.ValueForKey("name"); name.Type() == jsn.TypeString {
		b.Name = name.Str()
	}
	return nil
}

// Type constructs a fresh, unspawned entity instance.
type Type func() Entity
