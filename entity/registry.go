package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/Okabintaro/high-impact/jsn"
)

// Registry owns the known entity types and every live entity. A level load
// resets it; a scene swap resets it again.
type Registry struct {
	log   *zap.Logger
	types map[string]Type
	list  []Entity
}

// NewRegistry creates an empty registry. A nil logger is replaced with a
// no-op logger.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log, types: map[string]Type{}}
}

// Register makes an entity type spawnable under name. Registering the same
// name twice replaces the earlier factory.
func (r *Registry) Register(name string, t Type) {
	if name == "" || t == nil {
		return
	}
	r.types[name] = t
}

// TypeByName resolves a registered type.
func (r *Registry) TypeByName(name string) (Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Spawn creates a live entity of type t at pos.
func (r *Registry) Spawn(t Type, pos cp.Vector) Entity {
	ent := t()
	ent.Base().Pos = pos
	r.list = append(r.list, ent)
	return ent
}

// Configure applies a settings node to ent. Call only after every entity
// of the current level has been spawned.
func (r *Registry) Configure(ent Entity, settings *jsn.Node) error {
	if ent == nil || settings == nil {
		return nil
	}
	if err := ent.Configure(r, settings); err != nil {
		return fmt.Errorf("entity %q: %w", ent.Base().Name, err)
	}
	return nil
}

// ByName returns the first live entity with the given name, or nil.
func (r *Registry) ByName(name string) Entity {
	if name == "" {
		return nil
	}
	for _, ent := range r.list {
		if ent.Base().Name == name {
			return ent
		}
	}
	return nil
}

// Count reports the number of live entities.
func (r *Registry) Count() int { return len(r.list) }

// Each calls fn for every live entity in spawn order.
func (r *Registry) Each(fn func(Entity)) {
	for _, ent := range r.list {
		fn(ent)
	}
}

// Reset destroys every live entity. Registered types survive.
func (r *Registry) Reset() {
	if len(r.list) > 0 {
		r.log.Debug("entities reset", zap.Int("count", len(r.list)))
	}
	r.list = r.list[:0]
}

// UpdateAll advances every live entity by tick seconds, in spawn order.
func (r *Registry) UpdateAll(tick float64) {
	for _, ent := range r.list {
		ent.Update(tick)
	}
}

// DrawAll draws every live entity, in spawn order.
func (r *Registry) DrawAll(c Canvas, viewport cp.Vector) {
	for _, ent := range r.list {
		ent.Draw(c, viewport)
	}
}
