package engine

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/Okabintaro/high-impact/jsn"
)

// LoadLevel loads a level in the engine's own JSON schema: a "maps" array
// of self-describing map defs and an "entities" array with inline settings
// objects. Settings are applied only after every entity in the level has
// been spawned, so a settings blob may reference any entity by name
// regardless of spawn order.
func (e *Engine) LoadLevel(path string) error {
	level, err := e.loadAssetJSON(path)
	if err != nil {
		return fmt.Errorf("could not load level json at %s: %w", path, err)
	}
	defer level.release()

	e.resetLevelState()

	maps := level.node.ValueForKey("maps")
	for i := 0; i < maps.Len(); i++ {
		def := maps.ValueAt(i)
		name := def.ValueForKey("name").Str()

		m, err := e.mapFromDef(def)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if name == "collision" {
			e.SetCollisionMap(m)
		} else if err := e.AddBackgroundMap(m); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	entities := level.node.ValueForKey("entities")
	pending := make([]spawnRecord, 0, entities.Len())
	for i := 0; i < entities.Len(); i++ {
		def := entities.ValueAt(i)

		typeName := def.ValueForKey("type").Str()
		if typeName == "" {
			return fmt.Errorf("%s: entity has no type", path)
		}
		typ, ok := e.entities.TypeByName(typeName)
		if !ok {
			return fmt.Errorf("%s: unknown entity type %s", path, typeName)
		}

		pos := cp.Vector{
			X: def.ValueForKey("x").Num(),
			Y: def.ValueForKey("y").Num(),
		}
		ent := e.entities.Spawn(typ, pos)

		settings := def.ValueForKey("settings")
		if settings.Type() == jsn.TypeObject {
			// The name has to be usable by other settings blobs, so it
			// is copied during the spawn pass rather than the apply pass.
			if name := settings.ValueForKey("name"); name.Type() == jsn.TypeString {
				ent.Base().Name = name.Str()
			}
			pending = append(pending, spawnRecord{ent: ent, settings: settings})
		}
	}

	for _, rec := range pending {
		if err := e.entities.Configure(rec.ent, rec.settings); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	e.rememberLevel(levelRef{path: path})
	return nil
}
