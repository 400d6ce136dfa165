package engine

import (
	"strings"
	"testing"
)

func TestLoadLevelRoutesMaps(t *testing.T) {
	te := newTestEngine(t, map[string]string{
		"level.json": `{
			"maps": [
				{"name": "far", "width": 1, "height": 1, "tilesize": 8,
				 "distance": 2, "tileset": "images/far.qoi", "data": [1]},
				{"name": "collision", "width": 2, "height": 1, "tilesize": 8,
				 "data": [1, 0]},
				{"name": "deco", "width": 1, "height": 1, "tilesize": 8,
				 "foreground": true, "repeat": true, "data": [3]}
			]
		}`,
	})

	if err := te.eng.LoadLevel("level.json"); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}

	bgs := te.eng.BackgroundMaps()
	if len(bgs) != 2 {
		t.Fatalf("background maps = %d, want 2", len(bgs))
	}
	if bgs[0].Name != "far" || bgs[0].Distance != 2 {
		t.Errorf("first map = %q distance %g", bgs[0].Name, bgs[0].Distance)
	}
	if !bgs[1].Foreground || !bgs[1].Repeat {
		t.Errorf("deco flags = %v/%v, want true/true", bgs[1].Foreground, bgs[1].Repeat)
	}
	if bgs[1].Distance != 1 {
		t.Errorf("default distance = %g, want 1", bgs[1].Distance)
	}

	col := te.eng.CollisionMap()
	if col == nil || col.Name != "collision" {
		t.Fatalf("collision map = %v", col)
	}
	if col.TileAt(0, 0) != 1 || col.TileAt(1, 0) != 0 {
		t.Error("collision data not preserved")
	}

	if len(te.images.loaded) != 1 || te.images.loaded[0] != "images/far.qoi" {
		t.Errorf("loaded images = %v", te.images.loaded)
	}
}

func TestLoadLevelSettingsAppliedAfterAllSpawns(t *testing.T) {
	// Each probe targets the other; both directions must resolve.
	te := newTestEngine(t, map[string]string{
		"level.json": `{
			"entities": [
				{"type": "probe", "x": 1, "y": 2,
				 "settings": {"name": "first", "target": "second"}},
				{"type": "probe", "x": 3, "y": 4,
				 "settings": {"name": "second", "target": "first"}}
			]
		}`,
	})

	if err := te.eng.LoadLevel("level.json"); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}

	first, _ := te.eng.Entities().ByName("first").(*probe)
	second, _ := te.eng.Entities().ByName("second").(*probe)
	if first == nil || second == nil {
		t.Fatal("entities not reachable by their settings name")
	}
	if !first.targetSeen {
		t.Error("forward reference did not resolve")
	}
	if !second.targetSeen {
		t.Error("backward reference did not resolve")
	}
	if first.Pos.X != 1 || first.Pos.Y != 2 {
		t.Errorf("spawn pos = %v", first.Pos)
	}
}

func TestLoadLevelErrors(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr string
	}{
		{
			name:    "unknown entity type",
			level:   `{"entities": [{"type": "ghost", "x": 0, "y": 0}]}`,
			wantErr: "unknown entity type ghost",
		},
		{
			name:    "entity without type",
			level:   `{"entities": [{"x": 0, "y": 0}]}`,
			wantErr: "entity has no type",
		},
		{
			name: "data length mismatch",
			level: `{"maps": [{"name": "bg", "width": 2, "height": 2,
				"tilesize": 8, "data": [1, 2, 3]}]}`,
			wantErr: "does not match",
		},
		{
			name: "zero distance",
			level: `{"maps": [{"name": "bg", "width": 1, "height": 1,
				"tilesize": 8, "distance": 0, "data": [1]}]}`,
			wantErr: "invalid distance",
		},
		{
			name: "name too long",
			level: `{"maps": [{"name": "abcdefghijklmnop", "width": 1,
				"height": 1, "tilesize": 8, "data": [1]}]}`,
			wantErr: "exceeds 15 chars",
		},
		{
			name: "tile out of range",
			level: `{"maps": [{"name": "bg", "width": 1, "height": 1,
				"tilesize": 8, "data": [65536]}]}`,
			wantErr: "tile is out of range",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			te := newTestEngine(t, map[string]string{"level.json": tc.level})

			err := te.eng.LoadLevel("level.json")
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want %q", err, tc.wantErr)
			}
			if te.eng.temp.Live() != 0 {
				t.Errorf("%d transient parse trees leaked", te.eng.temp.Live())
			}
		})
	}
}

func TestLoadLevelRejectedDuringGameplay(t *testing.T) {
	te := newTestEngine(t, map[string]string{
		"level.json": `{"maps": [{"name": "bg", "width": 1, "height": 1,
			"tilesize": 8, "data": [1]}]}`,
	})

	te.eng.SetScene(&loaderScene{})
	if err := te.eng.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	err := te.eng.LoadLevel("level.json")
	if err == nil || !strings.Contains(err.Error(), "during gameplay") {
		t.Fatalf("error = %v, want gameplay guard", err)
	}
}
