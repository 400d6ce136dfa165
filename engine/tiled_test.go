package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Okabintaro/high-impact/jsn"
)

const testTilesetDef = `{
	"tilecount": 16,
	"tilewidth": 8,
	"tileheight": 8,
	"image": "../images/main.png"
}`

// tiledLevel builds a minimal Tiled level document around the given layer
// JSON fragments.
func tiledLevel(layers ...string) string {
	return fmt.Sprintf(`{
		"tilewidth": 8,
		"tileheight": 8,
		"tilesets": [{"source": "tilesets/main.tsj", "firstgid": 17}],
		"layers": [%s]
	}`, strings.Join(layers, ","))
}

func tileLayer(name string, extra string) string {
	if extra != "" {
		extra = "," + extra
	}
	return fmt.Sprintf(`{
		"name": %q, "type": "tilelayer",
		"width": 2, "height": 2,
		"data": [17, 20, 0, 32]%s
	}`, name, extra)
}

func newTiledEngine(t *testing.T, layers ...string) *testEngine {
	t.Helper()
	return newTestEngine(t, map[string]string{
		"level.tmj":              tiledLevel(layers...),
		"proj/tilesets/main.tsj": testTilesetDef,
	})
}

func TestLoadLevelTiledRoutesLayers(t *testing.T) {
	te := newTiledEngine(t, tileLayer("collision", ""), tileLayer("background", ""))

	if err := te.eng.LoadLevelTiled("level.tmj", "proj"); err != nil {
		t.Fatalf("LoadLevelTiled: %v", err)
	}

	if te.eng.CollisionMap() == nil {
		t.Fatal("collision layer was not routed to the collision slot")
	}
	if te.eng.CollisionMap().Name != "collision" {
		t.Errorf("collision map name = %q", te.eng.CollisionMap().Name)
	}
	bgs := te.eng.BackgroundMaps()
	if len(bgs) != 1 || bgs[0].Name != "background" {
		t.Fatalf("background list = %v, want exactly the background layer", bgs)
	}
	if te.eng.temp.Live() != 0 {
		t.Errorf("%d transient parse trees leaked", te.eng.temp.Live())
	}
}

func TestLoadLevelTiledRemapsTiles(t *testing.T) {
	te := newTiledEngine(t, tileLayer("background", ""))

	if err := te.eng.LoadLevelTiled("level.tmj", "proj"); err != nil {
		t.Fatalf("LoadLevelTiled: %v", err)
	}

	m := te.eng.BackgroundMaps()[0]
	// Global IDs 17,20,0,32 against firstgid 17 become local 1,4,0,16.
	want := []uint16{1, 4, 0, 16}
	for i, tile := range m.Data {
		if tile != want[i] {
			t.Errorf("Data[%d] = %d, want %d", i, tile, want[i])
		}
		if tile != 0 && (tile < 1 || tile > 16) {
			t.Errorf("Data[%d] = %d outside [1, tilecount]", i, tile)
		}
	}
}

func TestLoadLevelTiledResolvesTilesetImage(t *testing.T) {
	te := newTiledEngine(t, tileLayer("background", ""))

	if err := te.eng.LoadLevelTiled("level.tmj", "proj"); err != nil {
		t.Fatalf("LoadLevelTiled: %v", err)
	}

	// "proj/tilesets" + "/../images/main.png", normalized, with the
	// extension swapped to the engine's native format.
	want := "proj/images/main.qoi"
	if len(te.images.loaded) != 1 || te.images.loaded[0] != want {
		t.Errorf("loaded images = %v, want [%s]", te.images.loaded, want)
	}
}

func TestLoadLevelTiledParallax(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		wantErr string
		want    float64
	}{
		{name: "absent defaults to 1", extra: "", want: 1},
		{name: "matching axes", extra: `"parallaxx": 0.5, "parallaxy": 0.5`, want: 0.5},
		{name: "mismatched axes", extra: `"parallaxx": 0.5, "parallaxy": 0.7`, wantErr: "must be the same"},
		{name: "zero distance", extra: `"parallaxx": 0, "parallaxy": 0`, wantErr: "invalid distance"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			te := newTiledEngine(t, tileLayer("background", tc.extra))

			err := te.eng.LoadLevelTiled("level.tmj", "proj")
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("error = %v, want %q", err, tc.wantErr)
				}
				if te.eng.temp.Live() != 0 {
					t.Errorf("%d transient parse trees leaked on error path", te.eng.temp.Live())
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadLevelTiled: %v", err)
			}
			if got := te.eng.BackgroundMaps()[0].Distance; got != tc.want {
				t.Errorf("Distance = %g, want %g", got, tc.want)
			}
		})
	}
}

func TestLoadLevelTiledCustomProperties(t *testing.T) {
	props := `"properties": [
		{"name": "foreground", "type": "bool", "value": true},
		{"name": "repeat", "type": "bool", "value": true},
		{"name": "author", "type": "string", "value": "ignored"}
	]`
	te := newTiledEngine(t, tileLayer("background", props))

	if err := te.eng.LoadLevelTiled("level.tmj", "proj"); err != nil {
		t.Fatalf("LoadLevelTiled: %v", err)
	}
	m := te.eng.BackgroundMaps()[0]
	if !m.Foreground || !m.Repeat {
		t.Errorf("foreground/repeat = %v/%v, want true/true", m.Foreground, m.Repeat)
	}
}

func TestLoadLevelTiledPropertyTypeChecked(t *testing.T) {
	props := `"properties": [{"name": "foreground", "type": "string", "value": "yes"}]`
	te := newTiledEngine(t, tileLayer("background", props))

	err := te.eng.LoadLevelTiled("level.tmj", "proj")
	if err == nil || !strings.Contains(err.Error(), "must be bool") {
		t.Fatalf("error = %v, want bool type error", err)
	}
}

func TestLoadLevelTiledNameLength(t *testing.T) {
	ok := strings.Repeat("a", 15)
	te := newTiledEngine(t, tileLayer(ok, ""))
	if err := te.eng.LoadLevelTiled("level.tmj", "proj"); err != nil {
		t.Fatalf("15-char name rejected: %v", err)
	}
	if got := te.eng.BackgroundMaps()[0].Name; got != ok {
		t.Errorf("map name = %q, want %q", got, ok)
	}

	long := strings.Repeat("a", 16)
	te = newTiledEngine(t, tileLayer(long, ""))
	err := te.eng.LoadLevelTiled("level.tmj", "proj")
	if err == nil || !strings.Contains(err.Error(), "exceeds 15 chars") {
		t.Fatalf("error = %v, want name length error", err)
	}
}

func TestLoadLevelTiledEmptyLayer(t *testing.T) {
	layer := `{
		"name": "background", "type": "tilelayer",
		"width": 2, "height": 2,
		"data": [0, 0, 0, 0]
	}`
	te := newTiledEngine(t, layer)

	if err := te.eng.LoadLevelTiled("level.tmj", "proj"); err != nil {
		t.Fatalf("an all-zero layer must load: %v", err)
	}

	m := te.eng.BackgroundMaps()[0]
	if m.Tileset != nil {
		t.Error("empty layer should have no tileset")
	}
	if len(te.images.loaded) != 0 {
		t.Errorf("empty layer loaded images: %v", te.images.loaded)
	}

	found := false
	for _, entry := range te.logs.All() {
		if strings.Contains(entry.Message, "no actual data") {
			found = true
		}
	}
	if !found {
		t.Error("expected a warning about the empty layer")
	}
}

func TestLoadLevelTiledErrors(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr string
	}{
		{
			name:    "missing level file",
			level:   "",
			wantErr: "could not load level json",
		},
		{
			name: "non-square tiles",
			level: `{"tilewidth": 8, "tileheight": 16,
				"tilesets": [], "layers": []}`,
			wantErr: "square tiles",
		},
		{
			name:    "tile out of range",
			level:   tiledLevel(`{"name": "bg", "type": "tilelayer", "width": 1, "height": 1, "data": [70000]}`),
			wantErr: "tile is out of range",
		},
		{
			name:    "no matching tileset",
			level:   tiledLevel(`{"name": "bg", "type": "tilelayer", "width": 1, "height": 1, "data": [40]}`),
			wantErr: "no matching tileset",
		},
		{
			name:    "layer without name",
			level:   tiledLevel(`{"type": "tilelayer", "width": 1, "height": 1, "data": [17]}`),
			wantErr: "no name or type",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			files := map[string]string{
				"proj/tilesets/main.tsj": testTilesetDef,
			}
			if tc.level != "" {
				files["level.tmj"] = tc.level
			}
			te := newTestEngine(t, files)

			err := te.eng.LoadLevelTiled("level.tmj", "proj")
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want %q", err, tc.wantErr)
			}
			if te.eng.temp.Live() != 0 {
				t.Errorf("%d transient parse trees leaked on error path", te.eng.temp.Live())
			}
		})
	}
}

func TestLoadTilesetValidation(t *testing.T) {
	te := newTestEngine(t, map[string]string{
		"level.tmj": tiledLevel(),
		"proj/tilesets/main.tsj": `{"tilecount": 0, "tilewidth": 8,
			"tileheight": 8, "image": "main.png"}`,
	})

	err := te.eng.LoadLevelTiled("level.tmj", "proj")
	if err == nil || !strings.Contains(err.Error(), "tilecount is 0") {
		t.Fatalf("error = %v, want tilecount error", err)
	}
	if te.eng.temp.Live() != 0 {
		t.Errorf("%d transient parse trees leaked", te.eng.temp.Live())
	}
}

func TestMapFromTiledLayerRejectsNonTileLayer(t *testing.T) {
	te := newTestEngine(t, nil)

	node, err := jsn.Parse([]byte(`{"name": "objects", "type": "objectgroup", "objects": []}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m, err := te.eng.mapFromTiledLayer(node, &tiledMapInfo{tileSize: 8})
	if err != nil {
		t.Fatalf("non-tilelayer must degrade, got error: %v", err)
	}
	if m != nil {
		t.Error("non-tilelayer produced a map")
	}

	found := false
	for _, entry := range te.logs.All() {
		if strings.Contains(entry.Message, "not a tilelayer") {
			found = true
		}
	}
	if !found {
		t.Error("expected a warning for the non-tilelayer")
	}
}

func TestEntitiesFromObjectLayer(t *testing.T) {
	// Two probes whose settings reference each other by id: forward and
	// backward. Both must be spawned before either is configured.
	objects := `{
		"name": "entities", "type": "objectgroup",
		"objects": [
			{"type": "probe", "id": 7, "x": 16, "y": 40, "height": 8,
			 "properties": [{"name": "target", "type": "string", "value": "9"}]},
			{"type": "probe", "id": 9, "x": 32, "y": 24, "height": 8,
			 "properties": [{"name": "target", "type": "string", "value": "7"}]}
		]
	}`
	te := newTiledEngine(t, objects)

	if err := te.eng.LoadLevelTiled("level.tmj", "proj"); err != nil {
		t.Fatalf("LoadLevelTiled: %v", err)
	}
	if te.eng.Entities().Count() != 2 {
		t.Fatalf("spawned %d entities, want 2", te.eng.Entities().Count())
	}

	first, _ := te.eng.Entities().ByName("7").(*probe)
	second, _ := te.eng.Entities().ByName("9").(*probe)
	if first == nil || second == nil {
		t.Fatal("entities not named after their object ids")
	}
	if !first.configured || !second.configured {
		t.Fatal("settings were not applied")
	}
	if !first.targetSeen {
		t.Error("forward reference: target 9 did not exist when 7 was configured")
	}
	if !second.targetSeen {
		t.Error("backward reference: target 7 did not exist when 9 was configured")
	}

	// Tiled origins are bottom-left; the engine's are top-left.
	if first.Pos.Y != 32 {
		t.Errorf("spawn y = %g, want y_raw - height = 32", first.Pos.Y)
	}
}

func TestEntitiesFromObjectLayerErrors(t *testing.T) {
	tests := []struct {
		name    string
		objects string
		wantErr string
	}{
		{
			name:    "unknown type",
			objects: `[{"type": "ghost", "id": 1, "x": 0, "y": 0, "height": 0}]`,
			wantErr: "unknown entity type ghost",
		},
		{
			name:    "missing type",
			objects: `[{"id": 1, "x": 0, "y": 0, "height": 0}]`,
			wantErr: "has no type",
		},
		{
			name:    "missing id",
			objects: `[{"type": "probe", "x": 0, "y": 0, "height": 0}]`,
			wantErr: "has no id",
		},
		{
			name:    "id out of range",
			objects: `[{"type": "probe", "id": 65535, "x": 0, "y": 0, "height": 0}]`,
			wantErr: "out of range",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			layer := fmt.Sprintf(`{"name": "entities", "type": "objectgroup", "objects": %s}`, tc.objects)
			te := newTiledEngine(t, layer)

			err := te.eng.LoadLevelTiled("level.tmj", "proj")
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}
