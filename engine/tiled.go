package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/Okabintaro/high-impact/arena"
	"github.com/Okabintaro/high-impact/entity"
	"github.com/Okabintaro/high-impact/jsn"
)

// Loader limits for the Tiled JSON format.
const (
	maxTilesets = 8
	maxPathLen  = 256
	maxTileID   = 0xFFFF
)

// jsnTree pairs a parsed JSON tree with its temp allocation handle so
// loaders can release it on every exit path.
type jsnTree struct {
	node   *jsn.Node
	handle arena.Handle
	temp   *arena.Temp
}

func (t *jsnTree) release() {
	if t != nil {
		t.temp.Release(t.handle)
	}
}

// tiledTileset describes one tileset referenced by a Tiled level. It only
// lives for the duration of a single LoadLevelTiled call.
type tiledTileset struct {
	firstGID   uint16
	tileCount  uint16
	tileWidth  uint16
	tileHeight uint16
	imagePath  string
	defPath    string
	tree       *jsnTree
}

// tiledMapInfo collects the per-level context layers are interpreted in.
type tiledMapInfo struct {
	tileSize int
	tilesets []tiledTileset
}

// loadTileset resolves and parses one external tileset definition.
func (e *Engine) loadTileset(ref *jsn.Node, projectDir string) (tiledTileset, error) {
	source := ref.ValueForKey("source").Str()
	if source == "" {
		return tiledTileset{}, fmt.Errorf("tileset has no source")
	}
	firstGID := ref.ValueForKey("firstgid").Num()

	defPath := projectDir + "/" + source
	if len(defPath) >= maxPathLen {
		return tiledTileset{}, fmt.Errorf("tileset path is too long: %s", defPath)
	}

	tree, err := e.loadAssetJSON(defPath)
	if err != nil {
		return tiledTileset{}, fmt.Errorf("load tileset %s: %w", defPath, err)
	}

	def := tree.node
	tileCount := def.ValueForKey("tilecount").Num()
	if tileCount <= 0 {
		tree.release()
		return tiledTileset{}, fmt.Errorf("tileset %s: tilecount is 0", defPath)
	}

	return tiledTileset{
		firstGID:   uint16(firstGID),
		tileCount:  uint16(tileCount),
		tileWidth:  uint16(def.ValueForKey("tilewidth").Num()),
		tileHeight: uint16(def.ValueForKey("tileheight").Num()),
		imagePath:  def.ValueForKey("image").Str(),
		defPath:    defPath,
		tree:       tree,
	}, nil
}

// mapFromTiledLayer converts one Tiled tile layer into a TileMap: reads
// dimensions and parallax, scans tile values for their range, matches a
// tileset, resolves and loads its image, and remaps global tile IDs to
// tileset-local indices. A non-tilelayer returns (nil, nil) with a
// warning.
func (e *Engine) mapFromTiledLayer(def *jsn.Node, info *tiledMapInfo) (*TileMap, error) {
	if e.running {
		return nil, fmt.Errorf("cannot create map during gameplay")
	}

	layerName := def.ValueForKey("name").Str()
	if typ := def.ValueForKey("type").Str(); typ != "tilelayer" {
		e.log.Warn("layer is not a tilelayer", zap.String("layer", layerName), zap.String("type", typ))
		return nil, nil
	}

	m := &TileMap{
		Width:    int(def.ValueForKey("width").Num()),
		Height:   int(def.ValueForKey("height").Num()),
		TileSize: info.tileSize,
		Distance: 1,
	}
	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("layer %s: invalid dimensions %dx%d", layerName, m.Width, m.Height)
	}

	// The parallax factor doubles as the map's distance, so both axes
	// must agree.
	if px := def.ValueForKey("parallaxx"); px != nil {
		py := def.ValueForKey("parallaxy")
		if px.Num() != py.Num() {
			return nil, fmt.Errorf("layer %s: parallaxx and parallaxy must be the same", layerName)
		}
		m.Distance = px.Num()
		if m.Distance == 0 {
			return nil, fmt.Errorf("layer %s: invalid distance for map", layerName)
		}
	}

	props := def.ValueForKey("properties")
	for i := 0; i < props.Len(); i++ {
		prop := props.ValueAt(i)
		name := prop.ValueForKey("name").Str()
		typ := prop.ValueForKey("type").Str()
		value := prop.ValueForKey("value")

		switch name {
		case "foreground":
			if typ != "bool" {
				return nil, fmt.Errorf("layer %s: foreground property must be bool", layerName)
			}
			m.Foreground = value.Bool()
		case "repeat":
			if typ != "bool" {
				return nil, fmt.Errorf("layer %s: repeat property must be bool", layerName)
			}
			m.Repeat = value.Bool()
		}
	}

	if name := def.ValueForKey("name"); name.Type() == jsn.TypeString {
		if name.Len() > maxMapNameLen {
			return nil, fmt.Errorf("map name exceeds %d chars: %s", maxMapNameLen, name.Str())
		}
		m.Name = name.Str()
	}

	data := def.ValueForKey("data")
	if data == nil {
		return nil, fmt.Errorf("layer %s has no data", layerName)
	}
	if data.Len() != m.Width*m.Height {
		return nil, fmt.Errorf("layer %s: data length %d does not match %dx%d", layerName, data.Len(), m.Width, m.Height)
	}

	minTile := uint16(maxTileID)
	maxTile := uint16(0)
	m.Data = make([]uint16, m.Width*m.Height)
	for i := 0; i < data.Len(); i++ {
		raw := data.ValueAt(i).Num()
		if raw < 0 || raw > maxTileID {
			return nil, fmt.Errorf("layer %s: tile is out of range", layerName)
		}
		tile := uint16(raw)
		m.Data[i] = tile

		if tile > 0 && tile < minTile {
			minTile = tile
		}
		if tile > 0 && tile > maxTile {
			maxTile = tile
		}
	}
	if maxTile == 0 {
		e.log.Warn("map layer has no actual data, every tile is 0", zap.String("layer", m.Name))
		return m, nil
	}

	// First tileset whose GID range covers the layer wins. A layer that
	// legitimately spans two tilesets is unsupported.
	matched := -1
	for i, ts := range info.tilesets {
		if minTile >= ts.firstGID && maxTile <= ts.firstGID+ts.tileCount {
			matched = i
			break
		}
	}
	if matched == -1 {
		return nil, fmt.Errorf("layer %s: no matching tileset found", layerName)
	}
	ts := info.tilesets[matched]

	// The image path in the tileset definition is relative to the
	// directory of the definition file itself.
	folder, _ := ParentDir(ts.defPath)
	resolved := folder + "/" + ts.imagePath
	if len(resolved) >= maxPathLen {
		return nil, fmt.Errorf("layer %s: tileset image path is too long: %s", layerName, resolved)
	}
	normed, err := NormPath(resolved)
	if err != nil {
		return nil, fmt.Errorf("layer %s: %w", layerName, err)
	}
	// Tiled references the source PNG; the engine ships the QOI variant.
	normed = strings.Replace(normed, ".png", ".qoi", 1)

	img, err := e.images.Load(normed)
	if err != nil {
		return nil, fmt.Errorf("layer %s: load tileset image %s: %w", layerName, normed, err)
	}
	m.Tileset = img
	e.log.Info("loaded map",
		zap.String("layer", m.Name),
		zap.Int("width", m.Width),
		zap.Int("height", m.Height),
		zap.String("tileset", normed))

	// Convert global tile IDs into 1-based tileset-local indices.
	for i, tile := range m.Data {
		if tile > 0 {
			m.Data[i] = tile - (ts.firstGID - 1)
		}
	}

	return m, nil
}

// spawnRecord keeps an entity paired with its pending settings so settings
// are only applied once every entity of the layer exists and name
// references resolve regardless of spawn order.
type spawnRecord struct {
	ent      entity.Entity
	settings *jsn.Node
}

// entitiesFromTiledLayer spawns every object of a Tiled object layer, then
// applies collected settings in a second pass.
func (e *Engine) entitiesFromTiledLayer(layer *jsn.Node) error {
	objects := layer.ValueForKey("objects")
	if objects == nil {
		return fmt.Errorf("no objects in layer")
	}

	pending := make([]spawnRecord, 0, objects.Len())
	for i := 0; i < objects.Len(); i++ {
		obj := objects.ValueAt(i)

		typeName := obj.ValueForKey("type").Str()
		if typeName == "" {
			return fmt.Errorf("entity has no type")
		}
		typ, ok := e.entities.TypeByName(typeName)
		if !ok {
			return fmt.Errorf("unknown entity type %s", typeName)
		}

		// Tiled object origins are bottom-left, the engine's are top-left.
		height := obj.ValueForKey("height").Num()
		pos := cp.Vector{
			X: obj.ValueForKey("x").Num(),
			Y: obj.ValueForKey("y").Num() - height,
		}
		ent := e.entities.Spawn(typ, pos)

		// The object id doubles as the entity name since references in
		// the Tiled format use ids.
		idNode := obj.ValueForKey("id")
		if idNode == nil {
			return fmt.Errorf("entity %s has no id", typeName)
		}
		id := int(idNode.Num())
		if id < 0 || id >= maxTileID {
			return fmt.Errorf("entity %s: id %d out of range", typeName, id)
		}
		ent.Base().Name = strconv.Itoa(id)

		if settings := tiledPropsToSettings(obj.ValueForKey("properties")); settings != nil {
			pending = append(pending, spawnRecord{ent: ent, settings: settings})
		}
	}

	for _, rec := range pending {
		if err := e.entities.Configure(rec.ent, rec.settings); err != nil {
			return err
		}
	}
	return nil
}

// tiledPropsToSettings flattens a Tiled custom-properties array into a
// settings object node keyed by property name.
func tiledPropsToSettings(props *jsn.Node) *jsn.Node {
	if props.Type() != jsn.TypeArray || props.Len() == 0 {
		return nil
	}
	settings := jsn.NewObject()
	for i := 0; i < props.Len(); i++ {
		prop := props.ValueAt(i)
		name := prop.ValueForKey("name").Str()
		if name == "" {
			continue
		}
		settings.Set(name, prop.ValueForKey("value"))
	}
	if settings.Len() == 0 {
		return nil
	}
	return settings
}

// LoadLevelTiled loads a level in the Tiled JSON map format. Tile layers
// become background maps, or the collision map when named "collision";
// object layers spawn entities. All transient parse trees are released
// before the call returns.
func (e *Engine) LoadLevelTiled(path, projectDir string) error {
	level, err := e.loadAssetJSON(path)
	if err != nil {
		return fmt.Errorf("could not load level json at %s: %w", path, err)
	}
	defer level.release()

	e.resetLevelState()

	tileWidth := level.node.ValueForKey("tilewidth").Num()
	tileHeight := level.node.ValueForKey("tileheight").Num()
	if tileWidth != tileHeight {
		return fmt.Errorf("%s: tilewidth and tileheight must be the same (square tiles)", path)
	}

	info := tiledMapInfo{tileSize: int(tileWidth)}
	defer func() {
		for _, ts := range info.tilesets {
			ts.tree.release()
		}
	}()

	// Tilesets load strictly before layers so range matching works.
	tilesets := level.node.ValueForKey("tilesets")
	for i := 0; i < tilesets.Len(); i++ {
		if len(info.tilesets) >= maxTilesets {
			return fmt.Errorf("%s: more than %d tilesets", path, maxTilesets)
		}
		ts, err := e.loadTileset(tilesets.ValueAt(i), projectDir)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		info.tilesets = append(info.tilesets, ts)
	}

	layers := level.node.ValueForKey("layers")
	for i := 0; i < layers.Len(); i++ {
		layer := layers.ValueAt(i)
		name := layer.ValueForKey("name").Str()
		typ := layer.ValueForKey("type").Str()
		if name == "" || typ == "" {
			return fmt.Errorf("%s: layer has no name or type", path)
		}

		switch typ {
		case "tilelayer":
			m, err := e.mapFromTiledLayer(layer, &info)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if m == nil {
				continue
			}
			if name == "collision" {
				e.SetCollisionMap(m)
			} else if err := e.AddBackgroundMap(m); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		case "objectgroup":
			if err := e.entitiesFromTiledLayer(layer); err != nil {
				return fmt.Errorf("%s: layer %s: %w", path, name, err)
			}
		}
	}

	e.rememberLevel(levelRef{path: path, projectDir: projectDir, tiled: true})
	return nil
}
