// Package render implements the engine's Renderer and ImageLoader
// interfaces on top of Ebitengine.
package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/xfmoulet/qoi"
	"go.uber.org/zap"

	"github.com/Okabintaro/high-impact/arena"
	"github.com/Okabintaro/high-impact/engine"
)

func init() {
	// QOI is the engine's native compressed image format.
	image.RegisterFormat("qoi", "qoif", qoi.Decode, qoi.DecodeConfig)
}

// Image is a decoded image backed by an ebiten texture.
type Image struct {
	eb   *ebiten.Image
	path string
}

// Size returns the image dimensions in pixels.
func (i *Image) Size() (int, int) {
	b := i.eb.Bounds()
	return b.Dx(), b.Dy()
}

// Ebiten returns the backing texture.
func (i *Image) Ebiten() *ebiten.Image { return i.eb }

// FileReader reads raw asset bytes; platform.Loader implements it.
type FileReader interface {
	Read(path string) ([]byte, error)
}

// ImageStore loads and owns decoded images. Images decoded after a mark
// are dropped together by Reset, which is how a scene swap reclaims
// everything the outgoing scene loaded.
type ImageStore struct {
	log   *zap.Logger
	files FileReader
	pool  *arena.Pool[*Image]
	cache map[string]*Image
}

// NewImageStore creates a store reading through files.
func NewImageStore(files FileReader, log *zap.Logger) *ImageStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ImageStore{log: log, files: files, cache: map[string]*Image{}}
	s.pool = arena.NewPool(func(img *Image) {
		delete(s.cache, img.path)
		img.eb.Deallocate()
	})
	return s
}

// Load decodes the image at path, caching by path.
func (s *ImageStore) Load(path string) (engine.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("render: empty image path")
	}
	if img, ok := s.cache[path]; ok {
		return img, nil
	}

	data, err := s.files.Read(path)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("render: decode %s: %w", path, err)
	}

	img := &Image{eb: ebiten.NewImageFromImage(decoded), path: path}
	s.cache[path] = img
	s.pool.Add(img)
	s.log.Debug("image loaded", zap.String("path", path), zap.String("format", format))
	return img, nil
}

// Mark returns a checkpoint for Reset.
func (s *ImageStore) Mark() arena.Mark { return s.pool.Mark() }

// Reset drops every image loaded after m.
func (s *ImageStore) Reset(m arena.Mark) { s.pool.Reset(m) }
