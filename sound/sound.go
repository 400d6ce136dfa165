// Package sound loads and owns decoded sound sources. Mixing and playback
// are left to the embedding game; the engine only needs the store's
// mark/reset contract so a scene swap can reclaim sounds.
package sound

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"

	"github.com/Okabintaro/high-impact/arena"
)

// FileReader reads raw asset bytes; platform.Loader implements it.
type FileReader interface {
	Read(path string) ([]byte, error)
}

// Source is one fully decoded sound.
type Source struct {
	buffer *beep.Buffer
	format beep.Format
	path   string
}

// Streamer returns a fresh streamer over the whole sound.
func (s *Source) Streamer() beep.StreamSeeker {
	return s.buffer.Streamer(0, s.buffer.Len())
}

// Format returns the decoded sample format.
func (s *Source) Format() beep.Format { return s.format }

// Store decodes and caches sound sources with arena mark/reset semantics.
type Store struct {
	log   *zap.Logger
	files FileReader
	pool  *arena.Pool[*Source]
	cache map[string]*Source
}

// NewStore creates a store reading through files.
func NewStore(files FileReader, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{log: log, files: files, cache: map[string]*Source{}}
	s.pool = arena.NewPool(func(src *Source) {
		delete(s.cache, src.path)
	})
	return s
}

// Load decodes the WAV sound at path, caching by path.
func (s *Store) Load(path string) (*Source, error) {
	if src, ok := s.cache[path]; ok {
		return src, nil
	}

	data, err := s.files.Read(path)
	if err != nil {
		return nil, fmt.Errorf("sound: %w", err)
	}
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("sound: decode %s: %w", path, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)

	src := &Source{buffer: buffer, format: format, path: path}
	s.cache[path] = src
	s.pool.Add(src)
	s.log.Debug("sound loaded", zap.String("path", path))
	return src, nil
}

// Mark returns a checkpoint for Reset.
func (s *Store) Mark() arena.Mark { return s.pool.Mark() }

// Reset drops every sound loaded after m.
func (s *Store) Reset(m arena.Mark) { s.pool.Reset(m) }
