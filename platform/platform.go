// Package platform supplies the engine's clock and asset file access.
package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Okabintaro/high-impact/jsn"
)

// Clock reports wall time in seconds. The engine never reads time directly
// so tests can step it deterministically.
type Clock interface {
	Now() float64
}

// RealClock reads the monotonic system clock.
type RealClock struct {
	start time.Time
}

// NewRealClock creates a clock anchored at construction time.
func NewRealClock() *RealClock {
	return &RealClock{start: time.Now()}
}

// Now returns seconds elapsed since the clock was created.
func (c *RealClock) Now() float64 {
	return time.Since(c.start).Seconds()
}

// StepClock is a manually advanced clock for tests.
type StepClock struct {
	T float64
}

// Now returns the current manual time.
func (c *StepClock) Now() float64 { return c.T }

// Advance moves the clock forward by d seconds.
func (c *StepClock) Advance(d float64) { c.T += d }

// Loader reads level and tileset definition files from an asset root.
type Loader struct {
	Root string
}

// NewLoader creates a loader rooted at dir. An empty dir reads paths as-is.
func NewLoader(dir string) *Loader {
	return &Loader{Root: dir}
}

// Abs resolves an asset path to its on-disk location.
func (l *Loader) Abs(path string) string {
	if l.Root == "" {
		return path
	}
	return filepath.Join(l.Root, path)
}

// JSON reads and parses the asset at path. A missing file returns a nil
// tree and an error, matching the "null signals missing file" contract.
func (l *Loader) JSON(path string) (*jsn.Node, error) {
	data, err := os.ReadFile(l.Abs(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("platform: asset %s not found", path)
		}
		return nil, fmt.Errorf("platform: read %s: %w", path, err)
	}
	tree, err := jsn.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("platform: parse %s: %w", path, err)
	}
	return tree, nil
}

// Read returns the raw bytes of the asset at path.
func (l *Loader) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(l.Abs(path))
	if err != nil {
		return nil, fmt.Errorf("platform: read %s: %w", path, err)
	}
	return data, nil
}
