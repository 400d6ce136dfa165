// Package script implements engine scenes written in Tengo. A script may
// define init, update, and cleanup functions; draw always uses the default
// scene behavior.
package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"

	"github.com/Okabintaro/high-impact/engine"
)

const lifecycleDispatchScript = `
if __phase == "init" && !is_undefined(init) {
	init(__engine)
} else if __phase == "update" && !is_undefined(update) {
	update(__engine)
} else if __phase == "cleanup" && !is_undefined(cleanup) {
	cleanup(__engine)
}
`

// Scene runs a compiled Tengo script through the engine scene lifecycle.
type Scene struct {
	engine.BaseScene

	path     string
	compiled *tengo.Compiled
}

// Load compiles the script at path into a Scene.
func Load(path string) (*Scene, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}

	s := tengo.NewScript(append(src, []byte("\n"+lifecycleDispatchScript)...))
	_ = s.Add("__phase", "")
	_ = s.Add("__engine", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", path, err)
	}
	return &Scene{path: path, compiled: compiled}, nil
}

// Init runs the script's init function.
func (s *Scene) Init(e *engine.Engine) error {
	return s.runPhase(e, "init")
}

// Update runs the script's update function, then the default entity
// advancement.
func (s *Scene) Update(e *engine.Engine) {
	if err := s.runPhase(e, "update"); err != nil {
		e.Log().Warn(fmt.Sprintf("script %s: update: %v", s.path, err))
	}
	e.BaseUpdate()
}

// Cleanup runs the script's cleanup function.
func (s *Scene) Cleanup(e *engine.Engine) {
	if err := s.runPhase(e, "cleanup"); err != nil {
		e.Log().Warn(fmt.Sprintf("script %s: cleanup: %v", s.path, err))
	}
}

func (s *Scene) runPhase(e *engine.Engine, phase string) error {
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__engine", buildEngineModule(e)); err != nil {
		return err
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("script %s: phase %s: %w", s.path, phase, err)
	}
	return nil
}

// buildEngineModule exposes a small engine API to scripts.
func buildEngineModule(e *engine.Engine) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["load_level"] = &tengo.UserFunction{Name: "load_level", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		if err := e.LoadLevel(objectAsString(args[0])); err != nil {
			return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
		}
		return tengo.TrueValue, nil
	}}

	values["load_level_tiled"] = &tengo.UserFunction{Name: "load_level_tiled", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		if err := e.LoadLevelTiled(objectAsString(args[0]), objectAsString(args[1])); err != nil {
			return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
		}
		return tengo.TrueValue, nil
	}}

	values["spawn"] = &tengo.UserFunction{Name: "spawn", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		name := objectAsString(args[0])
		typ, ok := e.Entities().TypeByName(name)
		if !ok {
			return &tengo.Error{Value: &tengo.String{Value: "unknown entity type " + name}}, nil
		}
		x, _ := tengo.ToFloat64(args[1])
		y, _ := tengo.ToFloat64(args[2])
		e.Entities().Spawn(typ, cp.Vector{X: x, Y: y})
		return tengo.TrueValue, nil
	}}

	values["set_viewport"] = &tengo.UserFunction{Name: "set_viewport", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		x, _ := tengo.ToFloat64(args[0])
		y, _ := tengo.ToFloat64(args[1])
		e.Viewport = cp.Vector{X: x, Y: y}
		return tengo.UndefinedValue, nil
	}}

	values["set_time_scale"] = &tengo.UserFunction{Name: "set_time_scale", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		v, _ := tengo.ToFloat64(args[0])
		if v > 0 {
			e.TimeScale = v
		}
		return tengo.UndefinedValue, nil
	}}

	values["time"] = &tengo.UserFunction{Name: "time", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: e.Time}, nil
	}}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: e.Tick}, nil
	}}

	values["frame"] = &tengo.UserFunction{Name: "frame", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(e.Frame)}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(o tengo.Object) string {
	if s, ok := tengo.ToString(o); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
