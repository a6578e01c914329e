package vignette

import (
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"
)

// Flow is a ContentProvider described by a YAML manifest. It names each
// scene's successor, optionally branching on a context value, and lists the
// context keys a scene hands on to the scenes after it.
//
//	defaults:
//	  selectedIndex: -1
//	scenes:
//	  start:
//	    next: next
//	    carry: [selectedIndex]
//	  next: {}
//
// Carried values live in memory only and are reset to the defaults by
// Restart.
type Flow struct {
	Defaults map[string]any       `yaml:"defaults"`
	Scenes   map[string]FlowScene `yaml:"scenes"`

	data map[string]any
}

// FlowScene is one scene entry of a Flow.
type FlowScene struct {
	Next   string      `yaml:"next"`
	Branch *FlowBranch `yaml:"branch"`
	Carry  []string    `yaml:"carry"`
}

// FlowBranch picks the successor from a context value. Values are matched
// by their printed form, so 0 matches the case key "0".
type FlowBranch struct {
	Key     string            `yaml:"key"`
	Cases   map[string]string `yaml:"cases"`
	Default string            `yaml:"default"`
}

// ParseFlow decodes a YAML manifest.
func ParseFlow(src []byte) (*Flow, error) {
	var f Flow
	if err := yaml.Unmarshal(src, &f); err != nil {
		return nil, fmt.Errorf("vignette: parse flow: %w", err)
	}
	if len(f.Scenes) == 0 {
		return nil, fmt.Errorf("vignette: parse flow: no scenes")
	}
	for name, sc := range f.Scenes {
		if err := f.checkTarget(sc.Next, "next of %q", name); err != nil {
			return nil, err
		}
		if sc.Branch == nil {
			continue
		}
		if sc.Branch.Key == "" {
			return nil, fmt.Errorf("vignette: parse flow: scene %q: branch without key", name)
		}
		for value, target := range sc.Branch.Cases {
			if err := f.checkTarget(target, "case %q of %q", value, name); err != nil {
				return nil, err
			}
		}
		if err := f.checkTarget(sc.Branch.Default, "branch default of %q", name); err != nil {
			return nil, err
		}
	}
	f.reset()
	return &f, nil
}

// checkTarget fails with ErrSceneNotFound when target names no scene. An
// empty target is allowed.
func (f *Flow) checkTarget(target, where string, args ...any) error {
	if target == "" {
		return nil
	}
	if _, ok := f.Scenes[target]; !ok {
		return fmt.Errorf("%w: %q (%s)", ErrSceneNotFound, target, fmt.Sprintf(where, args...))
	}
	return nil
}

// LoadFlow reads and decodes a manifest from fsys.
func LoadFlow(fsys fs.FS, name string) (*Flow, error) {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("vignette: load flow: %w", err)
	}
	return ParseFlow(src)
}

func (f *Flow) reset() {
	f.data = make(map[string]any, len(f.Defaults))
	for k, v := range f.Defaults {
		f.data[k] = v
	}
}

// Carried returns a carried value.
func (f *Flow) Carried(key string) (any, bool) {
	v, ok := f.data[key]
	return v, ok
}

// SceneNames returns the scene names in sorted order.
func (f *Flow) SceneNames() []string {
	names := make([]string, 0, len(f.Scenes))
	for name := range f.Scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load copies every carried value into the fresh context.
func (f *Flow) Load(name string, ctx *SceneContext) {
	if f.data == nil {
		f.reset()
	}
	for k, v := range f.data {
		ctx.Set(k, v)
	}
}

// Next saves the current scene's carry keys and returns its successor, or
// "" when the scene has none.
func (f *Flow) Next(current string, ctx *SceneContext) string {
	sc, ok := f.Scenes[current]
	if !ok {
		return ""
	}
	if f.data == nil {
		f.reset()
	}
	for _, k := range sc.Carry {
		if v, ok := ctx.Get(k); ok {
			f.data[k] = v
		} else {
			delete(f.data, k)
		}
	}
	if b := sc.Branch; b != nil {
		if v, ok := ctx.Get(b.Key); ok {
			if next, ok := b.Cases[fmt.Sprint(v)]; ok {
				return next
			}
		}
		if b.Default != "" {
			return b.Default
		}
	}
	return sc.Next
}

// Restart resets carried values to the defaults.
func (f *Flow) Restart(current string, ctx *SceneContext) {
	f.reset()
}
