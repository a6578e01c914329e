package vignette

import (
	"sort"
)

// SceneContext is the mutable state of one scene. The engine creates a fresh
// context on every Load and hands the same pointer to the scene setup and to
// the content provider during transitions.
type SceneContext struct {
	name   string
	values map[string]any
}

// NewSceneContext returns an empty context for scene name.
func NewSceneContext(name string) *SceneContext {
	return &SceneContext{name: name, values: make(map[string]any)}
}

// Scene returns the name of the scene the context belongs to.
func (c *SceneContext) Scene() string {
	return c.name
}

// Get returns the value stored under key.
func (c *SceneContext) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Set stores v under key. Setting nil deletes the key.
func (c *SceneContext) Set(key string, v any) {
	if v == nil {
		delete(c.values, key)
		return
	}
	c.values[key] = v
}

// Delete removes key.
func (c *SceneContext) Delete(key string) {
	delete(c.values, key)
}

// String returns the value under key when it is a string.
func (c *SceneContext) String(key string) (string, bool) {
	s, ok := c.values[key].(string)
	return s, ok
}

// Int returns the value under key when it is a whole number.
func (c *SceneContext) Int(key string) (int, bool) {
	return toInt(c.values[key])
}

// Keys returns the stored keys in sorted order.
func (c *SceneContext) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (c *SceneContext) Len() int {
	return len(c.values)
}
