package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

var (
	ErrLocationMissing = errors.New("unable to resolve schema location")
	ErrLocationInvalid = errors.New("schema location is not a mapping of schemas")
)

// Registry maps schema keys to schema values in first-seen insertion
// order. It is built once at startup and passed explicitly; nothing in
// this package keeps registry state between calls.
type Registry struct {
	keys   []string
	values map[string]Schema
}

func NewRegistry() *Registry {
	return &Registry{values: map[string]Schema{}}
}

// Set stores value under key. A repeated key keeps its original position
// and takes the new value.
func (r *Registry) Set(key string, value Schema) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Registry) Get(key string) (Schema, bool) {
	value, ok := r.values[key]
	return value, ok
}

// Keys returns the schema keys in insertion order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Registry) Len() int {
	return len(r.keys)
}

// Merge folds other into r, entry by entry in other's order.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		r.Set(key, other.values[key])
	}
}

// LoadLocations reads every location into a single registry, merging in
// argument order.
func LoadLocations(locations []string, searchPaths []string) (*Registry, error) {
	registry := NewRegistry()
	for _, location := range locations {
		loaded, err := LoadLocation(location, searchPaths)
		if err != nil {
			return nil, err
		}
		registry.Merge(loaded)
	}
	return registry, nil
}

// LoadLocation reads a YAML or JSON document holding a top-level mapping
// of schema key to schema value. Mapping values load as Document, string
// values as Encoded JSON. Relative locations are tried against each
// search path in order before the location itself.
func LoadLocation(location string, searchPaths []string) (*Registry, error) {
	path, err := resolveLocation(location, searchPaths)
	if err != nil {
		return nil, err
	}
	slog.Debug("loading schema location", "location", location, "path", path)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLocationMissing, location, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLocationInvalid, location, err)
	}
	// yaml.Unmarshal leaves the map nil for an empty document; an empty
	// registry is fine, non-mapping content is not.
	registry := NewRegistry()
	keys, err := mappingKeys(data, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLocationInvalid, location, err)
	}
	for _, key := range keys {
		switch value := raw[key].(type) {
		case map[string]any:
			registry.Set(key, Document(value))
		case string:
			registry.Set(key, Encoded(value))
		default:
			return nil, fmt.Errorf("%w: %s: key %q holds %T, want mapping or string",
				ErrLocationInvalid, location, key, raw[key])
		}
	}
	return registry, nil
}

// mappingKeys recovers the document order of the top-level keys; the
// decoded map loses it.
func mappingKeys(data []byte, raw map[string]any) ([]string, error) {
	var ordered yaml.MapSlice
	if err := yaml.Unmarshal(data, &ordered); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(ordered))
	for _, item := range ordered {
		key, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("non-string key %v", item.Key)
		}
		if _, ok := raw[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func resolveLocation(location string, searchPaths []string) (string, error) {
	if filepath.IsAbs(location) {
		if fileExists(location) {
			return location, nil
		}
		return "", fmt.Errorf("%w: %s", ErrLocationMissing, location)
	}
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, location)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	if fileExists(location) {
		return location, nil
	}
	return "", fmt.Errorf("%w: %s (searched %d paths)", ErrLocationMissing, location, len(searchPaths))
}

func fileExists(fname string) bool {
	info, err := os.Stat(fname)
	return err == nil && !info.IsDir()
}
