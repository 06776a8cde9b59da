package pkg

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// SchemaSet maps output names to the ordered canonical schema keys that
// are concatenated into that output. Output order is first-seen request
// order.
type SchemaSet struct {
	names   []string
	entries map[string][]string
}

// Names returns the output names in request order.
func (s *SchemaSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Entry returns the ordered canonical keys for an output name.
func (s *SchemaSet) Entry(name string) []string {
	return s.entries[name]
}

func (s *SchemaSet) set(name string, keys []string) {
	if _, ok := s.entries[name]; !ok {
		s.names = append(s.names, name)
	}
	s.entries[name] = keys
}

// BuildSchemaSet resolves request tokens against the registry.
//
// Token grammar:
//
//	all             one output per registry key
//	name            output "name" holding [name]
//	name:k1:k2:...  output "name" holding k1, k2, ... in order
//	name:all        output "name" holding every registry key
//
// Later tokens overwrite earlier ones sharing an output name. Keys that
// alias the same underlying schema collapse to a single canonical key:
// the last-declared alias in registry order. The second return value is
// the set of individually requested keys, for logging.
func BuildSchemaSet(registry *Registry, tokens []string) (*SchemaSet, []string, error) {
	requested := &SchemaSet{entries: map[string][]string{}}
	for _, token := range tokens {
		parts := strings.Split(token, ":")
		switch {
		case len(parts) == 1 && parts[0] == "all":
			for _, key := range registry.Keys() {
				requested.set(key, []string{key})
			}
		case len(parts) == 1:
			requested.set(parts[0], []string{parts[0]})
		case slices.Contains(parts[1:], "all"):
			requested.set(parts[0], registry.Keys())
		default:
			requested.set(parts[0], parts[1:])
		}
	}

	individual := requestedKeys(requested)
	canonical, err := canonicalKeys(registry, individual)
	if err != nil {
		return nil, nil, err
	}

	resolved := &SchemaSet{entries: map[string][]string{}}
	for _, name := range requested.names {
		keys := make([]string, 0, len(requested.entries[name]))
		for _, key := range requested.entries[name] {
			main, ok := canonical[key]
			if !ok {
				return nil, nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, key)
			}
			if !slices.Contains(keys, main) {
				keys = append(keys, main)
			}
		}
		resolved.set(name, keys)
	}
	slog.Debug("resolved schema set", "outputs", len(resolved.names), "keys", len(individual))
	return resolved, individual, nil
}

// requestedKeys collects the union of keys referenced by any output, in
// first-reference order.
func requestedKeys(set *SchemaSet) []string {
	var keys []string
	for _, name := range set.names {
		for _, key := range set.entries[name] {
			if !slices.Contains(keys, key) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// canonicalKeys maps every requested key to its canonical alias. The
// registry is scanned in reverse declaration order grouping keys by
// schema fingerprint; the first key found for a fingerprint, i.e. the
// last declared, is the group's canonical key.
func canonicalKeys(registry *Registry, requested []string) (map[string]string, error) {
	groups := map[string]string{}
	canonical := map[string]string{}
	keys := registry.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		key := keys[i]
		if !slices.Contains(requested, key) {
			continue
		}
		value, _ := registry.Get(key)
		fp, err := fingerprint(value, key)
		if err != nil {
			return nil, err
		}
		main, ok := groups[fp]
		if !ok {
			groups[fp] = key
			main = key
		}
		canonical[key] = main
	}
	return canonical, nil
}
