// Package config holds the flattened key/value model shared by the
// configuration stores.
package config

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Values is a concurrency-safe set of dot-notation keys with typed accessors.
type Values struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewValues creates a value set, copying seed if given.
func NewValues(seed map[string]any) *Values {
	v := &Values{data: make(map[string]any, len(seed))}
	for k, val := range seed {
		v.data[k] = val
	}
	return v
}

// Get retrieves a configuration value by key.
func (v *Values) Get(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	val, ok := v.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (v *Values) GetString(key string) string {
	val, ok := v.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value.
// Numeric strings are accepted since values set from the command line arrive as text.
func (v *Values) GetInt(key string) int {
	val, ok := v.Get(key)
	if !ok {
		return 0
	}

	// TOML integers are parsed as int64
	switch n := val.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
func (v *Values) GetBool(key string) bool {
	val, ok := v.Get(key)
	if !ok {
		return false
	}

	switch b := val.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	default:
		return false
	}
}

// GetDuration retrieves a duration stored as Go duration text ("90s", "5m").
// Bare integers are read as seconds. Returns 0 if the key is missing or malformed.
func (v *Values) GetDuration(key string) time.Duration {
	val, ok := v.Get(key)
	if !ok {
		return 0
	}

	switch d := val.(type) {
	case time.Duration:
		return d
	case int64:
		return time.Duration(d) * time.Second
	case int:
		return time.Duration(d) * time.Second
	case string:
		parsed, err := time.ParseDuration(strings.TrimSpace(d))
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// Put stores a value without persisting it.
func (v *Values) Put(key string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data[key] = value
}

// Replace swaps the whole value set.
func (v *Values) Replace(data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = data
}

// Snapshot returns a copy of all values.
func (v *Values) Snapshot() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make(map[string]any, len(v.data))
	for k, val := range v.data {
		out[k] = val
	}
	return out
}

// Keys returns all keys in sorted order.
func (v *Values) Keys() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	keys := make([]string, 0, len(v.data))
	for k := range v.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flatten converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func Flatten(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, val := range Flatten(nested, fullKey) {
				result[k] = val
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// Nest is the inverse of Flatten, so files are written as TOML tables.
// A key that is both a leaf and a table prefix keeps its leaf value under
// the full dotted name at the top level.
func Nest(flat map[string]any) map[string]any {
	root := make(map[string]any)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := root
		ok := true
		for _, part := range parts[:len(parts)-1] {
			child, exists := node[part]
			if !exists {
				m := make(map[string]any)
				node[part] = m
				node = m
				continue
			}
			m, isMap := child.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			node = m
		}
		if !ok {
			root[key] = flat[key]
			continue
		}
		leaf := parts[len(parts)-1]
		if _, isMap := node[leaf].(map[string]any); isMap {
			root[key] = flat[key]
			continue
		}
		node[leaf] = flat[key]
	}

	return root
}
