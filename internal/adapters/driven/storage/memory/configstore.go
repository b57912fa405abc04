package memory

import (
	"sync/atomic"

	"github.com/custodia-labs/pdfcompare/internal/adapters/driven/config"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore.
type ConfigStore struct {
	*config.Values
	saves atomic.Int32
}

// NewConfigStore creates an in-memory config store, optionally seeded with
// flattened values.
func NewConfigStore(seed ...map[string]any) *ConfigStore {
	merged := make(map[string]any)
	for _, m := range seed {
		for k, v := range m {
			merged[k] = v
		}
	}
	return &ConfigStore{Values: config.NewValues(merged)}
}

// Set stores a configuration value and counts it as a save.
func (s *ConfigStore) Set(key string, value any) error {
	s.Put(key, value)
	s.saves.Add(1)
	return nil
}

// Saves reports how many times Set persisted a value.
func (s *ConfigStore) Saves() int {
	return int(s.saves.Load())
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return ":memory:"
}
