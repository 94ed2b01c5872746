package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// FilePreferences is a YAML-backed key-value store for the terminal front ends.
// It mirrors the subset of fyne.Preferences used by the engine, so the GUI and
// the TUI share the same view mode and first launch semantics.
// Every Set call is written through to disk.
type FilePreferences struct {
	path string

	mu     sync.RWMutex
	values map[string]any
}

// OpenPreferences loads the preference file at path. A missing file is an empty store.
func OpenPreferences(path string) (*FilePreferences, error) {
	p := &FilePreferences{path: path, values: map[string]any{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrConfigRead, err)
	}
	if err := yaml.Unmarshal(data, &p.values); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrConfigParse, err)
	}
	if p.values == nil {
		p.values = map[string]any{}
	}
	return p, nil
}

// StringWithFallback returns the stored string or fallback when absent or of another type.
func (p *FilePreferences) StringWithFallback(key, fallback string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key].(string); ok {
		return v
	}
	return fallback
}

// SetString stores a string value.
func (p *FilePreferences) SetString(key, value string) {
	p.set(key, value)
}

// BoolWithFallback returns the stored bool or fallback when absent or of another type.
func (p *FilePreferences) BoolWithFallback(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key].(bool); ok {
		return v
	}
	return fallback
}

// SetBool stores a bool value.
func (p *FilePreferences) SetBool(key string, value bool) {
	p.set(key, value)
}

func (p *FilePreferences) set(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value

	if err := p.flushLocked(); err != nil {
		slog.Warn(ErrConfigWrite,
			LogKeyComponent, CompConfig,
			LogKeyKey, key,
			LogKeyError, err)
	}
}

func (p *FilePreferences) flushLocked() error {
	data, err := yaml.Marshal(p.values)
	if err != nil {
		return err
	}
	return writeAtomic(p.path, data)
}
