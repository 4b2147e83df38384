package config

import (
	"context"
	"path/filepath"
	"sync"

	"ballistix/domain/ballistics"
	"ballistix/internal"
	"ballistix/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// PresetStore holds the active preset list and can follow edits to the presets file.
// Readers always see a complete, validated list.
type PresetStore struct {
	mu      sync.RWMutex
	path    string
	presets []Preset
	logger  *internal.Logger
	onLoad  func([]Preset)
}

// NewPresetStore loads presets from path (empty path yields the defaults)
func NewPresetStore(path string) (*PresetStore, error) {
	presets, err := LoadPresets(path)
	if err != nil {
		return nil, err
	}
	return &PresetStore{
		path:    path,
		presets: presets,
		logger:  internal.NewDefaultLogger().WithComponent("presets"),
	}, nil
}

// StaticPresetStore wraps a fixed list, used by tests and one-shot tools
func StaticPresetStore(presets []Preset) *PresetStore {
	return &PresetStore{
		presets: presets,
		logger:  internal.NewDefaultLogger().WithComponent("presets"),
	}
}

// Presets returns a copy of the current list
func (s *PresetStore) Presets() []Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Preset, len(s.presets))
	copy(out, s.presets)
	return out
}

// Resolve applies ResolveProjectile against the current list
func (s *PresetStore) Resolve(presetName string, explicit *ballistics.ProjectileParams) (ballistics.ProjectileParams, error) {
	return ResolveProjectile(s.Presets(), presetName, explicit)
}

// Path is the file backing the store, empty for the built-in defaults
func (s *PresetStore) Path() string {
	return s.path
}

// OnReload registers a callback invoked after each successful reload
func (s *PresetStore) OnReload(fn func([]Preset)) {
	s.mu.Lock()
	s.onLoad = fn
	s.mu.Unlock()
}

// Reload re-reads the presets file. A file that fails validation leaves the
// previous list in place and returns the error.
func (s *PresetStore) Reload() error {
	if s.path == "" {
		return nil
	}
	presets, err := LoadPresets(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.presets = presets
	fn := s.onLoad
	s.mu.Unlock()

	s.logger.Info("reloaded %d presets from %s", len(presets), s.path)
	if fn != nil {
		fn(presets)
	}
	return nil
}

// Watch reloads the presets whenever the file is written or replaced. It blocks
// until ctx is cancelled and should be run in a goroutine.
func (s *PresetStore) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.ConfigInvalid("no presets file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create presets watcher")
	}
	defer watcher.Close()

	// Editors often save by rename, so watch the directory and filter by name.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	target := filepath.Clean(s.path)

	s.logger.Debug("watching %s", target)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("keeping previous presets: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("presets watcher error: %v", err)

		case <-ctx.Done():
			return nil
		}
	}
}
