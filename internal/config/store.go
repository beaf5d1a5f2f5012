package config

import (
	"fmt"
	"sync"

	"github.com/dshills/jmbglens/internal/config/loader"
	"github.com/dshills/jmbglens/internal/event"
	"github.com/dshills/jmbglens/internal/event/events"
	"github.com/dshills/jmbglens/internal/logging"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "JMBGLENS_"

// Notifier receives config.changed events. *editor.Host satisfies it, so
// changes reach subscribers through the host loop.
type Notifier interface {
	Notify(ev any)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPath sets the configuration file. An empty path disables the file layer.
func WithPath(path string) StoreOption {
	return func(s *Store) { s.path = path }
}

// WithFileSystem sets the file system the configuration file is read from.
func WithFileSystem(fsys loader.FileSystem) StoreOption {
	return func(s *Store) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithEnv sets the environment loader. Passing nil disables environment overrides.
func WithEnv(env *loader.EnvLoader) StoreOption {
	return func(s *Store) { s.env = env }
}

// WithNotifier sets where config.changed events are sent.
func WithNotifier(n Notifier) StoreOption {
	return func(s *Store) { s.notifier = n }
}

// WithLogger sets the store logger.
func WithLogger(l *logging.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store holds the effective settings.
type Store struct {
	mu       sync.RWMutex
	path     string
	fs       loader.FileSystem
	env      *loader.EnvLoader
	notifier Notifier
	log      *logging.Logger

	runtime  map[string]any // overrides from Set
	settings Settings
}

// NewStore creates a store holding the defaults. Call Load to read the
// file and environment layers.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		fs:       loader.DefaultFS(),
		env:      loader.NewEnvLoader(EnvPrefix),
		log:      logging.Nop(),
		runtime:  map[string]any{},
		settings: Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("config")
	return s
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.path
}

// Settings returns the effective settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Load reads the file and environment layers without notifying.
func (s *Store) Load() error {
	_, err := s.reload()
	return err
}

// Reload re-reads the file and environment layers and publishes the paths
// whose effective values changed. On error the previous settings stay.
func (s *Store) Reload() error {
	changed, err := s.reload()
	if err != nil {
		s.log.Warn("reload failed: %v", err)
		return err
	}
	s.publish(changed, events.ConfigSourceFile)
	return nil
}

// Set overrides a single setting at runtime.
func (s *Store) Set(path string, value any) error {
	s.mu.Lock()
	next := s.settings
	if err := next.set(path, value); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	loader.SetByPath(s.runtime, path, value)
	changed := s.settings.Diff(next)
	s.settings = next
	s.mu.Unlock()

	s.publish(changed, events.ConfigSourceRuntime)
	return nil
}

func (s *Store) reload() ([]string, error) {
	base := map[string]any{}
	if s.path != "" {
		l, err := loader.ForPath(s.fs, s.path)
		if err != nil {
			return nil, err
		}
		fileCfg, err := l.Load()
		if err != nil {
			return nil, err
		}
		base = loader.DeepMerge(base, fileCfg)
	}
	if s.env != nil {
		envCfg, err := s.env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		base = loader.DeepMerge(base, envCfg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := loader.DeepMerge(loader.Clone(base), loader.Clone(s.runtime))
	next, err := decode(merged)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	changed := s.settings.Diff(next)
	s.settings = next
	return changed, nil
}

func (s *Store) publish(paths []string, source events.ConfigSource) {
	if len(paths) == 0 {
		return
	}
	s.log.Debug("settings changed: %v", paths)
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(event.NewEvent(events.TopicConfigChanged, events.ConfigChanged{
		Paths:  paths,
		Source: source,
	}, "config"))
}
