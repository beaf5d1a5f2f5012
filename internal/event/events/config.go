package events

import "github.com/dshills/jmbglens/internal/event/topic"

// Config event topics.
const (
	// TopicConfigChanged is published when one or more settings change.
	TopicConfigChanged topic.Topic = "config.changed"
)

// ConfigSource indicates where a configuration change came from.
type ConfigSource string

// Configuration sources.
const (
	ConfigSourceDefault ConfigSource = "default"
	ConfigSourceFile    ConfigSource = "file"
	ConfigSourceEnv     ConfigSource = "env"
	ConfigSourceRuntime ConfigSource = "runtime"
)

// ConfigChanged is published when settings change.
type ConfigChanged struct {
	// Paths are the dot-notation settings that changed (e.g., "decoration.borderColor").
	Paths []string

	// Source indicates where the new values came from.
	Source ConfigSource
}

// Affects reports whether any changed path equals prefix or lies beneath it.
func (c ConfigChanged) Affects(prefix string) bool {
	for _, p := range c.Paths {
		if p == prefix || (len(p) > len(prefix) && p[:len(prefix)] == prefix && p[len(prefix)] == '.') {
			return true
		}
	}
	return false
}
