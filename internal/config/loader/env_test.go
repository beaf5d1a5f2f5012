package loader

import (
	"testing"
	"time"
)

func envLoader(prefix string, vars ...string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return vars }
	return l
}

func TestEnvLoader_Load(t *testing.T) {
	loader := envLoader("JMBGLENS_",
		"JMBGLENS_BORDER_COLOR=#00ff00",
		"JMBGLENS_LOG_LEVEL=debug",
		"JMBGLENS_PASTE_SETTLE_DELAY=250ms",
		"OTHER_VAR=ignored",
	)
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := GetByPath(config, "decoration.borderColor"); !ok || val != "#00ff00" {
		t.Errorf("decoration.borderColor = %v, want '#00ff00'", val)
	}
	if val, ok := GetByPath(config, "log.level"); !ok || val != "debug" {
		t.Errorf("log.level = %v, want 'debug'", val)
	}
	if val, ok := GetByPath(config, "paste.settleDelay"); !ok || val != 250*time.Millisecond {
		t.Errorf("paste.settleDelay = %v (%T), want 250ms", val, val)
	}
	if _, ok := config["other"]; ok {
		t.Error("variables without the prefix must be ignored")
	}
}

func TestEnvLoader_ExplicitPathWins(t *testing.T) {
	loader := envLoader("JMBGLENS_",
		"JMBGLENS_BORDER_WIDTH=1px",
		"JMBGLENS_DECORATION_BORDER_WIDTH=3px",
	)
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if val, _ := GetByPath(config, "decoration.borderWidth"); val != "3px" {
		t.Errorf("decoration.borderWidth = %v, want '3px'", val)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	loader := NewEnvLoader("JMBGLENS_")

	tests := []struct {
		env      string
		expected string
	}{
		{"JMBGLENS_DECORATION_BORDER_COLOR", "decoration.borderColor"},
		{"JMBGLENS_PASTE_SETTLE_DELAY", "paste.settleDelay"},
		{"JMBGLENS_LOG_LEVEL", "log.level"},
		{"JMBGLENS_SIMPLE", "simple"},
	}

	for _, tt := range tests {
		got := loader.envToPath(tt.env)
		if got != tt.expected {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.expected)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"true", true},
		{"YES", true},
		{"off", false},
		{"0", int64(0)},
		{"1", int64(1)},
		{"42", int64(42)},
		{"3.5", 3.5},
		{"100ms", 100 * time.Millisecond},
		{"2px", "2px"},
		{"#ff8800", "#ff8800"},
		{"", ""},
	}

	for _, tt := range tests {
		got := parseValue(tt.input)
		if got != tt.expected {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.expected, tt.expected)
		}
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	loader := envLoader("JMBGLENS_", "JMBGLENS_COLOR=red")
	loader.AddMapping("JMBGLENS_COLOR", "decoration.borderColor")

	config, _ := loader.Load()
	if val, ok := GetByPath(config, "decoration.borderColor"); !ok || val != "red" {
		t.Errorf("decoration.borderColor = %v, want 'red'", val)
	}
}
