package events

import "testing"

func TestConfigChanged_Affects(t *testing.T) {
	c := ConfigChanged{Paths: []string{"decoration.borderColor", "log.level"}}

	tests := []struct {
		prefix string
		want   bool
	}{
		{"decoration", true},
		{"decoration.borderColor", true},
		{"decoration.borderWidth", false},
		{"deco", false},
		{"log", true},
		{"paste", false},
	}
	for _, tt := range tests {
		if got := c.Affects(tt.prefix); got != tt.want {
			t.Errorf("Affects(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}
