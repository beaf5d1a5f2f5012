package topic

import (
	"testing"
)

func TestTopic_Segments(t *testing.T) {
	tests := []struct {
		topic    Topic
		expected []string
	}{
		{Topic("editor.selection.changed"), []string{"editor", "selection", "changed"}},
		{Topic("config.changed"), []string{"config", "changed"}},
		{Topic("single"), []string{"single"}},
		{Topic(""), nil},
	}

	for _, tt := range tests {
		t.Run(tt.topic.String(), func(t *testing.T) {
			got := tt.topic.Segments()
			if len(got) != len(tt.expected) {
				t.Fatalf("Topic.Segments() = %v, want %v", got, tt.expected)
			}
			for i, seg := range got {
				if seg != tt.expected[i] {
					t.Errorf("Topic.Segments()[%d] = %v, want %v", i, seg, tt.expected[i])
				}
			}
		})
	}
}

func TestTopic_IsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		valid bool
	}{
		{"config.changed", true},
		{"editor.**", true},
		{"", false},
		{".config", false},
		{"config.", false},
		{"config..changed", false},
	}

	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.valid {
			t.Errorf("%q.IsValid() = %v, want %v", tt.topic, got, tt.valid)
		}
	}
}

func TestTopic_Matches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"config.changed", "config.changed", true},
		{"config.changed", "config.*", true},
		{"config.changed", "*.changed", true},
		{"document.changed", "*.changed", true},
		{"editor.selection.changed", "*.changed", false},
		{"editor.selection.changed", "editor.**", true},
		{"editor.selection.changed", "**", true},
		{"editor.selection.changed", "editor.*.changed", true},
		{"editor", "editor.**", true},
		{"config.changed", "config.changed.extra", false},
		{"config.changed", "document.changed", false},
	}

	for _, tt := range tests {
		if got := tt.topic.Matches(tt.pattern); got != tt.want {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
		}
	}
}

func TestTopic_ChildAndJoin(t *testing.T) {
	if got := Topic("config").Child("changed"); got != "config.changed" {
		t.Errorf("Child = %q", got)
	}
	if got := Topic("").Child("config"); got != "config" {
		t.Errorf("Child on empty = %q", got)
	}
	if got := Join("editor", "selection", "changed"); got != "editor.selection.changed" {
		t.Errorf("Join = %q", got)
	}
	if !Topic("editor.*").IsWildcard() {
		t.Error("expected wildcard")
	}
}
