package events

import "github.com/dshills/jmbglens/internal/event/topic"

// Panel event topics.
const (
	// TopicPanelVisibilityChanged is published when the side panel is shown or hidden.
	TopicPanelVisibilityChanged topic.Topic = "panel.visibility.changed"

	// TopicPanelDisposed is published when the side panel is destroyed.
	TopicPanelDisposed topic.Topic = "panel.disposed"
)

// PanelVisibilityChanged is published when the side panel is shown or hidden.
type PanelVisibilityChanged struct {
	Visible bool
}

// PanelDisposed is published when the side panel is destroyed.
type PanelDisposed struct{}
