// Package decoration owns the marker drawn under the current selection.
//
// The Manager holds at most one live decoration type at a time. A style
// change always disposes the old handle before creating the new one, so two
// markers are never visible together.
package decoration

import (
	"sync"

	"github.com/dshills/jmbglens/internal/config"
	"github.com/dshills/jmbglens/internal/editor"
	"github.com/dshills/jmbglens/internal/logging"
)

// Style is the marker appearance derived from configuration.
type Style struct {
	BorderWidth string
	BorderStyle string
	BorderColor string
}

// StyleFromSettings derives the marker style from settings.
func StyleFromSettings(s config.Settings) Style {
	return Style{
		BorderWidth: s.Decoration.BorderWidth,
		BorderStyle: s.Decoration.BorderStyle,
		BorderColor: s.Decoration.BorderColor,
	}
}

// EditorStyle renders s as a bottom border over the selected text only.
func (s Style) EditorStyle() editor.DecorationStyle {
	return editor.DecorationStyle{
		BorderWidth: "0 0 " + s.BorderWidth + " 0",
		BorderStyle: s.BorderStyle,
		BorderColor: s.BorderColor,
		IsWholeLine: false,
	}
}

// Factory creates decoration handles and reports view visibility.
// *editor.Host satisfies it.
type Factory interface {
	CreateDecorationType(style editor.DecorationStyle) *editor.DecorationType
	IsVisible(v *editor.View) bool
}

// SettingsSource provides the current settings. *config.Store satisfies it.
type SettingsSource interface {
	Settings() config.Settings
}

// Manager applies a single decoration over the last known span.
type Manager struct {
	factory  Factory
	settings SettingsSource
	log      *logging.Logger

	mu    sync.Mutex
	dt    *editor.DecorationType
	style Style
	view  *editor.View
	span  editor.Span
}

// NewManager creates a manager with no live decoration.
func NewManager(factory Factory, settings SettingsSource, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{
		factory:  factory,
		settings: settings,
		log:      log.WithComponent("decoration"),
	}
}

// RebuildStyle disposes the current handle, if any, and creates a new one
// from the current settings. The remembered span is kept.
func (m *Manager) RebuildStyle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rebuildLocked()
}

func (m *Manager) rebuildLocked() {
	m.releaseLocked()
	m.style = StyleFromSettings(m.settings.Settings())
	m.dt = m.factory.CreateDecorationType(m.style.EditorStyle())
	m.log.Debug("created decoration %s (%s %s %s)", m.dt.ID(), m.style.BorderWidth, m.style.BorderStyle, m.style.BorderColor)
}

// Apply draws the marker over span in view, replacing the previous span.
// A handle is created from the current settings if none exists.
func (m *Manager) Apply(view *editor.View, span editor.Span) {
	if view == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dt == nil {
		m.rebuildLocked()
	}
	if m.view != nil && m.view != view {
		m.view.SetDecorations(m.dt, nil)
	}
	view.SetDecorations(m.dt, []editor.Span{span})
	m.view = view
	m.span = span
}

// Release disposes the current handle. The remembered span is kept so a
// later Refresh can restore the marker. Releasing twice is a no-op.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseLocked()
}

func (m *Manager) releaseLocked() {
	if m.dt == nil {
		return
	}
	m.log.Debug("disposing decoration %s", m.dt.ID())
	m.dt.Dispose()
	m.dt = nil
}

// Refresh re-applies the remembered span to the remembered view when a
// handle exists and the view is still visible.
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dt == nil || m.view == nil {
		return
	}
	if !m.factory.IsVisible(m.view) {
		m.view = nil
		return
	}
	m.view.SetDecorations(m.dt, []editor.Span{m.span})
}

// Forget drops the remembered view and span without touching the handle.
func (m *Manager) Forget() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.view != nil && m.dt != nil {
		m.view.SetDecorations(m.dt, nil)
	}
	m.view = nil
	m.span = editor.Span{}
}

// Active returns the live handle, or nil.
func (m *Manager) Active() *editor.DecorationType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dt
}

// Style returns the style of the live handle.
func (m *Manager) Style() (Style, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.style, m.dt != nil
}

// Target returns the remembered view and span.
func (m *Manager) Target() (*editor.View, editor.Span, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view, m.span, m.view != nil
}
