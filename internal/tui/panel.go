package tui

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var panelPretty = &pretty.Options{Width: 40, Prefix: "", Indent: "  ", SortKeys: false}

// PanelView is the side panel. It implements panel.Sink and keeps the last
// message it was asked to render.
type PanelView struct {
	mu       sync.Mutex
	data     []byte
	onRender func()
}

// NewPanelView creates an empty panel. onRender is called after every
// Render and may be nil.
func NewPanelView(onRender func()) *PanelView {
	return &PanelView{onRender: onRender}
}

// Render implements panel.Sink.
func (p *PanelView) Render(data []byte) error {
	p.mu.Lock()
	p.data = append(p.data[:0], data...)
	p.mu.Unlock()

	if p.onRender != nil {
		p.onRender()
	}
	return nil
}

// Data returns the last rendered message.
func (p *PanelView) Data() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.data...)
}

// panelLine is one styled row of panel content.
type panelLine struct {
	text  string
	style tcell.Style
}

// lines lays out the panel content for the current message.
func (p *PanelView) lines(link string) []panelLine {
	msg := gjson.ParseBytes(p.Data())

	out := []panelLine{{text: "JMBG", style: styleTitle}, {}}
	switch {
	case !msg.Exists() || msg.Get("text").Type == gjson.Null:
		out = append(out, panelLine{text: "Select an identifier", style: styleText})
	case msg.Get("valid").Bool():
		out = append(out,
			panelLine{text: msg.Get("text").String(), style: styleText},
			panelLine{text: "✓ Valid", style: styleValid},
		)
	default:
		out = append(out,
			panelLine{text: msg.Get("text").String(), style: styleText},
			panelLine{text: "✗ " + msg.Get("reason").String(), style: styleInvalid},
		)
	}

	if decoded := msg.Get("decoded"); decoded.Exists() {
		out = append(out, panelLine{})
		body := strings.TrimRight(string(pretty.PrettyOptions([]byte(decoded.Raw), panelPretty)), "\n")
		for _, l := range strings.Split(body, "\n") {
			out = append(out, panelLine{text: l, style: styleText})
		}
	}

	out = append(out,
		panelLine{},
		panelLine{text: "^E send to editor", style: styleGutter},
		panelLine{text: "^Y copy", style: styleGutter},
		panelLine{text: "^O " + link, style: styleLink},
	)
	return out
}
