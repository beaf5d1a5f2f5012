// Package tui is a terminal front end for jmbglens. It draws the active
// view with its decorations, a side panel with the current message and a
// status line, and maps keys to editor edits and panel actions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/jmbglens/internal/commands"
	"github.com/dshills/jmbglens/internal/coordinator"
	"github.com/dshills/jmbglens/internal/editor"
	"github.com/dshills/jmbglens/internal/event/events"
	"github.com/dshills/jmbglens/internal/logging"
	"github.com/dshills/jmbglens/internal/panel"
)

const (
	gutterWidth = 5
	panelWidth  = 44
)

// Option configures a UI.
type Option func(*UI)

// WithRand sets the source used by the generate key.
func WithRand(rng *rand.Rand) Option {
	return func(u *UI) { u.rng = rng }
}

// WithLogger sets the UI logger.
func WithLogger(l *logging.Logger) Option {
	return func(u *UI) {
		if l != nil {
			u.log = l
		}
	}
}

type status struct {
	text string
	err  bool
}

// UI ties a screen to the host. All editor access happens on the host loop.
type UI struct {
	screen  *Screen
	host    *editor.Host
	channel *panel.Channel
	panel   *PanelView
	rng     *rand.Rand
	link    string
	log     *logging.Logger

	top    int
	status status

	finiOnce sync.Once
}

// New creates a UI drawing host's active view on screen. The returned
// PanelView must be the sink of channel.
func New(screen *Screen, host *editor.Host, opts ...Option) *UI {
	u := &UI{
		screen: screen,
		host:   host,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		link:   coordinator.ProjectURL,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	u.log = u.log.WithComponent("tui")
	u.panel = NewPanelView(u.RequestDraw)
	return u
}

// Panel returns the side panel sink.
func (u *UI) Panel() *PanelView {
	return u.panel
}

// Attach sets the channel the panel keys act on.
func (u *UI) Attach(c *panel.Channel) {
	u.channel = c
}

// Run initializes the screen and processes input until ctx is cancelled or
// the user quits.
func (u *UI) Run(ctx context.Context) error {
	if err := u.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer u.fini()

	go func() {
		<-ctx.Done()
		u.fini()
	}()

	u.RequestDraw()
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !u.Handle(ev) {
			return nil
		}
	}
}

func (u *UI) fini() {
	u.finiOnce.Do(u.screen.Fini)
}

// Handle queues ev for processing on the host loop. It returns false when
// ev asks to quit.
func (u *UI) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlQ {
			return false
		}
		u.host.Post(func() {
			u.key(ev)
			u.RequestDraw()
		})
	case *tcell.EventResize:
		u.RequestDraw()
	}
	return true
}

// RequestDraw schedules a redraw on the host loop.
func (u *UI) RequestDraw() {
	u.host.Post(u.draw)
}

// Status returns the current status message.
func (u *UI) Status() (text string, isErr bool) {
	return u.status.text, u.status.err
}

func (u *UI) setStatus(text string, isErr bool) {
	u.status = status{text: text, err: isErr}
}

func (u *UI) report(err error) {
	if err != nil {
		u.log.Warn("%v", err)
		u.setStatus(err.Error(), true)
	}
}

func (u *UI) key(ev *tcell.EventKey) {
	u.setStatus("", false)

	switch ev.Key() {
	case tcell.KeyCtrlP:
		if u.channel != nil {
			u.channel.SetVisible(!u.channel.Visible())
		}
		return
	case tcell.KeyCtrlE:
		u.dispatch(panel.KindSendToEditor, "")
		return
	case tcell.KeyCtrlY:
		u.dispatch(panel.KindCopy, "Copied decoded fields")
		return
	case tcell.KeyCtrlO:
		u.dispatch(panel.KindVisitExternalLink, "Opened "+u.link)
		return
	case tcell.KeyCtrlT:
		n, err := commands.Validate(u.host)
		if err != nil {
			u.report(err)
			return
		}
		u.setStatus(n.Text, n.Level == commands.LevelError)
		return
	case tcell.KeyCtrlG:
		u.report(commands.GenerateRandom(u.host, u.rng))
		return
	}

	v := u.host.ActiveView()
	if v == nil {
		return
	}
	extend := ev.Modifiers()&tcell.ModShift != 0
	switch ev.Key() {
	case tcell.KeyLeft:
		u.move(v, extend, func(d *editor.Document, p editor.Point) editor.Point { return left(d, p) })
	case tcell.KeyRight:
		u.move(v, extend, func(d *editor.Document, p editor.Point) editor.Point { return right(d, p) })
	case tcell.KeyUp:
		u.move(v, extend, func(d *editor.Document, p editor.Point) editor.Point {
			return d.Clamp(editor.Point{Line: p.Line - 1, Column: p.Column})
		})
	case tcell.KeyDown:
		u.move(v, extend, func(d *editor.Document, p editor.Point) editor.Point {
			return d.Clamp(editor.Point{Line: p.Line + 1, Column: p.Column})
		})
	case tcell.KeyHome:
		u.move(v, extend, func(_ *editor.Document, p editor.Point) editor.Point { return editor.Point{Line: p.Line} })
	case tcell.KeyEnd:
		u.move(v, extend, func(d *editor.Document, p editor.Point) editor.Point { return d.LineEnd(p.Line) })
	case tcell.KeyEnter:
		u.typeText(v, "\n")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		u.backspace(v)
	case tcell.KeyRune:
		u.typeText(v, string(ev.Rune()))
	}
}

func (u *UI) dispatch(kind panel.EventKind, done string) {
	if u.channel == nil {
		return
	}
	if err := u.channel.Dispatch(panel.Event{Kind: kind}); err != nil {
		if errors.Is(err, coordinator.ErrInactive) {
			u.setStatus("Panel is hidden, press ^P to show it", true)
			return
		}
		u.report(err)
		return
	}
	if done != "" {
		u.setStatus(done, false)
	}
}

func (u *UI) move(v *editor.View, extend bool, to func(*editor.Document, editor.Point) editor.Point) {
	sel := v.Selection()
	next := to(v.Document(), sel.Active)
	if extend {
		sel.Active = next
	} else {
		sel = editor.NewCursor(next)
	}
	v.SetSelections(events.SelectionChangeKeyboard, sel)
}

func (u *UI) typeText(v *editor.View, text string) {
	sel := v.Selection()
	err := v.Edit(func(b *editor.EditBuilder) {
		b.Replace(sel.Span(), text)
	})
	if errors.Is(err, editor.ErrReadOnly) {
		u.setStatus("Document is read-only", true)
		return
	}
	u.report(err)
}

func (u *UI) backspace(v *editor.View) {
	sel := v.Selection()
	span := sel.Span()
	if span.IsEmpty() {
		span = editor.NewSpan(left(v.Document(), span.Start), span.Start)
	}
	if span.IsEmpty() {
		return
	}
	err := v.Edit(func(b *editor.EditBuilder) {
		b.Replace(span, "")
	})
	if errors.Is(err, editor.ErrReadOnly) {
		u.setStatus("Document is read-only", true)
		return
	}
	u.report(err)
}

func left(d *editor.Document, p editor.Point) editor.Point {
	if p.Column > 0 {
		return editor.Point{Line: p.Line, Column: p.Column - 1}
	}
	if p.Line == 0 {
		return p
	}
	return d.LineEnd(p.Line - 1)
}

func right(d *editor.Document, p editor.Point) editor.Point {
	end := d.LineEnd(p.Line)
	if p.Column < end.Column {
		return editor.Point{Line: p.Line, Column: p.Column + 1}
	}
	if p.Line+1 >= d.LineCount() {
		return p
	}
	return editor.Point{Line: p.Line + 1}
}

// Draw renders the current state immediately. It must run on the host loop.
func (u *UI) Draw() {
	u.draw()
}

func (u *UI) draw() {
	u.screen.Frame(func(c *Canvas) {
		w, h := c.Size()
		if w <= 0 || h <= 0 {
			return
		}
		editorW := w
		if u.channel != nil && u.channel.Visible() {
			pw := min(panelWidth, w/2)
			editorW = w - pw
			u.drawPanel(c, editorW, 0, w, h-1)
		}
		u.drawView(c, editorW, h-1)
		u.drawStatus(c, w, h-1)
	})
}

func (u *UI) drawView(c *Canvas, width, height int) {
	v := u.host.ActiveView()
	if v == nil {
		c.Text(0, 0, width, "No open document", styleGutter)
		return
	}
	doc := v.Document()
	sel := v.Selection()
	decos := v.Decorations()

	cursor := sel.Active
	if cursor.Line < u.top {
		u.top = cursor.Line
	}
	if height > 0 && cursor.Line >= u.top+height {
		u.top = cursor.Line - height + 1
	}

	selSpan := sel.Span()
	for row := 0; row < height; row++ {
		line := u.top + row
		if line >= doc.LineCount() {
			break
		}
		c.Text(0, row, gutterWidth, fmt.Sprintf("%*s ", gutterWidth-1, strconv.Itoa(line+1)), styleGutter)

		x := gutterWidth
		col := 0
		for _, r := range doc.Line(line) {
			p := editor.Point{Line: line, Column: col}
			style := styleText
			if !sel.IsCursor() && selSpan.Contains(p) {
				style = styleSelection
			}
			for _, d := range decos {
				for _, span := range d.Spans {
					if span.Contains(p) {
						style = decorate(style, d.Type.Style())
					}
				}
			}
			if p == cursor {
				c.ShowCursor(x, row)
			}
			if x < width {
				x += c.Put(x, row, r, style)
			}
			col++
		}
		if cursor.Line == line && cursor.Column >= col && x < width {
			c.ShowCursor(x, row)
		}
	}
}

func (u *UI) drawPanel(c *Canvas, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		c.Put(x0, y, '│', styleBorder)
	}
	y := y0
	for _, l := range u.panel.lines(u.link) {
		if y >= y1 {
			break
		}
		c.Text(x0+2, y, x1, l.text, l.style)
		y++
	}
}

func (u *UI) drawStatus(c *Canvas, width, y int) {
	c.Fill(0, y, width, y+1, ' ', styleStatus)
	info := " jmbglens"
	if v := u.host.ActiveView(); v != nil {
		p := v.Selection().Active
		info = fmt.Sprintf(" %s  Ln %d, Col %d", v.Document().URI(), p.Line+1, p.Column+1)
	}
	x := c.Text(0, y, width, info, styleStatus)
	if u.status.text == "" {
		return
	}
	style := styleStatus
	if u.status.err {
		style = styleError
	}
	c.Text(x+2, y, width, u.status.text, style)
}
