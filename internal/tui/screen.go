package tui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Screen serializes access to a tcell screen. Drawing happens on the host
// loop while events are polled from the input goroutine.
type Screen struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewScreen creates a terminal-backed screen.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return WrapScreen(s), nil
}

// WrapScreen wraps an existing tcell screen, such as a SimulationScreen.
func WrapScreen(s tcell.Screen) *Screen {
	return &Screen{screen: s}
}

// Init prepares the terminal for drawing.
func (s *Screen) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.screen.Init(); err != nil {
		return err
	}
	s.screen.EnablePaste()
	return nil
}

// Fini restores the terminal. PollEvent returns nil afterwards.
func (s *Screen) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.Fini()
}

// Size returns the screen dimensions.
func (s *Screen) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen.Size()
}

// PollEvent blocks until the next terminal event.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// Frame runs draw with exclusive access to the canvas and shows the result.
func (s *Screen) Frame(draw func(c *Canvas)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Clear()
	w, h := s.screen.Size()
	c := &Canvas{screen: s.screen, width: w, height: h, cursorX: -1}
	draw(c)
	if c.cursorX >= 0 {
		s.screen.ShowCursor(c.cursorX, c.cursorY)
	} else {
		s.screen.HideCursor()
	}
	s.screen.Show()
}

// Canvas is the drawing surface handed to a frame.
type Canvas struct {
	screen           tcell.Screen
	width, height    int
	cursorX, cursorY int
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Put draws r at (x, y) and returns its display width.
func (c *Canvas) Put(x, y int, r rune, style tcell.Style) int {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		w = 1
		r = ' '
	}
	if x >= 0 && y >= 0 && x < c.width && y < c.height {
		c.screen.SetContent(x, y, r, nil, style)
	}
	return w
}

// Text draws s starting at (x, y), clipped at maxX. It returns the column
// after the last drawn rune.
func (c *Canvas) Text(x, y, maxX int, s string, style tcell.Style) int {
	for _, r := range s {
		if x+runewidth.RuneWidth(r) > maxX {
			break
		}
		x += c.Put(x, y, r, style)
	}
	return x
}

// Fill paints the rectangle [x0,x1) x [y0,y1) with r.
func (c *Canvas) Fill(x0, y0, x1, y1 int, r rune, style tcell.Style) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.Put(x, y, r, style)
		}
	}
}

// ShowCursor places the terminal cursor at (x, y) once the frame is shown.
func (c *Canvas) ShowCursor(x, y int) {
	c.cursorX, c.cursorY = x, y
}
