package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/jmbglens/internal/editor"
)

var (
	styleText      = tcell.StyleDefault
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleGutter    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus    = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	styleError     = styleStatus.Foreground(tcell.ColorRed).Bold(true)
	styleBorder    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle     = tcell.StyleDefault.Bold(true)
	styleValid     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleInvalid   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleLink      = tcell.StyleDefault.Foreground(tcell.ColorBlue).Underline(true)
)

var underlineStyles = map[string]tcell.UnderlineStyle{
	"solid":  tcell.UnderlineStyleSolid,
	"double": tcell.UnderlineStyleDouble,
	"dotted": tcell.UnderlineStyleDotted,
	"dashed": tcell.UnderlineStyleDashed,
	"wavy":   tcell.UnderlineStyleCurly,
	"none":   tcell.UnderlineStyleNone,
	"hidden": tcell.UnderlineStyleNone,
}

// decorate applies a bottom-border decoration to base as a colored
// underline. Terminals cannot draw borders, so the border style picks the
// underline shape and any other CSS style falls back to solid.
func decorate(base tcell.Style, ds editor.DecorationStyle) tcell.Style {
	if !hasBottomBorder(ds.BorderWidth) {
		return base
	}
	us, ok := underlineStyles[ds.BorderStyle]
	if !ok {
		us = tcell.UnderlineStyleSolid
	}
	if us == tcell.UnderlineStyleNone {
		return base
	}
	style := base.Underline(us)
	if c := tcell.GetColor(ds.BorderColor); c != tcell.ColorDefault {
		style = style.Underline(c)
	}
	return style
}

// hasBottomBorder reports whether the CSS border-width shorthand gives the
// bottom edge a non-zero width.
func hasBottomBorder(width string) bool {
	fields := strings.Fields(width)
	var bottom string
	switch len(fields) {
	case 0:
		return false
	case 1, 2:
		bottom = fields[0]
	default:
		bottom = fields[2]
	}
	return !isZeroUnit(bottom)
}

func isZeroUnit(v string) bool {
	v = strings.TrimRight(v, "pxremt")
	return strings.Trim(v, "0.") == ""
}
