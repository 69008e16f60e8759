package display

import (
	"fmt"
	"io"
)

// Terminal renders the panel into an ANSI terminal, one character cell per
// font glyph. Useful when developing off-device.
type Terminal struct {
	w    io.Writer
	cols int
	rows int
}

func NewTerminal(w io.Writer, width, height int) *Terminal {
	return &Terminal{
		w:    w,
		cols: width / FontWidth,
		rows: height / FontHeight,
	}
}

func (t *Terminal) Clear(c Color) error {
	_, err := fmt.Fprint(t.w, "\x1b[2J\x1b[H")
	return err
}

func (t *Terminal) DrawText(p Point, text string, s Style) error {
	row := p.Y / FontHeight
	col := p.X / FontWidth

	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return nil
	}

	if over := col + len(text) - t.cols; over > 0 {
		text = text[:len(text)-over]
	}

	_, err := fmt.Fprintf(t.w, "\x1b[%d;%dH\x1b[%dm%s\x1b[0m", row+1, col+1, ansiColor(s.Color), text)
	return err
}

func ansiColor(c Color) int {
	switch c {
	case Black:
		return 30
	default:
		return 37
	}
}
