// Package display abstracts the little status panel. Coordinates are in
// pixels of the 240x320 module the device ships with; implementations that
// have no pixels map them onto whatever cells they do have.
package display

// Dimensions of the stock panel
const (
	Width  = 240
	Height = 320
)

// Glyph cell of the 6x10 font everything is drawn with
const (
	FontWidth  = 6
	FontHeight = 10
)

type Color int

const (
	Black Color = iota
	White
)

type Point struct {
	X int
	Y int
}

type Style struct {
	Color Color
}

// Surface is a drawing target. Implementations are not safe for concurrent
// use; a single goroutine owns the panel.
type Surface interface {
	Clear(c Color) error
	DrawText(p Point, text string, s Style) error
}

// Discard accepts every draw and shows nothing, for headless boxes.
var Discard Surface = discard{}

type discard struct{}

func (discard) Clear(Color) error { return nil }

func (discard) DrawText(Point, string, Style) error { return nil }
