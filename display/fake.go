package display

import "sync"

// DrawOp is one recorded DrawText call.
type DrawOp struct {
	Point Point
	Text  string
	Style Style
}

// Fake is a Surface for tests. It records the draws of the most recent
// frame and can be made to fail on demand.
type Fake struct {
	mu     sync.Mutex
	clears int
	ops    []DrawOp

	ClearErr error
	DrawErr  error
}

func (f *Fake) Clear(c Color) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ClearErr != nil {
		return f.ClearErr
	}

	f.clears++
	f.ops = nil
	return nil
}

func (f *Fake) DrawText(p Point, text string, s Style) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.DrawErr != nil {
		return f.DrawErr
	}

	f.ops = append(f.ops, DrawOp{Point: p, Text: text, Style: s})
	return nil
}

// Clears reports how many frames have been started.
func (f *Fake) Clears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

// Ops returns the draws since the last Clear.
func (f *Fake) Ops() []DrawOp {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]DrawOp(nil), f.ops...)
}
