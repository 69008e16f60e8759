package main

import (
	"context"
	"fmt"
	"time"

	"gregoryjjb/buzzd/display"
)

// Panel layout. The address sits on its own line, the log starts below it
// with a little extra lead so the rows don't touch.
const (
	addressLineY = 10
	logOriginY   = 30
	logLinePitch = 12
)

// Render draws one full frame: the address header and the activity log,
// oldest entry on top.
func Render(surface display.Surface, address string, entries []Entry) error {
	if err := surface.Clear(display.Black); err != nil {
		return fmt.Errorf("clearing display: %w", err)
	}

	style := display.Style{Color: display.White}

	if err := surface.DrawText(display.Point{X: 0, Y: addressLineY}, "IP: "+address, style); err != nil {
		return fmt.Errorf("drawing address: %w", err)
	}

	y := logOriginY
	for _, e := range entries {
		if err := surface.DrawText(display.Point{X: 0, Y: y}, e.Line(), style); err != nil {
			return fmt.Errorf("drawing log line: %w", err)
		}
		y += logLinePitch
	}

	return nil
}

// RunDisplayLoop redraws the panel once per interval until ctx is
// canceled. The first frame is drawn immediately. Draw failures stop the
// loop and are returned.
func RunDisplayLoop(ctx context.Context, surface display.Surface, address string, activity *Recorder, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := Render(surface, address, activity.Snapshot()); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
