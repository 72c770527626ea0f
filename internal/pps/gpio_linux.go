//go:build linux

package pps

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Line is an open timepulse input. Close releases the GPIO line.
type Line struct {
	line *gpiocdev.Line
}

// Open requests offset on chip (e.g. "gpiochip0") as a rising-edge input and
// feeds every edge into t.
func Open(chip string, offset int, t *Tracker) (*Line, error) {
	if t == nil {
		return nil, fmt.Errorf("pps: tracker is nil")
	}
	handler := func(evt gpiocdev.LineEvent) {
		if evt.Type == gpiocdev.LineEventRisingEdge {
			t.Pulse(time.Now())
		}
	}
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(handler),
		gpiocdev.WithConsumer("ubloxd-pps"),
	)
	if err != nil {
		return nil, fmt.Errorf("pps: request %s line %d: %w", chip, offset, err)
	}
	return &Line{line: l}, nil
}

func (l *Line) Close() error {
	if l == nil || l.line == nil {
		return nil
	}
	err := l.line.Close()
	l.line = nil
	return err
}
