package main

import (
	"fmt"
	"io"
	"time"

	"ubloxd/internal/replay"
)

type captureSummary struct {
	Segments    int
	Chunks      int
	Bytes       int
	MaxDuration time.Duration
}

// summarizeCapture describes the timing structure of a record log. Each
// START marker opens a segment; a log without markers is one segment.
func summarizeCapture(records []replay.Record) captureSummary {
	var s captureSummary
	var origin time.Duration
	for _, r := range records {
		if r.Data == nil {
			s.Segments++
			origin = r.At
			continue
		}
		s.Chunks++
		s.Bytes += len(r.Data)
		at := r.At - origin
		if at < 0 {
			at = 0
		}
		if at > s.MaxDuration {
			s.MaxDuration = at
		}
	}
	if s.Segments == 0 && s.Chunks > 0 {
		s.Segments = 1
	}
	return s
}

func (s captureSummary) print(w io.Writer) {
	fmt.Fprintf(w, "segments=%d chunks=%d bytes=%d max_duration=%s\n", s.Segments, s.Chunks, s.Bytes, s.MaxDuration)
}
