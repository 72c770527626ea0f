package ubx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

type scanState uint8

const (
	seekingSync1 scanState = iota
	seekingSync2
	readingHeader
	readingPayload
	readingChecksum
)

func (s scanState) String() string {
	switch s {
	case seekingSync1:
		return "seeking-sync1"
	case seekingSync2:
		return "seeking-sync2"
	case readingHeader:
		return "reading-header"
	case readingPayload:
		return "reading-payload"
	case readingChecksum:
		return "reading-checksum"
	default:
		return "unknown"
	}
}

// ScannerStats counts what a Scanner has seen since creation or Reset.
type ScannerStats struct {
	Frames         uint64 `json:"frames"`
	ChecksumErrors uint64 `json:"checksum_errors"`
	FramingErrors  uint64 `json:"framing_errors"`
	DiscardedBytes uint64 `json:"discarded_bytes"`
}

type ScannerOption func(*Scanner)

// WithMaxPayload sets the payload ceiling. Values outside 1..MaxWirePayload
// are ignored.
func WithMaxPayload(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 && n <= MaxWirePayload {
			s.maxPayload = n
		}
	}
}

// Scanner locates frames in a byte stream delivered in arbitrary chunks.
//
// It is a plain state machine: Write buffers input, Next consumes it. Bytes
// are consumed exactly once; a frame split across chunks resumes where it
// stopped. A Scanner is not safe for concurrent use; give each transport its
// own.
type Scanner struct {
	maxPayload int

	in  []byte // pending input
	off int    // first unconsumed byte in `in`

	state  scanState
	length int
	// body holds class, id, length and payload: the checksummed range.
	body []byte
	ck   [trailerLen]byte
	nck  int

	stats ScannerStats
}

func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{maxPayload: DefaultMaxPayload}
	for _, opt := range opts {
		opt(s)
	}
	s.body = make([]byte, 0, 4+s.maxPayload)
	return s
}

// Write appends a chunk of received bytes. It never fails.
//
// Write may move buffered input, so any Frame returned earlier by Next is
// invalid afterwards.
func (s *Scanner) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.off > 0 {
		n := copy(s.in, s.in[s.off:])
		s.in = s.in[:n]
		s.off = 0
	}
	s.in = append(s.in, p...)
	return len(p), nil
}

// Buffered returns the number of unconsumed input bytes.
func (s *Scanner) Buffered() int { return len(s.in) - s.off }

func (s *Scanner) Stats() ScannerStats { return s.stats }

// Reset drops buffered input and any partial frame. Stats are cleared too.
func (s *Scanner) Reset() {
	s.in = s.in[:0]
	s.off = 0
	s.restart()
	s.stats = ScannerStats{}
}

func (s *Scanner) restart() {
	s.state = seekingSync1
	s.length = 0
	s.nck = 0
}

// Next returns the next validated frame from buffered input.
//
// It returns ErrNeedMore when input runs out. Framing and checksum faults
// come back as *FrameError; the scanner has already restarted and the caller
// just calls Next again. The returned Payload aliases the scanner's buffer
// and is valid until the next call to Next, Write or Reset.
func (s *Scanner) Next() (Frame, error) {
	for s.off < len(s.in) {
		switch s.state {
		case seekingSync1:
			b := s.in[s.off]
			s.off++
			if b == Sync1 {
				s.state = seekingSync2
				continue
			}
			s.stats.DiscardedBytes++

		case seekingSync2:
			b := s.in[s.off]
			s.off++
			switch b {
			case Sync2:
				s.state = readingHeader
				s.body = s.body[:0]
			case Sync1:
				// A repeated first sync byte may still start a frame.
				s.stats.DiscardedBytes++
			default:
				s.stats.DiscardedBytes += 2
				s.state = seekingSync1
			}

		case readingHeader:
			s.body = append(s.body, s.in[s.off])
			s.off++
			if len(s.body) < 4 {
				continue
			}
			s.length = int(binary.LittleEndian.Uint16(s.body[2:4]))
			if s.length > s.maxPayload {
				err := &FrameError{
					Kind:   NewKind(s.body[0], s.body[1]),
					Length: s.length,
					Err:    fmt.Errorf("%w: length %d exceeds %d", ErrFraming, s.length, s.maxPayload),
				}
				s.stats.FramingErrors++
				s.restart()
				return Frame{}, err
			}
			if s.length == 0 {
				s.state = readingChecksum
			} else {
				s.state = readingPayload
			}

		case readingPayload:
			need := 4 + s.length - len(s.body)
			n := len(s.in) - s.off
			if n > need {
				n = need
			}
			s.body = append(s.body, s.in[s.off:s.off+n]...)
			s.off += n
			if len(s.body) == 4+s.length {
				s.state = readingChecksum
			}

		case readingChecksum:
			s.ck[s.nck] = s.in[s.off]
			s.off++
			s.nck++
			if s.nck < trailerLen {
				continue
			}
			s.restart()
			if !VerifyChecksum(s.body, s.ck[0], s.ck[1]) {
				s.stats.ChecksumErrors++
				return Frame{}, &FrameError{
					Kind:   NewKind(s.body[0], s.body[1]),
					Length: len(s.body) - 4,
					Err:    ErrChecksum,
				}
			}
			s.stats.Frames++
			return Frame{Class: s.body[0], ID: s.body[1], Payload: s.body[4:len(s.body):len(s.body)]}, nil
		}
	}
	return Frame{}, ErrNeedMore
}

// Each drains buffered input, calling fn for every valid frame and onFault
// (when non-nil) for every framing or checksum fault.
func (s *Scanner) Each(fn func(Frame), onFault func(error)) {
	for {
		f, err := s.Next()
		if errors.Is(err, ErrNeedMore) {
			return
		}
		if err != nil {
			if onFault != nil {
				onFault(err)
			}
			continue
		}
		fn(f)
	}
}
