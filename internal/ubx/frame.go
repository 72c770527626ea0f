package ubx

import (
	"encoding/binary"
	"fmt"
)

const (
	Sync1 = 0xB5
	Sync2 = 0x62

	// headerLen covers sync, class, id and the two length bytes.
	headerLen  = 6
	trailerLen = 2

	// MaxWirePayload is the largest payload the 16-bit length field can carry.
	MaxWirePayload = 0xFFFF

	// DefaultMaxPayload is the scanner's default payload ceiling. It is large
	// enough for every message this package decodes.
	DefaultMaxPayload = 1240
)

// Frame is one checksum-validated message. Payload is borrowed from whoever
// produced the frame (scanner buffer or caller bytes) and must be copied to
// outlive it.
type Frame struct {
	Class   byte
	ID      byte
	Payload []byte
}

// Kind returns the frame's type tag.
func (f Frame) Kind() Kind { return NewKind(f.Class, f.ID) }

func (f Frame) String() string {
	return fmt.Sprintf("%s len=%d", f.Kind(), len(f.Payload))
}

// AppendFrame appends the wire encoding of one message to dst.
func AppendFrame(dst []byte, class, id byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxWirePayload {
		return dst, fmt.Errorf("ubx: payload too large: %d", len(payload))
	}
	start := len(dst)
	dst = append(dst, Sync1, Sync2, class, id)
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(payload)))
	dst = append(dst, payload...)
	ckA, ckB := Checksum(dst[start+2:])
	return append(dst, ckA, ckB), nil
}

// Encode returns the wire encoding of one message.
func Encode(class, id byte, payload []byte) ([]byte, error) {
	return AppendFrame(make([]byte, 0, headerLen+len(payload)+trailerLen), class, id, payload)
}

// Unframe validates exactly one complete wire frame held in b. The returned
// Frame borrows b.
func Unframe(b []byte) (Frame, error) {
	if len(b) < headerLen+trailerLen {
		return Frame{}, &FrameError{Length: len(b), Err: fmt.Errorf("%w: frame too short", ErrFraming)}
	}
	if b[0] != Sync1 || b[1] != Sync2 {
		return Frame{}, &FrameError{Length: len(b), Err: fmt.Errorf("%w: missing sync", ErrFraming)}
	}
	kind := NewKind(b[2], b[3])
	n := int(binary.LittleEndian.Uint16(b[4:6]))
	if len(b) != headerLen+n+trailerLen {
		return Frame{}, &FrameError{Kind: kind, Length: n, Err: fmt.Errorf("%w: have %d bytes for length %d", ErrFraming, len(b), n)}
	}
	body := b[2 : headerLen+n]
	if !VerifyChecksum(body, b[len(b)-2], b[len(b)-1]) {
		return Frame{}, &FrameError{Kind: kind, Length: n, Err: ErrChecksum}
	}
	return Frame{Class: b[2], ID: b[3], Payload: b[headerLen : headerLen+n]}, nil
}

// PollFrame builds the empty-payload request that asks the receiver to send
// one message of the given kind.
func PollFrame(k Kind) []byte {
	b, _ := Encode(k.Class(), k.ID(), nil)
	return b
}

// SetRateFrame builds a CFG-MSG request setting the output rate of k on the
// current port. rate is in navigation solutions per message; 0 disables it.
func SetRateFrame(k Kind, rate uint8) []byte {
	b, _ := Encode(KindCfgMsg.Class(), KindCfgMsg.ID(), []byte{k.Class(), k.ID(), rate})
	return b
}
