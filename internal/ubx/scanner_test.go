package ubx

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type scanned struct {
	kind    Kind
	payload []byte
}

// drain feeds chunks one by one and collects frames (copied) and faults.
func drain(s *Scanner, chunks ...[]byte) ([]scanned, []error) {
	var frames []scanned
	var faults []error
	for _, c := range chunks {
		_, _ = s.Write(c)
		s.Each(func(f Frame) {
			frames = append(frames, scanned{kind: f.Kind(), payload: append([]byte{}, f.Payload...)})
		}, func(err error) {
			faults = append(faults, err)
		})
	}
	return frames, faults
}

func mustEncode(t *testing.T, class, id byte, payload []byte) []byte {
	t.Helper()
	b, err := Encode(class, id, payload)
	require.NoError(t, err)
	return b
}

func garbage(r *rand.Rand, n int) []byte {
	b := make([]byte, 0, n)
	for len(b) < n {
		c := byte(r.Intn(256))
		if c == Sync1 {
			continue
		}
		b = append(b, c)
	}
	return b
}

func randomPayload(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	r.Read(b)
	return b
}

func TestScanner_SingleFrame(t *testing.T) {
	s := NewScanner()
	frames, faults := drain(s, mustEncode(t, 0x01, 0x07, []byte{1, 2, 3}))
	require.Empty(t, faults)
	require.Equal(t, []scanned{{kind: KindNavPVT, payload: []byte{1, 2, 3}}}, frames)
	require.Equal(t, uint64(1), s.Stats().Frames)
}

func TestScanner_EmptyAndZeroLength(t *testing.T) {
	s := NewScanner()
	_, err := s.Next()
	require.ErrorIs(t, err, ErrNeedMore)

	frames, faults := drain(s, nil, []byte{}, mustEncode(t, 0x0A, 0x04, nil))
	require.Empty(t, faults)
	require.Len(t, frames, 1)
	require.Empty(t, frames[0].payload)
}

func TestScanner_ResyncAcrossGarbage(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	var stream []byte
	var want []scanned
	for i := 0; i < 50; i++ {
		stream = append(stream, garbage(r, r.Intn(40))...)
		p := randomPayload(r, r.Intn(120))
		class, id := byte(r.Intn(256)), byte(r.Intn(256))
		stream = append(stream, mustEncode(t, class, id, p)...)
		want = append(want, scanned{kind: NewKind(class, id), payload: p})
	}
	stream = append(stream, garbage(r, 17)...)

	s := NewScanner()
	frames, faults := drain(s, stream)
	require.Empty(t, faults)
	require.Equal(t, want, frames)
}

func TestScanner_RepeatedSync1(t *testing.T) {
	frame := mustEncode(t, 0x01, 0x02, []byte{7})
	s := NewScanner()
	frames, _ := drain(s, append([]byte{Sync1, Sync1}, frame...))
	require.Len(t, frames, 1)
}

func TestScanner_RoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		p := randomPayload(r, r.Intn(DefaultMaxPayload+1))
		class, id := byte(r.Intn(256)), byte(r.Intn(256))

		s := NewScanner()
		frames, faults := drain(s, mustEncode(t, class, id, p))
		require.Empty(t, faults)
		require.Len(t, frames, 1)
		require.Equal(t, NewKind(class, id), frames[0].kind)
		require.Equal(t, p, frames[0].payload)
	}
}

func TestScanner_PartialDeliveryInvariance(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	var stream []byte
	for i := 0; i < 10; i++ {
		stream = append(stream, garbage(r, 5)...)
		stream = append(stream, mustEncode(t, 0x01, byte(i), randomPayload(r, r.Intn(300)))...)
	}

	whole, _ := drain(NewScanner(), stream)
	require.Len(t, whole, 10)

	for trial := 0; trial < 50; trial++ {
		var chunks [][]byte
		rest := stream
		for len(rest) > 0 {
			n := r.Intn(16)
			if n > len(rest) {
				n = len(rest)
			}
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
		}
		split, faults := drain(NewScanner(), chunks...)
		require.Empty(t, faults)
		require.Equal(t, whole, split)
	}

	// One byte at a time.
	s := NewScanner()
	var got []scanned
	for i := range stream {
		frames, _ := drain(s, stream[i:i+1])
		got = append(got, frames...)
	}
	require.Equal(t, whole, got)
}

func TestScanner_IncompleteFrameNotEmitted(t *testing.T) {
	frame := mustEncode(t, 0x01, 0x12, make([]byte, 36))
	s := NewScanner()
	frames, faults := drain(s, frame[:len(frame)-1])
	require.Empty(t, frames)
	require.Empty(t, faults)
	require.Zero(t, s.Buffered())

	frames, _ = drain(s, frame[len(frame)-1:])
	require.Len(t, frames, 1)
}

func TestScanner_ChecksumMismatchDiscardsFrame(t *testing.T) {
	bad := mustEncode(t, 0x01, 0x02, []byte{1, 2, 3, 4})
	bad[len(bad)-2] ^= 0x01
	good := mustEncode(t, 0x01, 0x12, []byte{5})

	s := NewScanner()
	frames, faults := drain(s, append(bad, good...))
	require.Len(t, faults, 1)
	require.ErrorIs(t, faults[0], ErrChecksum)
	require.Equal(t, []scanned{{kind: KindNavVelNED, payload: []byte{5}}}, frames)
	require.Equal(t, uint64(1), s.Stats().ChecksumErrors)
}

func TestScanner_SingleBitFlipsRejected(t *testing.T) {
	payload := []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60}
	orig := mustEncode(t, 0x01, 0x02, payload)
	for i := range orig {
		for bit := 0; bit < 8; bit++ {
			c := append([]byte(nil), orig...)
			c[i] ^= 1 << bit

			frames, _ := drain(NewScanner(), c)
			if i == 4 || i == 5 {
				// A corrupted length changes the frame boundary; whatever comes
				// out must not be the original message.
				for _, f := range frames {
					require.False(t, f.kind == KindNavPosLLH && string(f.payload) == string(payload), "byte %d bit %d", i, bit)
				}
				continue
			}
			require.Empty(t, frames, "byte %d bit %d", i, bit)
		}
	}
}

func TestScanner_LengthCeiling(t *testing.T) {
	oversized := []byte{Sync1, Sync2, 0x01, 0x02, 0xFF, 0x7F}
	good := mustEncode(t, 0x01, 0x02, []byte{1})

	s := NewScanner(WithMaxPayload(512))
	frames, faults := drain(s, append(oversized, good...))
	require.Len(t, faults, 1)
	require.ErrorIs(t, faults[0], ErrFraming)
	var fe *FrameError
	require.True(t, errors.As(faults[0], &fe))
	require.Equal(t, 0x7FFF, fe.Length)
	require.Len(t, frames, 1)
	require.Equal(t, uint64(1), s.Stats().FramingErrors)
}

func TestScanner_PayloadValidUntilNext(t *testing.T) {
	s := NewScanner()
	_, _ = s.Write(mustEncode(t, 0x01, 0x02, []byte{1, 1}))
	_, _ = s.Write(mustEncode(t, 0x01, 0x02, []byte{2, 2}))

	f1, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 1}, f1.Payload)
	// The slice is capped so appends cannot scribble on the scanner buffer.
	require.Equal(t, len(f1.Payload), cap(f1.Payload))

	f2, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, []byte{2, 2}, f2.Payload)
}

func TestScanner_Reset(t *testing.T) {
	frame := mustEncode(t, 0x01, 0x02, []byte{1, 2, 3})
	s := NewScanner()
	drain(s, frame[:5])
	s.Reset()
	frames, _ := drain(s, frame[5:])
	require.Empty(t, frames)
	require.Zero(t, s.Stats().Frames)
}

func TestScanner_WithMaxPayloadIgnoresInvalid(t *testing.T) {
	require.Equal(t, DefaultMaxPayload, NewScanner(WithMaxPayload(0)).maxPayload)
	require.Equal(t, DefaultMaxPayload, NewScanner(WithMaxPayload(MaxWirePayload+1)).maxPayload)
	require.Equal(t, 64, NewScanner(WithMaxPayload(64)).maxPayload)
}
