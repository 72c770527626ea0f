package udp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ubloxd/internal/nav"
	"ubloxd/internal/units"
)

func sampleFix() nav.Fix {
	return nav.Fix{
		Position:        nav.Position{Lat: units.CoordFromRaw(473977419), Lon: units.CoordFromRaw(85391170), Alt: units.HeightFromMillimeters(488000)},
		HavePosition:    true,
		Velocity:        nav.Velocity{Speed: units.SpeedFromMillimeters(1500), Heading: units.HeadingFromRaw(9000000)},
		HaveVelocity:    true,
		Time:            time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
		Type:            nav.Fix3D,
		FixOK:           true,
		Satellites:      12,
		HorizontalAccMM: 1500,
	}
}

func TestEncodeDecode_Formats(t *testing.T) {
	m := NewFixMessage(sampleFix(), 7)
	require.True(t, m.Valid)
	require.Equal(t, "3d", m.FixType)
	require.Equal(t, time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC).UnixNano(), m.TimeUnixNano)

	for _, format := range []string{"cbor", "json"} {
		b, err := Encode(m, format)
		require.NoError(t, err, format)
		got, err := Decode(b, format)
		require.NoError(t, err, format)
		require.Equal(t, m, got, format)
	}

	_, err := Encode(m, "xml")
	require.Error(t, err)
}

func TestEncode_CBORUsesIntegerKeys(t *testing.T) {
	b, err := Encode(FixMessage{FixType: "none"}, "cbor")
	require.NoError(t, err)
	// Map header, then key 2 (fix type) as the first entry because the
	// zero time is omitted and deterministic encoding sorts keys.
	require.Equal(t, byte(0x02), b[1])
}

type recordingSender struct {
	mu    sync.Mutex
	sent  [][]byte
	err   error
	calls int
}

func (r *recordingSender) Send(p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, append([]byte(nil), p...))
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestRun_SendsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rs := &recordingSender{}
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, rs, 5*time.Millisecond, "json", func() (nav.Fix, bool) { return sampleFix(), true }, nil)
	}()

	require.Eventually(t, func() bool { return rs.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	rs.mu.Lock()
	defer rs.mu.Unlock()
	first, err := Decode(rs.sent[0], "json")
	require.NoError(t, err)
	require.Equal(t, uint64(1), first.Seq)
}

func TestRun_ReportsErrorsAndSkipsEmpty(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rs := &recordingSender{err: errors.New("boom")}
	var mu sync.Mutex
	var errs []error
	var polls int
	go func() {
		_ = Run(ctx, rs, 2*time.Millisecond, "cbor", func() (nav.Fix, bool) {
			mu.Lock()
			defer mu.Unlock()
			polls++
			return sampleFix(), polls%2 == 0
		}, func(err error) {
			mu.Lock()
			defer mu.Unlock()
			errs = append(errs, err)
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(errs) >= 2
	}, time.Second, 2*time.Millisecond)
	cancel()
}

func TestRun_RejectsZeroInterval(t *testing.T) {
	require.Error(t, Run(context.Background(), &recordingSender{}, 0, "cbor", nil, nil))
}
