package udp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"ubloxd/internal/nav"
)

// FixMessage is the datagram published for each fix. CBOR uses the integer
// keys; JSON the names.
type FixMessage struct {
	TimeUnixNano int64   `cbor:"1,keyasint,omitempty" json:"time_unix_nano,omitempty"`
	FixType      string  `cbor:"2,keyasint" json:"fix_type"`
	Valid        bool    `cbor:"3,keyasint" json:"valid"`
	Satellites   int     `cbor:"4,keyasint" json:"satellites"`
	LatDeg       float64 `cbor:"5,keyasint" json:"lat_deg"`
	LonDeg       float64 `cbor:"6,keyasint" json:"lon_deg"`
	AltMSLM      float64 `cbor:"7,keyasint" json:"alt_msl_m"`
	GroundMS     float64 `cbor:"8,keyasint" json:"ground_speed_ms"`
	HeadingDeg   float64 `cbor:"9,keyasint" json:"heading_deg"`
	HAccM        float64 `cbor:"10,keyasint" json:"h_acc_m"`
	VAccM        float64 `cbor:"11,keyasint" json:"v_acc_m"`
	Seq          uint64  `cbor:"12,keyasint" json:"seq"`
}

// NewFixMessage projects a fix for the wire.
func NewFixMessage(f nav.Fix, seq uint64) FixMessage {
	m := FixMessage{
		FixType:    f.Type.String(),
		Valid:      f.Valid(),
		Satellites: f.Satellites,
		LatDeg:     f.LatDeg(),
		LonDeg:     f.LonDeg(),
		AltMSLM:    f.AltM(),
		GroundMS:   f.SpeedMS(),
		HeadingDeg: f.HeadingDeg(),
		HAccM:      f.HorizontalAccuracyM(),
		VAccM:      f.VerticalAccuracyM(),
		Seq:        seq,
	}
	if !f.Time.IsZero() {
		m.TimeUnixNano = f.Time.UnixNano()
	}
	return m
}

var cborMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Encode serializes m as "cbor" or "json".
func Encode(m FixMessage, format string) ([]byte, error) {
	switch format {
	case "cbor", "":
		return cborMode.Marshal(m)
	case "json":
		return json.Marshal(m)
	default:
		return nil, fmt.Errorf("udp: unknown format %q", format)
	}
}

// Decode parses a datagram produced by Encode.
func Decode(b []byte, format string) (FixMessage, error) {
	var m FixMessage
	var err error
	switch format {
	case "cbor", "":
		err = cbor.Unmarshal(b, &m)
	case "json":
		err = json.Unmarshal(b, &m)
	default:
		err = fmt.Errorf("udp: unknown format %q", format)
	}
	return m, err
}

type sender interface {
	Send(payload []byte) error
}

// FixSource returns the latest fix, or false when there is nothing to send.
type FixSource func() (nav.Fix, bool)

// Run sends the latest fix every interval until ctx is cancelled. Send
// errors are passed to onErr (when non-nil) and do not stop the loop.
func Run(ctx context.Context, s sender, interval time.Duration, format string, src FixSource, onErr func(error)) error {
	if interval <= 0 {
		return fmt.Errorf("udp: interval must be > 0")
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		fix, ok := src()
		if !ok {
			continue
		}
		seq++
		b, err := Encode(NewFixMessage(fix, seq), format)
		if err == nil {
			err = s.Send(b)
		}
		if err != nil && onErr != nil {
			onErr(err)
		}
	}
}
