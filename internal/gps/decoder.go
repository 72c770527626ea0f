package gps

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"ubloxd/internal/nav"
	"ubloxd/internal/ubx"
)

// Stats are cumulative decode counters.
type Stats struct {
	ubx.ScannerStats
	UnknownKinds     uint64            `json:"unknown_kinds"`
	LengthMismatches uint64            `json:"length_mismatches"`
	ConversionErrors uint64            `json:"conversion_errors"`
	Acks             uint64            `json:"acks"`
	Naks             uint64            `json:"naks"`
	ByKind           map[string]uint64 `json:"by_kind,omitempty"`
}

// Decoder turns raw receiver bytes into a running fix. It owns one scanner
// and must be driven by a single goroutine.
type Decoder struct {
	log zerolog.Logger
	sc  *ubx.Scanner
	reg *ubx.Registry
	tr  nav.Tracker

	byKind           map[ubx.Kind]uint64
	unknown          uint64
	lengthMismatches uint64
	conversionErrors uint64
	acks, naks       uint64

	lastFixAt time.Time
	lastError string

	receiver   string
	extensions []string
	satsInView int
	satsUsed   int
}

func NewDecoder(maxPayload int, logger zerolog.Logger) *Decoder {
	return &Decoder{
		log:    logger,
		sc:     ubx.NewScanner(ubx.WithMaxPayload(maxPayload)),
		reg:    ubx.NewRegistry(),
		byKind: make(map[ubx.Kind]uint64),
	}
}

// Feed consumes one chunk received at now and reports whether the fix
// changed. Malformed input is counted and skipped.
func (d *Decoder) Feed(now time.Time, chunk []byte) bool {
	_, _ = d.sc.Write(chunk)
	updated := false
	for {
		f, err := d.sc.Next()
		if errors.Is(err, ubx.ErrNeedMore) {
			return updated
		}
		if err != nil {
			d.fault(err)
			continue
		}
		if d.handle(f) {
			d.lastFixAt = now
			updated = true
		}
	}
}

func (d *Decoder) handle(f ubx.Frame) bool {
	d.byKind[f.Kind()]++

	v, err := d.reg.Decode(f)
	if err != nil {
		if errors.Is(err, ubx.ErrUnknownKind) {
			d.unknown++
			d.log.Trace().Stringer("kind", f.Kind()).Int("len", len(f.Payload)).Msg("skipping unknown message")
			return false
		}
		d.lengthMismatches++
		d.fault(err)
		return false
	}

	switch m := v.(type) {
	case ubx.Ack:
		if m.Acked() {
			d.acks++
			d.log.Debug().Stringer("target", m.Target()).Msg("receiver ack")
		} else {
			d.naks++
			d.log.Warn().Stringer("target", m.Target()).Msg("receiver nak")
		}
	case ubx.MonVer:
		d.receiver = m.SoftwareVersion()
		d.extensions = m.Extensions()
		d.log.Info().Str("sw", d.receiver).Str("hw", m.HardwareVersion()).Strs("ext", d.extensions).Msg("receiver version")
	case ubx.NavSat:
		d.satsInView = m.Len()
		used := 0
		m.Each(func(s ubx.SatInfo) {
			if s.Used() {
				used++
			}
		})
		d.satsUsed = used
	}

	changed, err := d.tr.Apply(v)
	if err != nil {
		d.conversionErrors++
		d.fault(err)
	}
	return changed
}

func (d *Decoder) fault(err error) {
	d.lastError = err.Error()
	d.log.Debug().Err(err).Msg("ubx fault")
}

// Fix returns the current fix.
func (d *Decoder) Fix() nav.Fix { return d.tr.Fix() }

// LastFixAt is when the fix last changed; zero before the first update.
func (d *Decoder) LastFixAt() time.Time { return d.lastFixAt }

func (d *Decoder) Stats() Stats {
	s := Stats{
		ScannerStats:     d.sc.Stats(),
		UnknownKinds:     d.unknown,
		LengthMismatches: d.lengthMismatches,
		ConversionErrors: d.conversionErrors,
		Acks:             d.acks,
		Naks:             d.naks,
	}
	if len(d.byKind) > 0 {
		s.ByKind = make(map[string]uint64, len(d.byKind))
		for k, n := range d.byKind {
			s.ByKind[d.reg.Name(k)] = n
		}
	}
	return s
}

// fill copies decoder state into snap. Staleness is computed at read time.
func (d *Decoder) fill(snap *Snapshot) {
	fix := d.tr.Fix()
	snap.Valid = fix.Valid()
	snap.FixType = fix.Type.String()
	snap.Satellites = fix.Satellites
	snap.SatellitesInView = d.satsInView
	snap.SatellitesUsed = d.satsUsed
	if fix.HavePosition {
		snap.LatDeg = fix.LatDeg()
		snap.LonDeg = fix.LonDeg()
		alt := fix.AltM()
		snap.AltMSLM = &alt
		h, v := fix.HorizontalAccuracyM(), fix.VerticalAccuracyM()
		snap.HorizAccM = &h
		snap.VertAccM = &v
	}
	if fix.HaveVelocity {
		gs, hdg := fix.SpeedMS(), fix.HeadingDeg()
		snap.GroundMS = &gs
		snap.HeadingDeg = &hdg
	}
	if !fix.Time.IsZero() {
		snap.TimeUTC = fix.Time.Format(time.RFC3339Nano)
	}
	if !d.lastFixAt.IsZero() {
		snap.LastFixUTC = d.lastFixAt.UTC().Format(time.RFC3339Nano)
	}
	snap.lastFixAt = d.lastFixAt
	snap.fix = fix
	snap.Receiver = d.receiver
	if len(d.extensions) > 0 {
		snap.Extensions = append([]string(nil), d.extensions...)
	}
	snap.Stats = d.Stats()
	snap.LastError = d.lastError
}
