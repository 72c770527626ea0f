package web

import (
	"sync/atomic"
	"time"

	"ubloxd/internal/gps"
	"ubloxd/internal/pps"
)

// GPSSource is satisfied by *gps.Service.
type GPSSource interface {
	Snapshot() gps.Snapshot
}

// PPSSource is satisfied by *pps.Tracker (nil included).
type PPSSource interface {
	Snapshot(now time.Time) pps.Snapshot
}

// Status aggregates what /api/status reports. Counters are updated from the
// publisher goroutine while handlers read.
type Status struct {
	startUnixNano int64
	sent          uint64
	sendErrors    uint64
	lastSendNano  int64

	mode     atomic.Value // string
	udpDest  atomic.Value // string
	interval atomic.Value // string
	format   atomic.Value // string

	gps GPSSource
	pps PPSSource
}

func NewStatus(g GPSSource, p PPSSource) *Status {
	s := &Status{gps: g, pps: p}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	s.mode.Store("")
	s.udpDest.Store("")
	s.interval.Store("")
	s.format.Store("")
	return s
}

// SetStatic records configuration that does not change at runtime. Empty
// values leave the previous setting.
func (s *Status) SetStatic(mode, udpDest, interval, format string) {
	if mode != "" {
		s.mode.Store(mode)
	}
	if udpDest != "" {
		s.udpDest.Store(udpDest)
	}
	if interval != "" {
		s.interval.Store(interval)
	}
	if format != "" {
		s.format.Store(format)
	}
}

// MarkSent counts one published datagram, or one failure when err != nil.
func (s *Status) MarkSent(nowUTC time.Time, err error) {
	if err != nil {
		atomic.AddUint64(&s.sendErrors, 1)
		return
	}
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	atomic.StoreInt64(&s.lastSendNano, nowUTC.UnixNano())
	atomic.AddUint64(&s.sent, 1)
}

type StatusSnapshot struct {
	Service     string       `json:"service"`
	NowUTC      string       `json:"now_utc"`
	UptimeSec   int64        `json:"uptime_sec"`
	Mode        string       `json:"mode"`
	UDPDest     string       `json:"udp_dest,omitempty"`
	Interval    string       `json:"interval,omitempty"`
	Format      string       `json:"format,omitempty"`
	SentTotal   uint64       `json:"sent_total"`
	SendErrors  uint64       `json:"send_errors"`
	LastSendUTC string       `json:"last_send_utc,omitempty"`
	GPS         gps.Snapshot `json:"gps"`
	PPS         pps.Snapshot `json:"pps"`
}

func (s *Status) Snapshot(nowUTC time.Time) StatusSnapshot {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()
	lastSend := atomic.LoadInt64(&s.lastSendNano)

	snap := StatusSnapshot{
		Service:    "ubloxd",
		NowUTC:     nowUTC.UTC().Format(time.RFC3339Nano),
		UptimeSec:  int64(nowUTC.Sub(start).Seconds()),
		Mode:       s.mode.Load().(string),
		UDPDest:    s.udpDest.Load().(string),
		Interval:   s.interval.Load().(string),
		Format:     s.format.Load().(string),
		SentTotal:  atomic.LoadUint64(&s.sent),
		SendErrors: atomic.LoadUint64(&s.sendErrors),
	}
	if lastSend != 0 {
		snap.LastSendUTC = time.Unix(0, lastSend).UTC().Format(time.RFC3339Nano)
	}
	if s.gps != nil {
		snap.GPS = s.gps.Snapshot()
	}
	if s.pps != nil {
		snap.PPS = s.pps.Snapshot(nowUTC)
	}
	return snap
}

// health reports whether the receiver is producing fresh fixes, and why not.
func (s *Status) health() (bool, string) {
	if s.gps == nil {
		return false, "gps unavailable"
	}
	g := s.gps.Snapshot()
	switch {
	case !g.Enabled:
		return false, "gps disabled"
	case g.FixStale:
		return false, "fix stale"
	case !g.Valid:
		return false, "no fix"
	}
	return true, ""
}
