package gps

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"ubloxd/internal/nav"
	"ubloxd/internal/ubx"
)

// Config controls the GPS reader.
//
// Device may be empty to auto-detect. Baud must be a supported rate by the
// platform implementation. u-blox USB CDC ports ignore the baud rate, UART
// bridges do not.
type Config struct {
	Enable bool

	Device string
	Baud   int

	MaxPayload int

	// Configure sends a CFG-MSG for each of Messages at Rate, then polls
	// MON-VER, before reading.
	Configure bool
	Messages  []ubx.Kind
	Rate      uint8

	StaleAfter time.Duration

	// Recorder, when set, receives every raw chunk read from the device.
	Recorder ChunkRecorder
}

// ChunkRecorder persists raw receiver bytes (see internal/replay).
type ChunkRecorder interface {
	WriteChunk(now time.Time, data []byte) error
}

type Snapshot struct {
	Enabled  bool `json:"enabled"`
	Valid    bool `json:"valid"`
	FixStale bool `json:"fix_stale"`

	Source string `json:"source,omitempty"`
	Device string `json:"device,omitempty"`
	Baud   int    `json:"baud,omitempty"`

	FixType          string   `json:"fix_type,omitempty"`
	Satellites       int      `json:"satellites"`
	SatellitesInView int      `json:"satellites_in_view,omitempty"`
	SatellitesUsed   int      `json:"satellites_used,omitempty"`
	LatDeg           float64  `json:"lat_deg,omitempty"`
	LonDeg           float64  `json:"lon_deg,omitempty"`
	AltMSLM          *float64 `json:"alt_msl_m,omitempty"`
	GroundMS         *float64 `json:"ground_speed_ms,omitempty"`
	HeadingDeg       *float64 `json:"heading_deg,omitempty"`
	HorizAccM        *float64 `json:"horiz_acc_m,omitempty"`
	VertAccM         *float64 `json:"vert_acc_m,omitempty"`
	FixAgeSec        float64  `json:"fix_age_sec,omitempty"`

	TimeUTC    string `json:"time_utc,omitempty"`
	LastFixUTC string `json:"last_fix_utc,omitempty"`

	Receiver   string   `json:"receiver,omitempty"`
	Extensions []string `json:"extensions,omitempty"`

	Stats     Stats  `json:"stats"`
	LastError string `json:"last_error,omitempty"`

	lastFixAt time.Time
	fix       nav.Fix
}

type Service struct {
	cfg Config
	log zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	last atomic.Value // Snapshot

	feedMu sync.Mutex
	dec    *Decoder
	base   Snapshot

	// mu guards the port lifecycle; it is taken before feedMu.
	mu     sync.Mutex
	closer io.Closer
}

// openSerialFn is swapped by tests.
var openSerialFn = openSerial

func New(cfg Config, logger zerolog.Logger) *Service {
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 3 * time.Second
	}
	if cfg.Rate == 0 {
		cfg.Rate = 1
	}
	s := &Service{
		cfg: cfg,
		log: logger,
		dec: NewDecoder(cfg.MaxPayload, logger),
	}
	s.base = Snapshot{Enabled: cfg.Enable, Source: "serial", Device: cfg.Device, Baud: cfg.Baud}
	s.last.Store(s.base)
	return s
}

// Start opens the serial device and begins reading. It is a no-op when the
// service is disabled or already running.
func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gps service is nil")
	}
	if !s.cfg.Enable {
		return nil
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	device := strings.TrimSpace(s.cfg.Device)
	if device == "" {
		device = autoDetectDevice()
		if device == "" {
			s.setError("gps auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found")
			return fmt.Errorf("gps auto-detect failed")
		}
	}

	baud := s.cfg.Baud
	if baud == 0 {
		baud = 9600
	}

	port, err := openSerialFn(device, baud)
	if err != nil {
		s.setError(fmt.Sprintf("gps open failed device=%s baud=%d: %v", device, baud, err))
		return err
	}
	s.closer = port

	s.feedMu.Lock()
	s.base.Device = device
	s.base.Baud = baud
	s.feedMu.Unlock()

	if s.cfg.Configure {
		if err := s.configure(port); err != nil {
			// The receiver may still be streaming what we need.
			s.setError(fmt.Sprintf("gps configure failed: %v", err))
			s.log.Warn().Err(err).Msg("gps configure failed")
		}
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			_ = port.Close()
		}()

		s.log.Info().Str("device", device).Int("baud", baud).Msg("gps enabled")
		if err := s.readLoop(childCtx, port); err != nil && childCtx.Err() == nil {
			s.setError(fmt.Sprintf("gps read stopped: %v", err))
			s.log.Error().Err(err).Msg("gps read stopped")
		}
	}()

	s.publish()
	return nil
}

func (s *Service) configure(w io.Writer) error {
	for _, k := range s.cfg.Messages {
		if _, err := w.Write(ubx.SetRateFrame(k, s.cfg.Rate)); err != nil {
			return fmt.Errorf("enable %s: %w", k, err)
		}
	}
	if _, err := w.Write(ubx.PollFrame(ubx.KindMonVer)); err != nil {
		return fmt.Errorf("poll %s: %w", ubx.KindMonVer, err)
	}
	return nil
}

// readLoop feeds chunks from r until ctx is done or r fails. A read that
// returns no data and no error (termios VTIME expiry) just loops.
func (s *Service) readLoop(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			s.FeedChunk(time.Now().UTC(), buf[:n])
		}
		if err != nil {
			return err
		}
	}
}

// FeedChunk pushes raw bytes through the decoder, as if read from the
// device. Replay uses it directly.
func (s *Service) FeedChunk(now time.Time, data []byte) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	if s.cfg.Recorder != nil {
		if err := s.cfg.Recorder.WriteChunk(now, data); err != nil {
			s.log.Warn().Err(err).Msg("capture write failed")
		}
	}
	s.dec.Feed(now, data)
	s.publishLocked()
}

// SetSource labels the snapshot, e.g. "replay".
func (s *Service) SetSource(src string) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	s.base.Source = src
	s.base.Enabled = true
	s.publishLocked()
}

func (s *Service) publish() {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	s.publishLocked()
}

func (s *Service) publishLocked() {
	snap := s.base
	s.dec.fill(&snap)
	// Decoder faults are more recent than device errors.
	if snap.LastError == "" {
		snap.LastError = s.base.LastError
	}
	s.last.Store(snap)
}

func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	closer := s.closer
	s.cancel = nil
	s.closer = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closer != nil {
		_ = closer.Close()
	}
	s.wg.Wait()
}

// Snapshot returns the latest state with staleness computed against the
// wall clock.
func (s *Service) Snapshot() Snapshot {
	return s.SnapshotAt(time.Now().UTC())
}

func (s *Service) SnapshotAt(now time.Time) Snapshot {
	if s == nil {
		return Snapshot{}
	}
	v := s.last.Load()
	if v == nil {
		return Snapshot{}
	}
	snap := v.(Snapshot)
	if !snap.lastFixAt.IsZero() {
		age := now.Sub(snap.lastFixAt)
		if age < 0 {
			age = 0
		}
		snap.FixAgeSec = age.Seconds()
		snap.FixStale = age > s.cfg.StaleAfter
		if snap.FixStale {
			snap.Valid = false
		}
	}
	return snap
}

// Fix returns the latest fix and whether one has been decoded and is not
// stale. It matches udp.FixSource.
func (s *Service) Fix() (nav.Fix, bool) {
	snap := s.Snapshot()
	if snap.lastFixAt.IsZero() || snap.FixStale || !snap.fix.HavePosition {
		return nav.Fix{}, false
	}
	return snap.fix, true
}

func (s *Service) setError(msg string) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	// Do not force Valid=false here; transient errors shouldn't flip validity.
	s.base.LastError = msg
	s.publishLocked()
}

func autoDetectDevice() string {
	// Keep it intentionally tiny and predictable.
	candidates := []string{}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyACM%d", i))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyUSB%d", i))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
