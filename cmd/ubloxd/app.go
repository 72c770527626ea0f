package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ubloxd/internal/config"
	"ubloxd/internal/gps"
	"ubloxd/internal/logging"
	"ubloxd/internal/pps"
	"ubloxd/internal/replay"
	"ubloxd/internal/ubx"
	"ubloxd/internal/udp"
	"ubloxd/internal/web"
)

// app holds the wired components for one run.
type app struct {
	cfg    config.Config
	gps    *gps.Service
	pps    *pps.Tracker
	status *web.Status
	rec    *replay.Writer
	closer []func()
}

func newApp(cfg config.Config) (*app, error) {
	rt := &app{cfg: cfg}

	kinds := make([]ubx.Kind, 0, len(cfg.GPS.Messages))
	for _, m := range cfg.GPS.Messages {
		k, err := ubx.ParseKind(strings.TrimSpace(m))
		if err != nil {
			return nil, fmt.Errorf("gps.messages: %w", err)
		}
		kinds = append(kinds, k)
	}

	gcfg := gps.Config{
		Enable:     cfg.GPS.Enable,
		Device:     cfg.GPS.Device,
		Baud:       cfg.GPS.Baud,
		MaxPayload: cfg.GPS.MaxPayload,
		Configure:  cfg.GPS.Configure,
		Messages:   kinds,
		Rate:       uint8(cfg.GPS.Rate),
		StaleAfter: cfg.GPS.StaleAfter,
	}
	if cfg.Record.Enable {
		w, err := replay.CreateWriter(cfg.Record.Path)
		if err != nil {
			return nil, fmt.Errorf("record open failed: %w", err)
		}
		rt.rec = w
		gcfg.Recorder = w
		rt.closer = append(rt.closer, func() {
			if err := w.Close(); err != nil {
				log.Warn().Err(err).Msg("capture close failed")
			}
		})
	}
	rt.gps = gps.New(gcfg, logging.Component("gps"))

	if cfg.PPS.Enable {
		rt.pps = pps.NewTracker()
		line, err := pps.Open(cfg.PPS.Chip, cfg.PPS.Line, rt.pps)
		if err != nil {
			// Keep running without the timepulse; the status API shows it idle.
			log.Warn().Err(err).Str("chip", cfg.PPS.Chip).Int("line", cfg.PPS.Line).Msg("pps open failed")
		} else {
			rt.closer = append(rt.closer, func() { _ = line.Close() })
		}
	}

	rt.status = web.NewStatus(rt.gps, rt.pps)
	mode := "live"
	if cfg.Replay.Enable {
		mode = "replay"
	}
	rt.status.SetStatic(mode, cfg.Output.Dest, cfg.Output.Interval.String(), cfg.Output.Format)
	return rt, nil
}

func (rt *app) Close() {
	rt.gps.Close()
	for i := len(rt.closer) - 1; i >= 0; i-- {
		rt.closer[i]()
	}
}

// countingSender reports each datagram to the status page.
type countingSender struct {
	b      *udp.Broadcaster
	status *web.Status
}

func (c countingSender) Send(p []byte) error {
	err := c.b.Send(p)
	if err == nil {
		c.status.MarkSent(time.Now().UTC(), nil)
	}
	return err
}

func run(ctx context.Context, cfg config.Config, logs *web.LogBuffer) error {
	rt, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, 4)

	if cfg.Replay.Enable {
		records, err := replay.ReadFile(cfg.Replay.Path)
		if err != nil {
			return fmt.Errorf("replay load failed: %w", err)
		}
		rt.gps.SetSource("replay")
		log.Info().Str("path", cfg.Replay.Path).Int("records", len(records)).Float64("speed", cfg.Replay.Speed).Bool("loop", cfg.Replay.Loop).Msg("replay enabled")
		go func() {
			err := replay.Play(ctx, records, cfg.Replay.Speed, cfg.Replay.Loop, nil, func(data []byte) error {
				rt.gps.FeedChunk(time.Now().UTC(), data)
				return nil
			})
			if err != nil && ctx.Err() == nil {
				errCh <- fmt.Errorf("replay: %w", err)
				return
			}
			if ctx.Err() == nil {
				log.Info().Msg("replay finished")
			}
		}()
	} else if err := rt.gps.Start(ctx); err != nil {
		// The status API reports the error; a receiver plugged in later
		// needs a restart.
		log.Error().Err(err).Msg("gps start failed")
	}

	if rt.rec != nil {
		go flushEvery(ctx, time.Second, rt.rec)
	}

	if cfg.Output.Dest != "" {
		b, err := udp.NewBroadcaster(cfg.Output.Dest)
		if err != nil {
			return fmt.Errorf("udp broadcaster init failed: %w", err)
		}
		defer b.Close()
		log.Info().Str("dest", cfg.Output.Dest).Dur("interval", cfg.Output.Interval).Str("format", cfg.Output.Format).Msg("udp output enabled")

		go func() {
			s := countingSender{b: b, status: rt.status}
			err := udp.Run(ctx, s, cfg.Output.Interval, cfg.Output.Format, rt.gps.Fix, func(err error) {
				rt.status.MarkSent(time.Now().UTC(), err)
				log.Debug().Err(err).Msg("udp send failed")
			})
			if err != nil && ctx.Err() == nil {
				errCh <- fmt.Errorf("udp: %w", err)
			}
		}()
	}

	if cfg.Web.Listen != "" {
		log.Info().Str("listen", cfg.Web.Listen).Msg("web enabled")
		go func() {
			if err := web.Serve(ctx, cfg.Web.Listen, rt.status, logs); err != nil && ctx.Err() == nil {
				errCh <- fmt.Errorf("web: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

type flusher interface {
	Flush() error
}

func flushEvery(ctx context.Context, every time.Duration, f flusher) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := f.Flush(); err != nil {
				log.Warn().Err(err).Msg("capture flush failed")
			}
		}
	}
}
