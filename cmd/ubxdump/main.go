// Command ubxdump prints the UBX messages found in a raw receiver capture.
//
// Input is a binary dump (file argument or stdin) or, with -capture, a
// ubloxd record log. NMEA and other noise between frames is skipped.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"ubloxd/internal/logging"
	"ubloxd/internal/replay"
	"ubloxd/internal/ubx"
)

func main() {
	var (
		capture    bool
		maxPayload int
		quiet      bool
	)
	flag.BoolVar(&capture, "capture", false, "Input is a ubloxd record log instead of raw bytes")
	flag.IntVar(&maxPayload, "max-payload", ubx.DefaultMaxPayload, "Largest accepted payload in bytes")
	flag.BoolVar(&quiet, "q", false, "Only print the summary")
	flag.Parse()

	logging.Init("ubxdump", logging.Config{Level: "warn"})

	in := io.Reader(os.Stdin)
	name := "stdin"
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal().Err(err).Msg("open input")
		}
		defer f.Close()
		in, name = f, flag.Arg(0)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	d := newDumper(out, maxPayload, quiet)
	var (
		err     error
		records []replay.Record
	)
	if capture {
		records, err = replay.NewReader(in).ReadAll()
		for _, r := range records {
			if r.Data != nil {
				d.Feed(r.Data)
			}
		}
	} else {
		_, err = io.Copy(d, in)
	}
	if err != nil {
		log.Error().Err(err).Str("input", name).Msg("read failed")
	}
	d.Summary()
	if capture {
		summarizeCapture(records).print(out)
	}
	if err != nil {
		out.Flush()
		os.Exit(1)
	}
}

// dumper is an io.Writer that prints each frame as it completes.
type dumper struct {
	out   io.Writer
	sc    *ubx.Scanner
	reg   *ubx.Registry
	quiet bool

	counts     map[ubx.Kind]uint64
	decodeErrs uint64
}

func newDumper(out io.Writer, maxPayload int, quiet bool) *dumper {
	return &dumper{
		out:    out,
		sc:     ubx.NewScanner(ubx.WithMaxPayload(maxPayload)),
		reg:    ubx.NewRegistry(),
		quiet:  quiet,
		counts: make(map[ubx.Kind]uint64),
	}
}

func (d *dumper) Write(p []byte) (int, error) {
	d.Feed(p)
	return len(p), nil
}

func (d *dumper) Feed(p []byte) {
	_, _ = d.sc.Write(p)
	d.sc.Each(d.frame, func(err error) {
		if !d.quiet {
			fmt.Fprintf(d.out, "! %v\n", err)
		}
	})
}

func (d *dumper) frame(f ubx.Frame) {
	d.counts[f.Kind()]++
	v, err := d.reg.Decode(f)
	if err != nil {
		d.decodeErrs++
		if !d.quiet {
			fmt.Fprintf(d.out, "%s len=%d: %v\n", d.reg.Name(f.Kind()), len(f.Payload), err)
		}
		return
	}
	if !d.quiet {
		fmt.Fprintln(d.out, describe(d.reg.Name(f.Kind()), v))
	}
}

func (d *dumper) Summary() {
	st := d.sc.Stats()
	fmt.Fprintf(d.out, "frames=%d checksum_errors=%d framing_errors=%d discarded_bytes=%d decode_errors=%d\n",
		st.Frames, st.ChecksumErrors, st.FramingErrors, st.DiscardedBytes, d.decodeErrs)
	for _, k := range sortedKinds(d.counts) {
		fmt.Fprintf(d.out, "  %-12s %d\n", d.reg.Name(k), d.counts[k])
	}
}
