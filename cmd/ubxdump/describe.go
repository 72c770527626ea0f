package main

import (
	"fmt"
	"sort"
	"strings"

	"ubloxd/internal/nav"
	"ubloxd/internal/ubx"
)

// describe renders one decoded message on a single line.
func describe(name string, v ubx.View) string {
	var b strings.Builder
	b.WriteString(name)
	switch m := v.(type) {
	case ubx.NavPVT:
		fmt.Fprintf(&b, " itow=%d", m.ITOW())
		if ts, err := nav.DateTime(m); err == nil {
			fmt.Fprintf(&b, " time=%s", ts.Format("2006-01-02T15:04:05.000Z"))
		} else {
			fmt.Fprintf(&b, " time=invalid(%v)", err)
		}
		fmt.Fprintf(&b, " fix=%s ok=%t sats=%d %s %s hacc=%dmm",
			nav.FixType(m.FixType()), m.Flags()&ubx.PVTGnssFixOK != 0, m.NumSV(),
			nav.NewPosition(m), nav.NewVelocity(m), m.HorizontalAccuracy())
	case ubx.NavPosLLH:
		fmt.Fprintf(&b, " itow=%d %s hacc=%dmm vacc=%dmm",
			m.ITOW(), nav.NewPosition(m), m.HorizontalAccuracy(), m.VerticalAccuracy())
	case ubx.NavVelNED:
		fmt.Fprintf(&b, " itow=%d %s ned=%d,%d,%dcm/s",
			m.ITOW(), nav.NewVelocity(m), m.VelN(), m.VelE(), m.VelD())
	case ubx.NavSat:
		used := 0
		m.Each(func(s ubx.SatInfo) {
			if s.Used() {
				used++
			}
		})
		fmt.Fprintf(&b, " itow=%d sats=%d used=%d", m.ITOW(), m.Len(), used)
	case ubx.MonVer:
		fmt.Fprintf(&b, " sw=%q hw=%q", m.SoftwareVersion(), m.HardwareVersion())
		if ext := m.Extensions(); len(ext) > 0 {
			fmt.Fprintf(&b, " ext=%s", strings.Join(ext, ";"))
		}
	case ubx.Ack:
		fmt.Fprintf(&b, " for=%s", m.Target())
	default:
		fmt.Fprintf(&b, " len=%d", len(v.Payload()))
	}
	return b.String()
}

func sortedKinds(m map[ubx.Kind]uint64) []ubx.Kind {
	out := make([]ubx.Kind, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
