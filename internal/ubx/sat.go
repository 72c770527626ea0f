package ubx

var navSatLength = RepeatedLength(8, 12)

// NavSat is NAV-SAT: an 8-byte header followed by one 12-byte block per
// tracked satellite.
type NavSat struct{ b []byte }

func NewNavSat(payload []byte) (NavSat, error) {
	if err := checkLength(KindNavSat, navSatLength, payload); err != nil {
		return NavSat{}, err
	}
	return NavSat{b: payload}, nil
}

func (v NavSat) Kind() Kind      { return KindNavSat }
func (v NavSat) Payload() []byte { return v.b }

func (v NavSat) ITOW() uint32   { return u4(v.b, 0) }
func (v NavSat) Version() uint8 { return u1(v.b, 4) }

// NumSvs is the count declared in the header. Len is the count the payload
// actually holds; iterate with Len.
func (v NavSat) NumSvs() uint8 { return u1(v.b, 5) }
func (v NavSat) Len() int      { return (len(v.b) - navSatLength.Base) / navSatLength.Block }

// Sat returns block i, 0 <= i < Len().
func (v NavSat) Sat(i int) SatInfo {
	off := navSatLength.Base + i*navSatLength.Block
	return SatInfo{b: v.b[off : off+navSatLength.Block]}
}

// Each calls fn for every satellite block in order.
func (v NavSat) Each(fn func(SatInfo)) {
	for i := 0; i < v.Len(); i++ {
		fn(v.Sat(i))
	}
}

// SatInfo is one NAV-SAT repeated block.
type SatInfo struct{ b []byte }

func (s SatInfo) GnssID() uint8 { return u1(s.b, 0) }
func (s SatInfo) SvID() uint8   { return u1(s.b, 1) }

// CNo is the carrier to noise ratio in dBHz.
func (s SatInfo) CNo() uint8 { return u1(s.b, 2) }

// Elevation and Azimuth are whole degrees.
func (s SatInfo) Elevation() int8 { return i1(s.b, 3) }
func (s SatInfo) Azimuth() int16  { return i2(s.b, 4) }

// PseudorangeResidual is in 0.1 m.
func (s SatInfo) PseudorangeResidual() int16 { return i2(s.b, 6) }
func (s SatInfo) Flags() uint32              { return u4(s.b, 8) }

// QualityIndicator is 0..7, from flags bits 0-2.
func (s SatInfo) QualityIndicator() uint8 { return uint8(s.Flags() & 0x07) }

// Used reports whether the satellite is used in the navigation solution.
func (s SatInfo) Used() bool { return s.Flags()&0x08 != 0 }
