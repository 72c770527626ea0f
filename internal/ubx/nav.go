package ubx

import "ubloxd/internal/units"

var (
	navPosLLHLength = FixedLength(28)
	navVelNEDLength = FixedLength(36)
	navPVTLength    = FixedLength(92)
)

// NavPosLLH is NAV-POSLLH, the geodetic position solution.
type NavPosLLH struct{ b []byte }

func NewNavPosLLH(payload []byte) (NavPosLLH, error) {
	if err := checkLength(KindNavPosLLH, navPosLLHLength, payload); err != nil {
		return NavPosLLH{}, err
	}
	return NavPosLLH{b: payload}, nil
}

func (v NavPosLLH) Kind() Kind      { return KindNavPosLLH }
func (v NavPosLLH) Payload() []byte { return v.b }

// ITOW is the GPS time of week of the navigation epoch in milliseconds.
func (v NavPosLLH) ITOW() uint32 { return u4(v.b, 0) }

// LonRaw and LatRaw are in 1e-7 degrees.
func (v NavPosLLH) LonRaw() int32 { return i4(v.b, 4) }
func (v NavPosLLH) LatRaw() int32 { return i4(v.b, 8) }

func (v NavPosLLH) LonDegrees() units.Coord { return units.CoordFromRaw(v.LonRaw()) }
func (v NavPosLLH) LatDegrees() units.Coord { return units.CoordFromRaw(v.LatRaw()) }

// HeightEllipsoid is the height above the WGS84 ellipsoid.
func (v NavPosLLH) HeightEllipsoid() units.Height { return units.HeightFromMillimeters(i4(v.b, 12)) }

// HeightMSL is the height above mean sea level.
func (v NavPosLLH) HeightMSL() units.Height { return units.HeightFromMillimeters(i4(v.b, 16)) }

// HorizontalAccuracy and VerticalAccuracy are estimates in millimeters.
func (v NavPosLLH) HorizontalAccuracy() uint32 { return u4(v.b, 20) }
func (v NavPosLLH) VerticalAccuracy() uint32   { return u4(v.b, 24) }

// NavVelNED is NAV-VELNED, the velocity solution in the local NED frame.
type NavVelNED struct{ b []byte }

func NewNavVelNED(payload []byte) (NavVelNED, error) {
	if err := checkLength(KindNavVelNED, navVelNEDLength, payload); err != nil {
		return NavVelNED{}, err
	}
	return NavVelNED{b: payload}, nil
}

func (v NavVelNED) Kind() Kind      { return KindNavVelNED }
func (v NavVelNED) Payload() []byte { return v.b }

func (v NavVelNED) ITOW() uint32 { return u4(v.b, 0) }

// VelN, VelE and VelD are in cm/s.
func (v NavVelNED) VelN() int32 { return i4(v.b, 4) }
func (v NavVelNED) VelE() int32 { return i4(v.b, 8) }
func (v NavVelNED) VelD() int32 { return i4(v.b, 12) }

func (v NavVelNED) Speed3D() units.Speed     { return units.SpeedFromCentimeters(u4(v.b, 16)) }
func (v NavVelNED) GroundSpeed() units.Speed { return units.SpeedFromCentimeters(u4(v.b, 20)) }

// HeadingDegrees is the 2D heading of motion.
func (v NavVelNED) HeadingDegrees() units.Heading { return units.HeadingFromRaw(i4(v.b, 24)) }

// SpeedAccuracy is in cm/s, HeadingAccuracy in 1e-5 degrees.
func (v NavVelNED) SpeedAccuracy() uint32   { return u4(v.b, 28) }
func (v NavVelNED) HeadingAccuracy() uint32 { return u4(v.b, 32) }

// NavPVT is NAV-PVT, the combined position, velocity and time solution.
type NavPVT struct{ b []byte }

func NewNavPVT(payload []byte) (NavPVT, error) {
	if err := checkLength(KindNavPVT, navPVTLength, payload); err != nil {
		return NavPVT{}, err
	}
	return NavPVT{b: payload}, nil
}

func (v NavPVT) Kind() Kind      { return KindNavPVT }
func (v NavPVT) Payload() []byte { return v.b }

func (v NavPVT) ITOW() uint32 { return u4(v.b, 0) }

// UTC calendar fields as reported; they are not validated here.
func (v NavPVT) Year() uint16 { return u2(v.b, 4) }
func (v NavPVT) Month() uint8 { return u1(v.b, 6) }
func (v NavPVT) Day() uint8   { return u1(v.b, 7) }
func (v NavPVT) Hour() uint8  { return u1(v.b, 8) }
func (v NavPVT) Min() uint8   { return u1(v.b, 9) }
func (v NavPVT) Sec() uint8   { return u1(v.b, 10) }

// Validity flags (byte 11).
const (
	PVTValidDate     = 0x01
	PVTValidTime     = 0x02
	PVTFullyResolved = 0x04
	PVTValidMag      = 0x08
)

func (v NavPVT) Valid() uint8 { return u1(v.b, 11) }

// TimeAccuracy is in nanoseconds.
func (v NavPVT) TimeAccuracy() uint32 { return u4(v.b, 12) }

// Nanosecond is the signed fraction of second, -1e9..1e9.
func (v NavPVT) Nanosecond() int32 { return i4(v.b, 16) }

func (v NavPVT) FixType() uint8 { return u1(v.b, 20) }

// Fix status flags (byte 21).
const (
	PVTGnssFixOK  = 0x01
	PVTDiffSoln   = 0x02
	PVTHeadVehOK  = 0x20
	PVTCarrSolnMk = 0xC0
)

func (v NavPVT) Flags() uint8  { return u1(v.b, 21) }
func (v NavPVT) Flags2() uint8 { return u1(v.b, 22) }
func (v NavPVT) NumSV() uint8  { return u1(v.b, 23) }

func (v NavPVT) LonRaw() int32 { return i4(v.b, 24) }
func (v NavPVT) LatRaw() int32 { return i4(v.b, 28) }

func (v NavPVT) LonDegrees() units.Coord { return units.CoordFromRaw(v.LonRaw()) }
func (v NavPVT) LatDegrees() units.Coord { return units.CoordFromRaw(v.LatRaw()) }

func (v NavPVT) HeightEllipsoid() units.Height { return units.HeightFromMillimeters(i4(v.b, 32)) }
func (v NavPVT) HeightMSL() units.Height       { return units.HeightFromMillimeters(i4(v.b, 36)) }

// HorizontalAccuracy and VerticalAccuracy are in millimeters.
func (v NavPVT) HorizontalAccuracy() uint32 { return u4(v.b, 40) }
func (v NavPVT) VerticalAccuracy() uint32   { return u4(v.b, 44) }

// VelN, VelE and VelD are in mm/s.
func (v NavPVT) VelN() int32 { return i4(v.b, 48) }
func (v NavPVT) VelE() int32 { return i4(v.b, 52) }
func (v NavPVT) VelD() int32 { return i4(v.b, 56) }

func (v NavPVT) GroundSpeed() units.Speed { return units.SpeedFromMillimeters(i4(v.b, 60)) }

// HeadingDegrees is the 2D heading of motion.
func (v NavPVT) HeadingDegrees() units.Heading { return units.HeadingFromRaw(i4(v.b, 64)) }

// SpeedAccuracy is in mm/s, HeadingAccuracy in 1e-5 degrees.
func (v NavPVT) SpeedAccuracy() uint32   { return u4(v.b, 68) }
func (v NavPVT) HeadingAccuracy() uint32 { return u4(v.b, 72) }

// PDOP is position dilution of precision scaled by 100.
func (v NavPVT) PDOP() uint16 { return u2(v.b, 76) }

// HeadingOfVehicle is only meaningful when PVTHeadVehOK is set.
func (v NavPVT) HeadingOfVehicle() units.Heading { return units.HeadingFromRaw(i4(v.b, 84)) }

// MagneticDeclination is in 1e-2 degrees, valid when PVTValidMag is set.
func (v NavPVT) MagneticDeclination() int16 { return i2(v.b, 88) }
