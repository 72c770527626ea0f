//go:build fixedpoint

package units

// FixedPoint reports whether this build uses scaled integers.
const FixedPoint = true

// Coord is a latitude or longitude in 1e-7 degrees.
type Coord = int32

// Height is an altitude in millimeters.
type Height = int32

// Speed is a speed in millimeters/second. int64 holds the cm/s wire range
// after scaling without overflow.
type Speed = int64

// Heading is a direction in 1e-5 degrees.
type Heading = int32

// CoordFromRaw keeps the 1e-7 degree wire value.
func CoordFromRaw(raw int32) Coord { return fixedCoord(raw) }

// HeightFromMillimeters keeps the millimeter wire value.
func HeightFromMillimeters(raw int32) Height { return fixedHeightMillimeters(raw) }

// SpeedFromCentimeters rescales a cm/s wire value to mm/s.
func SpeedFromCentimeters(raw uint32) Speed { return fixedSpeedCentimeters(raw) }

// SpeedFromMillimeters keeps the mm/s wire value.
func SpeedFromMillimeters(raw int32) Speed { return fixedSpeedMillimeters(raw) }

// HeadingFromRaw keeps the 1e-5 degree wire value.
func HeadingFromRaw(raw int32) Heading { return fixedHeading(raw) }

// The projections below are for presentation only (status pages, logs).

func CoordDegrees(c Coord) float64         { return float64(c) * CoordScale }
func HeightMeters(h Height) float64        { return float64(h) * HeightScale }
func SpeedMetersPerSecond(s Speed) float64 { return float64(s) * SpeedScale }
func HeadingDegrees(h Heading) float64     { return float64(h) * HeadingScale }
