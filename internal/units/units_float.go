//go:build !fixedpoint

package units

// FixedPoint reports whether this build uses scaled integers.
const FixedPoint = false

// Coord is a latitude or longitude in degrees.
type Coord = float64

// Height is an altitude in meters.
type Height = float64

// Speed is a speed in meters/second.
type Speed = float64

// Heading is a direction in degrees.
type Heading = float64

// CoordFromRaw converts a 1e-7 degree wire value.
func CoordFromRaw(raw int32) Coord { return floatCoord(raw) }

// HeightFromMillimeters converts a millimeter wire value.
func HeightFromMillimeters(raw int32) Height { return floatHeightMillimeters(raw) }

// SpeedFromCentimeters converts an unsigned cm/s wire value.
func SpeedFromCentimeters(raw uint32) Speed { return floatSpeedCentimeters(raw) }

// SpeedFromMillimeters converts a signed mm/s wire value.
func SpeedFromMillimeters(raw int32) Speed { return floatSpeedMillimeters(raw) }

// HeadingFromRaw converts a 1e-5 degree wire value.
func HeadingFromRaw(raw int32) Heading { return floatHeading(raw) }

// Float projections are the identity in this build.

func CoordDegrees(c Coord) float64         { return c }
func HeightMeters(h Height) float64        { return h }
func SpeedMetersPerSecond(s Speed) float64 { return s }
func HeadingDegrees(h Heading) float64     { return h }
