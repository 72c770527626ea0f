package units

// Wire scale factors.
const (
	CoordScale   = 1e-7 // degrees per raw unit
	HeightScale  = 1e-3 // meters per millimeter
	SpeedScale   = 1e-3 // meters/second per mm/s
	HeadingScale = 1e-5 // degrees per raw unit
)

// Both representations are compiled into every build; the build tag only
// decides which one the exported names resolve to.

func floatCoord(raw int32) float64             { return float64(raw) * CoordScale }
func floatHeightMillimeters(raw int32) float64 { return float64(raw) * HeightScale }
func floatSpeedCentimeters(raw uint32) float64 { return float64(raw) * 1e-2 }
func floatSpeedMillimeters(raw int32) float64  { return float64(raw) * SpeedScale }
func floatHeading(raw int32) float64           { return float64(raw) * HeadingScale }
func fixedCoord(raw int32) int32               { return raw }
func fixedHeightMillimeters(raw int32) int32   { return raw }
func fixedSpeedCentimeters(raw uint32) int64   { return int64(raw) * 10 }
func fixedSpeedMillimeters(raw int32) int64    { return int64(raw) }
func fixedHeading(raw int32) int32             { return raw }
