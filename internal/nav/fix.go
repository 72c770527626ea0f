package nav

import (
	"fmt"
	"time"

	"ubloxd/internal/units"
)

// FixType is the receiver's GNSS fix classification.
type FixType uint8

const (
	FixNone FixType = iota
	FixDeadReckoning
	Fix2D
	Fix3D
	FixGNSSDeadReckoning
	FixTimeOnly
)

func (f FixType) String() string {
	switch f {
	case FixNone:
		return "none"
	case FixDeadReckoning:
		return "dead-reckoning"
	case Fix2D:
		return "2d"
	case Fix3D:
		return "3d"
	case FixGNSSDeadReckoning:
		return "gnss+dr"
	case FixTimeOnly:
		return "time-only"
	default:
		return fmt.Sprintf("fix(%d)", uint8(f))
	}
}

// HasPosition reports whether the fix type carries a usable position.
func (f FixType) HasPosition() bool {
	return f == Fix2D || f == Fix3D || f == FixGNSSDeadReckoning
}

// Fix is the latest navigation state merged from several messages. Zero
// fields mean the corresponding message has not been seen yet; use the
// Have* flags to tell them apart from real zeros.
type Fix struct {
	Position     Position
	HavePosition bool
	Velocity     Velocity
	HaveVelocity bool
	Time         time.Time

	Type       FixType
	FixOK      bool
	Satellites int

	// Accuracy estimates, millimeters.
	HorizontalAccMM uint32
	VerticalAccMM   uint32

	// ITOW of the epoch that last updated the fix, milliseconds.
	ITOW uint32
}

// Valid reports whether the fix has a usable position.
func (f Fix) Valid() bool {
	return f.HavePosition && f.FixOK && f.Type.HasPosition()
}

func (f Fix) String() string {
	return fmt.Sprintf("%s fix=%s sats=%d %s %s",
		f.Time.Format(time.RFC3339Nano), f.Type, f.Satellites, f.Position, f.Velocity)
}

// HorizontalAccuracyM converts the horizontal estimate for display.
func (f Fix) HorizontalAccuracyM() float64 { return float64(f.HorizontalAccMM) / 1000 }

// VerticalAccuracyM converts the vertical estimate for display.
func (f Fix) VerticalAccuracyM() float64 { return float64(f.VerticalAccMM) / 1000 }

// LatDeg and friends are float projections for presentation layers.
func (f Fix) LatDeg() float64     { return units.CoordDegrees(f.Position.Lat) }
func (f Fix) LonDeg() float64     { return units.CoordDegrees(f.Position.Lon) }
func (f Fix) AltM() float64       { return units.HeightMeters(f.Position.Alt) }
func (f Fix) SpeedMS() float64    { return units.SpeedMetersPerSecond(f.Velocity.Speed) }
func (f Fix) HeadingDeg() float64 { return units.HeadingDegrees(f.Velocity.Heading) }
