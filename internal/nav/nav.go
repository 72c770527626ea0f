// Package nav turns decoded UBX views into owned domain values: position,
// velocity and a validated UTC timestamp.
//
// Values here hold no reference to frame buffers and can be retained or sent
// across goroutines freely.
package nav

import (
	"errors"
	"fmt"
	"time"

	"ubloxd/internal/units"
)

var (
	ErrInvalidDate        = errors.New("nav: invalid date")
	ErrInvalidTime        = errors.New("nav: invalid time")
	ErrInvalidNanoseconds = errors.New("nav: invalid nanoseconds")
)

// PositionSource is satisfied by NAV-POSLLH and NAV-PVT views.
type PositionSource interface {
	LonDegrees() units.Coord
	LatDegrees() units.Coord
	HeightMSL() units.Height
}

// VelocitySource is satisfied by NAV-VELNED and NAV-PVT views.
type VelocitySource interface {
	GroundSpeed() units.Speed
	HeadingDegrees() units.Heading
}

// DateTimeSource is satisfied by NAV-PVT views.
type DateTimeSource interface {
	Year() uint16
	Month() uint8
	Day() uint8
	Hour() uint8
	Min() uint8
	Sec() uint8
	Nanosecond() int32
}

// Position is a geodetic position; Alt is height above mean sea level.
type Position struct {
	Lon units.Coord
	Lat units.Coord
	Alt units.Height
}

func NewPosition(src PositionSource) Position {
	return Position{
		Lon: src.LonDegrees(),
		Lat: src.LatDegrees(),
		Alt: src.HeightMSL(),
	}
}

func (p Position) String() string {
	return fmt.Sprintf("lat=%.7f lon=%.7f alt=%.3fm",
		units.CoordDegrees(p.Lat), units.CoordDegrees(p.Lon), units.HeightMeters(p.Alt))
}

// Velocity is ground speed and heading of motion.
type Velocity struct {
	Speed   units.Speed
	Heading units.Heading
}

func NewVelocity(src VelocitySource) Velocity {
	return Velocity{
		Speed:   src.GroundSpeed(),
		Heading: src.HeadingDegrees(),
	}
}

func (v Velocity) String() string {
	return fmt.Sprintf("gs=%.3fm/s hdg=%.5f", units.SpeedMetersPerSecond(v.Speed), units.HeadingDegrees(v.Heading))
}

const nanosPerSecond = int64(time.Second)

// DateTime assembles a UTC instant from the calendar fields of src.
//
// Checks run in order (date, time of day, nanosecond magnitude) and the first
// failure is returned. Values are never normalized: 31 April is an error, not
// 1 May. The nanosecond offset may be negative and is added as a signed
// duration.
func DateTime(src DateTimeSource) (time.Time, error) {
	year, month, day := int(src.Year()), int(src.Month()), int(src.Day())
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}

	hour, minute, sec := int(src.Hour()), int(src.Min()), int(src.Sec())
	if hour >= 24 || minute >= 60 || sec >= 60 {
		return time.Time{}, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidTime, hour, minute, sec)
	}

	nano := int64(src.Nanosecond())
	if abs64(nano) >= nanosPerSecond {
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidNanoseconds, nano)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
	return t.Add(time.Duration(nano)), nil
}

func daysIn(year int, m time.Month) int {
	switch m {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if isLeap(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
