// Package units holds the numeric representation shared by every scaled
// accessor and domain value.
//
// The default build uses float64 values in natural units (degrees, meters,
// meters/second). Building with the "fixedpoint" tag switches every type to
// scaled integers:
//
//	Coord    int32, 1e-7 degrees
//	Height   int32, millimeters
//	Speed    int64, millimeters/second
//	Heading  int32, 1e-5 degrees
//
// Function signatures are identical in both builds, so calling code compiles
// unchanged and only observes different numeric types.
package units
