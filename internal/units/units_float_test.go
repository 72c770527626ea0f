//go:build !fixedpoint

package units

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloatBuildScales(t *testing.T) {
	require.False(t, FixedPoint)
	require.InDelta(t, -122.3456789, CoordFromRaw(-1223456789), 1e-9)
	require.InDelta(t, -0.012, HeightFromMillimeters(-12), 1e-12)
	require.InDelta(t, 12.34, SpeedFromCentimeters(1234), 1e-12)
	require.InDelta(t, 359.99999, HeadingFromRaw(35999999), 1e-9)
}
