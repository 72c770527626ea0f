package units

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randInt32(r *rand.Rand) int32 {
	return int32(r.Uint32())
}

func TestFixedMatchesFloatWithinOneUnit(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	edges := []int32{0, 1, -1, math.MaxInt32, math.MinInt32, 1800000000, -1800000000, 900000000}

	check := func(raw int32) {
		require.InDelta(t, floatCoord(raw), float64(fixedCoord(raw))*CoordScale, CoordScale, "coord raw=%d", raw)
		require.InDelta(t, floatHeightMillimeters(raw), float64(fixedHeightMillimeters(raw))*HeightScale, HeightScale, "height raw=%d", raw)
		require.InDelta(t, floatSpeedMillimeters(raw), float64(fixedSpeedMillimeters(raw))*SpeedScale, SpeedScale, "speed raw=%d", raw)
		require.InDelta(t, floatHeading(raw), float64(fixedHeading(raw))*HeadingScale, HeadingScale, "heading raw=%d", raw)
		u := uint32(raw)
		require.InDelta(t, floatSpeedCentimeters(u), float64(fixedSpeedCentimeters(u))*SpeedScale, SpeedScale, "speed cm raw=%d", u)
	}
	for _, raw := range edges {
		check(raw)
	}
	for i := 0; i < 1000; i++ {
		check(randInt32(r))
	}
}

func TestFixedSpeedCentimetersDoesNotOverflow(t *testing.T) {
	require.Equal(t, int64(math.MaxUint32)*10, fixedSpeedCentimeters(math.MaxUint32))
}

func TestProjectionRoundTrip(t *testing.T) {
	// 47.3977419 degrees, 1e-7 resolution.
	const raw = int32(473977419)
	require.InDelta(t, 47.3977419, CoordDegrees(CoordFromRaw(raw)), CoordScale)
	require.InDelta(t, 488.123, HeightMeters(HeightFromMillimeters(488123)), HeightScale)
	require.InDelta(t, 12.34, SpeedMetersPerSecond(SpeedFromCentimeters(1234)), SpeedScale)
	require.InDelta(t, 12.345, SpeedMetersPerSecond(SpeedFromMillimeters(12345)), SpeedScale)
	require.InDelta(t, 271.5, HeadingDegrees(HeadingFromRaw(27150000)), HeadingScale)
}
