package ubx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode_Layout(t *testing.T) {
	got, err := Encode(0x0A, 0x04, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0xB5, 0x62, 0x0A, 0x04, 0x00, 0x00, 0x0E, 0x34}, got)
}

func TestEncode_RejectsOversizedPayload(t *testing.T) {
	_, err := Encode(0x01, 0x02, make([]byte, MaxWirePayload+1))
	require.Error(t, err)
}

func TestUnframe_RoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	b, err := Encode(0x01, 0x02, payload)
	require.NoError(t, err)

	f, err := Unframe(b)
	require.NoError(t, err)
	require.Equal(t, KindNavPosLLH, f.Kind())
	require.Equal(t, payload, f.Payload)
}

func TestUnframe_Faults(t *testing.T) {
	good, err := Encode(0x01, 0x02, []byte{9, 9})
	require.NoError(t, err)

	badCK := append([]byte(nil), good...)
	badCK[len(badCK)-1] ^= 0xFF

	badSync := append([]byte(nil), good...)
	badSync[0] = 0x00

	cases := []struct {
		name string
		in   []byte
		want error
	}{
		{name: "Short", in: good[:5], want: ErrFraming},
		{name: "Sync", in: badSync, want: ErrFraming},
		{name: "Truncated", in: good[:len(good)-1], want: ErrFraming},
		{name: "Checksum", in: badCK, want: ErrChecksum},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unframe(tc.in)
			require.ErrorIs(t, err, tc.want)
			var fe *FrameError
			require.True(t, errors.As(err, &fe))
		})
	}
}

func TestSetRateFrame(t *testing.T) {
	f, err := Unframe(SetRateFrame(KindNavPVT, 1))
	require.NoError(t, err)
	require.Equal(t, KindCfgMsg, f.Kind())
	require.Equal(t, []byte{0x01, 0x07, 0x01}, f.Payload)
}

func TestPollFrame(t *testing.T) {
	f, err := Unframe(PollFrame(KindMonVer))
	require.NoError(t, err)
	require.Equal(t, KindMonVer, f.Kind())
	require.Empty(t, f.Payload)
}

func TestKind_StringAndParse(t *testing.T) {
	require.Equal(t, "NAV-PVT", KindNavPVT.String())
	require.Equal(t, "UBX-0x27-0x03", NewKind(0x27, 0x03).String())

	k, err := ParseKind("NAV-VELNED")
	require.NoError(t, err)
	require.Equal(t, KindNavVelNED, k)

	k, err = ParseKind("0x0135")
	require.NoError(t, err)
	require.Equal(t, KindNavSat, k)

	_, err = ParseKind("bogus")
	require.Error(t, err)
}
