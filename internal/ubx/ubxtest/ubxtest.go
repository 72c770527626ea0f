// Package ubxtest builds UBX payloads and frames for tests.
package ubxtest

import (
	"encoding/binary"

	"ubloxd/internal/ubx"
)

// PVT lists the NAV-PVT fields tests usually care about. Unset fields encode
// as zero.
type PVT struct {
	ITOW                         uint32
	Year                         uint16
	Month, Day, Hour, Min, Sec   uint8
	Valid                        uint8
	Nano                         int32
	FixType, Flags, NumSV        uint8
	Lon, Lat                     int32 // 1e-7 deg
	Height, HeightMSL            int32 // mm
	HAcc, VAcc                   uint32
	VelN, VelE, VelD, GroundMMps int32
	HeadMot                      int32 // 1e-5 deg
	PDOP                         uint16
}

func (p PVT) Payload() []byte {
	b := make([]byte, 92)
	le := binary.LittleEndian
	le.PutUint32(b[0:], p.ITOW)
	le.PutUint16(b[4:], p.Year)
	b[6], b[7], b[8], b[9], b[10], b[11] = p.Month, p.Day, p.Hour, p.Min, p.Sec, p.Valid
	le.PutUint32(b[16:], uint32(p.Nano))
	b[20], b[21], b[23] = p.FixType, p.Flags, p.NumSV
	le.PutUint32(b[24:], uint32(p.Lon))
	le.PutUint32(b[28:], uint32(p.Lat))
	le.PutUint32(b[32:], uint32(p.Height))
	le.PutUint32(b[36:], uint32(p.HeightMSL))
	le.PutUint32(b[40:], p.HAcc)
	le.PutUint32(b[44:], p.VAcc)
	le.PutUint32(b[48:], uint32(p.VelN))
	le.PutUint32(b[52:], uint32(p.VelE))
	le.PutUint32(b[56:], uint32(p.VelD))
	le.PutUint32(b[60:], uint32(p.GroundMMps))
	le.PutUint32(b[64:], uint32(p.HeadMot))
	le.PutUint16(b[76:], p.PDOP)
	return b
}

// PosLLH lists the NAV-POSLLH fields.
type PosLLH struct {
	ITOW              uint32
	Lon, Lat          int32
	Height, HeightMSL int32
	HAcc, VAcc        uint32
}

func (p PosLLH) Payload() []byte {
	b := make([]byte, 28)
	le := binary.LittleEndian
	le.PutUint32(b[0:], p.ITOW)
	le.PutUint32(b[4:], uint32(p.Lon))
	le.PutUint32(b[8:], uint32(p.Lat))
	le.PutUint32(b[12:], uint32(p.Height))
	le.PutUint32(b[16:], uint32(p.HeightMSL))
	le.PutUint32(b[20:], p.HAcc)
	le.PutUint32(b[24:], p.VAcc)
	return b
}

// VelNED lists the NAV-VELNED fields. Speeds are cm/s.
type VelNED struct {
	ITOW             uint32
	VelN, VelE, VelD int32
	Speed, GSpeed    uint32
	Heading          int32 // 1e-5 deg
	SAcc, CAcc       uint32
}

func (p VelNED) Payload() []byte {
	b := make([]byte, 36)
	le := binary.LittleEndian
	le.PutUint32(b[0:], p.ITOW)
	le.PutUint32(b[4:], uint32(p.VelN))
	le.PutUint32(b[8:], uint32(p.VelE))
	le.PutUint32(b[12:], uint32(p.VelD))
	le.PutUint32(b[16:], p.Speed)
	le.PutUint32(b[20:], p.GSpeed)
	le.PutUint32(b[24:], uint32(p.Heading))
	le.PutUint32(b[28:], p.SAcc)
	le.PutUint32(b[32:], p.CAcc)
	return b
}

// Frame encodes a complete wire frame and panics on oversized payloads.
func Frame(k ubx.Kind, payload []byte) []byte {
	b, err := ubx.Encode(k.Class(), k.ID(), payload)
	if err != nil {
		panic(err)
	}
	return b
}
