package ubx

import "encoding/binary"

// Little-endian field readers. Callers guarantee the offsets are in range;
// view constructors check the payload length once up front.

func u1(b []byte, off int) uint8  { return b[off] }
func i1(b []byte, off int) int8   { return int8(b[off]) }
func u2(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off:]) }
func i2(b []byte, off int) int16  { return int16(binary.LittleEndian.Uint16(b[off:])) }
func u4(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
func i4(b []byte, off int) int32  { return int32(binary.LittleEndian.Uint32(b[off:])) }

// cstring returns the NUL-terminated string stored in a fixed-width field.
func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
