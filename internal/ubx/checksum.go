package ubx

// Checksum computes the 8-bit Fletcher pair over data. For a frame, data is
// class, id, the two length bytes and the payload; sync bytes are excluded.
func Checksum(data []byte) (ckA, ckB byte) {
	for _, b := range data {
		ckA += b
		ckB += ckA
	}
	return ckA, ckB
}

// VerifyChecksum reports whether the checksum over data equals the trailer.
func VerifyChecksum(data []byte, ckA, ckB byte) bool {
	a, b := Checksum(data)
	return a == ckA && b == ckB
}
