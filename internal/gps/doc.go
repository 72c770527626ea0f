// Package gps runs a u-blox receiver speaking binary UBX over a USB serial
// port.
//
// It is intentionally small:
// - Optionally enable NAV-PVT (or other NAV messages) with CFG-MSG on start
// - Scan the byte stream for UBX frames, ignoring interleaved NMEA
// - Fold NAV-PVT / NAV-POSLLH / NAV-VELNED into a running fix
// - Provide a snapshot for the status API and the UDP publisher
package gps
