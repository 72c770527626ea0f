package ubx

var monVerLength = RepeatedLength(40, 30)

// MonVer is MON-VER: receiver software and hardware versions followed by
// zero or more 30-byte extension strings.
type MonVer struct{ b []byte }

func NewMonVer(payload []byte) (MonVer, error) {
	if err := checkLength(KindMonVer, monVerLength, payload); err != nil {
		return MonVer{}, err
	}
	return MonVer{b: payload}, nil
}

func (v MonVer) Kind() Kind      { return KindMonVer }
func (v MonVer) Payload() []byte { return v.b }

func (v MonVer) SoftwareVersion() string { return cstring(v.b[0:30]) }
func (v MonVer) HardwareVersion() string { return cstring(v.b[30:40]) }

// Extensions returns the extension strings, e.g. "PROTVER=18.00".
func (v MonVer) Extensions() []string {
	n := (len(v.b) - monVerLength.Base) / monVerLength.Block
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		off := monVerLength.Base + i*monVerLength.Block
		out = append(out, cstring(v.b[off:off+monVerLength.Block]))
	}
	return out
}
