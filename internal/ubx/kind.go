package ubx

import "fmt"

// Kind is the (class, id) type tag packed as class<<8 | id.
type Kind uint16

func NewKind(class, id byte) Kind { return Kind(uint16(class)<<8 | uint16(id)) }

func (k Kind) Class() byte { return byte(k >> 8) }
func (k Kind) ID() byte    { return byte(k) }

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UBX-0x%02X-0x%02X", k.Class(), k.ID())
}

const (
	ClassNAV = 0x01
	ClassACK = 0x05
	ClassCFG = 0x06
	ClassMON = 0x0A
)

const (
	KindNavPosLLH Kind = ClassNAV<<8 | 0x02
	KindNavPVT    Kind = ClassNAV<<8 | 0x07
	KindNavVelNED Kind = ClassNAV<<8 | 0x12
	KindNavSat    Kind = ClassNAV<<8 | 0x35
	KindAckNak    Kind = ClassACK<<8 | 0x00
	KindAckAck    Kind = ClassACK<<8 | 0x01
	KindCfgMsg    Kind = ClassCFG<<8 | 0x01
	KindMonVer    Kind = ClassMON<<8 | 0x04
)

var kindNames = map[Kind]string{
	KindNavPosLLH: "NAV-POSLLH",
	KindNavPVT:    "NAV-PVT",
	KindNavVelNED: "NAV-VELNED",
	KindNavSat:    "NAV-SAT",
	KindAckNak:    "ACK-NAK",
	KindAckAck:    "ACK-ACK",
	KindCfgMsg:    "CFG-MSG",
	KindMonVer:    "MON-VER",
}

// ParseKind accepts a known name ("NAV-PVT") or a "0xCCII" hex tag.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	var v uint16
	if _, err := fmt.Sscanf(s, "0x%04x", &v); err == nil {
		return Kind(v), nil
	}
	return 0, fmt.Errorf("ubx: unknown message kind %q", s)
}
