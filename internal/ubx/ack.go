package ubx

var ackLength = FixedLength(2)

// Ack is ACK-ACK or ACK-NAK, the receiver's answer to a CFG request.
type Ack struct {
	kind Kind
	b    []byte
}

// NewAck builds an Ack view; k must be KindAckAck or KindAckNak.
func NewAck(k Kind, payload []byte) (Ack, error) {
	if k != KindAckAck && k != KindAckNak {
		return Ack{}, &FrameError{Kind: k, Length: len(payload), Err: ErrUnknownKind}
	}
	if err := checkLength(k, ackLength, payload); err != nil {
		return Ack{}, err
	}
	return Ack{kind: k, b: payload}, nil
}

func (v Ack) Kind() Kind      { return v.kind }
func (v Ack) Payload() []byte { return v.b }

// Acked reports whether this is ACK-ACK.
func (v Ack) Acked() bool { return v.kind == KindAckAck }

// Target is the kind of the request being answered.
func (v Ack) Target() Kind { return NewKind(v.b[0], v.b[1]) }
