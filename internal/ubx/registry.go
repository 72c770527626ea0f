package ubx

import (
	"fmt"
	"sort"
)

// View is a typed, zero-copy decoder over one message kind's payload.
type View interface {
	Kind() Kind
	Payload() []byte
}

// LengthRule is a payload length contract: Base bytes followed by any number
// of Block-sized repeats. Block == 0 means a fixed length.
type LengthRule struct {
	Base  int
	Block int
}

func FixedLength(n int) LengthRule              { return LengthRule{Base: n} }
func RepeatedLength(base, block int) LengthRule { return LengthRule{Base: base, Block: block} }

// Valid reports whether n satisfies the rule.
func (r LengthRule) Valid(n int) bool {
	if r.Block <= 0 {
		return n == r.Base
	}
	return n >= r.Base && (n-r.Base)%r.Block == 0
}

func (r LengthRule) String() string {
	if r.Block <= 0 {
		return fmt.Sprintf("%d", r.Base)
	}
	return fmt.Sprintf("%d+%dN", r.Base, r.Block)
}

// checkLength wraps ErrLengthMismatch for constructors.
func checkLength(k Kind, r LengthRule, payload []byte) error {
	if r.Valid(len(payload)) {
		return nil
	}
	return &FrameError{
		Kind:   k,
		Length: len(payload),
		Err:    fmt.Errorf("%w: want %s", ErrLengthMismatch, r),
	}
}

// Constructor builds a view over an already length-checked payload.
type Constructor func(payload []byte) View

type registryEntry struct {
	name string
	rule LengthRule
	ctor Constructor
}

// Registry maps message kinds to view constructors. Populate it before
// sharing; lookups are read-only and safe for concurrent use.
type Registry struct {
	entries map[Kind]registryEntry
}

// NewRegistry returns a registry with every view this package implements.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[Kind]registryEntry)}
	r.Register(KindNavPosLLH, "NAV-POSLLH", navPosLLHLength, func(p []byte) View { return NavPosLLH{b: p} })
	r.Register(KindNavVelNED, "NAV-VELNED", navVelNEDLength, func(p []byte) View { return NavVelNED{b: p} })
	r.Register(KindNavPVT, "NAV-PVT", navPVTLength, func(p []byte) View { return NavPVT{b: p} })
	r.Register(KindNavSat, "NAV-SAT", navSatLength, func(p []byte) View { return NavSat{b: p} })
	r.Register(KindMonVer, "MON-VER", monVerLength, func(p []byte) View { return MonVer{b: p} })
	r.Register(KindAckAck, "ACK-ACK", ackLength, func(p []byte) View { return Ack{kind: KindAckAck, b: p} })
	r.Register(KindAckNak, "ACK-NAK", ackLength, func(p []byte) View { return Ack{kind: KindAckNak, b: p} })
	return r
}

// Register adds or replaces the mapping for k.
func (r *Registry) Register(k Kind, name string, rule LengthRule, ctor Constructor) {
	r.entries[k] = registryEntry{name: name, rule: rule, ctor: ctor}
}

// Name returns the registered name of k, or its hex form.
func (r *Registry) Name(k Kind) string {
	if e, ok := r.entries[k]; ok {
		return e.name
	}
	return k.String()
}

// Kinds lists registered kinds in ascending order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Decode returns the typed view for f. Unmapped kinds yield ErrUnknownKind
// and payloads breaking the length contract yield ErrLengthMismatch, both
// wrapped in *FrameError.
func (r *Registry) Decode(f Frame) (View, error) {
	k := f.Kind()
	e, ok := r.entries[k]
	if !ok {
		return nil, &FrameError{Kind: k, Length: len(f.Payload), Err: ErrUnknownKind}
	}
	if err := checkLength(k, e.rule, f.Payload); err != nil {
		return nil, err
	}
	return e.ctor(f.Payload), nil
}
