package nav

import "ubloxd/internal/ubx"

// Tracker folds decoded views into a running Fix. It is not safe for
// concurrent use; the goroutine driving the scanner owns it.
type Tracker struct {
	fix Fix
}

// Fix returns a copy of the current state.
func (t *Tracker) Fix() Fix { return t.fix }

// Reset forgets everything.
func (t *Tracker) Reset() { t.fix = Fix{} }

// Apply updates the fix from v and reports whether anything changed.
//
// A NAV-PVT whose calendar fields fail validation still updates position and
// velocity; the validation error is returned so the caller can count it and
// the previous timestamp is kept.
func (t *Tracker) Apply(v ubx.View) (bool, error) {
	switch m := v.(type) {
	case ubx.NavPVT:
		return true, t.applyPVT(m)
	case ubx.NavPosLLH:
		t.fix.Position = NewPosition(m)
		t.fix.HavePosition = true
		t.fix.HorizontalAccMM = m.HorizontalAccuracy()
		t.fix.VerticalAccMM = m.VerticalAccuracy()
		t.fix.ITOW = m.ITOW()
		return true, nil
	case ubx.NavVelNED:
		t.fix.Velocity = NewVelocity(m)
		t.fix.HaveVelocity = true
		t.fix.ITOW = m.ITOW()
		return true, nil
	default:
		return false, nil
	}
}

func (t *Tracker) applyPVT(m ubx.NavPVT) error {
	t.fix.ITOW = m.ITOW()
	t.fix.Type = FixType(m.FixType())
	t.fix.FixOK = m.Flags()&ubx.PVTGnssFixOK != 0
	t.fix.Satellites = int(m.NumSV())
	t.fix.Position = NewPosition(m)
	t.fix.HavePosition = true
	t.fix.Velocity = NewVelocity(m)
	t.fix.HaveVelocity = true
	t.fix.HorizontalAccMM = m.HorizontalAccuracy()
	t.fix.VerticalAccMM = m.VerticalAccuracy()

	const want = ubx.PVTValidDate | ubx.PVTValidTime
	if m.Valid()&want != want {
		return nil
	}
	ts, err := DateTime(m)
	if err != nil {
		return err
	}
	t.fix.Time = ts
	return nil
}
