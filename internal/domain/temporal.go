package domain

import "time"

// LifetimeWindow bounds both how far out an item may be scheduled and how
// long it may stay active.
const LifetimeWindow = 24 * time.Hour

// ValidateWindow checks a proposed lifetime window against policy:
// birth must lie within [now, now+24h] and expiry within [birth, birth+24h],
// all bounds inclusive. It is called with the current clock at the moment of
// validation, both at creation and at update time.
func ValidateWindow(birth, expiry, now time.Time) error {
	if birth.Before(now) || birth.After(now.Add(LifetimeWindow)) {
		return ErrInvalidWindow("birthdate")
	}
	if expiry.Before(birth) || expiry.After(birth.Add(LifetimeWindow)) {
		return ErrInvalidWindow("expirydate")
	}
	return nil
}
