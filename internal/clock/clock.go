// Package clock provides an injectable time source so the escalation
// ladder's time-driven promotions can be tested deterministically instead of
// sleeping real intervals.
package clock

import "time"

// Clock returns the current time. Production code uses Real; tests use a
// Fake they can advance explicitly.
type Clock interface {
	Now() time.Time
}

// Real is a Clock backed by time.Now.
type Real struct{}

// Now returns the current wall-clock time.
func (Real) Now() time.Time { return time.Now() }

// Fake is a Clock with a manually-advanced time, for deterministic tests of
// the escalation ladder's elapsed-time promotions.
type Fake struct {
	current time.Time
}

// NewFake returns a Fake clock starting at t.
func NewFake(t time.Time) *Fake {
	return &Fake{current: t}
}

// Now returns the fake clock's current time.
func (f *Fake) Now() time.Time { return f.current }

// Advance moves the fake clock forward by d. d may be negative to exercise
// the backward-time-skew tolerance required by the escalation ladder.
func (f *Fake) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}

// Set pins the fake clock to an exact time.
func (f *Fake) Set(t time.Time) {
	f.current = t
}

// TimestampFormat is the single committed timestamp format used everywhere
// a timestamp is persisted or hashed into an audit checksum: ISO-8601,
// local time, second precision, no offset, no fractional seconds. Every
// audit checksum depends on this string being produced identically every
// time the same instant is formatted.
const TimestampFormat = "2006-01-02T15:04:05"

// Format renders t using the committed TimestampFormat.
func Format(t time.Time) string {
	return t.Format(TimestampFormat)
}

// Parse parses a string produced by Format.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampFormat, s, time.Local)
}
