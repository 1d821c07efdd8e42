package entity

import "time"

// Identity is one phone-addressable account together with its OTP challenge.
type Identity struct {
	ID          int64
	PhoneNumber string
	IsActive    bool
	LastLoginAt *time.Time
	Challenge   Challenge
}

// Challenge is the outstanding code of one OTP cycle.
//
// CodeHash and IssuedAt are set and cleared together. An empty CodeHash means
// no code is outstanding.
type Challenge struct {
	CodeHash    string
	IssuedAt    *time.Time
	Attempts    int
	LockedUntil *time.Time
}

// Issue replaces whatever challenge was outstanding with a fresh one.
func (c *Challenge) Issue(codeHash string, now time.Time) {
	c.CodeHash = codeHash
	c.IssuedAt = &now
	c.Attempts = 0
	c.LockedUntil = nil
}

// Clear drops the challenge entirely.
func (c *Challenge) Clear() {
	*c = Challenge{}
}

// IsZero reports whether nothing is stored for the challenge.
func (c Challenge) IsZero() bool {
	return c.CodeHash == "" && c.IssuedAt == nil && c.Attempts == 0 && c.LockedUntil == nil
}

// Policy holds the tunables of the OTP state machine.
type Policy struct {
	Expiry       time.Duration
	MaxAttempts  int
	LockDuration time.Duration
}

// State is derived from the stored challenge at read time.
type State int8

const (
	StateNoChallenge State = iota
	StateActive
	StateExpired
	StateLocked
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateExpired:
		return "Expired"
	case StateLocked:
		return "Locked"
	default:
		return "NoChallenge"
	}
}

// StateAt classifies the challenge at now. A running lock wins over
// everything else, then a missing code, then the expiry window.
func (c Challenge) StateAt(now time.Time, expiry time.Duration) State {
	if c.LockedUntil != nil && c.LockedUntil.After(now) {
		return StateLocked
	}
	if c.CodeHash == "" || c.IssuedAt == nil {
		return StateNoChallenge
	}
	if now.Sub(*c.IssuedAt) > expiry {
		return StateExpired
	}

	return StateActive
}

// Outcome is the result class of one verification attempt.
type Outcome int8

const (
	OutcomeVerified Outcome = iota
	OutcomeInvalidCode
	OutcomeExpired
	OutcomeLocked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVerified:
		return "Verified"
	case OutcomeInvalidCode:
		return "InvalidCode"
	case OutcomeExpired:
		return "Expired"
	default:
		return "Locked"
	}
}

// Attempt describes what a verification attempt did to the identity.
type Attempt struct {
	Outcome Outcome
	// Remaining is the number of wrong codes still accepted before a lock.
	Remaining int
	// RetryAfter is how long the lock still runs when Outcome is OutcomeLocked.
	RetryAfter time.Duration
	// FirstLogin is set when this attempt completed the first ever sign in.
	FirstLogin bool
	// Changed reports whether the identity must be written back.
	Changed bool
}

// Verify applies one submitted code to the identity. matches tells whether the
// submitted code equals the stored hash; it is only called on an active challenge.
func (i *Identity) Verify(matches func(codeHash string) bool, now time.Time, p Policy) Attempt {
	switch i.Challenge.StateAt(now, p.Expiry) {
	case StateLocked:
		return Attempt{Outcome: OutcomeLocked, RetryAfter: i.Challenge.LockedUntil.Sub(now)}

	case StateNoChallenge, StateExpired:
		changed := !i.Challenge.IsZero()
		i.Challenge.Clear()
		return Attempt{Outcome: OutcomeExpired, Changed: changed}
	}

	// an elapsed lock starts a fresh attempt budget
	if i.Challenge.LockedUntil != nil {
		i.Challenge.LockedUntil = nil
		i.Challenge.Attempts = 0
	}

	if !matches(i.Challenge.CodeHash) {
		i.Challenge.Attempts++
		if i.Challenge.Attempts >= p.MaxAttempts {
			until := now.Add(p.LockDuration)
			i.Challenge.LockedUntil = &until
			return Attempt{Outcome: OutcomeLocked, RetryAfter: p.LockDuration, Changed: true}
		}

		return Attempt{Outcome: OutcomeInvalidCode, Remaining: p.MaxAttempts - i.Challenge.Attempts, Changed: true}
	}

	first := i.LastLoginAt == nil
	i.Challenge.Clear()
	i.IsActive = true
	i.LastLoginAt = &now

	return Attempt{Outcome: OutcomeVerified, FirstLogin: first, Changed: true}
}

// NewChallenge is a freshly issued code for a phone. ID is used only when the
// identity does not exist yet.
type NewChallenge struct {
	ID          int64
	PhoneNumber string
	CodeHash    string
	IssuedAt    time.Time
}
