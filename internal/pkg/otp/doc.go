// Package otp generates the numeric one-time codes delivered by SMS.
//
// Codes are six digits, uniformly distributed over [Min, Max] and drawn from a
// cryptographically secure source. The source is injectable so tests can make
// generation deterministic without weakening production randomness.
package otp
