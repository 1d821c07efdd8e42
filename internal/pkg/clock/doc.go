// Package clock provides a tiny time abstraction.
//
// OTP expiry, lockout windows and token lifetimes are all computed from a
// Clocker so tests can pin or advance time deterministically.
package clock
