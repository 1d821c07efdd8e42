package entity

import "errors"

var (
	ErrInvalidPhone       = errors.New("identity: invalid phone number")
	ErrInvalidCode        = errors.New("identity: invalid verification code")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrChallengeExpired   = errors.New("identity: verification code expired")
	ErrTooManyAttempts    = errors.New("identity: too many attempts")
	ErrThrottled          = errors.New("identity: too many requests")
)
