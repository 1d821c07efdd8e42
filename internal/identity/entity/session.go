package entity

import "time"

type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string // hashed
	ExpiresAt time.Time
}

type RotateRefreshToken struct {
	NewID        int64
	OldID        int64
	UserID       int64
	NewToken     string
	NewExpiresAt time.Time
}

type UserRefreshToken struct {
	UserID                   int64
	UserPhone                string
	UserActive               bool
	RefreshID                int64
	RefreshRevoked           bool
	RefreshReplacedByTokenID *int64
	RefreshExpiresAt         time.Time
}
