package entity

import "time"

// Profile is the user-editable part of an identity. The OTP state machine
// never reads or writes these fields.
type Profile struct {
	ID          int64
	PhoneNumber string
	Username    *string
	Email       string
	FirstName   string
	LastName    string
	DateJoined  time.Time
}

// ProfilePatch carries the fields a profile update sets; nil leaves a field as is.
type ProfilePatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.FirstName == nil && p.LastName == nil
}
