package inbound

import (
	"time"

	"github.com/shandysiswandi/phoneauth/internal/pkg/router"
)

type RegisterRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// RegisterResponse never says whether the phone was already known.
type RegisterResponse struct {
	router.Bare
	Message string `json:"message"`
}

type VerifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        int    `json:"code"`
}

type TokenResponse struct {
	router.Bare
	Message string `json:"message"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RefreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type ProfileResponse struct {
	router.Bare
	ID          int64     `json:"id,string"`
	PhoneNumber string    `json:"phone_number"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateJoined  time.Time `json:"date_joined"`
}

// UpdateProfileRequest uses pointers so an omitted field is left as is.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}
