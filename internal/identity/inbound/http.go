package inbound

import (
	"context"

	"github.com/shandysiswandi/phoneauth/internal/identity/usecase"
	"github.com/shandysiswandi/phoneauth/internal/pkg/router"
)

type uc interface {
	RequestOTP(ctx context.Context, in usecase.RequestOTPInput) error
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.SessionOutput, error)
	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.SessionOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) error

	Profile(ctx context.Context) (*usecase.ProfileOutput, error)
	ProfileUpdate(ctx context.Context, in usecase.ProfileUpdateInput) (*usecase.ProfileOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Phone verification
	r.POST("/auth/register", end.Register)
	r.POST("/auth/verify", end.Verify)

	// Session
	r.POST("/auth/refresh", end.RefreshToken)
	r.POST("/auth/logout", end.Logout) // need authenticated

	// Profile (need authenticated)
	r.GET("/auth/profile", end.Profile)
	r.PUT("/auth/profile", end.ProfileUpdate)
}
