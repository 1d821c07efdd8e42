package inbound

import (
	"github.com/shandysiswandi/phoneauth/internal/identity/usecase"
	"github.com/shandysiswandi/phoneauth/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for phone verification, sessions and profile.
type HTTPEndpoint struct {
	uc uc
}

// Register sends a verification code to a phone number.
// @Summary Request verification code
// @Description Issues a one-time code for the phone number and sends it by SMS. Unknown numbers are registered on the fly.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Phone payload"
// @Success 200 {object} RegisterResponse "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid phone number"
// @Failure 429 {object} router.errorResponse "Too many requests"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /auth/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RequestOTP(r.Context(), usecase.RequestOTPInput{PhoneNumber: req.PhoneNumber}); err != nil {
		return nil, err
	}

	return RegisterResponse{Message: "Verification code sent"}, nil
}

// Verify checks a verification code and signs the user in.
// @Summary Verify code
// @Description Verifies the code sent to the phone number and returns access/refresh tokens.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verification payload"
// @Success 200 {object} TokenResponse "Signed in"
// @Failure 400 {object} router.errorResponse "Invalid, wrong or expired code"
// @Failure 429 {object} router.errorResponse "Too many attempts"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /auth/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		PhoneNumber: req.PhoneNumber,
		Code:        req.Code,
	})
	if err != nil {
		return nil, err
	}

	return TokenResponse{
		Message: "Login successful",
		Access:  resp.AccessToken,
		Refresh: resp.RefreshToken,
	}, nil
}

// RefreshToken issues a new token pair using a refresh token.
// @Summary Refresh access token
// @Description Exchanges a refresh token for a new access/refresh token pair. A reused token revokes every session.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token payload"
// @Success 200 {object} TokenResponse "Token refresh result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid refresh token"
// @Failure 403 {object} router.errorResponse "Refresh token reuse"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /auth/refresh [post]
func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{RefreshToken: req.Refresh})
	if err != nil {
		return nil, err
	}

	return TokenResponse{
		Message: "Token refreshed",
		Access:  resp.AccessToken,
		Refresh: resp.RefreshToken,
	}, nil
}

// Logout revokes a refresh token.
// @Summary Logout
// @Tags Identity, Authentication
// @Accept json
// @Security BearerAuth
// @Param request body LogoutRequest true "Refresh token payload"
// @Success 204 "Signed out"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Router /auth/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: req.Refresh}); err != nil {
		return nil, err
	}

	return nil, nil
}

// Profile returns the signed-in user's profile.
// @Summary Get profile
// @Tags Identity, Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse "Profile"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Router /auth/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return toProfileResponse(resp), nil
}

// ProfileUpdate partially updates the signed-in user's profile.
// @Summary Update profile
// @Tags Identity, Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields to change"
// @Success 200 {object} ProfileResponse "Updated profile"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 409 {object} router.errorResponse "Username already taken"
// @Router /auth/profile [put]
func (h *HTTPEndpoint) ProfileUpdate(r *router.Request) (any, error) {
	var req UpdateProfileRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ProfileUpdate(r.Context(), usecase.ProfileUpdateInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, err
	}

	return toProfileResponse(resp), nil
}

func toProfileResponse(p *usecase.ProfileOutput) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		PhoneNumber: p.PhoneNumber,
		Username:    p.Username,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateJoined:  p.DateJoined,
	}
}
