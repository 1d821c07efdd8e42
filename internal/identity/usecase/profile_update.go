package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
	"github.com/shandysiswandi/phoneauth/internal/pkg/jwt"
)

// ProfileUpdateInput is a partial update; nil fields are left untouched and
// an empty username clears it.
type ProfileUpdateInput struct {
	Username  *string `validate:"omitempty,username"`
	Email     *string `validate:"omitempty,email,max=254"`
	FirstName *string `validate:"omitempty,max=150"`
	LastName  *string `validate:"omitempty,max=150"`
}

func (s *Usecase) ProfileUpdate(ctx context.Context, in ProfileUpdateInput) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "ProfileUpdate")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	trimPtr(in.Username)
	trimPtr(in.FirstName)
	trimPtr(in.LastName)
	if in.Email != nil {
		*in.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	patch := entity.ProfilePatch{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if patch.IsEmpty() {
		return s.Profile(ctx)
	}

	p, err := s.repoDB.UpdateProfile(ctx, clm.UserID, patch)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "username already taken", "user_id", clm.UserID)
		return nil, goerror.NewBusiness("Username already taken", goerror.CodeConflict, "username", "is already taken")
	}
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "identity not found for token", "user_id", clm.UserID)
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update profile", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return toProfileOutput(p), nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
