package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
	"github.com/shandysiswandi/phoneauth/internal/pkg/jwt"
)

type LogoutInput struct {
	RefreshToken string `validate:"required"`
}

func (s *Usecase) Logout(ctx context.Context, in LogoutInput) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	in.RefreshToken = strings.TrimSpace(in.RefreshToken)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "error", err)
		return goerror.NewServer(err)
	}

	// an unknown or foreign token is treated as already signed out
	err = s.repoDB.RevokeRefreshToken(ctx, clm.UserID, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "refresh token not found on logout", "user_id", clm.UserID)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo revoke refresh token", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
