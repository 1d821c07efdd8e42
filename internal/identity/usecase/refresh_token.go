package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
)

const msgInvalidRefresh = "Invalid or expired refresh token"

type RefreshTokenInput struct {
	RefreshToken string `validate:"required"`
}

// RefreshToken swaps a refresh token for a new session. Presenting a token
// that was already rotated revokes every session of the identity.
func (s *Usecase) RefreshToken(ctx context.Context, in RefreshTokenInput) (*SessionOutput, error) {
	ctx, span := s.startSpan(ctx, "RefreshToken")
	defer span.End()

	in.RefreshToken = strings.TrimSpace(in.RefreshToken)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	oldHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash old refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	rt, err := s.repoDB.GetUserRefreshToken(ctx, string(oldHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user refresh token not found")
		return nil, goerror.NewBusiness(msgInvalidRefresh, goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	if rt.RefreshRevoked {
		if rt.RefreshReplacedByTokenID != nil {
			if err := s.repoDB.RevokeAllRefreshToken(ctx, rt.UserID); err != nil {
				slog.ErrorContext(ctx, "failed to repo revoke all refresh token", "user_id", rt.UserID, "error", err)
			}

			slog.WarnContext(ctx, "refresh token reuse detected", "user_id", rt.UserID, "refresh_token_id", rt.RefreshID)
			return nil, goerror.NewBusiness("Token reuse detected, please sign in again", goerror.CodeForbidden)
		}

		slog.WarnContext(ctx, "refresh token is revoked", "refresh_token_id", rt.RefreshID)
		return nil, goerror.NewBusiness(msgInvalidRefresh, goerror.CodeUnauthorized)
	}

	now := s.clock.Now()
	if now.After(rt.RefreshExpiresAt) {
		slog.WarnContext(ctx, "user refresh token is expired", "refresh_token_id", rt.RefreshID)
		return nil, goerror.NewBusiness(msgInvalidRefresh, goerror.CodeUnauthorized)
	}

	if !rt.UserActive {
		slog.WarnContext(ctx, "refresh token owner is not active", "user_id", rt.UserID)
		return nil, goerror.NewBusiness(msgInvalidRefresh, goerror.CodeUnauthorized)
	}

	acToken, err := s.jwt.Generate(rt.UserID, rt.UserPhone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", rt.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	newToken := s.token.Generate()
	newHash, err := s.hmac.Hash(newToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	err = s.repoDB.RotateRefreshToken(ctx, entity.RotateRefreshToken{
		NewID:        s.uid.Generate(),
		OldID:        rt.RefreshID,
		UserID:       rt.UserID,
		NewToken:     string(newHash),
		NewExpiresAt: now.Add(s.cfg.GetDay("modules.identity.refresh_token_ttl_days")),
	})
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "refresh token already rotated or revoked", "refresh_token_id", rt.RefreshID)
		return nil, goerror.NewBusiness(msgInvalidRefresh, goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo rotate refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &SessionOutput{
		AccessToken:  acToken,
		RefreshToken: newToken,
	}, nil
}
