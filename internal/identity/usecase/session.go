package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
)

type SessionOutput struct {
	AccessToken  string
	RefreshToken string
}

func (s *Usecase) issueSession(ctx context.Context, userID int64, phoneNumber string) (*SessionOutput, error) {
	acToken, err := s.jwt.Generate(userID, phoneNumber)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refreshToken := s.token.Generate()
	refreshTokenHash, err := s.hmac.Hash(refreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.CreateRefreshToken(ctx, entity.RefreshToken{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Token:     string(refreshTokenHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.identity.refresh_token_ttl_days")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &SessionOutput{
		AccessToken:  acToken,
		RefreshToken: refreshToken,
	}, nil
}
