package db

import (
	"context"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
)

const createRefreshToken = `
INSERT INTO identity_refresh_tokens (id, user_id, token, expires_at)
VALUES ($1, $2, $3, $4)`

func (s *DB) CreateRefreshToken(ctx context.Context, in entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createRefreshToken, in.ID, in.UserID, in.Token, in.ExpiresAt)
	return s.mapError(err)
}
