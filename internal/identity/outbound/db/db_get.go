package db

import (
	"context"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
)

const getProfile = `
SELECT id, phone_number, username, email, first_name, last_name, date_joined
FROM identity_users
WHERE id = $1`

func (s *DB) GetProfile(ctx context.Context, id int64) (_ *entity.Profile, err error) {
	ctx, span := s.startSpan(ctx, "GetProfile")
	defer func() { s.endSpan(span, err) }()

	var p entity.Profile
	err = s.conn.QueryRow(ctx, getProfile, id).Scan(
		&p.ID, &p.PhoneNumber, &p.Username, &p.Email, &p.FirstName, &p.LastName, &p.DateJoined,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &p, nil
}

const getUserRefreshToken = `
SELECT u.id, u.phone_number, u.is_active,
       rt.id, rt.revoked, rt.replaced_by_token_id, rt.expires_at
FROM identity_refresh_tokens rt
JOIN identity_users u ON u.id = rt.user_id
WHERE rt.token = $1`

func (s *DB) GetUserRefreshToken(ctx context.Context, token string) (_ *entity.UserRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRefreshToken")
	defer func() { s.endSpan(span, err) }()

	var rt entity.UserRefreshToken
	err = s.conn.QueryRow(ctx, getUserRefreshToken, token).Scan(
		&rt.UserID, &rt.UserPhone, &rt.UserActive,
		&rt.RefreshID, &rt.RefreshRevoked, &rt.RefreshReplacedByTokenID, &rt.RefreshExpiresAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &rt, nil
}
