package db

import (
	"context"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
)

// xmax is zero only on a row this statement inserted.
const upsertChallenge = `
INSERT INTO identity_users (id, phone_number, otp_code_hash, otp_issued_at, otp_attempts, otp_locked_until, date_joined, updated_at)
VALUES ($1, $2, $3, $4, 0, NULL, $4, $4)
ON CONFLICT (phone_number) DO UPDATE SET
    otp_code_hash    = EXCLUDED.otp_code_hash,
    otp_issued_at    = EXCLUDED.otp_issued_at,
    otp_attempts     = 0,
    otp_locked_until = NULL,
    updated_at       = EXCLUDED.updated_at
RETURNING id, (xmax = 0) AS created`

func (s *DB) UpsertChallenge(ctx context.Context, in entity.NewChallenge) (_ int64, _ bool, err error) {
	ctx, span := s.startSpan(ctx, "UpsertChallenge")
	defer func() { s.endSpan(span, err) }()

	var (
		id      int64
		created bool
	)
	err = s.conn.QueryRow(ctx, upsertChallenge, in.ID, in.PhoneNumber, in.CodeHash, in.IssuedAt).Scan(&id, &created)
	if err != nil {
		return 0, false, s.mapError(err)
	}

	return id, created, nil
}

const updateProfile = `
UPDATE identity_users SET
    username   = CASE WHEN $2::boolean THEN NULLIF($3::text, '') ELSE username END,
    email      = COALESCE($4::text, email),
    first_name = COALESCE($5::text, first_name),
    last_name  = COALESCE($6::text, last_name),
    updated_at = now()
WHERE id = $1
RETURNING id, phone_number, username, email, first_name, last_name, date_joined`

func (s *DB) UpdateProfile(ctx context.Context, id int64, patch entity.ProfilePatch) (_ *entity.Profile, err error) {
	ctx, span := s.startSpan(ctx, "UpdateProfile")
	defer func() { s.endSpan(span, err) }()

	var username string
	if patch.Username != nil {
		username = *patch.Username
	}

	var p entity.Profile
	err = s.conn.QueryRow(ctx, updateProfile,
		id, patch.Username != nil, username, patch.Email, patch.FirstName, patch.LastName,
	).Scan(&p.ID, &p.PhoneNumber, &p.Username, &p.Email, &p.FirstName, &p.LastName, &p.DateJoined)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &p, nil
}

const revokeRefreshToken = `
UPDATE identity_refresh_tokens SET revoked = TRUE
WHERE token = $1 AND user_id = $2 AND NOT revoked`

func (s *DB) RevokeRefreshToken(ctx context.Context, userID int64, token string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, revokeRefreshToken, token, userID)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

const revokeAllRefreshToken = `
UPDATE identity_refresh_tokens SET revoked = TRUE
WHERE user_id = $1 AND NOT revoked`

func (s *DB) RevokeAllRefreshToken(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, revokeAllRefreshToken, userID)
	return s.mapError(err)
}
