package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
)

const selectIdentityForUpdate = `
SELECT id, phone_number, is_active, last_login_at,
       otp_code_hash, otp_issued_at, otp_attempts, otp_locked_until
FROM identity_users
WHERE phone_number = $1
FOR UPDATE`

const updateIdentityChallenge = `
UPDATE identity_users SET
    is_active        = $2,
    last_login_at    = $3,
    otp_code_hash    = $4,
    otp_issued_at    = $5,
    otp_attempts     = $6,
    otp_locked_until = $7,
    updated_at       = now()
WHERE id = $1`

// MutateIdentity runs fn on the row-locked identity and persists the result
// when fn reports a change. Concurrent verifications of one phone serialize here.
func (s *DB) MutateIdentity(ctx context.Context, phone string, fn func(*entity.Identity) bool) (_ *entity.Identity, err error) {
	ctx, span := s.startSpan(ctx, "MutateIdentity")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	var (
		id       entity.Identity
		codeHash *string
		attempts int16
	)
	err = tx.QueryRow(ctx, selectIdentityForUpdate, phone).Scan(
		&id.ID, &id.PhoneNumber, &id.IsActive, &id.LastLoginAt,
		&codeHash, &id.Challenge.IssuedAt, &attempts, &id.Challenge.LockedUntil,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	if codeHash != nil {
		id.Challenge.CodeHash = *codeHash
	}
	id.Challenge.Attempts = int(attempts)

	if !fn(&id) {
		return &id, nil
	}

	if _, err := tx.Exec(ctx, updateIdentityChallenge,
		id.ID,
		id.IsActive,
		id.LastLoginAt,
		nullString(id.Challenge.CodeHash),
		id.Challenge.IssuedAt,
		int16(id.Challenge.Attempts),
		id.Challenge.LockedUntil,
	); err != nil {
		return nil, s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, s.mapError(err)
	}

	return &id, nil
}

const insertRotatedRefreshToken = `
INSERT INTO identity_refresh_tokens (id, user_id, token, expires_at)
VALUES ($1, $2, $3, $4)`

const replaceRefreshToken = `
UPDATE identity_refresh_tokens SET revoked = TRUE, replaced_by_token_id = $2
WHERE id = $1 AND user_id = $3 AND NOT revoked`

func (s *DB) RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	// the replacement must exist before the old row can reference it
	if _, err := tx.Exec(ctx, insertRotatedRefreshToken, ro.NewID, ro.UserID, ro.NewToken, ro.NewExpiresAt); err != nil {
		return s.mapError(err)
	}

	tag, err := tx.Exec(ctx, replaceRefreshToken, ro.OldID, ro.NewID, ro.UserID)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
