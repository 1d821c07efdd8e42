package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signIn(t *testing.T, f *fixture) *SessionOutput {
	t.Helper()

	require.NoError(t, f.uc.RequestOTP(context.Background(), RequestOTPInput{PhoneNumber: testPhone}))
	out, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{PhoneNumber: testPhone, Code: 123456})
	require.NoError(t, err)

	return out
}

func TestUsecase_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Rotates", func(t *testing.T) {
		f := newFixture(t)
		first := signIn(t, f)

		next, err := f.uc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: first.RefreshToken})
		require.NoError(t, err)
		assert.NotEqual(t, first.RefreshToken, next.RefreshToken)
		assert.Equal(t, "access-1-09123456789", next.AccessToken)
		assert.Equal(t, 1, f.repo.activeTokens(1))
	})

	t.Run("ReuseRevokesEverything", func(t *testing.T) {
		f := newFixture(t)
		first := signIn(t, f)

		next, err := f.uc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: first.RefreshToken})
		require.NoError(t, err)

		_, err = f.uc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: first.RefreshToken})
		requireGoError(t, err, goerror.CodeForbidden)
		assert.Zero(t, f.repo.activeTokens(1))

		_, err = f.uc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: next.RefreshToken})
		requireGoError(t, err, goerror.CodeUnauthorized)
	})

	t.Run("Expired", func(t *testing.T) {
		f := newFixture(t)
		first := signIn(t, f)

		f.advance(7*24*time.Hour + time.Second)
		_, err := f.uc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: first.RefreshToken})
		requireGoError(t, err, goerror.CodeUnauthorized)
	})

	t.Run("Unknown", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: "nope"})
		requireGoError(t, err, goerror.CodeUnauthorized)
	})

	t.Run("Missing", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.RefreshToken(ctx, RefreshTokenInput{})
		requireGoError(t, err, goerror.CodeInvalidInput)
	})
}

func TestUsecase_Logout(t *testing.T) {
	t.Run("RequiresAuth", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.Logout(context.Background(), LogoutInput{RefreshToken: "x"})
		requireGoError(t, err, goerror.CodeUnauthorized)
	})

	t.Run("RevokesOwnToken", func(t *testing.T) {
		f := newFixture(t)
		s := signIn(t, f)

		require.NoError(t, f.uc.Logout(authed(1, testPhone), LogoutInput{RefreshToken: s.RefreshToken}))
		assert.Zero(t, f.repo.activeTokens(1))

		_, err := f.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: s.RefreshToken})
		requireGoError(t, err, goerror.CodeUnauthorized)
	})

	t.Run("ForeignTokenIsIgnored", func(t *testing.T) {
		f := newFixture(t)
		s := signIn(t, f)

		require.NoError(t, f.uc.Logout(authed(42, "09350000000"), LogoutInput{RefreshToken: s.RefreshToken}))
		assert.Equal(t, 1, f.repo.activeTokens(1))
	})
}
