package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_RequestOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("IssuesCodeAndNotifies", func(t *testing.T) {
		f := newFixture(t, 123456)

		require.NoError(t, f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "+98 912-345-6789"}))
		f.settle(t)

		id := f.repo.identity("09123456789")
		assert.NotZero(t, id.ID)
		assert.False(t, id.IsActive)
		assert.True(t, f.uc.hmac.Verify(id.Challenge.CodeHash, "123456"))
		require.NotNil(t, id.Challenge.IssuedAt)
		assert.Equal(t, f.clock(), *id.Challenge.IssuedAt)
		assert.Zero(t, id.Challenge.Attempts)
		assert.Nil(t, id.Challenge.LockedUntil)

		sent := f.notifier.byTemplate(entity.TemplateVerificationCode)
		require.Len(t, sent, 1)
		assert.Equal(t, entity.Notification{
			Receptor: "09123456789",
			Token:    "123456",
			Template: entity.TemplateVerificationCode,
		}, sent[0])

		require.Len(t, f.msg.created, 1)
		assert.Equal(t, id.ID, f.msg.created[0].UserID)
		assert.Equal(t, []string{"09123456789"}, f.reqLimit.keys)
	})

	t.Run("CreatesIdentityOnce", func(t *testing.T) {
		f := newFixture(t, 111111, 222222)

		require.NoError(t, f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "09123456789"}))
		first := f.repo.identity("09123456789")

		require.NoError(t, f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "۰۹۱۲۳۴۵۶۷۸۹"}))
		second := f.repo.identity("09123456789")

		assert.Len(t, f.repo.identities, 1)
		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, f.msg.created, 1)
		assert.True(t, f.uc.hmac.Verify(second.Challenge.CodeHash, "222222"))
		assert.False(t, f.uc.hmac.Verify(second.Challenge.CodeHash, "111111"))
	})

	t.Run("SupersedesLock", func(t *testing.T) {
		f := newFixture(t, 123456, 654321)
		require.NoError(t, f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "09123456789"}))

		for range 3 {
			_, err := f.uc.VerifyOTP(ctx, VerifyOTPInput{PhoneNumber: "09123456789", Code: 999999})
			require.Error(t, err)
		}
		require.NotNil(t, f.repo.identity("09123456789").Challenge.LockedUntil)

		require.NoError(t, f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "09123456789"}))

		id := f.repo.identity("09123456789")
		assert.Zero(t, id.Challenge.Attempts)
		assert.Nil(t, id.Challenge.LockedUntil)
	})

	t.Run("InvalidPhone", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "0812345678"})
		assert.ErrorIs(t, err, entity.ErrInvalidPhone)
		fields := requireGoError(t, err, goerror.CodeInvalidInput)
		assert.Contains(t, fields, "phone_number")
		assert.Empty(t, f.repo.identities)
		assert.Equal(t, []string{"0812345678"}, f.reqLimit.keys)
	})

	t.Run("EmptyPhone", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "   "})
		requireGoError(t, err, goerror.CodeInvalidInput)
		assert.Empty(t, f.reqLimit.keys)
	})

	t.Run("Throttled", func(t *testing.T) {
		f := newFixture(t)
		f.reqLimit.deny = true
		f.reqLimit.retry = 1500 * time.Millisecond

		err := f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "+989123456789"})
		assert.ErrorIs(t, err, entity.ErrThrottled)
		fields := requireGoError(t, err, goerror.CodeTooManyRequest)
		assert.Equal(t, "2", fields["retry_after_seconds"])
		assert.Empty(t, f.repo.identities)
	})

	t.Run("ThrottledBeforeNormalizing", func(t *testing.T) {
		f := newFixture(t)
		f.reqLimit.deny = true

		err := f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "not-a-phone"})
		assert.ErrorIs(t, err, entity.ErrThrottled)
	})

	t.Run("LimiterFailure", func(t *testing.T) {
		f := newFixture(t)
		f.reqLimit.err = errors.New("redis down")

		err := f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "09123456789"})
		requireGoError(t, err, goerror.CodeInternal)
		assert.Empty(t, f.repo.identities)
	})

	t.Run("NotifierFailureIsSwallowed", func(t *testing.T) {
		f := newFixture(t)
		f.notifier.fail = errors.New("gateway 502")

		require.NoError(t, f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "09123456789"}))
		f.settle(t)

		assert.Len(t, f.notifier.byTemplate(entity.TemplateVerificationCode), 1)
		assert.NotEmpty(t, f.repo.identity("09123456789").Challenge.CodeHash)
	})

	t.Run("PublishFailureIsSwallowed", func(t *testing.T) {
		f := newFixture(t)
		f.msg.fail = errors.New("broker down")

		assert.NoError(t, f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "09123456789"}))
	})

	t.Run("GeneratorFailure", func(t *testing.T) {
		f := newFixture(t)
		f.codes.err = errors.New("entropy")

		err := f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "09123456789"})
		requireGoError(t, err, goerror.CodeInternal)
	})

	t.Run("RepoFailure", func(t *testing.T) {
		f := newFixture(t)
		f.repo.fail = errors.New("db down")

		err := f.uc.RequestOTP(ctx, RequestOTPInput{PhoneNumber: "09123456789"})
		requireGoError(t, err, goerror.CodeInternal)
		f.settle(t)
		assert.Empty(t, f.notifier.sent)
	})
}
