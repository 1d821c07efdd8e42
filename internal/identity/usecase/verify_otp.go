package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
	"github.com/shandysiswandi/phoneauth/internal/pkg/otp"
	"github.com/shandysiswandi/phoneauth/internal/pkg/phone"
)

const msgInvalidCode = "Invalid verification code"

type VerifyOTPInput struct {
	PhoneNumber string `validate:"required"`
	Code        int
}

// VerifyOTP checks a submitted code and signs the identity in. The lock is
// checked before expiry and expiry before the code itself.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*SessionOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	phoneNumber, normErr := phone.Normalize(in.PhoneNumber)
	if err := s.throttle(ctx, s.verifyLimiter, throttleKey(in.PhoneNumber, phoneNumber, normErr)); err != nil {
		return nil, err
	}
	if normErr != nil {
		return nil, invalidPhone()
	}

	if !otp.Valid(in.Code) {
		return nil, goerror.NewInvalidInputWith(entity.ErrInvalidCode, "code", "must be a 6-digit number")
	}

	policy := s.policy()
	submitted := otp.Format(in.Code)

	var (
		att entity.Attempt
		now time.Time
	)
	identity, err := s.repoDB.MutateIdentity(ctx, phoneNumber, func(i *entity.Identity) bool {
		// read under the row lock so a wait for it counts against the code
		now = s.clock.Now()
		att = i.Verify(func(codeHash string) bool {
			return s.hmac.Verify(codeHash, submitted)
		}, now, policy)
		return att.Changed
	})
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "identity not found on verify", "phone", phoneNumber)
		s.countVerification(ctx, "unknown")
		return nil, goerror.NewBusinessWith(entity.ErrInvalidCredentials, msgInvalidCode, goerror.CodeBadRequest,
			"remaining_attempts", strconv.Itoa(max(policy.MaxAttempts-1, 0)))
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mutate identity", "phone", phoneNumber, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.countVerification(ctx, att.Outcome.String())

	switch att.Outcome {
	case entity.OutcomeLocked:
		slog.WarnContext(ctx, "identity locked on verify", "user_id", identity.ID, "retry_after", att.RetryAfter.String())
		return nil, goerror.NewBusinessWith(entity.ErrTooManyAttempts,
			"Too many failed attempts, please try again later",
			goerror.CodeTooManyRequest,
			"retry_after_minutes", strconv.Itoa(ceilUnits(att.RetryAfter, time.Minute)),
		)

	case entity.OutcomeExpired:
		slog.WarnContext(ctx, "verification code expired or absent", "user_id", identity.ID)
		return nil, goerror.NewBusinessWith(entity.ErrChallengeExpired,
			"Verification code has expired, please request a new one",
			goerror.CodeBadRequest,
		)

	case entity.OutcomeInvalidCode:
		slog.WarnContext(ctx, "wrong verification code", "user_id", identity.ID, "remaining_attempts", att.Remaining)
		return nil, goerror.NewBusinessWith(entity.ErrInvalidCode, msgInvalidCode, goerror.CodeBadRequest,
			"remaining_attempts", strconv.Itoa(att.Remaining))
	}

	if att.FirstLogin {
		s.notify(ctx, entity.Notification{
			Receptor: identity.PhoneNumber,
			Template: entity.TemplateWelcome,
		})

		if err := s.repoMessaging.PublishUserFirstLogin(ctx, UserFirstLoginEvent{
			UserID:      identity.ID,
			PhoneNumber: identity.PhoneNumber,
			LoginAt:     now,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish user first login", "user_id", identity.ID, "error", err)
		}
	}

	return s.issueSession(ctx, identity.ID, identity.PhoneNumber)
}
