package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
	"github.com/shandysiswandi/phoneauth/internal/pkg/otp"
	"github.com/shandysiswandi/phoneauth/internal/pkg/phone"
)

type RequestOTPInput struct {
	PhoneNumber string `validate:"required"`
}

// RequestOTP issues a new verification code for the phone, creating the
// identity on first use. Any outstanding code is superseded.
func (s *Usecase) RequestOTP(ctx context.Context, in RequestOTPInput) error {
	ctx, span := s.startSpan(ctx, "RequestOTP")
	defer span.End()

	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	phoneNumber, normErr := phone.Normalize(in.PhoneNumber)
	if err := s.throttle(ctx, s.requestLimiter, throttleKey(in.PhoneNumber, phoneNumber, normErr)); err != nil {
		return err
	}
	if normErr != nil {
		return invalidPhone()
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(otp.Format(code))
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return goerror.NewServer(err)
	}

	now := s.clock.Now()
	userID, created, err := s.repoDB.UpsertChallenge(ctx, entity.NewChallenge{
		ID:          s.uid.Generate(),
		PhoneNumber: phoneNumber,
		CodeHash:    string(codeHash),
		IssuedAt:    now,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert otp challenge", "phone", phoneNumber, "error", err)
		return goerror.NewServer(err)
	}

	s.otpRequests.Add(ctx, 1)

	if created {
		if err := s.repoMessaging.PublishUserCreated(ctx, UserCreatedEvent{
			UserID:      userID,
			PhoneNumber: phoneNumber,
			CreatedAt:   now,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish user created", "user_id", userID, "error", err)
		}
	}

	s.notify(ctx, entity.Notification{
		Receptor: phoneNumber,
		Token:    otp.Format(code),
		Template: entity.TemplateVerificationCode,
	})

	return nil
}

// throttleKey prefers the canonical phone so every spelling of one number
// shares a bucket.
func throttleKey(raw, canonical string, normErr error) string {
	if normErr != nil {
		return raw
	}
	return canonical
}
