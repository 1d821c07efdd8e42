package usecase

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/clock"
	"github.com/shandysiswandi/phoneauth/internal/pkg/config"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/phoneauth/internal/pkg/hash"
	"github.com/shandysiswandi/phoneauth/internal/pkg/instrument"
	"github.com/shandysiswandi/phoneauth/internal/pkg/jwt"
	"github.com/shandysiswandi/phoneauth/internal/pkg/otp"
	"github.com/shandysiswandi/phoneauth/internal/pkg/ratelimit"
	"github.com/shandysiswandi/phoneauth/internal/pkg/uid"
	"github.com/shandysiswandi/phoneauth/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

type UserCreatedEvent struct {
	UserID      int64
	PhoneNumber string
	CreatedAt   time.Time
}

type UserFirstLoginEvent struct {
	UserID      int64
	PhoneNumber string
	LoginAt     time.Time
}

type repoMessaging interface {
	PublishUserCreated(ctx context.Context, msg UserCreatedEvent) error
	PublishUserFirstLogin(ctx context.Context, msg UserFirstLoginEvent) error
}

type repoDB interface {
	// UpsertChallenge atomically creates the identity if needed and replaces
	// its challenge. created is true when the identity did not exist.
	UpsertChallenge(ctx context.Context, in entity.NewChallenge) (id int64, created bool, err error)
	// MutateIdentity locks the identity, hands it to fn and writes it back
	// when fn returns true, all in one transaction.
	MutateIdentity(ctx context.Context, phone string, fn func(*entity.Identity) bool) (*entity.Identity, error)

	GetProfile(ctx context.Context, id int64) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, id int64, patch entity.ProfilePatch) (*entity.Profile, error)

	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error
	GetUserRefreshToken(ctx context.Context, token string) (*entity.UserRefreshToken, error)
	RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) error
	RevokeRefreshToken(ctx context.Context, userID int64, token string) error
	RevokeAllRefreshToken(ctx context.Context, userID int64) error
}

type notifier interface {
	Send(ctx context.Context, n entity.Notification) error
}

type Usecase struct {
	repoDB         repoDB
	repoMessaging  repoMessaging
	notifier       notifier
	requestLimiter ratelimit.Limiter
	verifyLimiter  ratelimit.Limiter
	validator      validator.Validator
	cfg            config.Config
	hmac           hash.Hash
	otp            otp.Generator
	uid            uid.NumberID
	token          uid.StringID
	clock          clock.Clocker
	jwt            jwt.JWT
	ins            instrument.Instrumentation
	goroutine      *goroutine.Manager

	otpRequests      metric.Int64Counter
	otpVerifications metric.Int64Counter
}

type Dependency struct {
	RepoDB         repoDB
	RepoMessaging  repoMessaging
	Notifier       notifier
	RequestLimiter ratelimit.Limiter
	VerifyLimiter  ratelimit.Limiter
	Validator      validator.Validator
	Config         config.Config
	HMAC           hash.Hash
	OTP            otp.Generator
	UID            uid.NumberID
	Token          uid.StringID
	Clock          clock.Clocker
	JWT            jwt.JWT
	Instrument     instrument.Instrumentation
	Goroutine      *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("identity.usecase")

	otpRequests, err := meter.Int64Counter("identity.otp.requests",
		metric.WithDescription("Verification codes issued"))
	if err != nil {
		slog.Warn("failed to create otp request counter", "error", err)
		otpRequests = metricnoop.Int64Counter{}
	}

	otpVerifications, err := meter.Int64Counter("identity.otp.verifications",
		metric.WithDescription("Verification attempts by outcome"))
	if err != nil {
		slog.Warn("failed to create otp verification counter", "error", err)
		otpVerifications = metricnoop.Int64Counter{}
	}

	return &Usecase{
		repoDB:           dep.RepoDB,
		repoMessaging:    dep.RepoMessaging,
		notifier:         dep.Notifier,
		requestLimiter:   dep.RequestLimiter,
		verifyLimiter:    dep.VerifyLimiter,
		validator:        dep.Validator,
		cfg:              dep.Config,
		hmac:             dep.HMAC,
		otp:              dep.OTP,
		uid:              dep.UID,
		token:            dep.Token,
		clock:            dep.Clock,
		jwt:              dep.JWT,
		ins:              dep.Instrument,
		goroutine:        dep.Goroutine,
		otpRequests:      otpRequests,
		otpVerifications: otpVerifications,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

// policy is read per call so a reloaded config file takes effect immediately.
func (s *Usecase) policy() entity.Policy {
	return entity.Policy{
		Expiry:       s.cfg.GetMinute("modules.identity.otp_expiry_minutes"),
		MaxAttempts:  s.cfg.GetInt("modules.identity.otp_max_attempts"),
		LockDuration: s.cfg.GetMinute("modules.identity.otp_lock_minutes"),
	}
}

// throttle consumes one hit for key. A limiter failure rejects the request,
// since letting it through would send unbounded SMS.
func (s *Usecase) throttle(ctx context.Context, lim ratelimit.Limiter, key string) error {
	if lim == nil {
		return nil
	}

	d, err := lim.Allow(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check rate limit", "error", err)
		return goerror.NewServer(err)
	}

	if !d.Allowed {
		slog.WarnContext(ctx, "request throttled", "phone", key, "retry_after", d.RetryAfter.String())
		return goerror.NewBusinessWith(entity.ErrThrottled,
			"Too many requests, please try again later",
			goerror.CodeTooManyRequest,
			"retry_after_seconds", strconv.Itoa(ceilUnits(d.RetryAfter, time.Second)),
		)
	}

	return nil
}

// notify sends n in the background with a bounded timeout. Delivery failures
// are logged and dropped; the caller's state change is already committed.
func (s *Usecase) notify(ctx context.Context, n entity.Notification) {
	timeout := s.cfg.GetSecond("modules.identity.notify_timeout_seconds")

	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := s.notifier.Send(ctx, n); err != nil {
			slog.ErrorContext(ctx, "failed to send notification", "phone", n.Receptor, "template", string(n.Template), "error", err)
		}

		return nil
	})
}

func (s *Usecase) countVerification(ctx context.Context, outcome string) {
	s.otpVerifications.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func invalidPhone() error {
	return goerror.NewInvalidInputWith(entity.ErrInvalidPhone, "phone_number", "must be a valid mobile number")
}

// ceilUnits rounds d up to whole units, never below one.
func ceilUnits(d, unit time.Duration) int {
	n := int(math.Ceil(float64(d) / float64(unit)))
	if n < 1 {
		return 1
	}
	return n
}
