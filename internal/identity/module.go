package identity

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/identity/inbound"
	"github.com/shandysiswandi/phoneauth/internal/identity/outbound/db"
	"github.com/shandysiswandi/phoneauth/internal/identity/outbound/mq"
	outsms "github.com/shandysiswandi/phoneauth/internal/identity/outbound/sms"
	"github.com/shandysiswandi/phoneauth/internal/identity/usecase"
	"github.com/shandysiswandi/phoneauth/internal/pkg/clock"
	"github.com/shandysiswandi/phoneauth/internal/pkg/config"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/phoneauth/internal/pkg/hash"
	"github.com/shandysiswandi/phoneauth/internal/pkg/instrument"
	"github.com/shandysiswandi/phoneauth/internal/pkg/jwt"
	"github.com/shandysiswandi/phoneauth/internal/pkg/messaging"
	"github.com/shandysiswandi/phoneauth/internal/pkg/otp"
	"github.com/shandysiswandi/phoneauth/internal/pkg/ratelimit"
	"github.com/shandysiswandi/phoneauth/internal/pkg/router"
	"github.com/shandysiswandi/phoneauth/internal/pkg/sms"
	"github.com/shandysiswandi/phoneauth/internal/pkg/uid"
	"github.com/shandysiswandi/phoneauth/internal/pkg/validator"
)

type Dependency struct {
	DBConn         *pgxpool.Pool              `validate:"required"`
	Goroutine      *goroutine.Manager         `validate:"required"`
	Router         *router.Router             `validate:"required"`
	Messaging      messaging.Publisher        `validate:"required"`
	SMS            sms.SMS                    `validate:"required"`
	RequestLimiter ratelimit.Limiter          `validate:"required"`
	VerifyLimiter  ratelimit.Limiter          `validate:"required"`
	Config         config.Config              `validate:"required"`
	Instrument     instrument.Instrumentation `validate:"required"`
	UID            uid.NumberID               `validate:"required"`
	Token          uid.StringID               `validate:"required"`
	HMAC           hash.Hash                  `validate:"required"`
	OTP            otp.Generator              `validate:"required"`
	Clock          clock.Clocker              `validate:"required"`
	Validator      validator.Validator        `validate:"required"`
	JWT            jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbIdentity := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	smsNotifier := outsms.New(dep.SMS, map[entity.Template]string{
		entity.TemplateVerificationCode: dep.Config.GetString("sms.templates.verification_code"),
		entity.TemplateWelcome:          dep.Config.GetString("sms.templates.welcome"),
	}, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:         dbIdentity,
		RepoMessaging:  repoMsg,
		Notifier:       smsNotifier,
		RequestLimiter: dep.RequestLimiter,
		VerifyLimiter:  dep.VerifyLimiter,
		Validator:      dep.Validator,
		Config:         dep.Config,
		HMAC:           dep.HMAC,
		OTP:            dep.OTP,
		UID:            dep.UID,
		Token:          dep.Token,
		Clock:          dep.Clock,
		JWT:            dep.JWT,
		Instrument:     dep.Instrument,
		Goroutine:      dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
