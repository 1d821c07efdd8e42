package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/phoneauth/internal/identity/usecase"
	"github.com/shandysiswandi/phoneauth/internal/pkg/instrument"
	"github.com/shandysiswandi/phoneauth/internal/pkg/messaging"
	"github.com/shandysiswandi/phoneauth/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishUserCreated(ctx context.Context, msg usecase.UserCreatedEvent) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "PublishUserCreated")
	defer span.End()

	return m.publish(ctx, span, event.IdentityUserCreatedTopic, msg.UserID, event.IdentityUserCreatedMessage{
		UserID:      msg.UserID,
		PhoneNumber: msg.PhoneNumber,
		CreatedAt:   msg.CreatedAt,
	})
}

func (m *Messaging) PublishUserFirstLogin(ctx context.Context, msg usecase.UserFirstLoginEvent) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "PublishUserFirstLogin")
	defer span.End()

	return m.publish(ctx, span, event.IdentityUserFirstLoginTopic, msg.UserID, event.IdentityUserFirstLoginMessage{
		UserID:      msg.UserID,
		PhoneNumber: msg.PhoneNumber,
		LoginAt:     msg.LoginAt,
	})
}

// publish keys every message by user id so brokers that partition keep one
// identity's events in order.
func (m *Messaging) publish(ctx context.Context, span trace.Span, topic string, userID int64, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Publish(ctx, topic, messaging.Message{
		Key:     []byte(strconv.FormatInt(userID, 10)),
		Body:    body,
		Headers: map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
