package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/phoneauth/internal/identity/usecase"
	"github.com/shandysiswandi/phoneauth/internal/pkg/instrument"
	"github.com/shandysiswandi/phoneauth/internal/pkg/messaging"
	"github.com/shandysiswandi/phoneauth/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic string
	msg   messaging.Message
}

type recordPublisher struct {
	got []published
	err error
}

func (r *recordPublisher) Publish(_ context.Context, topic string, msg messaging.Message) error {
	r.got = append(r.got, published{topic: topic, msg: msg})
	return r.err
}

func (*recordPublisher) Close() error { return nil }

func TestMessaging_PublishUserCreated(t *testing.T) {
	pub := &recordPublisher{}
	m := NewMessaging(pub, instrument.NewNoop())
	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")

	require.NoError(t, m.PublishUserCreated(ctx, usecase.UserCreatedEvent{UserID: 42, PhoneNumber: "09123456789", CreatedAt: at}))

	require.Len(t, pub.got, 1)
	assert.Equal(t, event.IdentityUserCreatedTopic, pub.got[0].topic)
	assert.Equal(t, []byte("42"), pub.got[0].msg.Key)
	assert.Equal(t, "cid-1", pub.got[0].msg.Headers["cID"])

	var body event.IdentityUserCreatedMessage
	require.NoError(t, json.Unmarshal(pub.got[0].msg.Body, &body))
	assert.Equal(t, event.IdentityUserCreatedMessage{UserID: 42, PhoneNumber: "09123456789", CreatedAt: at}, body)
	assert.NotContains(t, string(pub.got[0].msg.Body), "code")
}

func TestMessaging_PublishUserFirstLogin(t *testing.T) {
	boom := errors.New("broker down")
	pub := &recordPublisher{err: boom}
	m := NewMessaging(pub, instrument.NewNoop())

	err := m.PublishUserFirstLogin(context.Background(), usecase.UserFirstLoginEvent{UserID: 7, PhoneNumber: "09123456789"})
	assert.ErrorIs(t, err, boom)
	require.Len(t, pub.got, 1)
	assert.Equal(t, event.IdentityUserFirstLoginTopic, pub.got[0].topic)
}
