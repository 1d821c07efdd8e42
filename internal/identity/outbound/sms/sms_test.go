package sms

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/instrument"
	"github.com/shandysiswandi/phoneauth/internal/pkg/sms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordSMS struct {
	got []sms.Lookup
	err error
}

func (r *recordSMS) Send(_ context.Context, msg sms.Lookup) error {
	r.got = append(r.got, msg)
	return r.err
}

func (*recordSMS) Close() error { return nil }

var templates = map[entity.Template]string{
	entity.TemplateVerificationCode: "users",
	entity.TemplateWelcome:          "first-log",
}

func TestSMS_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("MapsTemplates", func(t *testing.T) {
		client := &recordSMS{}
		s := New(client, templates, instrument.NewNoop())

		require.NoError(t, s.Send(ctx, entity.Notification{Receptor: "09123456789", Token: "123456", Template: entity.TemplateVerificationCode}))
		require.NoError(t, s.Send(ctx, entity.Notification{Receptor: "09123456789", Template: entity.TemplateWelcome}))

		assert.Equal(t, []sms.Lookup{
			{Receptor: "09123456789", Token: "123456", Template: "users"},
			{Receptor: "09123456789", Template: "first-log"},
		}, client.got)
	})

	t.Run("UnknownTemplate", func(t *testing.T) {
		client := &recordSMS{}
		s := New(client, templates, instrument.NewNoop())

		assert.Error(t, s.Send(ctx, entity.Notification{Receptor: "09123456789", Template: "promo"}))
		assert.Empty(t, client.got)
	})

	t.Run("GatewayError", func(t *testing.T) {
		boom := errors.New("gateway down")
		s := New(&recordSMS{err: boom}, templates, instrument.NewNoop())

		assert.ErrorIs(t, s.Send(ctx, entity.Notification{Receptor: "09123456789", Template: entity.TemplateWelcome}), boom)
	})
}
