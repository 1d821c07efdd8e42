package sms

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/instrument"
	"github.com/shandysiswandi/phoneauth/internal/pkg/sms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SMS delivers identity notifications through a gateway template.
type SMS struct {
	client    sms.SMS
	templates map[entity.Template]string
	ins       instrument.Instrumentation
}

// New maps each entity template to the gateway template name given in templates.
func New(client sms.SMS, templates map[entity.Template]string, ins instrument.Instrumentation) *SMS {
	return &SMS{client: client, templates: templates, ins: ins}
}

func (s *SMS) Send(ctx context.Context, n entity.Notification) error {
	ctx, span := s.ins.Tracer("identity.outbound.sms").Start(ctx, "Send")
	defer span.End()

	span.SetAttributes(attribute.String("sms.template", string(n.Template)))

	tpl, ok := s.templates[n.Template]
	if !ok || tpl == "" {
		err := fmt.Errorf("sms: no gateway template for %q", n.Template)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.client.Send(ctx, sms.Lookup{
		Receptor: n.Receptor,
		Token:    n.Token,
		Template: tpl,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
