package sms

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrAPIKeyRequired is returned when the gateway key is missing.
	ErrAPIKeyRequired = errors.New("sms: api key is required")
	// ErrReceptorRequired is returned when a lookup has no destination.
	ErrReceptorRequired = errors.New("sms: receptor is required")
	// ErrTemplateRequired is returned when a lookup has no template.
	ErrTemplateRequired = errors.New("sms: template is required")
)

// Lookup is one template-based message.
type Lookup struct {
	// Receptor is the destination number.
	Receptor string
	// Token fills the template placeholder; it may be empty.
	Token string
	// Template is the gateway-side template name.
	Template string
}

func (l Lookup) validate() error {
	if l.Receptor == "" {
		return ErrReceptorRequired
	}
	if l.Template == "" {
		return ErrTemplateRequired
	}
	return nil
}

// SMS abstracts a text message provider.
type SMS interface {
	io.Closer
	// Send delivers the lookup message.
	Send(ctx context.Context, msg Lookup) error
}
