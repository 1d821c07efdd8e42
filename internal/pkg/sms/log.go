package sms

import (
	"context"
	"log/slog"
)

// Log is an SMS that only logs, for development without a gateway account.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (*Log) Send(ctx context.Context, msg Lookup) error {
	if err := msg.validate(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "sms lookup", "receptor", msg.Receptor, "template", msg.Template, "token", msg.Token)
	return nil
}

func (*Log) Close() error {
	return nil
}
