package handler

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers a sign-in link to an email address.
type Mailer interface {
	SendMagicLink(ctx context.Context, email, link string) error
}

// LogMailer writes links to the log instead of sending mail. Used in
// development and whenever no mail transport is configured.
type LogMailer struct {
	Logger *zap.Logger
}

func (m LogMailer) SendMagicLink(_ context.Context, email, link string) error {
	m.Logger.Info("magic link issued", zap.String("email", email), zap.String("link", link))
	return nil
}
