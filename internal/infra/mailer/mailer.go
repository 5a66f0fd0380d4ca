package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/infra/config"
	appLogger "github.com/alexandre-hallaine/Camagru/internal/infra/logger"
)

// Mailer delivers transactional email through the Resend API. Sends are
// bounded by a short timeout and never retried; failure is the caller's
// problem to surface.
type Mailer struct {
	client  *resend.Client
	sender  string
	timeout time.Duration
	logger  *zap.Logger
}

// New constructs a Resend-backed mailer.
func New(cfg config.MailSettings, logger *zap.Logger) *Mailer {
	sender := cfg.Sender
	if cfg.FromName != "" {
		sender = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.Sender)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Mailer{
		client:  resend.NewClient(cfg.APIKey),
		sender:  sender,
		timeout: timeout,
		logger:  logger,
	}
}

// Send delivers a plain-text email to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	params := &resend.SendEmailRequest{
		From:    m.sender,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		m.logger.Warn("email delivery failed",
			zap.String("to", appLogger.MaskEmail(to)),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info("email delivered",
		zap.String("to", appLogger.MaskEmail(to)),
		zap.String("subject", subject),
		zap.String("message_id", sent.Id),
	)

	return nil
}

var _ port.Notifier = (*Mailer)(nil)
