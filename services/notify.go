// Package services holds integrations with outside systems.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-site-backend/models"
)

// Email is a plain text message.
type Email struct {
	To      []string
	Subject string
	Body    string
	ReplyTo string
}

// EmailSender delivers a single email.
type EmailSender interface {
	SendEmail(ctx context.Context, email Email) (string, error)
}

// ContactNotifier is told about every stored contact message.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, message models.Message) error
}

// MailNotifier sends a confirmation to the visitor and a notification to the
// site owner for each contact message.
type MailNotifier struct {
	sender     EmailSender
	adminEmail string
	logger     zerolog.Logger
}

func NewMailNotifier(sender EmailSender, adminEmail string) *MailNotifier {
	return &MailNotifier{
		sender:     sender,
		adminEmail: adminEmail,
		logger:     log.With().Str("service", "mailNotifier").Logger(),
	}
}

// NotifyContact sends both mails concurrently and returns the first failure.
// One failed mail does not cancel the other.
func (n *MailNotifier) NotifyContact(ctx context.Context, message models.Message) error {
	var g errgroup.Group
	g.Go(func() error {
		if _, err := n.sender.SendEmail(ctx, visitorConfirmation(message)); err != nil {
			return fmt.Errorf("visitor confirmation: %w", err)
		}
		return nil
	})
	if n.adminEmail != "" {
		g.Go(func() error {
			if _, err := n.sender.SendEmail(ctx, adminNotification(message, n.adminEmail)); err != nil {
				return fmt.Errorf("admin notification: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func visitorConfirmation(m models.Message) Email {
	return Email{
		To:      []string{m.Email},
		Subject: "Thank you for contacting us",
		Body: fmt.Sprintf("Dear %s,\n\nWe've received your message and will get back to you as soon as possible.\n\nRegards,\nPortfolio Team\n",
			m.Name),
	}
}

func adminNotification(m models.Message, adminEmail string) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "New message from %s (%s)\n\n", m.Name, m.Email)
	if m.ProjectInterest != nil && *m.ProjectInterest != "" {
		fmt.Fprintf(&b, "Interested in: %s\n\n", *m.ProjectInterest)
	} else {
		b.WriteString("No specific project interest\n\n")
	}
	fmt.Fprintf(&b, "Message:\n%s\n", m.Message)
	return Email{
		To:      []string{adminEmail},
		Subject: "New Contact Form Submission",
		Body:    b.String(),
		ReplyTo: m.Email,
	}
}

// LogNotifier only logs contact messages. It is used when no mail provider
// is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier() LogNotifier {
	return LogNotifier{logger: log.With().Str("service", "logNotifier").Logger()}
}

func (n LogNotifier) NotifyContact(_ context.Context, message models.Message) error {
	n.logger.Info().
		Int64("messageId", message.ID).
		Str("from", message.Email).
		Msg("new contact message (mail delivery disabled)")
	return nil
}
