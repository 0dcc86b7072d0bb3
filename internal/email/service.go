package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/petminded/petcare-api/internal/model"
)

// Service sends booking lifecycle notifications. Sends are best-effort:
// callers log failures and move on, a lost email never blocks a transition.
type Service interface {
	SendBookingUpdate(ctx context.Context, to string, event *model.BookingEvent) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingUpdate(ctx context.Context, to string, event *model.BookingEvent) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Booking #%d is now %s", event.BookingID, event.Status))
	m.SetBody("text/plain", fmt.Sprintf(
		"Booking #%d changed status to %q at %s.",
		event.BookingID, event.Status, event.At.Format("2006-01-02 15:04"),
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send booking update: %w", err)
	}
	return nil
}
