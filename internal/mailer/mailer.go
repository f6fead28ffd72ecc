package mailer

import (
	"fmt"

	"github.com/CkBu3u/DiplomFinal/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail.
type Mailer interface {
	SendNewReviewEmail(toEmail, listingTitle string, rating int) error
}

// Dialer is the part of *gomail.Dialer the mailer uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPMailer struct {
	from   string
	dialer Dialer
}

func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	return NewSMTPMailerWithDialer(cfg.From, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password))
}

func NewSMTPMailerWithDialer(from string, d Dialer) *SMTPMailer {
	return &SMTPMailer{from: from, dialer: d}
}

func (m *SMTPMailer) SendNewReviewEmail(toEmail, listingTitle string, rating int) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Новый отзыв о вашем объявлении")
	msg.SetBody("text/plain", fmt.Sprintf("Ваше объявление «%s» получило новый отзыв с оценкой %d из 5.", listingTitle, rating))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer.SendNewReviewEmail: %w", err)
	}
	return nil
}

// NopMailer drops every message. Used when SMTP is not configured.
type NopMailer struct{}

func (NopMailer) SendNewReviewEmail(string, string, int) error { return nil }
