// Package mailer delivers one-time passcodes to users out-of-band.
package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer is the notification channel for OTP delivery. It either succeeds
// or fails; retry policy belongs to the caller.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// SMTPMailer sends OTP mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates an SMTPMailer for the given relay and sender.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendOTP mails the code to email. The context deadline is honored only
// coarsely: gomail dials synchronously, so the transport timeout bounds the
// call.
func (m *SMTPMailer) SendOTP(ctx context.Context, email, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your OTP Code")
	msg.SetBody("text/plain", fmt.Sprintf("Your OTP is %s. It is valid for 10 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send otp mail: %w", err)
	}
	return nil
}
