package auth

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Mailer delivers password reset codes.
type Mailer interface {
	SendOTP(ctx context.Context, email, otp string) error
}

// LogMailer writes codes to the log instead of sending mail.
type LogMailer struct{}

// SendOTP logs the code.
func (LogMailer) SendOTP(ctx context.Context, email, otp string) error {
	log.WithFields(log.Fields{"email": email, "otp": otp}).Info("password reset code issued")
	return nil
}
