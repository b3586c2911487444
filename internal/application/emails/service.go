package emails

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers transactional email.
type Sender interface {
	SendOtp(toName, toEmail, code, purpose string) error
}

// SendgridSender sends mail through the SendGrid API.
type SendgridSender struct {
	APIKey string
	From   string
}

func (s *SendgridSender) SendOtp(toName, toEmail, code, purpose string) error {
	from := mail.NewEmail("UniThrift", s.From)
	to := mail.NewEmail(toName, toEmail)
	subject := "Your UniThrift verification code"
	plain := fmt.Sprintf("Your one-time code is %s. It expires in one hour.", code)
	html := fmt.Sprintf("<p>Your one-time code is <strong>%s</strong>. It expires in one hour.</p>", code)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	client := sendgrid.NewSendClient(s.APIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	log.Info().Str("purpose", purpose).Msg("OTP email sent")
	return nil
}

// NoopSender drops mail, used in tests and local development.
type NoopSender struct{}

func (NoopSender) SendOtp(toName, toEmail, code, purpose string) error { return nil }
