package services

import (
	"context"
	"fmt"

	"khmerdownload-api/internal/config"
	"khmerdownload-api/pkg/logging"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// BrevoService sends transactional mail through the Brevo API
type BrevoService struct {
	client    *brevo.APIClient
	fromEmail string
	fromName  string
}

// NewBrevoService creates a new Brevo service
func NewBrevoService() *BrevoService {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", config.AppConfig.BrevoAPIKey)

	return &BrevoService{
		client:    brevo.NewAPIClient(cfg),
		fromEmail: config.AppConfig.BrevoFromEmail,
		fromName:  config.AppConfig.BrevoFromName,
	}
}

// SendOTPEmail sends the sign-in code to a user
func (s *BrevoService) SendOTPEmail(ctx context.Context, to, code string, expireMinutes int) error {
	subject := fmt.Sprintf("Your Verification Code - %s", s.fromName)
	htmlContent := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h3>Verification Code</h3>
			<p>Your code is: <b style="font-size: 24px; letter-spacing: 4px;">%s</b></p>
			<p>Expires in %d minutes. Do not share this code with anyone.</p>
			<p style="color: #999; font-size: 12px;">If you did not request this, ignore this email.</p>
		</div>
	`, code, expireMinutes)
	textContent := fmt.Sprintf("Your verification code is %s. Expires in %d minutes.", code, expireMinutes)

	email := brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  s.fromName,
			Email: s.fromEmail,
		},
		To: []brevo.SendSmtpEmailTo{
			{Email: to},
		},
		Subject:     subject,
		HtmlContent: htmlContent,
		TextContent: textContent,
	}

	_, _, err := s.client.TransactionalEmailsApi.SendTransacEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	logging.Infof("OTP email sent to %s", to)
	return nil
}
