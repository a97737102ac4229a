package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// EmailService defines the mail the approval workflow sends
type EmailService interface {
	SendProfileApprovedEmail(toEmail, toName string) error
	SendProfileRejectedEmail(toEmail, toName string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	// PortalURL is linked from the mail body
	PortalURL string
}

// Sender delivers a composed message. gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailServiceImpl implements EmailService over SMTP
type EmailServiceImpl struct {
	config SMTPConfig
	sender Sender
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService. Without an SMTP host, mail is logged and dropped.
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	s := &EmailServiceImpl{
		config: config,
		logger: logger,
	}
	if config.Host != "" {
		s.sender = gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	}
	return s
}

// WithSender swaps the transport, e.g. for tests
func (s *EmailServiceImpl) WithSender(sender Sender) *EmailServiceImpl {
	s.sender = sender
	return s
}

var approvedTemplate = template.Must(template.New("approved").Parse(`
<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Welcome to SVCE Alumni Connect!</h2>
		<p>Hello {{.Name}},</p>
		<p>Your profile has been approved by the alumni association. You now have full access to the job board, meetings and the alumni network.</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.PortalURL}}" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Open the portal</a>
		</div>
		<p>Best regards,<br>The SVCE Alumni Association</p>
	</div>
</body>
</html>
`))

var rejectedTemplate = template.Must(template.New("rejected").Parse(`
<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<p>Hello {{.Name}},</p>
		<p>Your registration request for SVCE Alumni Connect could not be approved. If you believe this is a mistake, please contact the alumni association office.</p>
		<p>Best regards,<br>The SVCE Alumni Association</p>
	</div>
</body>
</html>
`))

type mailData struct {
	Name      string
	PortalURL string
}

// SendProfileApprovedEmail tells a user their profile was approved
func (s *EmailServiceImpl) SendProfileApprovedEmail(toEmail, toName string) error {
	return s.send(toEmail, "Your SVCE Alumni Connect profile is approved", approvedTemplate, mailData{Name: toName, PortalURL: s.config.PortalURL})
}

// SendProfileRejectedEmail tells a user their registration was declined
func (s *EmailServiceImpl) SendProfileRejectedEmail(toEmail, toName string) error {
	return s.send(toEmail, "Your SVCE Alumni Connect registration", rejectedTemplate, mailData{Name: toName, PortalURL: s.config.PortalURL})
}

func (s *EmailServiceImpl) send(toEmail, subject string, tmpl *template.Template, data mailData) error {
	if s.sender == nil {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Msg("SMTP not configured - email not sent")
		return nil
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Str("host", s.config.Host).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}
