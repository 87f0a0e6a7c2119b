package email

import (
	"fmt"

	"github.com/hirewise/hirewise/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender delivers HTML notification emails over SMTP. Delivery is always
// fire-and-forget from the caller's point of view: failures are logged and
// never surfaced to the candidate-facing flow.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func NewSender(cfg config.SMTPConfig, log *zap.Logger) *Sender {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
		log:    log,
	}
}

func (s *Sender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// SendStatus renders the template for the given application status and sends
// it. Unknown statuses are an error so typos never silently drop mail.
func (s *Sender) SendStatus(to string, data TemplateData) error {
	subject, body, err := Render(data)
	if err != nil {
		return err
	}
	if err := s.Send(to, subject, body); err != nil {
		return err
	}
	s.log.Info("status email sent",
		zap.String("to", to),
		zap.String("status", string(data.Status)),
	)
	return nil
}
