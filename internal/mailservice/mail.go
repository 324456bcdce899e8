package mailservice

import (
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/toolshelf/internal/common"
)

const senderName = "toolshelf"

// NewMailer dials the configured SMTP relay, upgrading to TLS when the relay offers it.
func NewMailer(cfg common.MailConfig, tp TemplateParser) *Mail {
	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	dialer.Timeout = 5 * time.Second
	dialer.StartTLSPolicy = mail.OpportunisticStartTLS

	return &Mail{
		dialer: dialer,
		sender: cfg.Sender,
		parser: tp,
	}
}

func (m *Mail) send(recipient string, data any, templateFile string) error {
	subject, plainBody, htmlBody, err := m.parser.ParseTemplate(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.sender, senderName)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject.String())
	msg.SetDateHeader("Date", time.Now())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	// The dialer holds one SMTP session at a time.
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dialer.DialAndSend(msg)
}
