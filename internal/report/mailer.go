package report

import (
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPMailer delivers report mail over implicit-TLS SMTP, one connection per
// message.
type SMTPMailer struct {
	host      string
	port      int
	sender    string
	password  string
	recipient string
}

func NewSMTPMailer(host string, port int, sender, password, recipient string) *SMTPMailer {
	return &SMTPMailer{
		host:      host,
		port:      port,
		sender:    sender,
		password:  password,
		recipient: recipient,
	}
}

func (m *SMTPMailer) Send(msg Message) error {
	message := mail.NewMsg()
	if err := message.From(m.sender); err != nil {
		return fmt.Errorf("mailer: set from: %w", err)
	}
	if err := message.To(m.recipient); err != nil {
		return fmt.Errorf("mailer: set to: %w", err)
	}

	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextPlain, msg.Body)

	if msg.AttachmentPath != "" {
		message.AttachFile(msg.AttachmentPath)
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.sender),
		mail.WithPassword(m.password),
	)
	if err != nil {
		return fmt.Errorf("mailer: new client: %w", err)
	}

	if err := client.DialAndSend(message); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}

	return nil
}
