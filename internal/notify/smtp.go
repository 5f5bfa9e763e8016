package notify

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPNotifier delivers activation codes over plain SMTP, typically to a
// local relay such as Mailpit.
type SMTPNotifier struct {
	addr string
	from string
	send func(addr, from string, to []string, msg []byte) error
}

// NewSMTPNotifier constructs an SMTPNotifier.
func NewSMTPNotifier(host string, port int, from string) *SMTPNotifier {
	return &SMTPNotifier{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// SendActivationCode sends the code as a short transactional mail.
func (n *SMTPNotifier) SendActivationCode(ctx context.Context, email, code string) error {
	return n.Send(ctx, email, Subject, Body(code))
}

// Send delivers a fully rendered message. It also serves queued mail
// tasks in the background worker.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.from, to, subject, body)
	if err := n.send(n.addr, n.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("notify: smtp send: %w", err)
	}
	return nil
}

// Subject is the subject line of the activation mail.
const Subject = "Your activation code"

// Body renders the activation mail body for a code.
func Body(code string) string {
	return fmt.Sprintf("Your activation code is %s. It expires shortly; request a new one if needed.", code)
}
