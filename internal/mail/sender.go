package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"gopkg.in/gomail.v2"
)

// Sender delivers the password reset code.
type Sender interface {
	SendResetCode(ctx context.Context, to, name, code string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

var resetTemplate = template.Must(template.New("reset").Parse(`<p>Hello {{.Name}},</p>
<p>Your password reset code is <strong>{{.Code}}</strong>.</p>
<p>It expires in {{.Minutes}} minutes. If you did not ask for it, ignore this email.</p>`))

type resetData struct {
	Name    string
	Code    string
	Minutes int
}

func (s *SMTPSender) SendResetCode(ctx context.Context, to, name, code string) error {
	m, err := ResetMessage(s.from, to, name, code)
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("send smtp mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ResetMessage builds the reset mail.
func ResetMessage(from, to, name, code string) (*gomail.Message, error) {
	if name == "" {
		name = "there"
	}

	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, resetData{Name: name, Code: code, Minutes: 10}); err != nil {
		return nil, fmt.Errorf("render reset mail: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your password reset code")
	m.SetBody("text/html", body.String())
	return m, nil
}

// LogSender records that a code was issued without mailing it. It is only
// wired when SMTP is not configured. The code itself is never logged.
type LogSender struct{}

func (LogSender) SendResetCode(_ context.Context, to, _, _ string) error {
	log.Printf("mail disabled: reset code issued for %s, not delivered", to)
	return nil
}
