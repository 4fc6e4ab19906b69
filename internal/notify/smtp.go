package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender delivers reset emails over plain SMTP.
type SMTPSender struct {
	addr    string // host:port
	from    string
	baseURL string
	auth    smtp.Auth
}

// NewSMTPSender builds a sender. username/password may be empty for
// unauthenticated relays (local dev).
func NewSMTPSender(addr, from, baseURL, username, password string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{addr: addr, from: from, baseURL: baseURL, auth: auth}
}

func (s *SMTPSender) SendPasswordReset(_ context.Context, recipient, token string) error {
	link := strings.TrimRight(s.baseURL, "/") + "/password/reset?token=" + token
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Password reset\r\n\r\n"+
		"A password reset was requested for your account.\r\n"+
		"Follow this link within one hour to choose a new password:\r\n\r\n%s\r\n\r\n"+
		"If you did not request this, ignore this message.\r\n",
		s.from, recipient, link)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}
