// Package smtp delivers confirmation emails over plain SMTP.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/vmelnyk/contacts-api/config"
	"github.com/vmelnyk/contacts-api/internal/core"
)

// TokenIssuer mints the confirmation token embedded in the email link.
// *auth.TokenService satisfies it.
type TokenIssuer interface {
	IssueConfirmationToken(email string) (string, error)
}

var _ core.EmailSender = (*Sender)(nil)

// Sender sends confirmation emails through an SMTP relay. Each Send
// mints a fresh confirmation token and embeds it in the verification
// link, so a re-request always carries a currently-valid token.
type Sender struct {
	cfg    config.MailConfig
	tokens TokenIssuer

	// sendMail is swappable for tests; defaults to smtp.SendMail.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender constructs a Sender.
func NewSender(cfg config.MailConfig, tokens TokenIssuer) (*Sender, error) {
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	return &Sender{
		cfg:      cfg,
		tokens:   tokens,
		sendMail: smtp.SendMail,
	}, nil
}

// Send mails a confirmation link to the given address. Blocking; the
// service layer decides whether delivery happens in the foreground.
func (s *Sender) Send(ctx context.Context, toAddress, username, baseURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	token, err := s.tokens.IssueConfirmationToken(toAddress)
	if err != nil {
		return fmt.Errorf("issue confirmation token: %w", err)
	}

	link := strings.TrimSuffix(baseURL, "/") + "/auth/confirmed_email/" + token
	msg := s.buildMessage(toAddress, username, link)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var authc smtp.Auth
	if s.cfg.Username != "" {
		authc = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := s.sendMail(addr, authc, s.cfg.From, []string{toAddress}, msg); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

func (s *Sender) buildMessage(toAddress, username, link string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", toAddress)
	b.WriteString("Subject: Confirm your email\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", username)
	b.WriteString("Confirm your email address by opening the link below:\r\n\r\n")
	b.WriteString(link + "\r\n\r\n")
	b.WriteString("The link is valid for 7 days. If you did not register, ignore this message.\r\n")
	return []byte(b.String())
}
