package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

// ResetMailer delivers password-reset codes over SMTP. The message carries
// both a plain-text and an HTML body.
type ResetMailer struct {
	client *mail.Client
	from   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

func NewResetMailer(cfg SMTPConfig) (*ResetMailer, error) {
	if strings.TrimSpace(cfg.Host) == "" || strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("mailer missing SMTP host or sender address")
	}

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}
	return &ResetMailer{client: client, from: strings.TrimSpace(cfg.From)}, nil
}

func (m *ResetMailer) SendResetOTP(ctx context.Context, to, otp string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("Your OTP to reset password")
	msg.SetBodyString(mail.TypeTextPlain,
		fmt.Sprintf("Your OTP to reset password is %s. It will expire in 10 minutes.", otp))
	msg.AddAlternativeString(mail.TypeTextHTML,
		fmt.Sprintf("<p>Your OTP to reset password is <b>%s</b>. It will expire in 10 minutes.</p>", otp))

	return m.client.DialAndSendWithContext(ctx, msg)
}
