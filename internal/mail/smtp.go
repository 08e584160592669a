// Package mail sends outreach messages over SMTP and reads past recipients
// back from the sent mailbox over IMAP.
package mail

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Message is one outgoing email.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []string
}

// TLS modes accepted by SMTPConfig.TLS.
const (
	TLSNone          = "none"
	TLSOpportunistic = "opportunistic"
	TLSMandatory     = "mandatory"
)

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	DisplayName string
	TLS         string
	Timeout     time.Duration
}

// SMTPSender delivers messages through an SMTP relay such as a local bridge.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates an SMTPSender.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPSender{cfg: cfg}
}

// Send builds a plain-text message with attachments and delivers it. There
// is no retry; the caller decides what a failure means.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return eris.Wrap(err, "mail: create smtp client")
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return eris.Wrapf(err, "mail: send to %s", msg.To)
	}

	zap.L().Info("mail: sent",
		zap.String("to", msg.To),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}

func (s *SMTPSender) build(msg Message) (*gomail.Msg, error) {
	if strings.TrimSpace(msg.To) == "" {
		return nil, eris.New("mail: empty recipient")
	}

	m := gomail.NewMsg()
	if s.cfg.DisplayName != "" {
		if err := m.FromFormat(s.cfg.DisplayName, s.cfg.From); err != nil {
			return nil, eris.Wrapf(err, "mail: invalid from %q", s.cfg.From)
		}
	} else if err := m.From(s.cfg.From); err != nil {
		return nil, eris.Wrapf(err, "mail: invalid from %q", s.cfg.From)
	}
	if err := m.To(msg.To); err != nil {
		return nil, eris.Wrapf(err, "mail: invalid recipient %q", msg.To)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	for _, path := range msg.Attachments {
		if path == "" {
			continue
		}
		// AttachFile drops unreadable files silently.
		if _, err := os.Stat(path); err != nil {
			return nil, eris.Wrapf(err, "mail: attachment %s", path)
		}
		m.AttachFile(path)
	}
	return m, nil
}

func (s *SMTPSender) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTimeout(s.cfg.Timeout),
		gomail.WithTLSPolicy(tlsPolicy(s.cfg.TLS)),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}

func tlsPolicy(mode string) gomail.TLSPolicy {
	switch strings.ToLower(mode) {
	case TLSMandatory:
		return gomail.TLSMandatory
	case TLSOpportunistic:
		return gomail.TLSOpportunistic
	default:
		return gomail.NoTLS
	}
}
