package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// IMAPConfig holds IMAP connection settings.
type IMAPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	TLS      bool
	Mailbox  string
}

// session is the subset of *client.Client used to read the sent mailbox.
type session interface {
	Login(username, password string) error
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	Logout() error
}

type dialFunc func(addr string, useTLS bool) (session, error)

func dialIMAP(addr string, useTLS bool) (session, error) {
	if useTLS {
		host, _, _ := strings.Cut(addr, ":")
		return client.DialTLS(addr, &tls.Config{ServerName: host})
	}
	return client.Dial(addr)
}

// IMAPHistory lists every address the account has already written to.
type IMAPHistory struct {
	cfg  IMAPConfig
	dial dialFunc
}

// NewIMAPHistory creates an IMAPHistory. An empty mailbox defaults to "Sent".
func NewIMAPHistory(cfg IMAPConfig) *IMAPHistory {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "Sent"
	}
	return &IMAPHistory{cfg: cfg, dial: dialIMAP}
}

// Recipients returns the lowercased To, Cc and Bcc addresses of every
// message in the sent mailbox, deduplicated.
func (h *IMAPHistory) Recipients(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "mail: history cancelled")
	}

	addr := fmt.Sprintf("%s:%d", h.cfg.Host, h.cfg.Port)
	c, err := h.dial(addr, h.cfg.TLS)
	if err != nil {
		return nil, eris.Wrapf(err, "mail: dial imap %s", addr)
	}
	defer func() {
		if err := c.Logout(); err != nil {
			zap.L().Debug("mail: imap logout", zap.Error(err))
		}
	}()

	if err := c.Login(h.cfg.Username, h.cfg.Password); err != nil {
		return nil, eris.Wrap(err, "mail: imap login")
	}

	status, err := c.Select(h.cfg.Mailbox, true)
	if err != nil {
		return nil, eris.Wrapf(err, "mail: select %s", h.cfg.Mailbox)
	}
	if status == nil || status.Messages == 0 {
		return nil, nil
	}

	seq := new(imap.SeqSet)
	seq.AddRange(1, status.Messages)

	ch := make(chan *imap.Message, 32)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seq, []imap.FetchItem{imap.FetchEnvelope}, ch)
	}()

	seen := make(map[string]struct{})
	var out []string
	for msg := range ch {
		if msg == nil || msg.Envelope == nil {
			continue
		}
		for _, list := range [][]*imap.Address{msg.Envelope.To, msg.Envelope.Cc, msg.Envelope.Bcc} {
			for _, a := range list {
				if a == nil {
					continue
				}
				email := strings.ToLower(strings.TrimSpace(a.Address()))
				if email == "" {
					continue
				}
				if _, ok := seen[email]; ok {
					continue
				}
				seen[email] = struct{}{}
				out = append(out, email)
			}
		}
	}
	if err := <-done; err != nil {
		return nil, eris.Wrapf(err, "mail: fetch %s", h.cfg.Mailbox)
	}

	zap.L().Info("mail: history loaded",
		zap.String("mailbox", h.cfg.Mailbox),
		zap.Uint32("messages", status.Messages),
		zap.Int("recipients", len(out)),
	)
	return out, nil
}
