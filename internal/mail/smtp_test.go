package mail

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

// fakeSMTP accepts one plain SMTP session and records the envelope and data.
type fakeSMTP struct {
	ln       net.Listener
	mu       sync.Mutex
	from     string
	rcpts    []string
	data     string
	rejectTo bool
}

func newFakeSMTP(t *testing.T, rejectTo bool) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeSMTP{ln: ln, rejectTo: rejectTo}
	t.Cleanup(func() { _ = ln.Close() })
	go s.serve()
	return s
}

func (s *fakeSMTP) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTP) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeSMTP) handle(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	r := bufio.NewReader(conn)
	reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }

	reply("220 localhost ESMTP")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			reply("250 localhost")
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			s.mu.Lock()
			s.from = strings.TrimSpace(line[len("MAIL FROM:"):])
			s.mu.Unlock()
			reply("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			if s.rejectTo {
				reply("550 no such user")
				continue
			}
			s.mu.Lock()
			s.rcpts = append(s.rcpts, strings.TrimSpace(line[len("RCPT TO:"):]))
			s.mu.Unlock()
			reply("250 OK")
		case cmd == "DATA":
			reply("354 go ahead")
			var b strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				b.WriteString(l)
			}
			s.mu.Lock()
			s.data = b.String()
			s.mu.Unlock()
			reply("250 queued")
		case cmd == "QUIT":
			reply("221 bye")
			return
		default:
			reply("250 OK")
		}
	}
}

func (s *fakeSMTP) snapshot() (string, []string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.from, append([]string(nil), s.rcpts...), s.data
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSMTPSender_Send(t *testing.T) {
	t.Parallel()

	srv := newFakeSMTP(t, false)
	resume := writeFile(t, "cv.pdf", "%PDF-1.4 resume")
	letter := writeFile(t, "lettre.pdf", "%PDF-1.4 letter")

	sender := NewSMTPSender(SMTPConfig{
		Host:        "127.0.0.1",
		Port:        srv.port(),
		From:        "me@example.org",
		DisplayName: "Jane Doe",
		TLS:         TLSNone,
		Timeout:     5 * time.Second,
	})

	err := sender.Send(context.Background(), Message{
		To:          "contact@acme.io",
		Subject:     "Spontaneous application",
		Body:        "Hello,\nplease find my application attached.",
		Attachments: []string{resume, letter},
	})
	require.NoError(t, err)

	from, rcpts, data := srv.snapshot()
	assert.Contains(t, from, "me@example.org")
	require.Len(t, rcpts, 1)
	assert.Contains(t, rcpts[0], "contact@acme.io")
	assert.Contains(t, data, "Subject: Spontaneous application")
	assert.Contains(t, data, "cv.pdf")
	assert.Contains(t, data, "lettre.pdf")
	assert.Contains(t, data, "multipart/mixed")
}

func TestSMTPSender_RecipientRejected(t *testing.T) {
	t.Parallel()

	srv := newFakeSMTP(t, true)

	sender := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: srv.port(), From: "me@example.org"})
	err := sender.Send(context.Background(), Message{To: "nobody@acme.io", Subject: "x", Body: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail: send to nobody@acme.io")
}

func TestSMTPSender_BuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    string
		msg     Message
		wantErr string
	}{
		{name: "empty recipient", from: "me@example.org", msg: Message{To: " "}, wantErr: "mail: empty recipient"},
		{name: "bad from", from: "not an address", msg: Message{To: "a@b.com"}, wantErr: "mail: invalid from"},
		{name: "bad recipient", from: "me@example.org", msg: Message{To: "nope"}, wantErr: "mail: invalid recipient"},
		{
			name:    "missing attachment",
			from:    "me@example.org",
			msg:     Message{To: "a@b.com", Attachments: []string{"/does/not/exist.pdf"}},
			wantErr: "mail: attachment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: 1, From: tt.from})
			err := s.Send(context.Background(), tt.msg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTLSPolicy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, gomail.NoTLS, tlsPolicy(""))
	assert.Equal(t, gomail.NoTLS, tlsPolicy("none"))
	assert.Equal(t, gomail.TLSOpportunistic, tlsPolicy("opportunistic"))
	assert.Equal(t, gomail.TLSMandatory, tlsPolicy("MANDATORY"))
}

func TestClientOptions_Auth(t *testing.T) {
	t.Parallel()

	anon := NewSMTPSender(SMTPConfig{Port: 25})
	authed := NewSMTPSender(SMTPConfig{Port: 25, Username: "u", Password: "p"})
	assert.Len(t, anon.clientOptions(), 3)
	assert.Len(t, authed.clientOptions(), 6)
}
