package email

import (
	"bufio"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTP is a minimal single-connection-at-a-time relay that accepts
// AUTH PLAIN and records the commands and message data it receives.
type fakeSMTP struct {
	ln       net.Listener
	withAuth bool
	authCode string
	quitCode string
	closed   chan struct{} // signalled each time a client connection ends

	mu       sync.Mutex
	commands []string
	data     []string
}

func newFakeSMTP(t *testing.T, withAuth bool) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSMTP{
		ln:       ln,
		withAuth: withAuth,
		authCode: "235 2.7.0 Authentication successful",
		quitCode: "221 Bye",
		closed:   make(chan struct{}, 8),
	}
	t.Cleanup(func() { ln.Close() })
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
		s.handle(conn)
	}
}

func (s *fakeSMTP) handle(conn net.Conn) {
	defer func() {
		conn.Close()
		select {
		case s.closed <- struct{}{}:
		default:
		}
	}()
	r := bufio.NewReader(conn)
	reply := func(line string) { _, _ = io.WriteString(conn, line+"\r\n") }

	reply("220 fake.local ESMTP ready")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		cmd := strings.ToUpper(strings.SplitN(line, " ", 2)[0])

		s.mu.Lock()
		s.commands = append(s.commands, cmd)
		s.mu.Unlock()

		switch cmd {
		case "EHLO":
			if s.withAuth {
				reply("250-fake.local")
				reply("250 AUTH PLAIN")
			} else {
				reply("250 fake.local")
			}
		case "HELO":
			reply("250 fake.local")
		case "AUTH":
			reply(s.authCode)
		case "MAIL", "RCPT", "RSET", "NOOP":
			reply("250 OK")
		case "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var sb strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				sb.WriteString(l)
			}
			s.mu.Lock()
			s.data = append(s.data, sb.String())
			s.mu.Unlock()
			reply("250 OK queued")
		case "QUIT":
			reply(s.quitCode)
			if strings.HasPrefix(s.quitCode, "221") {
				return
			}
		default:
			reply("502 Command not implemented")
		}
	}
}

func (s *fakeSMTP) snapshot() ([]string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...), append([]string(nil), s.data...)
}

func testSMTPConfig(port int) Config {
	return Config{
		Driver:        DriverSMTP,
		Host:          "127.0.0.1",
		Port:          port,
		Username:      "mailer@example.com",
		Password:      "secret",
		FromName:      "Mentorly",
		SupportEmail:  "support@example.com",
		VerifyTimeout: 2 * time.Second,
	}
}

func TestSMTPTransport_VerifyAndSend(t *testing.T) {
	t.Parallel()

	srv := newFakeSMTP(t, true)
	tr := newSMTPTransport(testSMTPConfig(srv.port()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, tr.Verify(ctx))
	require.NoError(t, tr.Send(ctx, Message{
		To:      "sarah@example.com",
		Subject: "New Session Booked",
		HTML:    "<p>Alex booked a session</p>",
	}))

	commands, data := srv.snapshot()
	assert.Equal(t, []string{"EHLO", "AUTH", "QUIT", "EHLO", "AUTH", "MAIL", "RCPT", "DATA", "QUIT"}, commands)
	require.Len(t, data, 1)
	assert.Contains(t, data[0], "Subject: New Session Booked")
	assert.Contains(t, data[0], "Alex booked a session")
}

func TestSMTPTransport_RequiresAuth(t *testing.T) {
	t.Parallel()

	srv := newFakeSMTP(t, false)
	tr := newSMTPTransport(testSMTPConfig(srv.port()))

	err := tr.Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support AUTH")
}

func TestSMTPTransport_AuthRejected(t *testing.T) {
	t.Parallel()

	srv := newFakeSMTP(t, true)
	srv.authCode = "535 5.7.8 Authentication credentials invalid"
	tr := newSMTPTransport(testSMTPConfig(srv.port()))

	err := tr.Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp AUTH")
}

func TestSMTPTransport_VerifyClosesOnQuitError(t *testing.T) {
	t.Parallel()

	srv := newFakeSMTP(t, true)
	srv.quitCode = "451 4.3.0 Temporary failure"
	tr := newSMTPTransport(testSMTPConfig(srv.port()))

	err := tr.Verify(context.Background())
	require.Error(t, err)

	select {
	case <-srv.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("client connection left open after a failed QUIT")
	}
}

func TestSMTPTransport_DialFailure(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	tr := newSMTPTransport(testSMTPConfig(port))
	err = tr.Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial 127.0.0.1:"+strconv.Itoa(port))
}

func TestSMTPTransport_Build(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 3, 2, 15, 4, 0, 0, time.UTC)
	tr := newSMTPTransport(testSMTPConfig(587))
	tr.now = func() time.Time { return fixed }

	t.Run("html only", func(t *testing.T) {
		t.Parallel()

		raw, err := tr.build(Message{To: "sarah@example.com", Subject: "Payment Received", HTML: "<p>$50.00</p>"})
		require.NoError(t, err)

		msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
		require.NoError(t, err)
		assert.Equal(t, `"Mentorly" <mailer@example.com>`, msg.Header.Get("From"))
		assert.Equal(t, "<sarah@example.com>", msg.Header.Get("To"))
		assert.Equal(t, "support@example.com", msg.Header.Get("Reply-To"))
		assert.Equal(t, fixed.Format(time.RFC1123Z), msg.Header.Get("Date"))
		assert.True(t, strings.HasSuffix(msg.Header.Get("Message-ID"), "@127.0.0.1>"))
		assert.Equal(t, "quoted-printable", msg.Header.Get("Content-Transfer-Encoding"))

		body, err := io.ReadAll(msg.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "<p>$50.00</p>")
	})

	t.Run("with text alternative", func(t *testing.T) {
		t.Parallel()

		raw, err := tr.build(Message{To: "sarah@example.com", Subject: "Réservation", HTML: "<p>hi</p>", Text: "hi"})
		require.NoError(t, err)

		msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
		require.NoError(t, err)

		dec := new(mime.WordDecoder)
		subject, err := dec.DecodeHeader(msg.Header.Get("Subject"))
		require.NoError(t, err)
		assert.Equal(t, "Réservation", subject)

		mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/alternative", mediaType)

		mr := multipart.NewReader(msg.Body, params["boundary"])
		var types []string
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			types = append(types, p.Header.Get("Content-Type"))
		}
		assert.Equal(t, []string{`text/plain; charset="utf-8"`, `text/html; charset="utf-8"`}, types)
	})
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"Session Reminder", "session_reminder"},
		{"../../etc/passwd", "....etcpasswd"},
		{"", "email"},
		{"!!!", "email"},
		{strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
