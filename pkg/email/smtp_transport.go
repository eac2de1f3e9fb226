package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

type smtpTransport struct {
	cfg  Config
	dial dialFunc
	now  func() time.Time
}

func newSMTPTransport(cfg Config) *smtpTransport {
	t := &smtpTransport{cfg: cfg, now: time.Now}
	if cfg.Secure {
		d := &tls.Dialer{Config: &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}}
		t.dial = d.DialContext
	} else {
		d := &net.Dialer{}
		t.dial = d.DialContext
	}
	return t
}

// Verify opens a session, authenticates and quits.
func (t *smtpTransport) Verify(ctx context.Context) error {
	c, err := t.session(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Quit()
}

func (t *smtpTransport) Send(ctx context.Context, msg Message) error {
	body, err := t.build(msg)
	if err != nil {
		return err
	}

	c, err := t.session(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Mail(t.cfg.Sender()); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp end data: %w", err)
	}
	return c.Quit()
}

// session dials the relay, upgrades to TLS when offered and authenticates.
func (t *smtpTransport) session(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	conn, err := t.dial(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp greeting: %w", err)
	}

	if !t.cfg.Secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
				c.Close()
				return nil, fmt.Errorf("smtp STARTTLS: %w", err)
			}
		}
	}

	if ok, _ := c.Extension("AUTH"); !ok {
		c.Close()
		return nil, errors.New("smtp server does not support AUTH")
	}
	if err := c.Auth(smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)); err != nil {
		c.Close()
		return nil, fmt.Errorf("smtp AUTH: %w", err)
	}
	return c, nil
}

// build renders msg as an RFC 5322 message. A plain-text alternative turns it
// into multipart/alternative.
func (t *smtpTransport) build(msg Message) ([]byte, error) {
	from := mail.Address{Name: t.cfg.FromName, Address: t.cfg.Sender()}

	var buf bytes.Buffer
	header := textproto.MIMEHeader{}
	header.Set("From", from.String())
	header.Set("To", (&mail.Address{Address: msg.To}).String())
	header.Set("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header.Set("Date", t.now().Format(time.RFC1123Z))
	header.Set("Message-ID", "<"+uuid.NewString()+"@"+t.cfg.Host+">")
	header.Set("MIME-Version", "1.0")
	if t.cfg.SupportEmail != "" {
		header.Set("Reply-To", t.cfg.SupportEmail)
	}

	if msg.Text == "" {
		header.Set("Content-Type", `text/html; charset="utf-8"`)
		header.Set("Content-Transfer-Encoding", "quoted-printable")
		writeHeader(&buf, header)
		if err := writeQuotedPrintable(&buf, msg.HTML); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header.Set("Content-Type", `multipart/alternative; boundary="`+mw.Boundary()+`"`)
	writeHeader(&buf, header)

	for _, part := range []struct{ contentType, content string }{
		{`text/plain; charset="utf-8"`, msg.Text},
		{`text/html; charset="utf-8"`, msg.HTML},
	} {
		pw, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		if err := writeQuotedPrintable(pw, part.content); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	buf.Write(body.Bytes())
	return buf.Bytes(), nil
}

var headerOrder = []string{"From", "To", "Reply-To", "Subject", "Date", "Message-ID", "MIME-Version", "Content-Type", "Content-Transfer-Encoding"}

func writeHeader(buf *bytes.Buffer, h textproto.MIMEHeader) {
	for _, k := range headerOrder {
		if v := h.Get(k); v != "" {
			buf.WriteString(k + ": " + v + "\r\n")
		}
	}
	buf.WriteString("\r\n")
}

func writeQuotedPrintable(w interface{ Write([]byte) (int, error) }, s string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(s)); err != nil {
		return err
	}
	return qp.Close()
}
