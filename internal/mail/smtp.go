package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// SMTPConfig holds the SMTP server settings.
type SMTPConfig struct {
	Host     string
	Port     int    // 587 for STARTTLS, 465 for implicit TLS
	Username string // empty disables AUTH
	Password string
	UseSSL   bool // true for SMTPS on 465
	// RequireTLS fails the send when the server does not offer STARTTLS.
	RequireTLS  bool
	DialTimeout time.Duration
}

// SMTPGateway delivers messages through an SMTP relay.
type SMTPGateway struct {
	cfg SMTPConfig
	now func() time.Time
}

// NewSMTPGateway returns a Gateway backed by the relay described in cfg.
func NewSMTPGateway(cfg SMTPConfig) *SMTPGateway {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	return &SMTPGateway{cfg: cfg, now: time.Now}
}

// Send opens one SMTP session per message.
func (g *SMTPGateway) Send(ctx context.Context, msg Message) (Delivery, error) {
	id := newMessageID(msg.From.Email)
	body := buildMessage(msg, id, g.now())

	if err := g.deliver(ctx, msg.From.Email, msg.To, body); err != nil {
		return Delivery{}, fmt.Errorf("mail.SMTPGateway.Send: %s: %w", msg.To, err)
	}
	return Delivery{MessageID: id}, nil
}

func (g *SMTPGateway) deliver(ctx context.Context, from, to string, body []byte) error {
	addr := net.JoinHostPort(g.cfg.Host, strconv.Itoa(g.cfg.Port))
	tlsCfg := &tls.Config{ServerName: g.cfg.Host, MinVersion: tls.VersionTLS12}

	dialer := &net.Dialer{Timeout: g.cfg.DialTimeout}
	var (
		conn net.Conn
		err  error
	)
	if g.cfg.UseSSL {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, g.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Close()

	if !g.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if g.cfg.RequireTLS {
			return errors.New("server does not support STARTTLS")
		}
	}

	if g.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", g.cfg.Username, g.cfg.Password, g.cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// buildMessage renders msg as a multipart/alternative MIME document.
func buildMessage(msg Message, messageID string, now time.Time) []byte {
	boundary := "alt_" + uuid.NewString()

	var b bytes.Buffer
	write := func(format string, a ...any) { fmt.Fprintf(&b, format, a...) }

	write("From: %s\r\n", msg.From.String())
	write("To: %s\r\n", msg.To)
	write("Subject: %s\r\n", encodeHeaderWord(msg.Subject))
	write("Date: %s\r\n", now.Format(time.RFC1123Z))
	write("Message-ID: %s\r\n", messageID)
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", msg.TextBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", msg.HTMLBody)

	write("--%s--\r\n", boundary)
	return b.Bytes()
}

// encodeHeaderWord applies RFC 2047 encoding when s contains non-ASCII text.
// mime.QEncoding leaves pure ASCII input untouched.
func encodeHeaderWord(s string) string {
	return mime.QEncoding.Encode("utf-8", s)
}
