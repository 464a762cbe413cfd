package contact

import (
	"context"
	"crypto/tls"
	"net"
	"net/smtp"
	"time"
)

// Transport performs one delivery attempt.
type Transport interface {
	Send(ctx context.Context, env Envelope) error
}

// SMTPTransport delivers over an implicit-TLS SMTP session with AUTH PLAIN.
type SMTPTransport struct {
	Host     string
	Port     string
	Username string
	Password string
	// Timeout bounds the whole session; zero leaves the network defaults in place.
	Timeout   time.Duration
	TLSConfig *tls.Config

	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

func NewSMTPTransport(host, port, username, password string) *SMTPTransport {
	return &SMTPTransport{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
	}
}

func (t *SMTPTransport) dialContext(ctx context.Context, addr string) (net.Conn, error) {
	if t.dial != nil {
		return t.dial(ctx, "tcp", addr)
	}
	cfg := t.TLSConfig
	if cfg == nil {
		cfg = &tls.Config{ServerName: t.Host, MinVersion: tls.VersionTLS12}
	}
	d := &tls.Dialer{Config: cfg}
	return d.DialContext(ctx, "tcp", addr)
}

// Send runs a single SMTP exchange. The message counts as delivered once the
// relay accepts the DATA payload; a failed QUIT afterwards is ignored.
func (t *SMTPTransport) Send(ctx context.Context, env Envelope) error {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	conn, err := t.dialContext(ctx, net.JoinHostPort(t.Host, t.Port))
	if err != nil {
		return &StageError{Stage: StageConnect, Err: err}
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, t.Host)
	if err != nil {
		_ = conn.Close()
		return &StageError{Stage: StageConnect, Err: err}
	}
	defer c.Close()

	if err = c.Auth(smtp.PlainAuth("", t.Username, t.Password, t.Host)); err != nil {
		return &StageError{Stage: StageAuth, Err: err}
	}
	if err = c.Mail(env.From); err != nil {
		return &StageError{Stage: StageEnvelope, Err: err}
	}
	for _, rcpt := range env.To {
		if err = c.Rcpt(rcpt); err != nil {
			return &StageError{Stage: StageEnvelope, Err: err}
		}
	}

	w, err := c.Data()
	if err != nil {
		return &StageError{Stage: StageData, Err: err}
	}
	if _, err = w.Write(env.Data); err != nil {
		_ = w.Close()
		return &StageError{Stage: StageData, Err: err}
	}
	if err = w.Close(); err != nil {
		return &StageError{Stage: StageData, Err: err}
	}

	_ = c.Quit()
	return nil
}
