package contact

import (
	"context"
	"errors"
	"io"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeTransport struct {
	mu    sync.Mutex
	calls int
	sent  []Envelope
	err   error
}

func (f *fakeTransport) Send(_ context.Context, env Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, env)
	return nil
}

type fakeRecorder struct {
	outcomes []string
}

func (r *fakeRecorder) RecordDelivery(_ context.Context, _ string, outcome string, _ time.Time) error {
	r.outcomes = append(r.outcomes, outcome)
	return nil
}

func decodeBody(t *testing.T, data []byte) (*mail.Message, string) {
	t.Helper()
	m, err := mail.ReadMessage(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}
	body, err := io.ReadAll(quotedprintable.NewReader(m.Body))
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return m, string(body)
}

func TestSubmitAcknowledged(t *testing.T) {
	tr := &fakeTransport{}
	rec := &fakeRecorder{}
	h := NewHandler("relay@example.com", "owner@example.com", tr, nil)
	h.SetRecorder(rec)

	msg := Message{SenderName: "Ana", SenderEmail: "ana@example.com", Body: "Hola,\nquisiera hablar.\n\nSaludos"}
	if err := h.Submit(context.Background(), msg); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if tr.calls != 1 || len(tr.sent) != 1 {
		t.Fatalf("expected exactly one attempt and one message, got calls=%d sent=%d", tr.calls, len(tr.sent))
	}
	env := tr.sent[0]
	if env.From != "relay@example.com" {
		t.Errorf("From = %q", env.From)
	}
	if len(env.To) != 1 || env.To[0] != "owner@example.com" {
		t.Errorf("To = %v", env.To)
	}

	m, body := decodeBody(t, env.Data)
	if subject := m.Header.Get("Subject"); !strings.Contains(subject, "Ana") {
		t.Errorf("subject %q does not contain sender name", subject)
	}
	for _, want := range []string{"Ana", "ana@example.com", msg.Body} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q:\n%s", want, body)
		}
	}
	if got := m.Header.Get("Reply-To"); got != "<ana@example.com>" {
		t.Errorf("Reply-To = %q", got)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != OutcomeAcknowledged {
		t.Errorf("recorded outcomes = %v", rec.outcomes)
	}
	if h.InFlight() != 0 {
		t.Errorf("InFlight() = %d after completion", h.InFlight())
	}
}

func TestSubmitEmptyFieldsAccepted(t *testing.T) {
	tr := &fakeTransport{}
	h := NewHandler("relay@example.com", "owner@example.com", tr, nil)

	if err := h.Submit(context.Background(), Message{}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if tr.calls != 1 {
		t.Fatalf("calls = %d, want 1", tr.calls)
	}
	m, _ := decodeBody(t, tr.sent[0].Data)
	if m.Header.Get("Reply-To") != "" {
		t.Errorf("unexpected Reply-To for empty email")
	}
}

func TestSubmitFailureText(t *testing.T) {
	tr := &fakeTransport{err: &StageError{
		Stage: StageAuth,
		Err:   &textproto.Error{Code: 535, Msg: "5.7.8 authentication failed"},
	}}
	rec := &fakeRecorder{}
	h := NewHandler("relay@example.com", "owner@example.com", tr, nil)
	h.SetRecorder(rec)

	err := h.Submit(context.Background(), Message{SenderName: "Luis", SenderEmail: "luis@x.com", Body: "Test"})
	var derr *DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("Submit() error = %v, want *DeliveryError", err)
	}
	if derr.Kind != KindAuth {
		t.Errorf("Kind = %v, want auth", derr.Kind)
	}
	want := "Ocurrió un error al enviar el mensaje: auth: 535 5.7.8 authentication failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if tr.calls != 1 || len(tr.sent) != 0 {
		t.Errorf("calls=%d sent=%d, want 1 and 0", tr.calls, len(tr.sent))
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != "auth" {
		t.Errorf("recorded outcomes = %v", rec.outcomes)
	}
}

func TestSubmitResubmitIsIndependent(t *testing.T) {
	tr := &fakeTransport{err: errors.New("relay down")}
	h := NewHandler("relay@example.com", "owner@example.com", tr, nil)
	msg := Message{SenderName: "Luis", SenderEmail: "luis@x.com", Body: "Test"}

	for i := 0; i < 3; i++ {
		if err := h.Submit(context.Background(), msg); err == nil {
			t.Fatalf("attempt %d: expected error", i)
		}
	}
	if tr.calls != 3 {
		t.Fatalf("calls = %d, want 3", tr.calls)
	}

	tr.err = nil
	if err := h.Submit(context.Background(), msg); err != nil {
		t.Fatalf("Submit() after recovery error = %v", err)
	}
	if tr.calls != 4 || len(tr.sent) != 1 {
		t.Errorf("calls=%d sent=%d, want 4 and 1", tr.calls, len(tr.sent))
	}
}

func TestSubmitIgnoresCancellation(t *testing.T) {
	tr := &ctxTransport{}
	h := NewHandler("relay@example.com", "owner@example.com", tr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Submit(ctx, Message{SenderName: "Ana"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if tr.sawErr != nil {
		t.Errorf("transport saw cancelled context: %v", tr.sawErr)
	}
}

type ctxTransport struct {
	sawErr error
}

func (c *ctxTransport) Send(ctx context.Context, _ Envelope) error {
	c.sawErr = ctx.Err()
	return nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"eof", io.EOF, KindNetwork},
		{"connect", &StageError{Stage: StageConnect, Err: errors.New("refused")}, KindNetwork},
		{"greeting rejected", &StageError{Stage: StageConnect, Err: &textproto.Error{Code: 554, Msg: "no"}}, KindRejected},
		{"auth", &StageError{Stage: StageAuth, Err: errors.New("unencrypted connection")}, KindAuth},
		{"rcpt", &StageError{Stage: StageEnvelope, Err: &textproto.Error{Code: 550, Msg: "no such user"}}, KindRejected},
		{"data", &StageError{Stage: StageData, Err: &textproto.Error{Code: 552, Msg: "too big"}}, KindRejected},
		{"data eof", &StageError{Stage: StageData, Err: io.ErrUnexpectedEOF}, KindNetwork},
		{"other", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
		})
	}
}
