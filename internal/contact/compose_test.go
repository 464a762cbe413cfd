package contact

import (
	"mime"
	"strings"
	"testing"
	"time"
)

func TestComposeHeaderInjection(t *testing.T) {
	msg := Message{
		SenderName:  "Eve\r\nBcc: victim@example.com",
		SenderEmail: "eve@example.com\r\nX-Injected: yes",
		Body:        "line one\r\n.\r\nline three",
	}
	data, err := compose(msg, "relay@example.com", "owner@example.com", "id-1", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("compose() error = %v", err)
	}

	m, body := decodeBody(t, data)
	if v := m.Header.Get("Bcc"); v != "" {
		t.Errorf("Bcc header injected: %q", v)
	}
	if v := m.Header.Get("X-Injected"); v != "" {
		t.Errorf("X-Injected header injected: %q", v)
	}
	if !strings.Contains(m.Header.Get("Subject"), "EveBcc: victim@example.com") {
		t.Errorf("Subject = %q", m.Header.Get("Subject"))
	}
	for _, want := range []string{msg.SenderName, msg.SenderEmail, msg.Body} {
		if !strings.Contains(body, want) {
			t.Errorf("decoded body lost %q", want)
		}
	}
}

func TestComposeNonASCIISubject(t *testing.T) {
	msg := Message{SenderName: "José Núñez", Body: "¿Hablamos?"}
	data, err := compose(msg, "relay@example.com", "owner@example.com", "id-2", time.Now())
	if err != nil {
		t.Fatalf("compose() error = %v", err)
	}
	m, body := decodeBody(t, data)

	raw := m.Header.Get("Subject")
	if !strings.HasPrefix(raw, "=?utf-8?q?") {
		t.Errorf("Subject not encoded: %q", raw)
	}
	decoded, err := new(mime.WordDecoder).DecodeHeader(raw)
	if err != nil {
		t.Fatalf("decode subject: %v", err)
	}
	if !strings.Contains(decoded, "José Núñez") {
		t.Errorf("decoded subject = %q", decoded)
	}
	if !strings.Contains(body, "¿Hablamos?") {
		t.Errorf("body = %q", body)
	}
	if got := m.Header.Get("Message-ID"); got != "<id-2@example.com>" {
		t.Errorf("Message-ID = %q", got)
	}
}

func TestComposeLineBreaksVerbatim(t *testing.T) {
	for _, text := range []string{"Hola\nadiós", "uno\r\ndos", "solo\rretorno", "fin con salto\n"} {
		msg := Message{SenderName: "Ana", SenderEmail: "ana@example.com", Body: text}
		data, err := compose(msg, "relay@example.com", "owner@example.com", "id-3", time.Now())
		if err != nil {
			t.Fatalf("compose() error = %v", err)
		}
		_, body := decodeBody(t, data)
		if !strings.Contains(body, "Mensaje:\n"+text) {
			t.Errorf("body %q does not carry %q unmodified", body, text)
		}
	}
}

func TestComposeLongSubject(t *testing.T) {
	for _, name := range []string{strings.Repeat("a", 2000), strings.Repeat("ñ", 2000)} {
		msg := Message{SenderName: name, Body: "x"}
		data, err := compose(msg, "relay@example.com", "owner@example.com", "id-4", time.Now())
		if err != nil {
			t.Fatalf("compose() error = %v", err)
		}
		for i, line := range strings.Split(string(data), "\r\n") {
			if len(line) > 998 {
				t.Fatalf("line %d is %d bytes", i, len(line))
			}
		}

		m, body := decodeBody(t, data)
		subject, err := new(mime.WordDecoder).DecodeHeader(m.Header.Get("Subject"))
		if err != nil {
			t.Fatalf("decode subject: %v", err)
		}
		want := subjectPrefix + string([]rune(name)[:subjectNameLimit]) + "…"
		if subject != want {
			t.Errorf("subject = %q, want %q", subject, want)
		}
		if !strings.Contains(body, "Nombre: "+name+"\n") {
			t.Error("body lost the full sender name")
		}
	}
}
