package contact

import (
	"bytes"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"
)

const subjectPrefix = "Contacto desde portafolio: "

// subjectNameLimit caps the sender name carried in the Subject so the header
// stays under the 998 byte line limit. The body keeps the full name.
const subjectNameLimit = 120

const bodyTemplate = `Nuevo mensaje desde el formulario de contacto del portafolio:

Nombre: %s
Email: %s
Mensaje:
%s
`

// headerSafe drops the characters that would let a value start a new header line.
func headerSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' || r == 0 {
			return -1
		}
		return r
	}, s)
}

// replyTo returns a header-ready address, or "" when the visitor's text is not one.
func replyTo(email string) string {
	addr, err := mail.ParseAddress(headerSafe(email))
	if err != nil {
		return ""
	}
	return addr.String()
}

func subjectFor(msg Message) string {
	name := []rune(headerSafe(msg.SenderName))
	if len(name) > subjectNameLimit {
		name = append(name[:subjectNameLimit], '…')
	}
	// one encoded word per folded line
	encoded := mime.QEncoding.Encode("utf-8", subjectPrefix+string(name))
	return strings.ReplaceAll(encoded, "?= =?", "?=\r\n =?")
}

// compose renders msg into an RFC 5322 message. Header values are sanitized,
// the body is quoted-printable in binary mode so the visitor's text, line
// breaks included, round-trips byte for byte.
func compose(msg Message, from, to, id string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer

	header := func(key, value string) {
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	}

	header("From", headerSafe(from))
	header("To", headerSafe(to))
	if rt := replyTo(msg.SenderEmail); rt != "" {
		header("Reply-To", rt)
	}
	header("Subject", subjectFor(msg))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", id, domainOf(from)))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=UTF-8")
	header("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	qp.Binary = true
	if _, err := fmt.Fprintf(qp, bodyTemplate, msg.SenderName, msg.SenderEmail, msg.Body); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return buf.Bytes(), nil
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return headerSafe(addr[i+1:])
	}
	return "localhost"
}
