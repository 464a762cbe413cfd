package contact

import (
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/textproto"
)

const errorPrefix = "Ocurrió un error al enviar el mensaje: "

// Kind is the failure category of a delivery attempt.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindAuth
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// DeliveryError is returned by Submit for every failed attempt.
// Its text is shown to the visitor as is.
type DeliveryError struct {
	Kind Kind
	Err  error
}

func (e *DeliveryError) Error() string {
	return errorPrefix + e.Diagnostic()
}

// Diagnostic returns the transport failure text without the visitor-facing prefix.
func (e *DeliveryError) Diagnostic() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Stage names the step of the SMTP exchange a failure happened in.
type Stage string

const (
	StageConnect  Stage = "connect"
	StageAuth     Stage = "auth"
	StageEnvelope Stage = "envelope"
	StageData     Stage = "data"
)

// StageError tags a transport error with the step that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// classify maps any transport error onto the closed set of kinds.
func classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if isNetwork(err) {
		return KindNetwork
	}

	var se *StageError
	if !errors.As(err, &se) {
		return KindUnknown
	}

	var reply *textproto.Error
	switch se.Stage {
	case StageConnect:
		if errors.As(err, &reply) {
			return KindRejected
		}
		return KindNetwork
	case StageAuth:
		return KindAuth
	case StageEnvelope, StageData:
		if errors.As(err, &reply) {
			return KindRejected
		}
	}
	return KindUnknown
}

func isNetwork(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var recErr tls.RecordHeaderError
	if errors.As(err, &recErr) {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
