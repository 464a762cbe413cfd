package contact

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutcomeAcknowledged is recorded for attempts the relay accepted.
const OutcomeAcknowledged = "acknowledged"

// Recorder keeps an audit trail of attempts. It never receives message content.
type Recorder interface {
	RecordDelivery(ctx context.Context, id, outcome string, at time.Time) error
}

// Handler submits contact messages to one fixed recipient.
type Handler struct {
	from      string
	to        string
	transport Transport
	recorder  Recorder
	log       *zap.Logger
	inFlight  atomic.Int64
	now       func() time.Time
}

func NewHandler(from, to string, transport Transport, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		from:      from,
		to:        to,
		transport: transport,
		log:       log.Named("contact"),
		now:       time.Now,
	}
}

func (h *Handler) SetRecorder(r Recorder) {
	h.recorder = r
}

// InFlight reports how many attempts are currently running.
func (h *Handler) InFlight() int64 {
	return h.inFlight.Load()
}

// Submit makes exactly one delivery attempt for msg. A nil return means the
// relay acknowledged the message; any failure is a *DeliveryError.
// Cancellation of ctx does not abort an attempt that has started.
func (h *Handler) Submit(ctx context.Context, msg Message) error {
	h.inFlight.Add(1)
	defer h.inFlight.Add(-1)

	id := uuid.NewString()
	start := h.now()
	log := h.log.With(zap.String("submission_id", id))

	err := h.attempt(context.WithoutCancel(ctx), id, msg, start)

	outcome := OutcomeAcknowledged
	var derr *DeliveryError
	if errors.As(err, &derr) {
		outcome = derr.Kind.String()
		log.Warn("contact message not delivered",
			zap.String("kind", outcome),
			zap.Duration("took", h.now().Sub(start)),
			zap.Error(derr.Err),
		)
	} else {
		log.Info("contact message delivered", zap.Duration("took", h.now().Sub(start)))
	}

	if h.recorder != nil {
		if rerr := h.recorder.RecordDelivery(context.WithoutCancel(ctx), id, outcome, start); rerr != nil {
			log.Error("record delivery", zap.Error(rerr))
		}
	}
	return err
}

func (h *Handler) attempt(ctx context.Context, id string, msg Message, now time.Time) error {
	data, err := compose(msg, h.from, h.to, id, now)
	if err != nil {
		return &DeliveryError{Kind: KindUnknown, Err: err}
	}
	if err = h.transport.Send(ctx, Envelope{From: h.from, To: []string{h.to}, Data: data}); err != nil {
		return &DeliveryError{Kind: classify(err), Err: err}
	}
	return nil
}
