package submission

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Handoff carries one payload from the form surface to the review surface.
// A later Send replaces an unread payload; Take hands it out exactly once.
type Handoff struct {
	mu      sync.Mutex
	pending *Payload
}

// NewHandoff returns an empty handoff.
func NewHandoff() *Handoff {
	return &Handoff{}
}

// Send stores p as the pending payload.
func (h *Handoff) Send(p Payload) {
	clone := p.Clone()
	h.mu.Lock()
	h.pending = &clone
	h.mu.Unlock()
}

// Take returns the pending payload and clears it. Without one it returns
// *MissingSubmissionError.
func (h *Handoff) Take() (Payload, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == nil {
		return Payload{}, &MissingSubmissionError{}
	}
	p := *h.pending
	h.pending = nil
	return p, nil
}

// Pending reports whether a payload is waiting to be taken.
func (h *Handoff) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending != nil
}

// Form is the live model a Transfer submits. *model.Synthesizer satisfies it.
type Form interface {
	Current() model.FormModel
}

// Hook observes submit outcomes.
type Hook interface {
	Accepted(p Payload)
	Rejected(err *ValidationError)
}

// TransferOption configures a Transfer.
type TransferOption func(*Transfer)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) TransferOption {
	return func(t *Transfer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithHook registers a hook notified on every submit.
func WithHook(hook Hook) TransferOption {
	return func(t *Transfer) {
		if hook != nil {
			t.hooks = append(t.hooks, hook)
		}
	}
}

// Transfer validates the live form and hands the resulting payload to the
// review surface.
type Transfer struct {
	form    Form
	handoff *Handoff
	hooks   []Hook
	logger  *slog.Logger
}

// NewTransfer wires a Transfer between form and handoff.
func NewTransfer(form Form, handoff *Handoff, options ...TransferOption) *Transfer {
	t := &Transfer{
		form:    form,
		handoff: handoff,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if t.handoff == nil {
		t.handoff = NewHandoff()
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Handoff exposes the handoff the transfer sends to.
func (t *Transfer) Handoff() *Handoff { return t.handoff }

// Submit validates the current form. On success the payload is sent through
// the handoff and returned; on failure nothing is sent and the error is a
// *ValidationError.
func (t *Transfer) Submit() (Payload, error) {
	payload, err := Snapshot(t.form.Current())
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			t.logger.Info("submission rejected", "issues", len(verr.Issues))
			for _, hook := range t.hooks {
				hook.Rejected(verr)
			}
		}
		return Payload{}, err
	}

	t.handoff.Send(payload)
	t.logger.Info("submission accepted", "entries", payload.Len())
	for _, hook := range t.hooks {
		hook.Accepted(payload)
	}
	return payload.Clone(), nil
}
