// Package formctl implements the add/edit form state machine shared by
// every record editor: one form, three states (closed, adding,
// editing), and submit routing to create or update.
package formctl

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Mode is the form state
type Mode int

const (
	ModeClosed Mode = iota
	ModeAdd
	ModeEdit
)

// String implements fmt.Stringer
func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "add"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

var (
	// ErrNotOpen is returned when Submit or Update is called with the
	// form closed
	ErrNotOpen = errors.New("form is not open")
	// ErrSubmitInFlight guards against duplicate submission from
	// repeated clicks while a request is pending
	ErrSubmitInFlight = errors.New("submission already in progress")
)

// ValidationError is a client-side validation failure. It blocks the
// submit entirely; no request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Backend routes form submissions to the remote API. Load re-fetches
// the full record for editing, since list rows may carry only summary
// fields.
type Backend[T any] interface {
	Load(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id int64, record T) (T, error)
}

// Controller gates one shared record form. Add and Edit are mutually
// exclusive: opening either resets the other first, so a record loaded
// for editing can never leak into a new-record form.
type Controller[T any] struct {
	backend  Backend[T]
	validate func(T) error
	logger   *zap.Logger

	mu         sync.Mutex
	mode       Mode
	record     T
	recordID   int64
	submitting bool
}

// New creates a closed form controller. validate runs before every
// submit and may be nil.
func New[T any](backend Backend[T], validate func(T) error, logger *zap.Logger) *Controller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{
		backend:  backend,
		validate: validate,
		logger:   logger,
	}
}

// OpenAdd opens the form for a new record pre-filled with defaults.
// Any edit state is reset first.
func (c *Controller[T]) OpenAdd(defaults T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	c.mode = ModeAdd
	c.record = defaults
}

// OpenEdit re-fetches the full record by id and opens the form in edit
// mode. Any add state is reset first. On load failure the form stays
// closed and the error is returned for the caller to surface.
func (c *Controller[T]) OpenEdit(ctx context.Context, id int64) error {
	record, err := c.backend.Load(ctx, id)
	if err != nil {
		c.logger.Error("Failed to load record for editing",
			zap.Int64("id", id),
			zap.Error(err))
		return fmt.Errorf("failed to load record %d: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	c.mode = ModeEdit
	c.record = record
	c.recordID = id
	return nil
}

// Close discards unsaved edits and returns to the closed state
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// reset clears all form state; callers hold the lock
func (c *Controller[T]) reset() {
	var zero T
	c.mode = ModeClosed
	c.record = zero
	c.recordID = 0
	c.submitting = false
}

// UpdateRecord mutates the draft while the form is open
func (c *Controller[T]) UpdateRecord(fn func(*T)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeClosed {
		return ErrNotOpen
	}
	fn(&c.record)
	return nil
}

// Mode returns the current form state
func (c *Controller[T]) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Record returns the current draft
func (c *Controller[T]) Record() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record
}

// Submitting reports whether a submit is in flight, used to disable
// the submit control
func (c *Controller[T]) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Submit validates the draft and routes it to Create (add mode) or
// Update (edit mode, full-object replace keyed by the record id). On
// success the form closes; on failure it stays open with the draft
// intact so the user can correct and resubmit.
func (c *Controller[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	c.mu.Lock()
	if c.mode == ModeClosed {
		c.mu.Unlock()
		return zero, ErrNotOpen
	}
	if c.submitting {
		c.mu.Unlock()
		return zero, ErrSubmitInFlight
	}
	if c.validate != nil {
		if err := c.validate(c.record); err != nil {
			c.mu.Unlock()
			return zero, err
		}
	}
	mode := c.mode
	record := c.record
	recordID := c.recordID
	c.submitting = true
	c.mu.Unlock()

	var saved T
	var err error
	if mode == ModeAdd {
		saved, err = c.backend.Create(ctx, record)
	} else {
		saved, err = c.backend.Update(ctx, recordID, record)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		c.logger.Error("Form submission failed",
			zap.String("mode", mode.String()),
			zap.Int64("id", recordID),
			zap.Error(err))
		return zero, err
	}

	c.reset()
	return saved, nil
}
