// internal/forms/submission.go
package forms

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/common/metrics"
)

// Submission states
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// Modal-hosted flows show a brief success micro-state on the submit control,
// then the full success panel, then auto-close.
const (
	SuccessMicroState = 1 * time.Second
	AutoCloseDelay    = 2500 * time.Millisecond
)

var ErrAlreadySubmitting = errors.New("submission already in flight")

// Inserter performs the single row insert for a successful submission.
type Inserter func(ctx context.Context) error

// Submission is the generic collect-validate-insert flow shared by the
// waitlist, partner, feedback and survey forms. The only client-side guard
// is a non-empty check on the primary field; uniqueness is enforced by the
// store's constraint, and a duplicate-key error is translated to a message
// distinct from the generic failure.
type Submission struct {
	form   string
	logger logger.Logger
	now    func() time.Time

	mu        sync.Mutex
	state     State
	errMsg    string
	successAt time.Time
}

func NewSubmission(form string, log logger.Logger) *Submission {
	return &Submission{
		form:   form,
		logger: log.WithFields(map[string]interface{}{"form": form}),
		now:    time.Now,
		state:  StateIdle,
	}
}

// Submit runs one attempt: idle|error → submitting → success|error. While a
// submission is in flight further calls return ErrAlreadySubmitting (the
// disabled-control rule); a prior error is cleared on re-entry. Exactly one
// insert is issued per successful submission.
func (s *Submission) Submit(ctx context.Context, primaryField string, insert Inserter) error {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrAlreadySubmitting
	}

	if strings.TrimSpace(primaryField) == "" {
		s.state = StateError
		s.errMsg = "This field is required."
		s.mu.Unlock()
		metrics.SubmissionsTotal.WithLabelValues(s.form, "rejected").Inc()
		return apperrors.New(apperrors.ErrCodeEmptyField, "This field is required.")
	}

	s.state = StateSubmitting
	s.errMsg = ""
	s.mu.Unlock()

	err := insert(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		s.state = StateSuccess
		s.successAt = s.now()
		metrics.SubmissionsTotal.WithLabelValues(s.form, "success").Inc()
		return nil
	}

	s.state = StateError
	s.errMsg = apperrors.UserMessage(err)
	if apperrors.IsDuplicateKey(err) {
		metrics.SubmissionsTotal.WithLabelValues(s.form, "duplicate").Inc()
	} else {
		metrics.SubmissionsTotal.WithLabelValues(s.form, "error").Inc()
		s.logger.Error("submission failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return err
}

// State returns the current flow state.
func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ErrorMessage returns the user-facing message for the error state.
func (s *Submission) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Disabled reports whether the submit control must refuse further clicks.
func (s *Submission) Disabled() bool {
	return s.State() == StateSubmitting
}

// InMicroState reports whether the submit control is still showing the brief
// success flash rather than the full success panel.
func (s *Submission) InMicroState() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSuccess {
		return false
	}
	return s.now().Sub(s.successAt) < SuccessMicroState
}

// ShouldAutoClose reports whether a modal host should dismiss itself.
func (s *Submission) ShouldAutoClose() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSuccess {
		return false
	}
	return s.now().Sub(s.successAt) >= SuccessMicroState+AutoCloseDelay
}

// Reset returns the flow to idle, clearing any terminal state.
func (s *Submission) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.errMsg = ""
	s.successAt = time.Time{}
}
