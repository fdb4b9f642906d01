package view

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"dealerdesk/internal/models"
	"dealerdesk/internal/timeutil"
	"dealerdesk/pkg/validator"
)

// FormState is the step the add-payment dialog is in.
type FormState string

const (
	StateEditing    FormState = "editing"
	StateReviewing  FormState = "reviewing"
	StateSubmitting FormState = "submitting"
	StateSettled    FormState = "settled"
)

// SuccessNoticeTTL is how long the transient success notice stays up.
const SuccessNoticeTTL = 3 * time.Second

// SubmitFunc performs the actual payment creation.
type SubmitFunc func(ctx context.Context, req models.CreatePaymentRequest) error

// paymentDraft carries the raw form input for validation.
type paymentDraft struct {
	Amount string `validate:"required,amount"`
	Method string `validate:"required"`
	Date   string `validate:"required,datetimelocal"`
}

// FormSnapshot is the renderable state of the payment form.
type FormSnapshot struct {
	State           FormState `json:"state"`
	Amount          string    `json:"amount"`
	Method          string    `json:"method"`
	Date            string    `json:"date"`
	ParsedAmount    float64   `json:"parsedAmount"`
	ValidationError string    `json:"validationError,omitempty"`
	// ErrorNotice is blocking: it stays until acknowledged. A silently lost
	// payment entry is the one failure the user must not be able to miss.
	ErrorNotice   string `json:"errorNotice,omitempty"`
	SuccessNotice string `json:"successNotice,omitempty"`
}

// PaymentForm is the two-step confirmation controller behind the add-payment
// dialog: Editing -> Reviewing -> Submitting -> Settled, or back to Editing
// with drafts intact when submission fails.
type PaymentForm struct {
	mu    sync.Mutex
	state FormState

	amount string
	method string
	date   string
	parsed models.CreatePaymentRequest

	validationErr string
	errNotice     string
	success       string
	successTimer  *time.Timer
	successTTL    time.Duration

	submit    SubmitFunc
	onSuccess func()
	ctx       context.Context
}

// NewPaymentForm builds the form in Editing state with the original's
// defaults: method Cash, date now at minute precision. onSuccess runs after
// a confirmed submission succeeds (the detail view hooks its refetches there).
func NewPaymentForm(ctx context.Context, submit SubmitFunc, onSuccess func()) *PaymentForm {
	f := &PaymentForm{
		submit:     submit,
		onSuccess:  onSuccess,
		successTTL: SuccessNoticeTTL,
		ctx:        ctx,
	}
	f.resetLocked()
	return f
}

func (f *PaymentForm) resetLocked() {
	f.state = StateEditing
	f.amount = ""
	f.method = models.MethodCash
	f.date = timeutil.Now().Format("2006-01-02T15:04")
	f.parsed = models.CreatePaymentRequest{}
	f.validationErr = ""
}

// Reset reopens the dialog with fresh defaults. No-op while Submitting.
func (f *PaymentForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return
	}
	f.resetLocked()
}

// SetDraft updates the drafted fields. Only valid while Editing.
func (f *PaymentForm) SetDraft(amount, method, date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateEditing {
		return
	}
	f.amount = amount
	f.method = method
	f.date = date
	f.validationErr = ""
}

// Next validates the draft and moves to Reviewing. It performs no submission.
func (f *PaymentForm) Next() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateEditing {
		return
	}

	draft := paymentDraft{Amount: f.amount, Method: f.method, Date: f.date}
	if errs := validator.ValidateStruct(draft); len(errs) > 0 {
		f.validationErr = "Please enter a positive amount, method and date."
		return
	}
	if !models.ValidPaymentMethod(f.method) {
		f.validationErr = "Please select a valid payment method."
		return
	}

	amount, err := strconv.ParseFloat(f.amount, 64)
	if err != nil {
		f.validationErr = "Please enter a positive amount, method and date."
		return
	}

	f.parsed = models.CreatePaymentRequest{
		AmountPaid:    amount,
		PaymentMethod: f.method,
		PaymentDate:   f.date,
	}
	f.validationErr = ""
	f.state = StateReviewing
}

// Back returns from Reviewing to Editing, drafts preserved.
func (f *PaymentForm) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateReviewing {
		return
	}
	f.state = StateEditing
}

// Confirm submits the reviewed payload. Only valid from Reviewing, so a
// double click while Submitting cannot double-post.
func (f *PaymentForm) Confirm() {
	f.mu.Lock()
	if f.state != StateReviewing {
		f.mu.Unlock()
		return
	}
	f.state = StateSubmitting
	req := f.parsed
	ctx := f.ctx
	f.mu.Unlock()

	go func() {
		err := f.submit(ctx, req)

		f.mu.Lock()
		if err != nil {
			log.Printf("[View] payment submission failed: %v", err)
			// Back to Editing with the drafted values intact so the user can
			// retry; the notice blocks until acknowledged.
			f.state = StateEditing
			f.errNotice = "Failed to add payment. Please try again."
			f.mu.Unlock()
			return
		}

		f.mu.Unlock()

		// Set the refetches in motion before settling: once the form reports
		// Settled, the dependent views are already marked loading.
		if f.onSuccess != nil {
			f.onSuccess()
		}

		f.mu.Lock()
		f.state = StateSettled
		f.success = "Payment added successfully!"
		if f.successTimer != nil {
			f.successTimer.Stop()
		}
		f.successTimer = time.AfterFunc(f.successTTL, f.dismissSuccess)
		f.mu.Unlock()
	}()
}

func (f *PaymentForm) dismissSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.success = ""
}

// WaitSettled blocks until the form leaves the Submitting state, or the wait
// budget runs out. It reports whether submission settled.
func (f *PaymentForm) WaitSettled(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		f.mu.Lock()
		busy := f.state == StateSubmitting
		f.mu.Unlock()
		if !busy {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// AcknowledgeError clears the blocking failure notice.
func (f *PaymentForm) AcknowledgeError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errNotice = ""
}

// Snapshot returns the current renderable state.
func (f *PaymentForm) Snapshot() FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormSnapshot{
		State:           f.state,
		Amount:          f.amount,
		Method:          f.method,
		Date:            f.date,
		ParsedAmount:    f.parsed.AmountPaid,
		ValidationError: f.validationErr,
		ErrorNotice:     f.errNotice,
		SuccessNotice:   f.success,
	}
}

// setSuccessTTL shortens the auto-dismiss window in tests.
func (f *PaymentForm) setSuccessTTL(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successTTL = d
}
