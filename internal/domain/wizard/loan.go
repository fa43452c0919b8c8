package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid wizard transition")
	ErrDenied            = errors.New("credit evaluation denied")
	ErrInFlight          = errors.New("submission already in flight")
	ErrTokenRequired     = errors.New("bearer token required")
)

// StateGoneError reports prior-step state missing from the store. Handlers
// turn it into a redirect hint back to the step that must be redone.
type StateGoneError struct{ RedirectTo string }

func (e *StateGoneError) Error() string {
	return fmt.Sprintf("wizard state missing, return to %q", e.RedirectTo)
}

type LoanState string

const (
	LoanStateInput         LoanState = "input"
	LoanStateEvaluating    LoanState = "evaluating"
	LoanStateConfirm       LoanState = "confirm"
	LoanStateDenied        LoanState = "denied"
	LoanStateSubmitted     LoanState = "submitted"
	LoanStateGroupAssigned LoanState = "group_assigned"
	LoanStateCanceled      LoanState = "canceled"
)

// Terminal reports whether no further backend calls may originate from the
// loan wizard in this state.
func (s LoanState) Terminal() bool {
	return s == LoanStateDenied || s == LoanStateGroupAssigned || s == LoanStateCanceled
}

// Risk targets as returned by the credit evaluator.
const (
	RiskLow    = 0
	RiskMedium = 1
	RiskHigh   = 2
)

// Fixed confirmation-step ceilings for risk targets 0 and 1. These override
// whatever maxLoanAmount the evaluator returned — a product rule, not a bug.
const (
	CeilingRiskLow    int64 = 5_000_000
	CeilingRiskMedium int64 = 3_000_000
)

// CreditEvaluation is the evaluator's raw verdict, persisted unmodified.
type CreditEvaluation struct {
	RiskTarget    int     `json:"risk_target"`
	MaxLoanAmount int64   `json:"max_loan_amount"`
	InterestRate  float64 `json:"interest_rate"`
}

// Ceiling applies the fixed-cap override for risk 0/1; the evaluator's own
// number is used as-is for any other non-denied target.
func (e CreditEvaluation) Ceiling() int64 {
	switch e.RiskTarget {
	case RiskLow:
		return CeilingRiskLow
	case RiskMedium:
		return CeilingRiskMedium
	default:
		return e.MaxLoanAmount
	}
}

// LoanDraft is the whole loan-wizard state, one record under one key. The
// current step lives in State explicitly; it is never inferred from which
// fields happen to be populated.
type LoanDraft struct {
	DraftID         string            `json:"draft_id"`
	State           LoanState         `json:"state"`
	AccountID       string            `json:"account_id"`
	RequestedAmount int64             `json:"requested_amount"`
	TermMonths      int               `json:"term_months"`
	Purpose         string            `json:"purpose,omitempty"`
	DocumentURLs    []string          `json:"document_urls,omitempty"`
	Evaluation      *CreditEvaluation `json:"evaluation,omitempty"`
	LoanID          int64             `json:"loan_id,omitempty"`
}

// Upstream loan status codes (loan-service wire values).
const (
	LoanStatusWaiting   = 1
	LoanStatusExecuting = 2
	LoanStatusCompleted = 3
	LoanStatusOverdue   = 4
	LoanStatusCanceled  = 5
	LoanStatusRejected  = 6
)
