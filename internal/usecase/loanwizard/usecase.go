// Package loanwizard drives the borrower's loan application:
// input → evaluating → confirm|denied → submitted → group_assigned|canceled.
// The whole draft lives as one versioned record in the client-state store,
// and the current step is always the explicit State field.
package loanwizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	domainSession "billit-client/internal/domain/session"
	"billit-client/internal/domain/store"
	"billit-client/internal/domain/wizard"
	"billit-client/internal/gateway"
	"billit-client/pkg/id"
	"billit-client/pkg/money"
)

var (
	ErrAccountRequired = errors.New("withdrawal account is required")
	ErrAmountInvalid   = errors.New("amount must be a positive number")
	ErrTermInvalid     = errors.New("term must be a positive number of months")
)

type Gateway interface {
	EvaluateCredit(ctx context.Context, req gateway.EvaluateCreditRequest) (*gateway.CreditDecision, error)
	RegisterLoan(ctx context.Context, req gateway.RegisterLoanRequest) (*gateway.RegisterLoanResponse, error)
	AssignGroup(ctx context.Context, loanID int64) (*gateway.AssignGroupResponse, error)
	UpdateLoanStatus(ctx context.Context, loanID int64, status int) error
}

type Usecase struct {
	gw    Gateway
	store store.Store

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewUsecase(gw Gateway, st store.Store) *Usecase {
	return &Usecase{gw: gw, store: st, inFlight: map[string]struct{}{}}
}

func draftKey(clientID string) string { return "loan/draft/" + clientID }

// acquire is the double-submit guard: at most one outstanding backend call
// per client's loan wizard.
func (u *Usecase) acquire(clientID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, busy := u.inFlight[clientID]; busy {
		return false
	}
	u.inFlight[clientID] = struct{}{}
	return true
}

func (u *Usecase) release(clientID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inFlight, clientID)
}

func (u *Usecase) load(ctx context.Context, clientID string) (*wizard.LoanDraft, int64, error) {
	raw, ver, err := u.store.Get(ctx, draftKey(clientID))
	if err != nil {
		return nil, 0, err
	}
	var d wizard.LoanDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, 0, fmt.Errorf("unmarshal loan draft: %w", err)
	}
	return &d, ver, nil
}

func (u *Usecase) save(ctx context.Context, clientID string, d *wizard.LoanDraft, version int64) (int64, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return 0, fmt.Errorf("marshal loan draft: %w", err)
	}
	return u.store.Put(ctx, draftKey(clientID), raw, version)
}

type InputParams struct {
	AccountID    string
	Amount       string // formatted currency input, e.g. "5,000,000"
	TermMonths   int
	Purpose      string
	DocumentURLs []string // upload-returned references only
}

// SubmitInput validates the input step, persists a fresh draft in the
// evaluating state (replacing any previous one), and runs the credit
// evaluation. riskTarget 2 lands the draft in the terminal denied state;
// anything else moves to confirm with the evaluator's raw verdict stored
// alongside. At most one submission per client is in flight at a time.
func (u *Usecase) SubmitInput(ctx context.Context, clientID string, p *domainSession.Principal, in InputParams) (*wizard.LoanDraft, error) {
	if p == nil {
		return nil, domainSession.ErrUnauthenticated
	}
	if p.Role != domainSession.RoleBorrower {
		return nil, fmt.Errorf("loan applications require the %s role", domainSession.RoleBorrower)
	}
	if in.AccountID == "" {
		return nil, ErrAccountRequired
	}
	amount, err := money.ParseAmount(in.Amount)
	if err != nil || amount <= 0 {
		return nil, ErrAmountInvalid
	}
	if in.TermMonths <= 0 {
		return nil, ErrTermInvalid
	}

	if !u.acquire(clientID) {
		return nil, wizard.ErrInFlight
	}
	defer u.release(clientID)

	draft := &wizard.LoanDraft{
		DraftID:         id.NewID32(),
		State:           wizard.LoanStateEvaluating,
		AccountID:       in.AccountID,
		RequestedAmount: amount,
		TermMonths:      in.TermMonths,
		Purpose:         in.Purpose,
		DocumentURLs:    in.DocumentURLs,
	}
	ver, err := u.save(ctx, clientID, draft, store.AnyVersion)
	if err != nil {
		return nil, err
	}

	dec, err := u.gw.EvaluateCredit(gateway.WithBearer(ctx, p.BearerToken), gateway.EvaluateCreditRequest{
		PhoneNumber: p.Phone,
		Purpose:     in.Purpose,
		Amount:      amount,
		Term:        in.TermMonths,
	})
	if err != nil {
		// Draft stays at evaluating; the user re-submits the input step,
		// which replaces the draft. Nothing auto-retries.
		return nil, err
	}

	draft.Evaluation = &wizard.CreditEvaluation{
		RiskTarget:    dec.Target,
		MaxLoanAmount: dec.MaxLoanAmount,
		InterestRate:  dec.InterestRate,
	}
	if dec.Target == wizard.RiskHigh {
		draft.State = wizard.LoanStateDenied
	} else {
		draft.State = wizard.LoanStateConfirm
	}
	if _, err := u.save(ctx, clientID, draft, ver); err != nil {
		return nil, err
	}
	return draft, nil
}

type ConfirmResult struct {
	LoanID             int64 `json:"loan_id"`
	Amount             int64 `json:"amount"`
	Ceiling            int64 `json:"ceiling"`
	MonthlyInstallment int64 `json:"monthly_installment"` // first period's payment
}

// Confirm commits the loan. The submitted amount is clamped silently to
// min(desired, requested, ceiling) — never an error. On upstream failure
// the draft remains at confirm.
func (u *Usecase) Confirm(ctx context.Context, clientID string, p *domainSession.Principal, desired string) (*ConfirmResult, error) {
	if p == nil {
		return nil, domainSession.ErrUnauthenticated
	}
	draft, ver, err := u.load(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &wizard.StateGoneError{RedirectTo: string(wizard.LoanStateInput)}
	}
	if err != nil {
		return nil, err
	}
	switch draft.State {
	case wizard.LoanStateConfirm:
	case wizard.LoanStateDenied:
		return nil, wizard.ErrDenied
	case wizard.LoanStateSubmitted:
		return nil, wizard.ErrInvalidTransition
	default:
		return nil, &wizard.StateGoneError{RedirectTo: string(wizard.LoanStateInput)}
	}
	if draft.Evaluation == nil {
		return nil, &wizard.StateGoneError{RedirectTo: string(wizard.LoanStateInput)}
	}

	want, err := money.ParseAmount(desired)
	if err != nil || want <= 0 {
		return nil, ErrAmountInvalid
	}
	ceiling := draft.Evaluation.Ceiling()
	amount := min(want, draft.RequestedAmount, ceiling)

	if !u.acquire(clientID) {
		return nil, wizard.ErrInFlight
	}
	defer u.release(clientID)

	resp, err := u.gw.RegisterLoan(gateway.WithBearer(ctx, p.BearerToken), gateway.RegisterLoanRequest{
		UserBorrowID:    p.SubjectID,
		AccountBorrowID: draft.AccountID,
		LoanAmount:      amount,
		Term:            draft.TermMonths,
		IntRate:         draft.Evaluation.InterestRate,
		LoanLimit:       ceiling,
	})
	if err != nil {
		return nil, err
	}

	draft.LoanID = resp.LoanID
	draft.State = wizard.LoanStateSubmitted
	if _, err := u.save(ctx, clientID, draft, ver); err != nil {
		return nil, err
	}
	return &ConfirmResult{
		LoanID:             resp.LoanID,
		Amount:             amount,
		Ceiling:            ceiling,
		MonthlyInstallment: money.FixedInstallment(amount, draft.Evaluation.InterestRate, draft.TermMonths),
	}, nil
}

// AssignGroup puts the submitted loan into a funding group and closes the
// wizard. Requires a bearer token; absence is a hard stop, no round trip.
func (u *Usecase) AssignGroup(ctx context.Context, clientID string, p *domainSession.Principal) (*gateway.AssignGroupResponse, error) {
	draft, _, err := u.submittedDraft(ctx, clientID, p)
	if err != nil {
		return nil, err
	}
	if !u.acquire(clientID) {
		return nil, wizard.ErrInFlight
	}
	defer u.release(clientID)

	resp, err := u.gw.AssignGroup(gateway.WithBearer(ctx, p.BearerToken), draft.LoanID)
	if err != nil {
		return nil, err
	}
	if err := u.store.Remove(ctx, draftKey(clientID)); err != nil {
		return nil, err
	}
	return resp, nil
}

// Cancel withdraws the submitted loan (status 5) and closes the wizard.
func (u *Usecase) Cancel(ctx context.Context, clientID string, p *domainSession.Principal) error {
	draft, _, err := u.submittedDraft(ctx, clientID, p)
	if err != nil {
		return err
	}
	if !u.acquire(clientID) {
		return wizard.ErrInFlight
	}
	defer u.release(clientID)

	if err := u.gw.UpdateLoanStatus(gateway.WithBearer(ctx, p.BearerToken), draft.LoanID, wizard.LoanStatusCanceled); err != nil {
		return err
	}
	return u.store.Remove(ctx, draftKey(clientID))
}

func (u *Usecase) submittedDraft(ctx context.Context, clientID string, p *domainSession.Principal) (*wizard.LoanDraft, int64, error) {
	if p == nil {
		return nil, 0, domainSession.ErrUnauthenticated
	}
	if p.BearerToken == "" {
		return nil, 0, wizard.ErrTokenRequired
	}
	draft, ver, err := u.load(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, 0, &wizard.StateGoneError{RedirectTo: string(wizard.LoanStateInput)}
	}
	if err != nil {
		return nil, 0, err
	}
	if draft.State != wizard.LoanStateSubmitted {
		if draft.State.Terminal() {
			return nil, 0, wizard.ErrInvalidTransition
		}
		return nil, 0, &wizard.StateGoneError{RedirectTo: string(wizard.LoanStateInput)}
	}
	return draft, ver, nil
}

// Get returns the current draft for step re-entry after a reload.
func (u *Usecase) Get(ctx context.Context, clientID string) (*wizard.LoanDraft, error) {
	draft, _, err := u.load(ctx, clientID)
	return draft, err
}
