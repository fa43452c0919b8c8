package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"testing"

	domainSession "billit-client/internal/domain/session"
	"billit-client/internal/domain/wizard"
	"billit-client/internal/gateway"
	"billit-client/internal/testutil/gatewaymock"
	"billit-client/internal/testutil/storemock"
	"billit-client/internal/usecase/loanwizard"
)

func newLoanHandler(t *testing.T, gw *gatewaymock.Gateway) *LoanHandler {
	t.Helper()
	return NewLoanHandler(
		loanwizard.NewUsecase(gw, storemock.New()),
		loggedInSessions(t, domainSession.RoleBorrower),
	)
}

func TestLoanInput_EvaluatesAndReturnsDraft(t *testing.T) {
	e := newEchoWithValidator()
	gw := &gatewaymock.Gateway{
		EvaluateCreditFn: func(ctx context.Context, req gateway.EvaluateCreditRequest) (*gateway.CreditDecision, error) {
			return &gateway.CreditDecision{Target: wizard.RiskLow, MaxLoanAmount: 99_000_000, InterestRate: 10}, nil
		},
	}
	h := newLoanHandler(t, gw)

	c, rec := newCtx(e, stdhttp.MethodPost, "/loans/wizard/input", mustJSON(map[string]any{
		"account_id":  "acc-1",
		"amount":      "5,000,000",
		"term_months": 12,
		"purpose":     "working capital",
	}))
	if err := h.Input(c); err != nil {
		t.Fatalf("Input error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var draft wizard.LoanDraft
	if err := json.Unmarshal(rec.Body.Bytes(), &draft); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if draft.State != wizard.LoanStateConfirm {
		t.Fatalf("state = %s, want confirm", draft.State)
	}
	if draft.RequestedAmount != 5_000_000 {
		t.Fatalf("requested = %d, want 5000000", draft.RequestedAmount)
	}
}

func TestLoanInput_ValidationFailureIs422(t *testing.T) {
	e := newEchoWithValidator()
	h := newLoanHandler(t, &gatewaymock.Gateway{})

	c, rec := newCtx(e, stdhttp.MethodPost, "/loans/wizard/input", mustJSON(map[string]any{
		"account_id":  "acc-1",
		"amount":      "5jt", // not a grouped number
		"term_months": 12,
		"purpose":     "working capital",
	}))
	if err := h.Input(c); err != nil {
		t.Fatalf("Input error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestLoanConfirm_FullFlow(t *testing.T) {
	e := newEchoWithValidator()
	gw := &gatewaymock.Gateway{
		EvaluateCreditFn: func(ctx context.Context, req gateway.EvaluateCreditRequest) (*gateway.CreditDecision, error) {
			return &gateway.CreditDecision{Target: wizard.RiskLow, MaxLoanAmount: 99_000_000, InterestRate: 10}, nil
		},
		RegisterLoanFn: func(ctx context.Context, req gateway.RegisterLoanRequest) (*gateway.RegisterLoanResponse, error) {
			return &gateway.RegisterLoanResponse{LoanID: 42}, nil
		},
	}
	h := newLoanHandler(t, gw)

	c1, _ := newCtx(e, stdhttp.MethodPost, "/loans/wizard/input", mustJSON(map[string]any{
		"account_id": "acc-1", "amount": "10,000,000", "term_months": 12, "purpose": "working capital",
	}))
	if err := h.Input(c1); err != nil {
		t.Fatalf("Input error: %v", err)
	}

	c2, rec := newCtx(e, stdhttp.MethodPost, "/loans/wizard/confirm", mustJSON(map[string]any{
		"amount": "10,000,000",
	}))
	if err := h.Confirm(c2); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var res loanwizard.ConfirmResult
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if res.LoanID != 42 {
		t.Fatalf("loan id = %d, want 42", res.LoanID)
	}
	// Risk-low ceiling caps the 10M ask at 5M.
	if res.Amount != wizard.CeilingRiskLow {
		t.Fatalf("amount = %d, want ceiling %d", res.Amount, wizard.CeilingRiskLow)
	}
}

func TestLoanConfirm_NoDraftRedirectsToInput(t *testing.T) {
	e := newEchoWithValidator()
	h := newLoanHandler(t, &gatewaymock.Gateway{})

	c, rec := newCtx(e, stdhttp.MethodPost, "/loans/wizard/confirm", mustJSON(map[string]any{
		"amount": "1,000,000",
	}))
	if err := h.Confirm(c); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.RedirectTo != string(wizard.LoanStateInput) {
		t.Fatalf("redirect_to = %q, want input", resp.RedirectTo)
	}
}

func TestLoanConfirm_UpstreamFailureIs502WithMessage(t *testing.T) {
	e := newEchoWithValidator()
	gw := &gatewaymock.Gateway{
		EvaluateCreditFn: func(ctx context.Context, req gateway.EvaluateCreditRequest) (*gateway.CreditDecision, error) {
			return &gateway.CreditDecision{Target: wizard.RiskLow, MaxLoanAmount: 99_000_000, InterestRate: 10}, nil
		},
		RegisterLoanFn: func(ctx context.Context, req gateway.RegisterLoanRequest) (*gateway.RegisterLoanResponse, error) {
			return nil, &gateway.APIError{Status: 500, Message: "loan service exploded"}
		},
	}
	h := newLoanHandler(t, gw)

	c1, _ := newCtx(e, stdhttp.MethodPost, "/loans/wizard/input", mustJSON(map[string]any{
		"account_id": "acc-1", "amount": "1,000,000", "term_months": 6, "purpose": "stock",
	}))
	if err := h.Input(c1); err != nil {
		t.Fatalf("Input error: %v", err)
	}

	c2, rec := newCtx(e, stdhttp.MethodPost, "/loans/wizard/confirm", mustJSON(map[string]any{"amount": "1,000,000"}))
	if err := h.Confirm(c2); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "loan service exploded" {
		t.Fatalf("error = %q, want upstream message", resp.Error)
	}
}

func TestLoanAssignGroup_ReturnsGroup(t *testing.T) {
	e := newEchoWithValidator()
	gw := &gatewaymock.Gateway{
		EvaluateCreditFn: func(ctx context.Context, req gateway.EvaluateCreditRequest) (*gateway.CreditDecision, error) {
			return &gateway.CreditDecision{Target: wizard.RiskLow, MaxLoanAmount: 99_000_000, InterestRate: 10}, nil
		},
		RegisterLoanFn: func(ctx context.Context, req gateway.RegisterLoanRequest) (*gateway.RegisterLoanResponse, error) {
			return &gateway.RegisterLoanResponse{LoanID: 7}, nil
		},
		AssignGroupFn: func(ctx context.Context, loanID int64) (*gateway.AssignGroupResponse, error) {
			return &gateway.AssignGroupResponse{GroupID: 99}, nil
		},
	}
	h := newLoanHandler(t, gw)

	c1, _ := newCtx(e, stdhttp.MethodPost, "/loans/wizard/input", mustJSON(map[string]any{
		"account_id": "acc-1", "amount": "1,000,000", "term_months": 6, "purpose": "stock",
	}))
	if err := h.Input(c1); err != nil {
		t.Fatalf("Input error: %v", err)
	}
	c2, _ := newCtx(e, stdhttp.MethodPost, "/loans/wizard/confirm", mustJSON(map[string]any{"amount": "1,000,000"}))
	if err := h.Confirm(c2); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}

	c3, rec := newCtx(e, stdhttp.MethodPost, "/loans/wizard/assign-group", nil)
	if err := h.AssignGroup(c3); err != nil {
		t.Fatalf("AssignGroup error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var res gateway.AssignGroupResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if res.GroupID != 99 {
		t.Fatalf("group id = %d, want 99", res.GroupID)
	}
}

func TestLoanCancel_NoContent(t *testing.T) {
	e := newEchoWithValidator()
	gw := &gatewaymock.Gateway{
		EvaluateCreditFn: func(ctx context.Context, req gateway.EvaluateCreditRequest) (*gateway.CreditDecision, error) {
			return &gateway.CreditDecision{Target: wizard.RiskLow, MaxLoanAmount: 99_000_000, InterestRate: 10}, nil
		},
		RegisterLoanFn: func(ctx context.Context, req gateway.RegisterLoanRequest) (*gateway.RegisterLoanResponse, error) {
			return &gateway.RegisterLoanResponse{LoanID: 7}, nil
		},
		UpdateLoanStatusFn: func(ctx context.Context, loanID int64, status int) error { return nil },
	}
	h := newLoanHandler(t, gw)

	c1, _ := newCtx(e, stdhttp.MethodPost, "/loans/wizard/input", mustJSON(map[string]any{
		"account_id": "acc-1", "amount": "1,000,000", "term_months": 6, "purpose": "stock",
	}))
	if err := h.Input(c1); err != nil {
		t.Fatalf("Input error: %v", err)
	}
	c2, _ := newCtx(e, stdhttp.MethodPost, "/loans/wizard/confirm", mustJSON(map[string]any{"amount": "1,000,000"}))
	if err := h.Confirm(c2); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}

	c3, rec := newCtx(e, stdhttp.MethodPost, "/loans/wizard/cancel", nil)
	if err := h.Cancel(c3); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestLoanGet_NoDraft404(t *testing.T) {
	e := newEchoWithValidator()
	h := newLoanHandler(t, &gatewaymock.Gateway{})

	c, rec := newCtx(e, stdhttp.MethodGet, "/loans/wizard", nil)
	if err := h.Get(c); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
