package investwizard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	domainSession "billit-client/internal/domain/session"
	"billit-client/internal/domain/wizard"
	"billit-client/internal/gateway"
	"billit-client/internal/testutil/gatewaymock"
	"billit-client/internal/testutil/storemock"
)

const clientID = "dddddddddddddddddddddddddddddddd"

func investor() *domainSession.Principal {
	return &domainSession.Principal{
		SubjectID:   "inv1",
		Role:        domainSession.RoleInvestor,
		BearerToken: "tok",
	}
}

func threeGroups() *gatewaymock.Gateway {
	return &gatewaymock.Gateway{
		ListGroupsFn: func(ctx context.Context, riskOrdinal int) ([]gateway.FundingGroup, error) {
			return []gateway.FundingGroup{
				{GroupID: 1, RiskLevel: riskOrdinal, ExpectedReturnRate: 8.5},
				{GroupID: 2, RiskLevel: riskOrdinal, ExpectedReturnRate: 12.0},
				{GroupID: 3, RiskLevel: riskOrdinal, ExpectedReturnRate: 10.0},
			}, nil
		},
	}
}

func TestSubmitInput_RequiresRiskAndAccount(t *testing.T) {
	uc := NewUsecase(&gatewaymock.Gateway{}, storemock.New())
	ctx := context.Background()

	if _, err := uc.SubmitInput(ctx, clientID, investor(), "Extreme", "a1"); !errors.Is(err, wizard.ErrUnknownRisk) {
		t.Fatalf("bad risk err = %v, want ErrUnknownRisk", err)
	}
	if _, err := uc.SubmitInput(ctx, clientID, investor(), "High", ""); !errors.Is(err, ErrAccountRequired) {
		t.Fatalf("no account err = %v, want ErrAccountRequired", err)
	}

	draft, err := uc.SubmitInput(ctx, clientID, investor(), "High", "a1")
	if err != nil {
		t.Fatalf("SubmitInput: %v", err)
	}
	if draft.RiskOrdinal != wizard.RiskHigh || draft.State != wizard.InvestStateSelecting {
		t.Fatalf("draft = %+v", draft)
	}
}

func TestSubmitInput_WrongRole(t *testing.T) {
	uc := NewUsecase(&gatewaymock.Gateway{}, storemock.New())
	p := investor()
	p.Role = domainSession.RoleBorrower
	if _, err := uc.SubmitInput(context.Background(), clientID, p, "Low", "a1"); err == nil {
		t.Fatal("expected role error")
	}
}

func TestListGroups_SortToggleIsDisplayOnly(t *testing.T) {
	uc := NewUsecase(threeGroups(), storemock.New())
	ctx := context.Background()

	if _, err := uc.SubmitInput(ctx, clientID, investor(), "Medium", "a1"); err != nil {
		t.Fatalf("SubmitInput: %v", err)
	}

	asc, err := uc.ListGroups(ctx, clientID, investor(), false)
	if err != nil {
		t.Fatalf("ListGroups asc: %v", err)
	}
	if asc[0].GroupID != 1 || asc[2].GroupID != 2 {
		t.Fatalf("asc order = %v %v %v", asc[0].GroupID, asc[1].GroupID, asc[2].GroupID)
	}

	desc, err := uc.ListGroups(ctx, clientID, investor(), true)
	if err != nil {
		t.Fatalf("ListGroups desc: %v", err)
	}
	if desc[0].GroupID != 2 || desc[2].GroupID != 1 {
		t.Fatalf("desc order = %v %v %v", desc[0].GroupID, desc[1].GroupID, desc[2].GroupID)
	}

	// Sorting must not disturb what is committed later.
	draft, err := uc.Get(ctx, clientID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(draft.Selections) != 3 {
		t.Fatalf("selections = %d, want snapshot of 3 rows", len(draft.Selections))
	}
}

func TestSetAmount_KeepsEntriesAcrossRelist(t *testing.T) {
	uc := NewUsecase(threeGroups(), storemock.New())
	ctx := context.Background()

	if _, err := uc.SubmitInput(ctx, clientID, investor(), "Low", "a1"); err != nil {
		t.Fatalf("SubmitInput: %v", err)
	}
	if _, err := uc.ListGroups(ctx, clientID, investor(), false); err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if _, err := uc.SetAmount(ctx, clientID, 2, "250,000"); err != nil {
		t.Fatalf("SetAmount: %v", err)
	}
	// Relisting keeps the entered amount.
	if _, err := uc.ListGroups(ctx, clientID, investor(), true); err != nil {
		t.Fatalf("second ListGroups: %v", err)
	}
	draft, _ := uc.Get(ctx, clientID)
	for _, s := range draft.Selections {
		if s.GroupID == 2 && s.Amount != 250_000 {
			t.Fatalf("group 2 amount = %d, want 250,000 after relist", s.Amount)
		}
	}
	if draft.TotalAmount != 250_000 {
		t.Fatalf("total = %d, want 250,000", draft.TotalAmount)
	}
}

func TestSetAmount_Validation(t *testing.T) {
	uc := NewUsecase(threeGroups(), storemock.New())
	ctx := context.Background()

	if _, err := uc.SubmitInput(ctx, clientID, investor(), "Low", "a1"); err != nil {
		t.Fatalf("SubmitInput: %v", err)
	}
	if _, err := uc.ListGroups(ctx, clientID, investor(), false); err != nil {
		t.Fatalf("ListGroups: %v", err)
	}

	if _, err := uc.SetAmount(ctx, clientID, 99, "1,000"); !errors.Is(err, wizard.ErrGroupNotListed) {
		t.Fatalf("unlisted group err = %v, want ErrGroupNotListed", err)
	}
	if _, err := uc.SetAmount(ctx, clientID, 1, "xyz"); !errors.Is(err, ErrAmountInvalid) {
		t.Fatalf("bad amount err = %v, want ErrAmountInvalid", err)
	}
	// Blank clears the entry back to "not selected".
	if _, err := uc.SetAmount(ctx, clientID, 1, ""); err != nil {
		t.Fatalf("blank amount: %v", err)
	}
}

func selectTwo(t *testing.T, uc *Usecase) {
	t.Helper()
	ctx := context.Background()
	if _, err := uc.SubmitInput(ctx, clientID, investor(), "High", "a1"); err != nil {
		t.Fatalf("SubmitInput: %v", err)
	}
	if _, err := uc.ListGroups(ctx, clientID, investor(), false); err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if _, err := uc.SetAmount(ctx, clientID, 1, "100,000"); err != nil {
		t.Fatalf("SetAmount 1: %v", err)
	}
	if _, err := uc.SetAmount(ctx, clientID, 3, "50,000"); err != nil {
		t.Fatalf("SetAmount 3: %v", err)
	}
}

func TestReview_FiltersZeroRows(t *testing.T) {
	uc := NewUsecase(threeGroups(), storemock.New())
	selectTwo(t, uc)

	draft, err := uc.Review(context.Background(), clientID)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if draft.State != wizard.InvestStateReviewing {
		t.Fatalf("state = %q", draft.State)
	}
	if len(draft.Selections) != 2 {
		t.Fatalf("reviewed rows = %d, want 2 (zero rows filtered)", len(draft.Selections))
	}
	if draft.TotalAmount != 150_000 {
		t.Fatalf("total = %d, want 150,000", draft.TotalAmount)
	}
}

func TestReview_EmptySelectionNoNetwork(t *testing.T) {
	uc := NewUsecase(threeGroups(), storemock.New())
	ctx := context.Background()

	if _, err := uc.SubmitInput(ctx, clientID, investor(), "Low", "a1"); err != nil {
		t.Fatalf("SubmitInput: %v", err)
	}
	if _, err := uc.ListGroups(ctx, clientID, investor(), false); err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if _, err := uc.Review(ctx, clientID); !errors.Is(err, wizard.ErrNoSelections) {
		t.Fatalf("empty review err = %v, want ErrNoSelections", err)
	}
}

func TestConfirm_OneAtomicCallAndClear(t *testing.T) {
	var calls int32
	var got []gateway.InvestmentCreate
	gw := threeGroups()
	gw.CreateInvestmentsFn = func(ctx context.Context, list []gateway.InvestmentCreate) error {
		atomic.AddInt32(&calls, 1)
		got = list
		return nil
	}
	st := storemock.New()
	uc := NewUsecase(gw, st)
	selectTwo(t, uc)
	ctx := context.Background()

	if _, err := uc.Review(ctx, clientID); err != nil {
		t.Fatalf("Review: %v", err)
	}
	total, err := uc.Confirm(ctx, clientID, investor())
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if total != 150_000 {
		t.Fatalf("total = %d", total)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("upstream calls = %d, want 1 (whole list at once)", calls)
	}
	if len(got) != 2 {
		t.Fatalf("committed rows = %d, want 2", len(got))
	}
	for _, c := range got {
		if c.InvestmentAmount <= 0 {
			t.Fatalf("zero-amount row committed: %+v", c)
		}
		if c.UserInvestorID != "inv1" || c.AccountInvestorID != "a1" {
			t.Fatalf("row identity = %+v", c)
		}
	}
	if st.Has("invest/draft/" + clientID) {
		t.Fatal("draft should be cleared after confirm")
	}
}

func TestConfirm_RequiresTokenAndReviewState(t *testing.T) {
	uc := NewUsecase(threeGroups(), storemock.New())
	selectTwo(t, uc)
	ctx := context.Background()

	p := investor()
	p.BearerToken = ""
	if _, err := uc.Confirm(ctx, clientID, p); !errors.Is(err, wizard.ErrTokenRequired) {
		t.Fatalf("no token err = %v, want ErrTokenRequired", err)
	}

	// Still selecting: confirm is an invalid transition.
	if _, err := uc.Confirm(ctx, clientID, investor()); !errors.Is(err, wizard.ErrInvalidTransition) {
		t.Fatalf("premature confirm err = %v, want ErrInvalidTransition", err)
	}
}

func TestConfirm_UpstreamFailureKeepsDraft(t *testing.T) {
	gw := threeGroups()
	gw.CreateInvestmentsFn = func(ctx context.Context, list []gateway.InvestmentCreate) error {
		return &gateway.APIError{Status: 502, Message: "invest service down"}
	}
	st := storemock.New()
	uc := NewUsecase(gw, st)
	selectTwo(t, uc)
	ctx := context.Background()

	if _, err := uc.Review(ctx, clientID); err != nil {
		t.Fatalf("Review: %v", err)
	}
	if _, err := uc.Confirm(ctx, clientID, investor()); err == nil {
		t.Fatal("expected upstream error")
	}
	if !st.Has("invest/draft/" + clientID) {
		t.Fatal("draft must survive a failed commit")
	}
}

func TestCancel_DiscardsWithoutNetwork(t *testing.T) {
	var calls int32
	gw := threeGroups()
	gw.CreateInvestmentsFn = func(ctx context.Context, list []gateway.InvestmentCreate) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}
	st := storemock.New()
	uc := NewUsecase(gw, st)
	selectTwo(t, uc)

	if err := uc.Cancel(context.Background(), clientID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if st.Has("invest/draft/" + clientID) {
		t.Fatal("draft should be discarded")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("cancel must not call the backend")
	}
}
