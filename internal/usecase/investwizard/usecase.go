// Package investwizard drives the investor's allocation flow:
// input → selecting → reviewing → confirmed|canceled. One versioned draft
// record per client; commit is a single upstream call for the whole
// selection, all-or-nothing as reported by the backend.
package investwizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
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
	ErrAmountInvalid   = errors.New("amount must be a non-negative number")
)

type Gateway interface {
	ListGroups(ctx context.Context, riskOrdinal int) ([]gateway.FundingGroup, error)
	CreateInvestments(ctx context.Context, list []gateway.InvestmentCreate) error
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

func draftKey(clientID string) string { return "invest/draft/" + clientID }

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

func (u *Usecase) load(ctx context.Context, clientID string) (*wizard.InvestDraft, int64, error) {
	raw, ver, err := u.store.Get(ctx, draftKey(clientID))
	if err != nil {
		return nil, 0, err
	}
	var d wizard.InvestDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, 0, fmt.Errorf("unmarshal invest draft: %w", err)
	}
	return &d, ver, nil
}

func (u *Usecase) save(ctx context.Context, clientID string, d *wizard.InvestDraft, version int64) (int64, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return 0, fmt.Errorf("marshal invest draft: %w", err)
	}
	return u.store.Put(ctx, draftKey(clientID), raw, version)
}

// SubmitInput starts a fresh draft from a risk level (High/Medium/Low) and
// a withdrawal account; both are required before the selecting step.
func (u *Usecase) SubmitInput(ctx context.Context, clientID string, p *domainSession.Principal, riskLevel, accountID string) (*wizard.InvestDraft, error) {
	if p == nil {
		return nil, domainSession.ErrUnauthenticated
	}
	if p.Role != domainSession.RoleInvestor {
		return nil, fmt.Errorf("investments require the %s role", domainSession.RoleInvestor)
	}
	ordinal, err := wizard.RiskOrdinal(riskLevel)
	if err != nil {
		return nil, err
	}
	if accountID == "" {
		return nil, ErrAccountRequired
	}

	draft := &wizard.InvestDraft{
		DraftID:     id.NewID32(),
		State:       wizard.InvestStateSelecting,
		RiskOrdinal: ordinal,
		AccountID:   accountID,
	}
	if _, err := u.save(ctx, clientID, draft, store.AnyVersion); err != nil {
		return nil, err
	}
	return draft, nil
}

// ListGroups fetches the open funding groups for the draft's risk ordinal
// and snapshots them into the draft, keeping any amounts already entered.
// sortDesc toggles expected-rate ordering; display only, never correctness.
func (u *Usecase) ListGroups(ctx context.Context, clientID string, p *domainSession.Principal, sortDesc bool) ([]gateway.FundingGroup, error) {
	if p == nil {
		return nil, domainSession.ErrUnauthenticated
	}
	draft, ver, err := u.load(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &wizard.StateGoneError{RedirectTo: string(wizard.InvestStateInput)}
	}
	if err != nil {
		return nil, err
	}
	if draft.State != wizard.InvestStateSelecting {
		return nil, wizard.ErrInvalidTransition
	}

	groups, err := u.gw.ListGroups(gateway.WithBearer(ctx, p.BearerToken), draft.RiskOrdinal)
	if err != nil {
		return nil, err
	}

	entered := make(map[int64]int64, len(draft.Selections))
	for _, s := range draft.Selections {
		entered[s.GroupID] = s.Amount
	}
	draft.Selections = draft.Selections[:0]
	for _, g := range groups {
		draft.Selections = append(draft.Selections, wizard.GroupSelection{
			GroupID:      g.GroupID,
			Amount:       entered[g.GroupID],
			ExpectedRate: g.ExpectedReturnRate,
		})
	}
	if _, err := u.save(ctx, clientID, draft, ver); err != nil {
		return nil, err
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if sortDesc {
			return groups[i].ExpectedReturnRate > groups[j].ExpectedReturnRate
		}
		return groups[i].ExpectedReturnRate < groups[j].ExpectedReturnRate
	})
	return groups, nil
}

// SetAmount records the entered amount for one listed group. Blank or zero
// means "not selected"; the row stays listed with amount 0.
func (u *Usecase) SetAmount(ctx context.Context, clientID string, groupID int64, amount string) (*wizard.InvestDraft, error) {
	draft, ver, err := u.load(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &wizard.StateGoneError{RedirectTo: string(wizard.InvestStateInput)}
	}
	if err != nil {
		return nil, err
	}
	if draft.State != wizard.InvestStateSelecting {
		return nil, wizard.ErrInvalidTransition
	}

	var n int64
	if amount != "" {
		n, err = money.ParseAmount(amount)
		if err != nil || n < 0 {
			return nil, ErrAmountInvalid
		}
	}

	found := false
	for i := range draft.Selections {
		if draft.Selections[i].GroupID == groupID {
			draft.Selections[i].Amount = n
			found = true
			break
		}
	}
	if !found {
		return nil, wizard.ErrGroupNotListed
	}

	draft.TotalAmount = 0
	for _, s := range draft.Selected() {
		draft.TotalAmount += s.Amount
	}
	if _, err := u.save(ctx, clientID, draft, ver); err != nil {
		return nil, err
	}
	return draft, nil
}

// Review filters to rows with amount > 0 and freezes the aggregate for the
// confirmation screen. An empty selection is rejected here, before any
// network traffic.
func (u *Usecase) Review(ctx context.Context, clientID string) (*wizard.InvestDraft, error) {
	draft, ver, err := u.load(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &wizard.StateGoneError{RedirectTo: string(wizard.InvestStateInput)}
	}
	if err != nil {
		return nil, err
	}
	if draft.State != wizard.InvestStateSelecting {
		return nil, wizard.ErrInvalidTransition
	}

	selected := draft.Selected()
	if len(selected) == 0 {
		return nil, wizard.ErrNoSelections
	}
	draft.Selections = selected
	draft.TotalAmount = 0
	for _, s := range selected {
		draft.TotalAmount += s.Amount
	}
	draft.State = wizard.InvestStateReviewing
	if _, err := u.save(ctx, clientID, draft, ver); err != nil {
		return nil, err
	}
	return draft, nil
}

// Confirm commits the reviewed selection in one upstream call and clears
// the draft. Partial failure is the backend's concern; nothing is split or
// retried here.
func (u *Usecase) Confirm(ctx context.Context, clientID string, p *domainSession.Principal) (int64, error) {
	if p == nil {
		return 0, domainSession.ErrUnauthenticated
	}
	if p.BearerToken == "" {
		return 0, wizard.ErrTokenRequired
	}
	draft, _, err := u.load(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, &wizard.StateGoneError{RedirectTo: string(wizard.InvestStateInput)}
	}
	if err != nil {
		return 0, err
	}
	if draft.State != wizard.InvestStateReviewing {
		return 0, wizard.ErrInvalidTransition
	}

	selected := draft.Selected()
	if len(selected) == 0 {
		return 0, wizard.ErrNoSelections
	}

	if !u.acquire(clientID) {
		return 0, wizard.ErrInFlight
	}
	defer u.release(clientID)

	list := make([]gateway.InvestmentCreate, 0, len(selected))
	for _, s := range selected {
		list = append(list, gateway.InvestmentCreate{
			GroupID:            s.GroupID,
			UserInvestorID:     p.SubjectID,
			AccountInvestorID:  draft.AccountID,
			InvestmentAmount:   s.Amount,
			ExpectedReturnRate: s.ExpectedRate,
		})
	}
	if err := u.gw.CreateInvestments(gateway.WithBearer(ctx, p.BearerToken), list); err != nil {
		return 0, err
	}
	if err := u.store.Remove(ctx, draftKey(clientID)); err != nil {
		return 0, err
	}
	return draft.TotalAmount, nil
}

// Cancel discards the draft without any backend call.
func (u *Usecase) Cancel(ctx context.Context, clientID string) error {
	return u.store.Remove(ctx, draftKey(clientID))
}

// Get returns the current draft for step re-entry after a reload.
func (u *Usecase) Get(ctx context.Context, clientID string) (*wizard.InvestDraft, error) {
	draft, _, err := u.load(ctx, clientID)
	return draft, err
}
