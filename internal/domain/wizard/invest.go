package wizard

import "errors"

var (
	ErrNoSelections   = errors.New("no funding groups selected")
	ErrUnknownRisk    = errors.New("unknown risk level")
	ErrGroupNotListed = errors.New("funding group not in current selection list")
)

type InvestState string

const (
	InvestStateInput     InvestState = "input"
	InvestStateSelecting InvestState = "selecting"
	InvestStateReviewing InvestState = "reviewing"
	InvestStateConfirmed InvestState = "confirmed"
	InvestStateCanceled  InvestState = "canceled"
)

// RiskOrdinal maps the textual risk-level selection to the wire encoding
// (0=Low, 1=Medium, 2=High).
func RiskOrdinal(level string) (int, error) {
	switch level {
	case "Low":
		return RiskLow, nil
	case "Medium":
		return RiskMedium, nil
	case "High":
		return RiskHigh, nil
	}
	return 0, ErrUnknownRisk
}

// GroupSelection is one funding-group row with the investor's entered
// amount. Zero amount means "listed but not selected".
type GroupSelection struct {
	GroupID      int64   `json:"group_id"`
	Amount       int64   `json:"amount"`
	ExpectedRate float64 `json:"expected_rate"`
}

// InvestDraft is the whole investment-wizard state under one key.
// Selections are keyed by GroupID (unique per draft).
type InvestDraft struct {
	DraftID     string           `json:"draft_id"`
	State       InvestState      `json:"state"`
	RiskOrdinal int              `json:"risk_ordinal"`
	AccountID   string           `json:"account_id"`
	Selections  []GroupSelection `json:"selections,omitempty"`
	TotalAmount int64            `json:"total_amount"`
}

// Selected returns the rows that survive commit filtering (amount > 0),
// preserving entry order.
func (d *InvestDraft) Selected() []GroupSelection {
	out := make([]GroupSelection, 0, len(d.Selections))
	for _, s := range d.Selections {
		if s.Amount > 0 {
			out = append(out, s)
		}
	}
	return out
}
