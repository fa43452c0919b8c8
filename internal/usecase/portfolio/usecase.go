// Package portfolio covers the tracking reads (portfolio, investment
// detail, settlements, repayments, loan history) and the repayment commit.
// Thin pass-throughs over the gateway; the backend owns all of this data.
package portfolio

import (
	"context"
	"errors"

	domainSession "billit-client/internal/domain/session"
	"billit-client/internal/gateway"
)

var ErrAmountInvalid = errors.New("repayment amount must be positive")

type Gateway interface {
	Portfolio(ctx context.Context, userID string) ([]gateway.PortfolioEntry, error)
	GetInvestmentDetail(ctx context.Context, investmentID int64) (*gateway.InvestmentDetail, error)
	Settlements(ctx context.Context, investmentID int64) ([]gateway.Settlement, error)
	Repayments(ctx context.Context) ([]gateway.Repayment, error)
	CreateRepayment(ctx context.Context, loanID, actualAmount int64) error
	LoanHistory(ctx context.Context, userID string, status int) ([]gateway.LoanSummary, error)
}

type Usecase struct{ gw Gateway }

func NewUsecase(gw Gateway) *Usecase { return &Usecase{gw: gw} }

func (u *Usecase) Portfolio(ctx context.Context, p *domainSession.Principal) ([]gateway.PortfolioEntry, error) {
	if p == nil {
		return nil, domainSession.ErrUnauthenticated
	}
	return u.gw.Portfolio(gateway.WithBearer(ctx, p.BearerToken), p.SubjectID)
}

func (u *Usecase) InvestmentDetail(ctx context.Context, p *domainSession.Principal, investmentID int64) (*gateway.InvestmentDetail, error) {
	if p == nil {
		return nil, domainSession.ErrUnauthenticated
	}
	return u.gw.GetInvestmentDetail(gateway.WithBearer(ctx, p.BearerToken), investmentID)
}

func (u *Usecase) Settlements(ctx context.Context, p *domainSession.Principal, investmentID int64) ([]gateway.Settlement, error) {
	if p == nil {
		return nil, domainSession.ErrUnauthenticated
	}
	return u.gw.Settlements(gateway.WithBearer(ctx, p.BearerToken), investmentID)
}

func (u *Usecase) Repayments(ctx context.Context, p *domainSession.Principal) ([]gateway.Repayment, error) {
	if p == nil {
		return nil, domainSession.ErrUnauthenticated
	}
	return u.gw.Repayments(gateway.WithBearer(ctx, p.BearerToken))
}

func (u *Usecase) CreateRepayment(ctx context.Context, p *domainSession.Principal, loanID, amount int64) error {
	if p == nil {
		return domainSession.ErrUnauthenticated
	}
	if amount <= 0 {
		return ErrAmountInvalid
	}
	return u.gw.CreateRepayment(gateway.WithBearer(ctx, p.BearerToken), loanID, amount)
}

func (u *Usecase) LoanHistory(ctx context.Context, p *domainSession.Principal, status int) ([]gateway.LoanSummary, error) {
	if p == nil {
		return nil, domainSession.ErrUnauthenticated
	}
	return u.gw.LoanHistory(gateway.WithBearer(ctx, p.BearerToken), p.SubjectID, status)
}
