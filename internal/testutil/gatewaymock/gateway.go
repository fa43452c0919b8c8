// Package gatewaymock is a function-field test double for the BilliT
// gateway. Only set the Fn fields your test exercises; everything else
// answers "not implemented".
package gatewaymock

import (
	"context"
	"errors"
	"io"

	"billit-client/internal/domain/session"
	"billit-client/internal/gateway"
)

var errNotImplemented = errors.New("not implemented")

type Gateway struct {
	EvaluateCreditFn      func(ctx context.Context, req gateway.EvaluateCreditRequest) (*gateway.CreditDecision, error)
	RegisterLoanFn        func(ctx context.Context, req gateway.RegisterLoanRequest) (*gateway.RegisterLoanResponse, error)
	AssignGroupFn         func(ctx context.Context, loanID int64) (*gateway.AssignGroupResponse, error)
	UpdateLoanStatusFn    func(ctx context.Context, loanID int64, status int) error
	LoanHistoryFn         func(ctx context.Context, userID string, status int) ([]gateway.LoanSummary, error)
	ListAccountsFn        func(ctx context.Context, role session.Role, userID string) ([]gateway.Account, error)
	RegisterAccountFn     func(ctx context.Context, role session.Role, req gateway.RegisterAccountRequest) (*gateway.Account, error)
	LoginFn               func(ctx context.Context, role session.Role, email, password string) (*gateway.LoginResponse, error)
	ExchangeSocialFn      func(ctx context.Context, role session.Role, provider, code string) (*gateway.SocialTokenResponse, error)
	VerifyPasswordFn      func(ctx context.Context, role session.Role, email, password string) error
	ListGroupsFn          func(ctx context.Context, riskOrdinal int) ([]gateway.FundingGroup, error)
	CreateInvestmentsFn   func(ctx context.Context, list []gateway.InvestmentCreate) error
	PortfolioFn           func(ctx context.Context, userID string) ([]gateway.PortfolioEntry, error)
	GetInvestmentDetailFn func(ctx context.Context, investmentID int64) (*gateway.InvestmentDetail, error)
	SettlementsFn         func(ctx context.Context, investmentID int64) ([]gateway.Settlement, error)
	RepaymentsFn          func(ctx context.Context) ([]gateway.Repayment, error)
	CreateRepaymentFn     func(ctx context.Context, loanID, actualAmount int64) error
	UploadDocumentFn      func(ctx context.Context, filename string, r io.Reader) (string, error)
}

func (m *Gateway) EvaluateCredit(ctx context.Context, req gateway.EvaluateCreditRequest) (*gateway.CreditDecision, error) {
	if m.EvaluateCreditFn != nil {
		return m.EvaluateCreditFn(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *Gateway) RegisterLoan(ctx context.Context, req gateway.RegisterLoanRequest) (*gateway.RegisterLoanResponse, error) {
	if m.RegisterLoanFn != nil {
		return m.RegisterLoanFn(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *Gateway) AssignGroup(ctx context.Context, loanID int64) (*gateway.AssignGroupResponse, error) {
	if m.AssignGroupFn != nil {
		return m.AssignGroupFn(ctx, loanID)
	}
	return nil, errNotImplemented
}

func (m *Gateway) UpdateLoanStatus(ctx context.Context, loanID int64, status int) error {
	if m.UpdateLoanStatusFn != nil {
		return m.UpdateLoanStatusFn(ctx, loanID, status)
	}
	return errNotImplemented
}

func (m *Gateway) LoanHistory(ctx context.Context, userID string, status int) ([]gateway.LoanSummary, error) {
	if m.LoanHistoryFn != nil {
		return m.LoanHistoryFn(ctx, userID, status)
	}
	return nil, errNotImplemented
}

func (m *Gateway) ListAccounts(ctx context.Context, role session.Role, userID string) ([]gateway.Account, error) {
	if m.ListAccountsFn != nil {
		return m.ListAccountsFn(ctx, role, userID)
	}
	return nil, errNotImplemented
}

func (m *Gateway) RegisterAccount(ctx context.Context, role session.Role, req gateway.RegisterAccountRequest) (*gateway.Account, error) {
	if m.RegisterAccountFn != nil {
		return m.RegisterAccountFn(ctx, role, req)
	}
	return nil, errNotImplemented
}

func (m *Gateway) Login(ctx context.Context, role session.Role, email, password string) (*gateway.LoginResponse, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, role, email, password)
	}
	return nil, errNotImplemented
}

func (m *Gateway) ExchangeSocial(ctx context.Context, role session.Role, provider, code string) (*gateway.SocialTokenResponse, error) {
	if m.ExchangeSocialFn != nil {
		return m.ExchangeSocialFn(ctx, role, provider, code)
	}
	return nil, errNotImplemented
}

func (m *Gateway) VerifyPassword(ctx context.Context, role session.Role, email, password string) error {
	if m.VerifyPasswordFn != nil {
		return m.VerifyPasswordFn(ctx, role, email, password)
	}
	return errNotImplemented
}

func (m *Gateway) ListGroups(ctx context.Context, riskOrdinal int) ([]gateway.FundingGroup, error) {
	if m.ListGroupsFn != nil {
		return m.ListGroupsFn(ctx, riskOrdinal)
	}
	return nil, errNotImplemented
}

func (m *Gateway) CreateInvestments(ctx context.Context, list []gateway.InvestmentCreate) error {
	if m.CreateInvestmentsFn != nil {
		return m.CreateInvestmentsFn(ctx, list)
	}
	return errNotImplemented
}

func (m *Gateway) Portfolio(ctx context.Context, userID string) ([]gateway.PortfolioEntry, error) {
	if m.PortfolioFn != nil {
		return m.PortfolioFn(ctx, userID)
	}
	return nil, errNotImplemented
}

func (m *Gateway) GetInvestmentDetail(ctx context.Context, investmentID int64) (*gateway.InvestmentDetail, error) {
	if m.GetInvestmentDetailFn != nil {
		return m.GetInvestmentDetailFn(ctx, investmentID)
	}
	return nil, errNotImplemented
}

func (m *Gateway) Settlements(ctx context.Context, investmentID int64) ([]gateway.Settlement, error) {
	if m.SettlementsFn != nil {
		return m.SettlementsFn(ctx, investmentID)
	}
	return nil, errNotImplemented
}

func (m *Gateway) Repayments(ctx context.Context) ([]gateway.Repayment, error) {
	if m.RepaymentsFn != nil {
		return m.RepaymentsFn(ctx)
	}
	return nil, errNotImplemented
}

func (m *Gateway) CreateRepayment(ctx context.Context, loanID, actualAmount int64) error {
	if m.CreateRepaymentFn != nil {
		return m.CreateRepaymentFn(ctx, loanID, actualAmount)
	}
	return errNotImplemented
}

func (m *Gateway) UploadDocument(ctx context.Context, filename string, r io.Reader) (string, error) {
	if m.UploadDocumentFn != nil {
		return m.UploadDocumentFn(ctx, filename, r)
	}
	return "", errNotImplemented
}
