// Package accounts lists and registers the bank accounts selected inside
// the wizards. Registration is a sensitive mutation and is gated on a valid
// re-verification token from the session tier.
package accounts

import (
	"context"
	"errors"

	domainSession "billit-client/internal/domain/session"
	"billit-client/internal/gateway"
)

var (
	ErrBankNameRequired      = errors.New("bank name is required")
	ErrAccountNumberRequired = errors.New("account number is required")
	ErrHolderNameRequired    = errors.New("holder name is required")
)

type Gateway interface {
	ListAccounts(ctx context.Context, role domainSession.Role, userID string) ([]gateway.Account, error)
	RegisterAccount(ctx context.Context, role domainSession.Role, req gateway.RegisterAccountRequest) (*gateway.Account, error)
}

// Verifier checks re-verification tokens; satisfied by the session usecase.
type Verifier interface {
	CheckReverify(ctx context.Context, clientID, token string) error
}

type Usecase struct {
	gw       Gateway
	verifier Verifier
}

func NewUsecase(gw Gateway, v Verifier) *Usecase { return &Usecase{gw: gw, verifier: v} }

func (u *Usecase) List(ctx context.Context, p *domainSession.Principal) ([]gateway.Account, error) {
	if p == nil {
		return nil, domainSession.ErrUnauthenticated
	}
	return u.gw.ListAccounts(gateway.WithBearer(ctx, p.BearerToken), p.Role, p.SubjectID)
}

type RegisterParams struct {
	BankName      string
	AccountNumber string
	HolderName    string
	ReverifyToken string
}

func (u *Usecase) Register(ctx context.Context, clientID string, p *domainSession.Principal, in RegisterParams) (*gateway.Account, error) {
	if p == nil {
		return nil, domainSession.ErrUnauthenticated
	}
	if err := u.verifier.CheckReverify(ctx, clientID, in.ReverifyToken); err != nil {
		return nil, err
	}
	if in.BankName == "" {
		return nil, ErrBankNameRequired
	}
	if in.AccountNumber == "" {
		return nil, ErrAccountNumberRequired
	}
	if in.HolderName == "" {
		return nil, ErrHolderNameRequired
	}
	return u.gw.RegisterAccount(gateway.WithBearer(ctx, p.BearerToken), p.Role, gateway.RegisterAccountRequest{
		UserID:        p.SubjectID,
		BankName:      in.BankName,
		AccountNumber: in.AccountNumber,
		HolderName:    in.HolderName,
	})
}
