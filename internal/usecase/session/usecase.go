package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	domain "billit-client/internal/domain/session"
	"billit-client/internal/domain/store"
	"billit-client/internal/gateway"
	"billit-client/pkg/id"
)

// Gateway is the slice of the BilliT client this usecase needs.
type Gateway interface {
	Login(ctx context.Context, role domain.Role, email, password string) (*gateway.LoginResponse, error)
	ExchangeSocial(ctx context.Context, role domain.Role, provider, code string) (*gateway.SocialTokenResponse, error)
	VerifyPassword(ctx context.Context, role domain.Role, email, password string) error
}

type Usecase struct {
	gw          Gateway
	store       store.Store
	tokens      store.TokenStore
	reverifyTTL time.Duration
}

func NewUsecase(gw Gateway, st store.Store, tk store.TokenStore, reverifyTTL time.Duration) *Usecase {
	return &Usecase{gw: gw, store: st, tokens: tk, reverifyTTL: reverifyTTL}
}

func sessionKey(clientID string) string { return "session/" + clientID }

// persist writes the whole principal as one record under one key, so a
// login or role switch is a single atomic write.
func (u *Usecase) persist(ctx context.Context, clientID string, p *domain.Principal) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal principal: %w", err)
	}
	_, err = u.store.Put(ctx, sessionKey(clientID), raw, store.AnyVersion)
	return err
}

// Login authenticates with email+password against the role's user service.
func (u *Usecase) Login(ctx context.Context, clientID string, role domain.Role, email, password string) (*domain.Principal, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	resp, err := u.gw.Login(ctx, role, email, password)
	if err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}

	p := &domain.Principal{
		SubjectID:   resp.ID,
		Role:        role,
		BearerToken: resp.AccessToken,
		DisplayName: resp.UserName,
		Phone:       resp.Phone,
		Email:       resp.Email,
	}
	if err := u.persist(ctx, clientID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SocialLogin exchanges a provider identity for {uuid, accessToken}.
func (u *Usecase) SocialLogin(ctx context.Context, clientID string, role domain.Role, provider, code string) (*domain.Principal, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	resp, err := u.gw.ExchangeSocial(ctx, role, provider, code)
	if err != nil {
		return nil, err
	}
	p := &domain.Principal{
		SubjectID:   resp.UUID,
		Role:        role,
		BearerToken: resp.AccessToken,
	}
	if err := u.persist(ctx, clientID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Restore loads the stored principal. No server round trip: an expired
// token is only discovered when a later upstream call fails.
func (u *Usecase) Restore(ctx context.Context, clientID string) (*domain.Principal, error) {
	raw, _, err := u.store.Get(ctx, sessionKey(clientID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	var p domain.Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal principal: %w", err)
	}
	return &p, nil
}

// Logout removes the principal record and any outstanding re-verification
// token. A subsequent Restore is unauthenticated.
func (u *Usecase) Logout(ctx context.Context, clientID string) error {
	if err := u.store.Remove(ctx, sessionKey(clientID)); err != nil {
		return err
	}
	return u.tokens.RemoveToken(ctx, clientID)
}

// Reverify re-checks the password and mints a short-lived token in the
// session tier, required for sensitive profile mutations.
func (u *Usecase) Reverify(ctx context.Context, clientID, password string) (string, error) {
	p, err := u.Restore(ctx, clientID)
	if err != nil {
		return "", err
	}
	if err := u.gw.VerifyPassword(ctx, p.Role, p.Email, password); err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return "", domain.ErrBadCredentials
		}
		return "", err
	}
	tok := id.NewToken()
	if err := u.tokens.PutToken(ctx, clientID, tok, u.reverifyTTL); err != nil {
		return "", err
	}
	return tok, nil
}

// CheckReverify validates a presented re-verification token.
func (u *Usecase) CheckReverify(ctx context.Context, clientID, token string) error {
	stored, err := u.tokens.GetToken(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrUnauthenticated
	}
	if err != nil {
		return err
	}
	if token == "" || token != stored {
		return domain.ErrUnauthenticated
	}
	return nil
}
