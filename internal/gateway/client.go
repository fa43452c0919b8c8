// Package gateway is the sole network boundary to the upstream BilliT
// services: one configured client, one base URL, bearer injection, no
// retries and no circuit breaking. Call sites map failures to user-visible
// messages themselves.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"billit-client/internal/domain/session"
)

type bearerKey struct{}

// WithBearer attaches the principal's token to ctx; the client injects it as
// an Authorization header on every call carrying one.
func WithBearer(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, bearerKey{}, token)
}

// BearerFrom reports the token attached by WithBearer, if any.
func BearerFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(bearerKey{}).(string)
	return v, ok && v != ""
}

func bearerFrom(ctx context.Context) string {
	v, _ := BearerFrom(ctx)
	return v
}

// APIError is a non-2xx upstream answer. Message carries the backend's own
// error text when the body had one, otherwise a generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		// Transport defaults plus a coarse overall cap; no per-call tuning.
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := bearerFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: upstreamMessage(respBody)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// upstreamMessage pulls the backend's own error text out of a failure body.
func upstreamMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return "request to BilliT service failed"
}

// ---- credit evaluation ----

func (c *Client) EvaluateCredit(ctx context.Context, req EvaluateCreditRequest) (*CreditDecision, error) {
	var out CreditDecision
	if err := c.do(ctx, http.MethodPost, "/credit/evaluate", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- loan service ----

func (c *Client) RegisterLoan(ctx context.Context, req RegisterLoanRequest) (*RegisterLoanResponse, error) {
	var out RegisterLoanResponse
	if err := c.do(ctx, http.MethodPost, "/loan-service/register/success", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AssignGroup(ctx context.Context, loanID int64) (*AssignGroupResponse, error) {
	var out AssignGroupResponse
	path := "/loan-service/" + strconv.FormatInt(loanID, 10) + "/assign-group"
	in := map[string]int64{"loanId": loanID}
	if err := c.do(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLoanStatus(ctx context.Context, loanID int64, status int) error {
	in := map[string]any{"loanId": loanID, "status": status}
	return c.do(ctx, http.MethodPut, "/loan-service/status", nil, in, nil)
}

func (c *Client) LoanHistory(ctx context.Context, userID string, status int) ([]LoanSummary, error) {
	q := url.Values{"loanStatus": {strconv.Itoa(status)}}
	var out []LoanSummary
	if err := c.do(ctx, http.MethodGet, "/loan-service/history/"+userID+"/filter", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- user service ----

func (c *Client) ListAccounts(ctx context.Context, role session.Role, userID string) ([]Account, error) {
	q := url.Values{"userId": {userID}}
	var out []Account
	if err := c.do(ctx, http.MethodGet, "/user-service/accounts/"+string(role), q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RegisterAccount(ctx context.Context, role session.Role, req RegisterAccountRequest) (*Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodPost, "/user-service/accounts/"+string(role), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, role session.Role, email, password string) (*LoginResponse, error) {
	in := map[string]string{"email": email, "password": password}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/users/"+string(role)+"/login", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExchangeSocial trades a social-provider identity for {uuid, accessToken}.
func (c *Client) ExchangeSocial(ctx context.Context, role session.Role, provider, code string) (*SocialTokenResponse, error) {
	in := map[string]string{"provider": provider, "code": code}
	var out SocialTokenResponse
	if err := c.do(ctx, http.MethodPost, "/users/"+string(role)+"/social", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyPassword(ctx context.Context, role session.Role, email, password string) error {
	in := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/users/"+string(role)+"/verify-password", nil, in, nil)
}

// ---- invest service ----

func (c *Client) ListGroups(ctx context.Context, riskOrdinal int) ([]FundingGroup, error) {
	q := url.Values{"riskLevel": {strconv.Itoa(riskOrdinal)}}
	var out []FundingGroup
	if err := c.do(ctx, http.MethodGet, "/invest-service/groups", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateInvestments commits the whole selection in one call; partial
// success is the backend's concern, never split or retried here.
func (c *Client) CreateInvestments(ctx context.Context, list []InvestmentCreate) error {
	return c.do(ctx, http.MethodPost, "/invest-service/investments/create", nil, list, nil)
}

func (c *Client) Portfolio(ctx context.Context, userID string) ([]PortfolioEntry, error) {
	var out []PortfolioEntry
	if err := c.do(ctx, http.MethodGet, "/invest-service/portfolios/"+userID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetInvestmentDetail(ctx context.Context, investmentID int64) (*InvestmentDetail, error) {
	q := url.Values{"investmentId": {strconv.FormatInt(investmentID, 10)}}
	var out InvestmentDetail
	if err := c.do(ctx, http.MethodGet, "/invest-service/investments/detail", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Settlements(ctx context.Context, investmentID int64) ([]Settlement, error) {
	path := "/invest-service/settlements/" + strconv.FormatInt(investmentID, 10)
	var out []Settlement
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- repayment service ----

func (c *Client) Repayments(ctx context.Context) ([]Repayment, error) {
	var out []Repayment
	if err := c.do(ctx, http.MethodGet, "/repayment-service", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRepayment(ctx context.Context, loanID, actualAmount int64) error {
	in := map[string]int64{"loanId": loanID, "actualRepaymentAmount": actualAmount}
	return c.do(ctx, http.MethodPost, "/repayment-service/create/repayment-process", nil, in, nil)
}

// ---- object storage ----

// UploadDocument forwards a file to the upstream object-store proxy and
// returns the stored URL. Contents are never inspected here.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if tok := bearerFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{Status: resp.StatusCode, Message: upstreamMessage(respBody)}
	}
	var out UploadResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	return out.URL, nil
}
