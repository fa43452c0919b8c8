package gateway

// Wire types for the upstream BilliT services. Field names follow the
// upstream JSON contract; do not rename.

type EvaluateCreditRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Purpose     string `json:"purpose"`
	Amount      int64  `json:"amount"`
	Term        int    `json:"term"`
}

type CreditDecision struct {
	Target        int     `json:"target"` // 0|1|2 risk ordinal
	MaxLoanAmount int64   `json:"maxLoanAmount"`
	InterestRate  float64 `json:"interestRate"`
}

type RegisterLoanRequest struct {
	UserBorrowID    string  `json:"userBorrowId"`
	AccountBorrowID string  `json:"accountBorrowId"`
	LoanAmount      int64   `json:"loanAmount"`
	Term            int     `json:"term"`
	IntRate         float64 `json:"intRate"`
	LoanLimit       int64   `json:"loanLimit"`
}

type RegisterLoanResponse struct {
	LoanID int64 `json:"loanId"`
}

type AssignGroupResponse struct {
	GroupID  int64 `json:"groupId"`
	IsFulled bool  `json:"isFulled"`
}

type LoanSummary struct {
	LoanID     int64   `json:"loanId"`
	LoanAmount int64   `json:"loanAmount"`
	Term       int     `json:"term"`
	IntRate    float64 `json:"intRate"`
	Status     int     `json:"loanStatus"`
}

type Account struct {
	AccountID     string `json:"accountId"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	HolderName    string `json:"holderName"`
}

type RegisterAccountRequest struct {
	UserID        string `json:"userId"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	HolderName    string `json:"holderName"`
}

type FundingGroup struct {
	GroupID            int64   `json:"groupId"`
	RiskLevel          int     `json:"riskLevel"`
	ExpectedReturnRate float64 `json:"expectedReturnRate"`
	TargetAmount       int64   `json:"targetAmount"`
	FundedAmount       int64   `json:"fundedAmount"`
	IsFulled           bool    `json:"isFulled"`
}

type InvestmentCreate struct {
	GroupID            int64   `json:"groupId"`
	UserInvestorID     string  `json:"userInvestorId"`
	AccountInvestorID  string  `json:"accountInvestorId"`
	InvestmentAmount   int64   `json:"investmentAmount"`
	ExpectedReturnRate float64 `json:"expectedReturnRate"`
}

type PortfolioEntry struct {
	InvestmentID     int64   `json:"investmentId"`
	GroupID          int64   `json:"groupId"`
	InvestmentAmount int64   `json:"investmentAmount"`
	ExpectedRate     float64 `json:"expectedReturnRate"`
	Status           int     `json:"status"`
}

type InvestmentDetail struct {
	InvestmentID     int64   `json:"investmentId"`
	GroupID          int64   `json:"groupId"`
	InvestmentAmount int64   `json:"investmentAmount"`
	ExpectedRate     float64 `json:"expectedReturnRate"`
	AccruedReturn    int64   `json:"accruedReturn"`
	Status           int     `json:"status"`
}

type Settlement struct {
	SettlementID int64  `json:"settlementId"`
	InvestmentID int64  `json:"investmentId"`
	Amount       int64  `json:"amount"`
	SettledAt    string `json:"settledAt"`
}

type Repayment struct {
	RepaymentID int64 `json:"repaymentId"`
	LoanID      int64 `json:"loanId"`
	Amount      int64 `json:"amount"`
	Paid        bool  `json:"paid"`
}

type LoginResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserName     string `json:"userName"`
	Phone        string `json:"phone"`
	CreditRating int    `json:"creditRating"`
	// Present when the user service issues a bearer token with the login
	// answer; token-gated actions hard-stop without one.
	AccessToken string `json:"accessToken,omitempty"`
}

type SocialTokenResponse struct {
	UUID        string `json:"uuid"`
	AccessToken string `json:"accessToken"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
