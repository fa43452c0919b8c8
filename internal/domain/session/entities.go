package session

import "errors"

var (
	ErrUnauthenticated = errors.New("no authenticated principal")
	ErrBadCredentials  = errors.New("invalid email or password")
)

// Role selects which upstream user service a principal belongs to. The two
// path segments are upstream-defined; do not rename.
type Role string

const (
	RoleBorrower Role = "borrow"
	RoleInvestor Role = "invest"
)

func (r Role) Valid() bool { return r == RoleBorrower || r == RoleInvestor }

// Principal is the authenticated identity, persisted as ONE serialized
// record under one key so that login/logout are single-write atomic. At most
// one active role per client context.
type Principal struct {
	SubjectID   string `json:"subject_id"`
	Role        Role   `json:"role"`
	BearerToken string `json:"bearer_token"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}
