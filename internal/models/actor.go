package models

import "github.com/golang-jwt/jwt/v5"

// ActorClaims identifies the registrar performing an operation. The claims
// only feed audit columns (issued_by, performed_by, destroyed_by); no
// authorization decision is made from them.
type ActorClaims struct {
	UserID   string `json:"uid"`
	FullName string `json:"name"`
	jwt.RegisteredClaims
}

// Identity returns the value recorded in audit columns.
func (c *ActorClaims) Identity() string {
	if c == nil {
		return ""
	}
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
