package model

import "github.com/golang-jwt/jwt/v5"

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AppClaims is the JWT payload for session tokens. The identity claim is
// fixed to "user_id"; the jti (RegisteredClaims.ID) doubles as the
// blocklist key. Fresh is true only for access tokens minted directly from
// a password login and never upgrades afterwards.
type AppClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"type"`
	Fresh     bool   `json:"fresh"`
	jwt.RegisteredClaims
}
