package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims. Email is the verified principal the
// rest of the system trusts.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
