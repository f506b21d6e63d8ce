package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"styledecor-server/errs"
	"styledecor-server/models"
	"styledecor-server/types"
)

// TokenService issues and verifies the bearer credentials that carry the
// authenticated email.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

func NewTokenService(secret string, expiryHours int) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: time.Duration(expiryHours) * time.Hour,
	}
}

// Issue signs a token for the given principal.
func (s *TokenService) Issue(email string, role models.UserRole) (string, error) {
	claims := &types.Claims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "styledecor-server",
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errs.Wrap(errs.KindInternal, "failed to sign token", err)
	}
	return signed, nil
}

// Verify parses a bearer token and returns its claims. The email inside is
// the verified principal.
func (s *TokenService) Verify(tokenString string) (*types.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindUnauthorized, "token is invalid or expired", err)
	}

	claims, ok := token.Claims.(*types.Claims)
	if !ok || !token.Valid {
		return nil, errs.New(errs.KindUnauthorized, "token claims are invalid")
	}
	if claims.Email == "" {
		return nil, errs.New(errs.KindUnauthorized, "token does not carry an email")
	}
	return claims, nil
}
