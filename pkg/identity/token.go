package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints bearer tokens. The role claim is read from the claims
// authority at mint time, which is what makes role changes take effect only
// on credential refresh.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	claims ClaimsAuthority
	now    func() time.Time
}

// NewTokenIssuer constructs a token issuer signing with the given secret.
func NewTokenIssuer(secret string, ttl time.Duration, claims ClaimsAuthority) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		claims: claims,
		now:    time.Now,
	}
}

// Issue mints a signed token for the given subject carrying its current role
// claim, if any.
func (i *TokenIssuer) Issue(ctx context.Context, subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("subject must not be empty")
	}

	role, err := i.claims.RoleClaim(ctx, subject)
	if err != nil {
		return "", fmt.Errorf("failed to read role claim: %w", err)
	}

	now := i.now()
	mapClaims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}
	if role != "" {
		mapClaims["role"] = role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
