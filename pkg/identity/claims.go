package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Claims are the authorization attributes carried by a caller's credential.
// They are captured at token verification time and passed explicitly into
// every authorized handler; a live credential never observes later claim
// changes.
type Claims struct {
	Subject string
	Role    string
}

// HasRole reports whether the credential carried any role claim at all.
func (c Claims) HasRole() bool {
	return c.Role != ""
}

// ClaimsAuthority attaches role claims to an identity. Attached claims are
// consulted only when the identity's next credential is issued.
type ClaimsAuthority interface {
	SetRoleClaim(ctx context.Context, userID, role string) error
	RoleClaim(ctx context.Context, userID string) (string, error)
}

type redisClaimsAuthority struct {
	client *redis.Client
	prefix string
}

// NewClaimsAuthority constructs a claims authority backed by redis.
func NewClaimsAuthority(client *redis.Client) ClaimsAuthority {
	return &redisClaimsAuthority{client: client, prefix: "edura:claims:role:"}
}

func (a *redisClaimsAuthority) SetRoleClaim(ctx context.Context, userID, role string) error {
	if userID == "" {
		return fmt.Errorf("user id must not be empty")
	}

	return a.client.Set(ctx, a.prefix+userID, role, 0).Err()
}

func (a *redisClaimsAuthority) RoleClaim(ctx context.Context, userID string) (string, error) {
	role, err := a.client.Get(ctx, a.prefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}

	return role, nil
}
