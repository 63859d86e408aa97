package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
)

const (
	ProviderGoogle = "google"
	ProviderApple  = "apple"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Identity is what a bearer token asserts about its holder.
// Subject is the provider-assigned id; UserID is zero until the
// identity is bound to a local account.
type Identity struct {
	UserID   int64
	Subject  string
	Name     string
	Email    string
	Provider string
}

// Complete reports whether the profile part of the identity is filled.
func (i Identity) Complete() bool {
	return i.Name != "" && i.Email != "" && i.Provider != ""
}

type Claims struct {
	UserID   int64  `json:"userId,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Provider string `json:"provider,omitempty"`
	Type     string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{
		UserID:   c.UserID,
		Subject:  c.Subject,
		Name:     c.Name,
		Email:    c.Email,
		Provider: c.Provider,
	}
}

type claimsCtxKey struct{}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey{}).(*Claims)
	return claims, ok && claims != nil
}

// CallerAccount returns the account id the caller acts as, or nil when the
// request carries no claims. A token not yet bound to an account (pre-signup)
// yields ErrNoAccount.
func CallerAccount(ctx context.Context) (*int64, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, nil
	}
	if claims.UserID <= 0 {
		return nil, ErrNoAccount
	}
	userID := claims.UserID
	return &userID, nil
}
