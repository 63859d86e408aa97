package auth

import "errors"

var (
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrMissingClaim         = errors.New("missing claim")
	ErrProviderLookupFailed = errors.New("provider lookup failed")
	ErrUpstreamProvider     = errors.New("upstream provider error")
	ErrMissingIDToken       = errors.New("no id token returned by provider")
	ErrNonceMismatch        = errors.New("nonce mismatch")
	ErrAppleUserNotFound    = errors.New("apple user not found")
	ErrAppleRevokeFailed    = errors.New("failed to revoke apple token")
	ErrIdentityNotFound     = errors.New("identity not found")
	ErrStateNotFound        = errors.New("oauth state not found")
	ErrNoAccount            = errors.New("token not bound to an account")
)
