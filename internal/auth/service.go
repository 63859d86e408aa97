package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/liftbook/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

type googleExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

type appleIdentityVerifier interface {
	VerifyIdentityToken(ctx context.Context, identityToken, rawNonce string) (*Identity, error)
}

// Service ties the token service to the identity providers and the local
// provider links.
type Service struct {
	tokens     *TokenService
	google     googleExchanger
	apple      appleIdentityVerifier
	identities IdentityLookup
}

func NewService(
	tokens *TokenService,
	google googleExchanger,
	apple appleIdentityVerifier,
	identities IdentityLookup,
) *Service {
	return &Service{
		tokens:     tokens,
		google:     google,
		apple:      apple,
		identities: identities,
	}
}

func (s *Service) GoogleAuthURL(state string) string {
	return s.google.AuthCodeURL(state)
}

// ExchangeGoogleCode trades a Google authorization code for a local token pair.
// Identities not yet bound to an account get tokens with a zero user id, which
// is enough to call the signup route.
func (s *Service) ExchangeGoogleCode(ctx context.Context, code string) (_ *TokenPair, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authService.exchangeGoogleCode")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	identity, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	stored, err := s.identities.FindIdentity(ctx, ProviderGoogle, identity.Subject)
	switch {
	case err == nil:
		identity.UserID = stored.UserID
	case errors.Is(err, ErrIdentityNotFound):
		log.Debugf("google identity [%s] not linked to any user yet", identity.Subject)
	default:
		return nil, fmt.Errorf("%w: %s", ErrProviderLookupFailed, err)
	}

	return s.tokens.IssuePair(*identity)
}

// SignInWithApple verifies a native Apple identity token and issues a token
// pair for the user already linked to providerID. It never creates accounts.
func (s *Service) SignInWithApple(ctx context.Context, identityToken, rawNonce, providerID string) (_ *TokenPair, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authService.signInWithApple")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	appleIdentity, err := s.apple.VerifyIdentityToken(ctx, identityToken, rawNonce)
	if err != nil {
		return nil, err
	}
	if appleIdentity.Subject != providerID {
		return nil, fmt.Errorf("%w: sub does not match provider id", ErrTokenInvalid)
	}

	stored, err := s.identities.FindIdentity(ctx, ProviderApple, providerID)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrAppleUserNotFound
		}
		return nil, fmt.Errorf("%w: %s", ErrProviderLookupFailed, err)
	}

	identity := *stored
	identity.Subject = providerID
	identity.Provider = ProviderApple
	if identity.Email == "" {
		identity.Email = appleIdentity.Email
	}

	return s.tokens.IssuePair(identity)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return s.tokens.Rotate(ctx, refreshToken, s.identities)
}
