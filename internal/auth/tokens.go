package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/liftbook/internal/telemetry/metrics"
	"github.com/2beens/liftbook/internal/telemetry/tracing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IdentityLookup resolves a provider identity to the local account bound to it.
// An empty provider matches any provider. Implementations return
// ErrIdentityNotFound when no link exists.
type IdentityLookup interface {
	FindIdentity(ctx context.Context, provider, providerID string) (*Identity, error)
}

type TokenService struct {
	secret         []byte
	accessTTL      time.Duration
	refreshTTL     time.Duration
	metricsManager *metrics.Manager
	parser         *jwt.Parser
	// injectable for tests
	now   func() time.Time
	newID func() string
}

func NewTokenService(
	secret string,
	accessTTL, refreshTTL time.Duration,
	metricsManager *metrics.Manager,
) *TokenService {
	return &TokenService{
		secret:         []byte(secret),
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
		metricsManager: metricsManager,
		parser:         jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

func (s *TokenService) IssueAccessToken(identity Identity) (string, error) {
	claims := s.claimsFor(identity, s.accessTTL)
	return s.sign(claims, TokenTypeAccess)
}

// IssueRefreshToken signs a long lived token with type "refresh" and a fresh jti.
func (s *TokenService) IssueRefreshToken(identity Identity) (string, error) {
	claims := s.claimsFor(identity, s.refreshTTL)
	claims.Type = TokenTypeRefresh
	claims.ID = s.newID()
	return s.sign(claims, TokenTypeRefresh)
}

func (s *TokenService) IssuePair(identity Identity) (*TokenPair, error) {
	accessToken, err := s.IssueAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.IssueRefreshToken(identity)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *TokenService) claimsFor(identity Identity, ttl time.Duration) *Claims {
	now := s.now()
	return &Claims{
		UserID:   identity.UserID,
		Name:     identity.Name,
		Email:    identity.Email,
		Provider: identity.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

func (s *TokenService) sign(claims *Claims, kind string) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterTokensIssued.WithLabelValues(kind).Inc()
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token issued by this service.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrTokenInvalid, err)
	}
	return claims, nil
}

// Rotate exchanges a valid refresh token for a new pair. Identities missing
// profile data are re-hydrated through lookup. The presented refresh token
// stays valid until it expires.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string, lookup IdentityLookup) (_ *TokenPair, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tokenService.rotate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	claims, err := s.Verify(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeRefresh {
		return nil, fmt.Errorf("%w: type must be %q", ErrMissingClaim, TokenTypeRefresh)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	identity := claims.Identity()
	switch {
	case !identity.Complete():
		if lookup == nil {
			return nil, fmt.Errorf("%w: no identity lookup", ErrProviderLookupFailed)
		}
		stored, err := lookup.FindIdentity(ctx, identity.Provider, identity.Subject)
		if err != nil {
			log.Debugf("rotate: identity lookup for [%s] failed: %s", identity.Subject, err)
			return nil, fmt.Errorf("%w: %s", ErrProviderLookupFailed, err)
		}
		identity = mergeIdentity(identity, *stored)
	case identity.UserID == 0 && lookup != nil:
		// the account may have been created since the token was issued
		stored, err := lookup.FindIdentity(ctx, identity.Provider, identity.Subject)
		if err == nil {
			identity = mergeIdentity(identity, *stored)
		} else if !errors.Is(err, ErrIdentityNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProviderLookupFailed, err)
		}
	}

	return s.IssuePair(identity)
}

func mergeIdentity(current, stored Identity) Identity {
	if current.UserID == 0 {
		current.UserID = stored.UserID
	}
	if current.Name == "" {
		current.Name = stored.Name
	}
	if current.Email == "" {
		current.Email = stored.Email
	}
	if current.Provider == "" {
		current.Provider = stored.Provider
	}
	return current
}
