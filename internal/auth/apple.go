package auth

import (
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/liftbook/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
)

const (
	AppleIssuer         = "https://appleid.apple.com"
	AppleKeysURL        = "https://appleid.apple.com/auth/keys"
	appleKeysCacheKey   = "apple::jwks"
	appleKeysCacheTTL   = 60 * 60 // seconds
	appleKeysRefetchKey = "apple::jwks::refetched"

	DefaultAppleKeysRefetchCooldown = time.Minute
)

type appleIDClaims struct {
	Email          string `json:"email"`
	Nonce          string `json:"nonce"`
	NonceSupported bool   `json:"nonce_supported"`
	jwt.RegisteredClaims
}

type AppleVerifier struct {
	clientID   string
	keysURL    string
	httpClient *http.Client
	cache      *freecache.Cache
	parser     *jwt.Parser
	// an unknown kid refetches the key set at most once per cooldown
	refetchCooldown time.Duration
}

func NewAppleVerifier(clientID, keysURL string, httpClient *http.Client) *AppleVerifier {
	if keysURL == "" {
		keysURL = AppleKeysURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	megabyte := 1024 * 1024
	return &AppleVerifier{
		clientID:   clientID,
		keysURL:    keysURL,
		httpClient: httpClient,
		cache:      freecache.NewCache(megabyte),
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()})),

		refetchCooldown: DefaultAppleKeysRefetchCooldown,
	}
}

// VerifyIdentityToken checks an Apple identity token against Apple's published
// key set: signature, issuer, audience, expiry and nonce. When the token says
// nonce_supported the nonce claim is base64url(sha256(rawNonce)), otherwise
// it must equal rawNonce.
func (v *AppleVerifier) VerifyIdentityToken(ctx context.Context, identityToken, rawNonce string) (_ *Identity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "appleVerifier.verifyIdentityToken")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if rawNonce == "" {
		return nil, fmt.Errorf("%w: nonce", ErrMissingClaim)
	}

	claims := &appleIDClaims{}
	_, err = v.parser.ParseWithClaims(identityToken, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid header")
		}
		return v.publicKey(ctx, kid)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrTokenInvalid, err)
	}

	if !claims.VerifyIssuer(AppleIssuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrTokenInvalid, claims.Issuer)
	}
	if !claims.VerifyAudience(v.clientID, true) {
		return nil, fmt.Errorf("%w: unexpected audience %v", ErrTokenInvalid, claims.Audience)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	if !nonceMatches(claims.Nonce, rawNonce, claims.NonceSupported) {
		return nil, ErrNonceMismatch
	}

	return &Identity{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Provider: ProviderApple,
	}, nil
}

func nonceMatches(tokenNonce, rawNonce string, hashed bool) bool {
	if !hashed {
		return tokenNonce == rawNonce
	}
	sum := sha256.Sum256([]byte(rawNonce))
	return tokenNonce == base64.RawURLEncoding.EncodeToString(sum[:])
}

// publicKey resolves kid from the cached key set. An unknown kid refetches
// the set, since Apple rotates its keys, but only once per cooldown so junk
// kids cannot drive a fetch per request.
func (v *AppleVerifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if cached, err := v.cache.Get([]byte(appleKeysCacheKey)); err == nil {
		jwks := &jose.JSONWebKeySet{}
		if err := json.Unmarshal(cached, jwks); err != nil {
			log.Errorf("apple verifier: unmarshal cached jwks: %s", err)
		} else {
			key, err := appleSigningKey(jwks, kid)
			if err == nil {
				return key, nil
			}
			if _, coolingDown := v.cache.Get([]byte(appleKeysRefetchKey)); coolingDown == nil {
				return nil, err
			}
			if cooldown := int(v.refetchCooldown.Seconds()); cooldown > 0 {
				if err := v.cache.Set([]byte(appleKeysRefetchKey), []byte{1}, cooldown); err != nil {
					log.Errorf("apple verifier: set refetch cooldown: %s", err)
				}
			}
			log.Debugf("apple verifier: kid [%s] not in cached key set, refetching", kid)
		}
	}

	jwks, err := v.fetchKeys(ctx)
	if err != nil {
		return nil, err
	}
	return appleSigningKey(jwks, kid)
}

func (v *AppleVerifier) fetchKeys(ctx context.Context) (*jose.JSONWebKeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.keysURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch apple keys: %s", ErrUpstreamProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch apple keys: status %d", ErrUpstreamProvider, resp.StatusCode)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read apple keys: %w", err)
	}

	jwks := &jose.JSONWebKeySet{}
	if err := json.Unmarshal(respBytes, jwks); err != nil {
		return nil, fmt.Errorf("unmarshal apple keys: %w", err)
	}

	if err := v.cache.Set([]byte(appleKeysCacheKey), respBytes, appleKeysCacheTTL); err != nil {
		log.Errorf("apple verifier: cache jwks: %s", err)
	}

	return jwks, nil
}

func appleSigningKey(jwks *jose.JSONWebKeySet, kid string) (*rsa.PublicKey, error) {
	for _, jwk := range jwks.Key(kid) {
		if key, ok := jwk.Key.(*rsa.PublicKey); ok {
			return key, nil
		}
	}
	return nil, fmt.Errorf("no apple rsa key with kid %q", kid)
}
