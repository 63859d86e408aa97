package auth

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/liftbook/internal/telemetry/tracing"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
)

const (
	AppleRevokeURL       = "https://appleid.apple.com/auth/revoke"
	appleClientSecretTTL = 5 * time.Minute
)

type AppleRevokerParams struct {
	TeamID   string
	ClientID string
	KeyID    string
	// PEM encoded PKCS8 EC private key
	PrivateKey string
	RevokeURL  string
	HTTPClient *http.Client
}

type AppleRevoker struct {
	teamID     string
	clientID   string
	keyID      string
	privateKey *ecdsa.PrivateKey
	revokeURL  string
	httpClient *http.Client
	now        func() time.Time
}

func NewAppleRevoker(params AppleRevokerParams) (*AppleRevoker, error) {
	revoker := &AppleRevoker{
		teamID:     params.TeamID,
		clientID:   params.ClientID,
		keyID:      params.KeyID,
		revokeURL:  params.RevokeURL,
		httpClient: params.HTTPClient,
		now:        time.Now,
	}
	if revoker.revokeURL == "" {
		revoker.revokeURL = AppleRevokeURL
	}
	if revoker.httpClient == nil {
		revoker.httpClient = http.DefaultClient
	}

	if params.PrivateKey == "" {
		log.Warnln("apple private key not set, apple token revocation will fail")
		return revoker, nil
	}

	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(params.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse apple private key: %w", err)
	}
	revoker.privateKey = key

	return revoker, nil
}

// ClientSecret builds the short lived ES256 client secret Apple expects on
// its token endpoints.
func (r *AppleRevoker) ClientSecret() (string, error) {
	if r.privateKey == nil {
		return "", fmt.Errorf("%w: apple private key not configured", ErrAppleRevokeFailed)
	}

	now := r.now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.RegisteredClaims{
		Issuer:    r.teamID,
		Subject:   r.clientID,
		Audience:  jwt.ClaimStrings{AppleIssuer},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(appleClientSecretTTL)),
	})
	token.Header["kid"] = r.keyID

	return token.SignedString(r.privateKey)
}

func (r *AppleRevoker) Revoke(ctx context.Context, refreshToken string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "appleRevoker.revoke")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	clientSecret, err := r.ClientSecret()
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("client_id", r.clientID)
	form.Set("client_secret", clientSecret)
	form.Set("token", refreshToken)
	form.Set("token_type_hint", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrAppleRevokeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %d: %s", ErrAppleRevokeFailed, resp.StatusCode, body)
	}

	return nil
}
