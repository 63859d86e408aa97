package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/liftbook/internal/telemetry/tracing"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type GoogleClientParams struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// Endpoint defaults to google.Endpoint
	Endpoint   *oauth2.Endpoint
	HTTPClient *http.Client
}

type GoogleClient struct {
	oauthConfig *oauth2.Config
	httpClient  *http.Client
	parser      *jwt.Parser
}

type googleIDClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	jwt.RegisteredClaims
}

func NewGoogleClient(params GoogleClientParams) *GoogleClient {
	endpoint := google.Endpoint
	if params.Endpoint != nil {
		endpoint = *params.Endpoint
	}
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &GoogleClient{
		oauthConfig: &oauth2.Config{
			ClientID:     params.ClientID,
			ClientSecret: params.ClientSecret,
			RedirectURL:  params.RedirectURI,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		httpClient: httpClient,
		parser:     jwt.NewParser(),
	}
}

func (c *GoogleClient) ClientID() string {
	return c.oauthConfig.ClientID
}

func (c *GoogleClient) AuthCodeURL(state string) string {
	return c.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for Google's id token and decodes it.
// The id token signature is not checked: it arrives straight from Google's
// token endpoint over TLS.
func (c *GoogleClient) Exchange(ctx context.Context, code string) (_ *Identity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "googleClient.exchange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauthConfig.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: google token endpoint returned %d: %s",
				ErrUpstreamProvider, retrieveErr.Response.StatusCode, retrieveErr.ErrorCode)
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstreamProvider, err)
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return nil, ErrMissingIDToken
	}

	claims := &googleIDClaims{}
	if _, _, err := c.parser.ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("%w: decode google id token: %s", ErrUpstreamProvider, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: google id token has no sub", ErrMissingClaim)
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = strings.TrimSpace(claims.GivenName + " " + claims.FamilyName)
	}

	return &Identity{
		Subject:  claims.Subject,
		Name:     name,
		Email:    claims.Email,
		Provider: ProviderGoogle,
	}, nil
}
