package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/liftbook/internal/telemetry/tracing"
	"github.com/2beens/liftbook/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type authService interface {
	GoogleAuthURL(state string) string
	ExchangeGoogleCode(ctx context.Context, code string) (*TokenPair, error)
	SignInWithApple(ctx context.Context, identityToken, rawNonce, providerID string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type oauthStateStore interface {
	Save(ctx context.Context, state string, oauthState OAuthState) error
	Consume(ctx context.Context, state string) (*OAuthState, error)
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AppleNativeRequest struct {
	IdentityToken string `json:"identityToken"`
	RawNonce      string `json:"rawNonce"`
	ProviderID    string `json:"providerId"`
}

type HandlerParams struct {
	// mobile deep link scheme, e.g. "liftbook"
	AppScheme      string
	BaseURL        string
	GoogleClientID string
}

type Handler struct {
	service    authService
	stateStore oauthStateStore
	params     HandlerParams
}

func NewHandler(service authService, stateStore oauthStateStore, params HandlerParams) *Handler {
	return &Handler{
		service:    service,
		stateStore: stateStore,
		params:     params,
	}
}

// redirectAllowed accepts the app's deep link scheme, or a URL on exactly the
// scheme and host of BaseURL. Userinfo is never allowed.
func (handler *Handler) redirectAllowed(redirectURI string) bool {
	if redirectURI == "" {
		return false
	}
	target, err := url.Parse(redirectURI)
	if err != nil || target.User != nil || target.Scheme == "" {
		return false
	}
	if handler.params.AppScheme != "" && strings.EqualFold(target.Scheme, handler.params.AppScheme) {
		return true
	}
	if handler.params.BaseURL == "" {
		return false
	}
	base, err := url.Parse(handler.params.BaseURL)
	if err != nil || base.Host == "" {
		return false
	}
	return strings.EqualFold(target.Scheme, base.Scheme) && strings.EqualFold(target.Host, base.Host)
}

// HandleAuthorize sends the client to the Google consent screen, remembering
// where the callback should relay to.
func (handler *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.authorize")
	defer span.End()

	query := r.URL.Query()
	if clientID := query.Get("client_id"); clientID != "" && clientID != handler.params.GoogleClientID {
		http.Error(w, "invalid client", http.StatusBadRequest)
		return
	}

	redirectURI := query.Get("redirect_uri")
	if !handler.redirectAllowed(redirectURI) {
		log.Debugf("authorize: redirect uri not allowed: [%s]", redirectURI)
		http.Error(w, "invalid redirect uri", http.StatusBadRequest)
		return
	}

	state, err := pkg.GenerateRandomString(32)
	if err != nil {
		log.Errorf("authorize: generate state: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := handler.stateStore.Save(ctx, state, OAuthState{
		RedirectURI: redirectURI,
		Platform:    query.Get("platform"),
	}); err != nil {
		log.Errorf("authorize: save state: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, handler.service.GoogleAuthURL(state), http.StatusFound)
}

// HandleGoogleCallback relays Google's callback (code + state) to the redirect
// stored at authorize time.
func (handler *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.callback.google")
	defer span.End()

	query := r.URL.Query()
	state := query.Get("state")
	if state == "" {
		http.Error(w, "missing state", http.StatusBadRequest)
		return
	}

	oauthState, err := handler.stateStore.Consume(ctx, state)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			http.Error(w, "invalid state", http.StatusBadRequest)
			return
		}
		log.Errorf("google callback: consume state: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	target, err := url.Parse(oauthState.RedirectURI)
	if err != nil || !handler.redirectAllowed(oauthState.RedirectURI) {
		log.Errorf("google callback: stored redirect uri [%s] rejected: %v", oauthState.RedirectURI, err)
		http.Error(w, "invalid redirect uri", http.StatusBadRequest)
		return
	}

	relayed := target.Query()
	relayed.Set("state", state)
	if code := query.Get("code"); code != "" {
		relayed.Set("code", code)
	}
	if providerErr := query.Get("error"); providerErr != "" {
		relayed.Set("error", providerErr)
	}
	target.RawQuery = relayed.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
}

// HandleToken exchanges an authorization code (JSON or form body) for tokens.
func (handler *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.token")
	defer span.End()

	code := ""
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		code = body.Code
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		code = r.PostForm.Get("code")
	}
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	pair, err := handler.service.ExchangeGoogleCode(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingIDToken):
			http.Error(w, "missing id token", http.StatusBadRequest)
		case errors.Is(err, ErrUpstreamProvider), errors.Is(err, ErrMissingClaim):
			log.Warnf("token exchange: %s", err)
			http.Error(w, "code exchange failed", http.StatusBadRequest)
		default:
			log.Errorf("token exchange: %s", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	pkg.WriteJSON(w, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	}, http.StatusOK)
}

// HandleRefresh rotates a refresh token taken from the JSON body or the
// Authorization header.
func (handler *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.refresh")
	defer span.End()

	refreshToken, _ := BearerToken(r)
	if refreshToken == "" && r.Body != nil {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		http.Error(w, "missing refresh token", http.StatusBadRequest)
		return
	}

	pair, err := handler.service.Refresh(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			http.Error(w, "Token expired", http.StatusUnauthorized)
		case errors.Is(err, ErrTokenInvalid):
			http.Error(w, "Token invalid", http.StatusUnauthorized)
		case errors.Is(err, ErrMissingClaim):
			http.Error(w, "invalid refresh token", http.StatusBadRequest)
		case errors.Is(err, ErrProviderLookupFailed):
			log.Warnf("refresh: %s", err)
			http.Error(w, "unknown identity", http.StatusUnauthorized)
		default:
			log.Errorf("refresh: %s", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	pkg.WriteJSON(w, pair, http.StatusOK)
}

func (handler *Handler) HandleAppleNative(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.apple.native")
	defer span.End()

	var req AppleNativeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.IdentityToken == "" || req.RawNonce == "" || req.ProviderID == "" {
		http.Error(w, "identityToken, rawNonce and providerId are required", http.StatusBadRequest)
		return
	}

	pair, err := handler.service.SignInWithApple(ctx, req.IdentityToken, req.RawNonce, req.ProviderID)
	if err != nil {
		if errors.Is(err, ErrAppleUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("apple native sign in [%s]: %s", req.ProviderID, err)
		http.Error(w, "apple identity verification failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, pair, http.StatusOK)
}
