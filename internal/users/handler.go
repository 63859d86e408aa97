package users

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/liftbook/internal/auth"
	"github.com/2beens/liftbook/internal/telemetry/tracing"
	"github.com/2beens/liftbook/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=users_test

type usersService interface {
	Signup(ctx context.Context, identity auth.Identity, firstName, lastName, email string) (*SignupResult, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	LinkApple(ctx context.Context, userID int64, providerID, providerEmail string) error
	LinkGoogle(ctx context.Context, userID int64, code string) (*Provider, error)
	DeleteAccount(ctx context.Context, userID int64, appleRefreshToken string) error
}

type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type SignupResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LinkAppleRequest struct {
	ProviderID string `json:"providerId"`
	Email      string `json:"email"`
}

type LinkGoogleRequest struct {
	Code string `json:"code"`
}

type LinkResponse struct {
	UserID     int64  `json:"userId"`
	Provider   string `json:"provider"`
	ProviderID string `json:"providerId"`
}

type DeleteAccountRequest struct {
	AppleRefreshToken string `json:"appleRefreshToken"`
}

type DeleteResponse struct {
	DeletedID int64 `json:"deletedId"`
}

type Handler struct {
	service usersService
}

func NewHandler(service usersService) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleSignup creates the account for the identity carried by the bearer
// token.
func (handler *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.signup")
	defer span.End()

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if claims.UserID != 0 {
		http.Error(w, "already registered", http.StatusConflict)
		return
	}
	identity := claims.Identity()
	if identity.Subject == "" || identity.Provider == "" {
		http.Error(w, "token carries no provider identity", http.StatusBadRequest)
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" && identity.Email == "" {
		http.Error(w, "email: is required", http.StatusBadRequest)
		return
	}

	result, err := handler.service.Signup(ctx, identity, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), req.Email)
	if err != nil {
		writeServiceError(w, "signup", err)
		return
	}

	pkg.WriteJSON(w, SignupResponse{
		User:         result.User,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	}, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.get")
	defer span.End()

	userID, ok := ownUserID(w, r)
	if !ok {
		return
	}

	user, err := handler.service.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(w, "get user", err)
		return
	}

	pkg.WriteJSON(w, user, http.StatusOK)
}

func (handler *Handler) HandleLinkApple(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.linkApple")
	defer span.End()

	userID, ok := ownUserID(w, r)
	if !ok {
		return
	}

	var req LinkAppleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProviderID == "" {
		http.Error(w, "providerId: is required", http.StatusBadRequest)
		return
	}

	if err := handler.service.LinkApple(ctx, userID, req.ProviderID, req.Email); err != nil {
		writeServiceError(w, "link apple", err)
		return
	}

	pkg.WriteJSON(w, LinkResponse{
		UserID:     userID,
		Provider:   auth.ProviderApple,
		ProviderID: req.ProviderID,
	}, http.StatusOK)
}

func (handler *Handler) HandleLinkGoogle(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.linkGoogle")
	defer span.End()

	userID, ok := ownUserID(w, r)
	if !ok {
		return
	}

	var req LinkGoogleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		http.Error(w, "code: is required", http.StatusBadRequest)
		return
	}

	provider, err := handler.service.LinkGoogle(ctx, userID, req.Code)
	if err != nil {
		writeServiceError(w, "link google", err)
		return
	}

	pkg.WriteJSON(w, LinkResponse{
		UserID:     userID,
		Provider:   provider.Provider,
		ProviderID: provider.ProviderID,
	}, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.delete")
	defer span.End()

	userID, ok := ownUserID(w, r)
	if !ok {
		return
	}

	var req DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := handler.service.DeleteAccount(ctx, userID, req.AppleRefreshToken); err != nil {
		writeServiceError(w, "delete account", err)
		return
	}

	pkg.WriteJSON(w, DeleteResponse{DeletedID: userID}, http.StatusOK)
}

// ownUserID reads the {id} path var and checks it against the bearer claims.
func ownUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	if claims.UserID != userID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return 0, false
	}
	return userID, true
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrProviderIdentityTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrAlreadyLinked):
		http.Error(w, "already linked", http.StatusBadRequest)
	case errors.Is(err, ErrAppleRefreshTokenRequired):
		http.Error(w, "appleRefreshToken: is required", http.StatusBadRequest)
	case errors.Is(err, ErrRevokeFailed):
		log.Warnf("%s: %s", op, err)
		http.Error(w, "failed to revoke", http.StatusBadRequest)
	case errors.Is(err, auth.ErrUpstreamProvider),
		errors.Is(err, auth.ErrMissingIDToken),
		errors.Is(err, auth.ErrMissingClaim):
		log.Debugf("%s: %s", op, err)
		http.Error(w, "provider exchange failed", http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
