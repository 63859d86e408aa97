package weights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/liftbook/internal/auth"
	"github.com/2beens/liftbook/internal/telemetry/tracing"
	"github.com/2beens/liftbook/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=weights_test

type weightsRepo interface {
	Add(ctx context.Context, entry *Entry) (*Entry, error)
	ListByUser(ctx context.Context, userID int64) ([]Entry, error)
	Delete(ctx context.Context, id int64, ownerID *int64) error
}

type DeleteResponse struct {
	DeletedID int64 `json:"deletedId"`
}

type Handler struct {
	repo weightsRepo
}

func NewHandler(repo weightsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weights.add")
	defer span.End()

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	entry, err := req.Validate()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !callerMayActFor(w, r, entry.UserID) {
		return
	}

	added, err := handler.repo.Add(ctx, entry)
	if err != nil {
		writeRepoError(w, "add weight entry", err)
		return
	}

	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weights.list")
	defer span.End()

	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}
	if !callerMayActFor(w, r, userID) {
		return
	}

	entries, err := handler.repo.ListByUser(ctx, userID)
	if err != nil {
		writeRepoError(w, "list weight entries", err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	pkg.WriteJSON(w, entries, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weights.delete")
	defer span.End()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	ownerID, err := auth.CallerAccount(ctx)
	if err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err := handler.repo.Delete(ctx, id, ownerID); err != nil {
		writeRepoError(w, "delete weight entry", err)
		return
	}

	pkg.WriteJSON(w, DeleteResponse{DeletedID: id}, http.StatusOK)
}

// callerMayActFor lets unauthenticated requests through (routes are guarded
// by the gateway) and otherwise requires the caller to be the account itself.
func callerMayActFor(w http.ResponseWriter, r *http.Request, userID int64) bool {
	ownerID, err := auth.CallerAccount(r.Context())
	if err == nil && (ownerID == nil || *ownerID == userID) {
		return true
	}
	http.Error(w, "forbidden", http.StatusForbidden)
	return false
}

func writeRepoError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrDuplicateDate):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrEntryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
