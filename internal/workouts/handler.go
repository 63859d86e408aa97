package workouts

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

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsEngine interface {
	Submit(ctx context.Context, req WorkoutRequest, mode Mode) (int64, error)
	GetFull(ctx context.Context, workoutID int64) (*WorkoutView, error)
	Delete(ctx context.Context, workoutID int64, ownerID *int64) error
	ListByUser(ctx context.Context, userID int64, page, size int) ([]Summary, int, error)
}

type CreateResponse struct {
	WorkoutID int64 `json:"workoutId"`
}

type ReplaceResponse struct {
	ID int64 `json:"id"`
}

type DeleteResponse struct {
	DeletedID int64 `json:"deletedId"`
}

type ListResponse struct {
	Workouts []Summary `json:"workouts"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
}

type Handler struct {
	engine workoutsEngine
}

func NewHandler(engine workoutsEngine) *Handler {
	return &Handler{
		engine: engine,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.create")
	defer span.End()

	req, ok := decodeWorkoutRequest(w, r)
	if !ok {
		return
	}
	if !callerMayActFor(w, r, req.UserID) {
		return
	}

	workoutID, err := handler.engine.Submit(ctx, *req, CreateMode())
	if err != nil {
		writeEngineError(w, "create workout", err)
		return
	}

	pkg.WriteJSON(w, CreateResponse{WorkoutID: workoutID}, http.StatusCreated)
}

func (handler *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.replace")
	defer span.End()

	workoutID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := decodeWorkoutRequest(w, r)
	if !ok {
		return
	}
	if !callerMayActFor(w, r, req.UserID) {
		return
	}

	if _, err := handler.engine.Submit(ctx, *req, ReplaceMode(workoutID)); err != nil {
		writeEngineError(w, "replace workout", err)
		return
	}

	pkg.WriteJSON(w, ReplaceResponse{ID: workoutID}, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	workoutID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	view, err := handler.engine.GetFull(ctx, workoutID)
	if err != nil {
		writeEngineError(w, "get workout", err)
		return
	}
	if ownerID, err := auth.CallerAccount(ctx); err != nil || (ownerID != nil && *ownerID != view.UserID) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}

	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	workoutID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ownerID, err := auth.CallerAccount(ctx)
	if err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := handler.engine.Delete(ctx, workoutID, ownerID); err != nil {
		writeEngineError(w, "delete workout", err)
		return
	}

	pkg.WriteJSON(w, DeleteResponse{DeletedID: workoutID}, http.StatusOK)
}

func (handler *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !callerMayActFor(w, r, userID) {
		return
	}

	page, size := 1, DefaultPageSize
	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			page = v
		}
	}
	if s := r.URL.Query().Get("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			size = v
		}
	}
	page, size = normalizePage(page, size)

	summaries, total, err := handler.engine.ListByUser(ctx, userID, page, size)
	if err != nil {
		writeEngineError(w, "list workouts", err)
		return
	}
	if summaries == nil {
		summaries = []Summary{}
	}

	pkg.WriteJSON(w, ListResponse{
		Workouts: summaries,
		Total:    total,
		Page:     page,
		Size:     size,
	}, http.StatusOK)
}

func decodeWorkoutRequest(w http.ResponseWriter, r *http.Request) (*WorkoutRequest, bool) {
	var req WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("workout request, unmarshal json: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	idStr := mux.Vars(r)[name]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// callerMayActFor only applies when the route sits behind the auth gateway.
func callerMayActFor(w http.ResponseWriter, r *http.Request, userID int64) bool {
	ownerID, err := auth.CallerAccount(r.Context())
	if err == nil && (ownerID == nil || *ownerID == userID) {
		return true
	}
	http.Error(w, "forbidden", http.StatusForbidden)
	return false
}

func writeEngineError(w http.ResponseWriter, op string, err error) {
	var validationErr *pkg.ValidationError
	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrWorkoutNotFound):
		http.Error(w, "workout not found", http.StatusNotFound)
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrSetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
