package goals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	msgInvalidID       = "Invalid Id"
	msgInvalidIDDot    = "Invalid Id."
	msgMissingGoal     = "Missing goal information."
	msgInvalidJSON     = "Invalid JSON body."
	msgInternalError   = "Internal Server Error"
	maxRequestBodySize = 1 << 20
)

type Handler struct {
	db       *sqlx.DB
	log      *slog.Logger
	validate *validator.Validate
}

func NewHandler(db *sqlx.DB, log *slog.Logger) *Handler {
	return &Handler{
		db:       db,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes returns the goal resource router, meant to be mounted at /goals.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

// GET /goals
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	store, release, err := h.acquire(r.Context())
	if err != nil {
		h.serverError(w, r, "list", err)
		return
	}
	defer release()

	goals, err := store.List(r.Context())
	if err != nil {
		h.serverError(w, r, "list", err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

// GET /goals/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, msgInvalidID, http.StatusBadRequest)
		return
	}

	store, release, err := h.acquire(r.Context())
	if err != nil {
		h.serverError(w, r, "get", err)
		return
	}
	defer release()

	g, err := store.ByID(r.Context(), id)
	switch {
	case errors.Is(err, ErrGoalNotFound):
		w.WriteHeader(http.StatusNotFound)
	case err != nil:
		h.serverError(w, r, "get", err)
	default:
		writeJSON(w, http.StatusOK, g)
	}
}

// POST /goals
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var body createGoalRequest
	if err := decodeBody(w, r, &body); err != nil {
		http.Error(w, msgInvalidJSON, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		http.Error(w, msgMissingGoal, http.StatusBadRequest)
		return
	}

	store, release, err := h.acquire(r.Context())
	if err != nil {
		h.serverError(w, r, "create", err)
		return
	}
	defer release()

	g, err := store.Create(r.Context(), body.Goal)
	if err != nil {
		h.serverError(w, r, "create", err)
		return
	}

	h.log.Debug("goal created", "goal_id", g.ID)
	writeJSON(w, http.StatusCreated, g)
}

// PATCH /goals/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, msgInvalidIDDot, http.StatusBadRequest)
		return
	}

	var body updateGoalRequest
	if err := decodeBody(w, r, &body); err != nil {
		http.Error(w, msgInvalidJSON, http.StatusBadRequest)
		return
	}
	if body.Goal != nil && *body.Goal == "" {
		body.Goal = nil
	}

	store, release, err := h.acquire(r.Context())
	if err != nil {
		h.serverError(w, r, "update", err)
		return
	}
	defer release()

	g, err := store.Update(r.Context(), id, body.Goal)
	switch {
	case errors.Is(err, ErrGoalNotFound):
		http.Error(w, notFoundMessage(id), http.StatusNotFound)
	case err != nil:
		h.serverError(w, r, "update", err)
	default:
		writeJSON(w, http.StatusOK, g)
	}
}

// DELETE /goals/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, msgInvalidIDDot, http.StatusBadRequest)
		return
	}

	store, release, err := h.acquire(r.Context())
	if err != nil {
		h.serverError(w, r, "delete", err)
		return
	}
	defer release()

	_, err = store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrGoalNotFound):
		http.Error(w, notFoundMessage(id), http.StatusNotFound)
	case err != nil:
		h.serverError(w, r, "delete", err)
	default:
		h.log.Debug("goal deleted", "goal_id", id)
		writeText(w, http.StatusOK, fmt.Sprintf("Goal with id %d has been deleted", id))
	}
}

// acquire checks out one pooled connection for the request. release must be called on every path.
func (h *Handler) acquire(ctx context.Context) (*Store, func(), error) {
	conn, err := h.db.Connx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire connection: %w", err)
	}
	return NewStore(conn), func() { _ = conn.Close() }, nil
}

// serverError logs the full failure and answers with a generic 500.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	attrs := []any{
		"op", op,
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	}

	var pqErr *pq.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pqErr):
		attrs = append(attrs, "pg_code", string(pqErr.Code))
	case errors.As(err, &pgErr):
		attrs = append(attrs, "pg_code", pgErr.Code)
	}

	if errors.Is(err, context.Canceled) {
		h.log.Warn("goal request canceled", attrs...)
	} else {
		h.log.Error("goal storage error", attrs...)
	}

	http.Error(w, msgInternalError, http.StatusInternalServerError)
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func notFoundMessage(id int64) string {
	return fmt.Sprintf("Goal with id: %d could not be found.", id)
}

// decodeBody reads a JSON object into dst. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
