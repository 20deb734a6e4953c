package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/GoArmGo/DaySince/internal/apperr"
	"github.com/GoArmGo/DaySince/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CounterHandler — обработчик HTTP-запросов для работы со счётчиками.
type CounterHandler struct {
	counters usecase.CounterUseCase
	logger   *slog.Logger
}

func NewCounterHandler(uc usecase.CounterUseCase, logger *slog.Logger) *CounterHandler {
	return &CounterHandler{counters: uc, logger: logger}
}

// Routes регистрирует маршруты /counters. Статические пути объявлены раньше /{id}.
func (h *CounterHandler) Routes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Get("/public", h.ListPublic)
	r.Get("/c/{slug}", h.GetBySlug)

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Post("/", h.Create)
		r.Get("/mine", h.ListMine)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/archive", h.Archive)
		r.Patch("/{id}/unarchive", h.Unarchive)
	})
}

type archiveRequest struct {
	ArchiveAt *string `json:"archiveAt"`
}

// Create — POST /counters
func (h *CounterHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	var in usecase.CreateCounterInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	counter, err := h.counters.Create(r.Context(), in, userID)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, counter, h.logger)
}

// ListMine — GET /counters/mine
func (h *CounterHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	mine, err := h.counters.FindMine(r.Context(), userID)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, mine, h.logger)
}

// ListPublic — GET /counters/public?page=&limit=&sortBy=&sortOrder=&search=&tags=a,b
func (h *CounterHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	opts, err := publicListOptions(r)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	page, err := h.counters.FindPublic(r.Context(), opts)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page, h.logger)
}

// GetBySlug — GET /counters/c/{slug}
func (h *CounterHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	counter, err := h.counters.FindOneBySlugPublic(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, counter, h.logger)
}

// Get — GET /counters/{id}
func (h *CounterHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	counter, err := h.counters.FindOneOwned(r.Context(), id, userID)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, counter, h.logger)
}

// Update — PATCH /counters/{id}
func (h *CounterHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	var in usecase.UpdateCounterInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	counter, err := h.counters.Update(r.Context(), id, in, userID)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, counter, h.logger)
}

// Delete — DELETE /counters/{id}
func (h *CounterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	if err := h.counters.Remove(r.Context(), id, userID); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Archive — PATCH /counters/{id}/archive, тело {"archiveAt": "..."} необязательно
func (h *CounterHandler) Archive(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	var req archiveRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	counter, err := h.counters.Archive(r.Context(), id, userID, req.ArchiveAt)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, counter, h.logger)
}

// Unarchive — PATCH /counters/{id}/unarchive
func (h *CounterHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	counter, err := h.counters.Unarchive(r.Context(), id, userID)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, counter, h.logger)
}

func (h *CounterHandler) ownerAndID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, err := requireUserID(r)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return uuid.Nil, uuid.Nil, false
	}
	id, err := counterIDParam(r)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func publicListOptions(r *http.Request) (usecase.PublicListOptions, error) {
	q := r.URL.Query()
	opts := usecase.PublicListOptions{
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Search:    q.Get("search"),
	}

	var err error
	if opts.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return opts, err
	}
	if opts.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return opts, err
	}

	// теги принимаются как ?tags=a,b и как повторяющийся параметр
	for _, v := range q["tags"] {
		opts.TagSlugs = append(opts.TagSlugs, strings.Split(v, ",")...)
	}
	return opts, nil
}

func intParam(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.ValidationWithDetails("invalid query parameter",
			map[string]string{name: "must be an integer"})
	}
	return &v, nil
}
