package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/DaySince/internal/usecase"
)

// UserHandler — профиль текущего пользователя
type UserHandler struct {
	users  usecase.UserUseCase
	logger *slog.Logger
}

func NewUserHandler(uc usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: uc, logger: logger}
}

// Me — GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	user, err := h.users.Me(r.Context(), userID)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// UpdateMe — PATCH /users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	var in usecase.UpdateProfileInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}
