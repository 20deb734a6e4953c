package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/DaySince/internal/usecase"
)

// AuthHandler — регистрация и вход по паролю
type AuthHandler struct {
	auth   usecase.AuthUseCase
	logger *slog.Logger
}

func NewAuthHandler(uc usecase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: uc, logger: logger}
}

// Register — POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	res, err := h.auth.Register(r.Context(), in)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, res, h.logger)
}

// Login — POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	res, err := h.auth.Login(r.Context(), in)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, res, h.logger)
}
