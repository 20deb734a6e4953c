package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/DaySince/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// errorResponse тело ответа с ошибкой
type errorResponse struct {
	Error   string      `json:"error"`
	Code    apperr.Code `json:"code"`
	Details any         `json:"details,omitempty"`
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload any, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — переводит ошибку в статус и код; неклассифицированные ошибки
// логируются и отдаются как 500 без подробностей.
func respondWithError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code == apperr.CodeInternal {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		respondWithJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal server error",
			Code:  apperr.CodeInternal,
		}, logger)
		return
	}

	logger.Debug("request rejected", "path", r.URL.Path, "code", appErr.Code, "error", appErr.Message)
	respondWithJSON(w, appErr.HTTPStatus(), errorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}, logger)
}

// decodeJSON читает тело запроса; пустое тело допустимо, если allowEmpty.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("request body is too large")
		}
		return apperr.Validation("invalid JSON body").WithCause(err)
	}
	return nil
}

// counterIDParam достаёт id счётчика из маршрута; невалидный id неотличим от отсутствующего.
func counterIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("counter not found")
	}
	return id, nil
}
