package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/DaySince/internal/apperr"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// TokenVerifier проверяет токен доступа и возвращает id пользователя
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

type ctxKey int

const userIDKey ctxKey = iota

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// AuthMiddleware пропускает только запросы с валидным "Authorization: Bearer <jwt>"
// и кладёт id пользователя в контекст.
func AuthMiddleware(verifier TokenVerifier, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				respondWithError(w, r, apperr.Unauthorized("missing bearer token"), logger)
				return
			}

			userID, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				respondWithError(w, r, apperr.Unauthorized("invalid or expired token"), logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID кладёт id аутентифицированного пользователя в контекст
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext достаёт id пользователя, положенный AuthMiddleware
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func requireUserID(r *http.Request) (uuid.UUID, error) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, apperr.Unauthorized("authentication required")
	}
	return id, nil
}
