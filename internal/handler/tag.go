package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/DaySince/internal/usecase"
)

// TagHandler — справочник тегов
type TagHandler struct {
	tags   usecase.TagUseCase
	logger *slog.Logger
}

func NewTagHandler(uc usecase.TagUseCase, logger *slog.Logger) *TagHandler {
	return &TagHandler{tags: uc, logger: logger}
}

// List — GET /tags
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, tags, h.logger)
}
