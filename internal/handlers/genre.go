package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-library/httpx"
	"github.com/diewo77/go-library/internal/models"
	"github.com/diewo77/go-library/internal/repository"
)

type GenreHandler struct {
	crud[models.Genre]
}

func NewGenreHandler(genres *repository.Repository[models.Genre]) *GenreHandler {
	return &GenreHandler{crud: crud[models.Genre]{repo: genres, list: genreList}}
}

func (h *GenreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGenreRequest
	if !decodeValid(w, r, &req) {
		return
	}
	genre := &models.Genre{Name: strings.TrimSpace(req.Name)}
	if err := h.repo.Create(r.Context(), genre); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, genre)
}

func (h *GenreHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, &UpdateGenreRequest{})
}
