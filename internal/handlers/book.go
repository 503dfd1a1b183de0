package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-library/httpx"
	"github.com/diewo77/go-library/internal/models"
	"github.com/diewo77/go-library/internal/repository"
)

type BookHandler struct {
	crud[models.Book]
}

func NewBookHandler(books *repository.Repository[models.Book]) *BookHandler {
	return &BookHandler{crud: crud[models.Book]{repo: books, list: bookList}}
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if !decodeValid(w, r, &req) {
		return
	}
	book := &models.Book{Title: strings.TrimSpace(req.Title), Description: req.Description}
	if err := h.repo.Create(r.Context(), book); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, book)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, &UpdateBookRequest{})
}
