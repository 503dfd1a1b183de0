// Package handlers holds the JSON controllers of the API.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/go-library/httpx"
	"github.com/diewo77/go-library/internal/repository"
	"github.com/diewo77/go-library/validation"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// writeError maps repository and unexpected errors to a JSON reply.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, httpx.CodeNotFound, err.Error(), nil)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		httpx.JSONError(w, http.StatusConflict, httpx.CodeConflict, "resource already exists", nil)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		httpx.JSONError(w, http.StatusInternalServerError, httpx.CodeInternal, "internal server error", nil)
	}
}

func writeViolations(w http.ResponseWriter, v validation.Violations) {
	httpx.JSONError(w, http.StatusBadRequest, httpx.CodeBadRequest, "validation failed", v)
}

// pathID parses the {id} path value. It writes a 400 and returns false
// when the value is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}

// decodeValid decodes the JSON body into dst and validates it. It writes
// the 400 reply itself and returns false on failure.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.Decode(r, dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid JSON body", nil)
		return false
	}
	if v := validation.Struct(dst); !v.Empty() {
		writeViolations(w, v)
		return false
	}
	return true
}

// crud serves the operations every resource shares.
type crud[T any] struct {
	repo *repository.Repository[T]
	list ListOptions
}

func (c crud[T]) List(w http.ResponseWriter, r *http.Request) {
	q, v := ParseListQuery(r.URL.Query(), c.list)
	if !v.Empty() {
		writeViolations(w, v)
		return
	}
	page, err := c.repo.GetAll(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (c crud[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := c.repo.GetOneByIDOrFail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (c crud[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.repo.DeleteOneOrFail(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// update decodes a partial update into req and applies it.
func (c crud[T]) update(w http.ResponseWriter, r *http.Request, req interface{ Updates() map[string]any }) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !decodeValid(w, r, req) {
		return
	}
	e, err := c.repo.UpdateOneOrFail(r.Context(), id, req.Updates())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}
