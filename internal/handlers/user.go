package handlers

import (
	"net/http"

	"github.com/diewo77/go-library/auth"
	"github.com/diewo77/go-library/httpx"
	"github.com/diewo77/go-library/internal/models"
	"github.com/diewo77/go-library/internal/repository"
)

// UserHandler serves accounts. Users are created from the identity
// provider, so there is no create endpoint.
type UserHandler struct {
	crud[models.User]
}

func NewUserHandler(users *repository.Users) *UserHandler {
	return &UserHandler{crud: crud[models.User]{repo: users.Repository, list: userList}}
}

// Me returns the authenticated user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom[*models.User](r.Context())
	if !ok || user == nil {
		httpx.JSONError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "authentication required", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, &UpdateUserRequest{})
}
