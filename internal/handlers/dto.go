package handlers

import "strings"

type CreateBookRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2048"`
}

type UpdateBookRequest struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2048"`
}

// Updates returns the columns the request sets.
func (r UpdateBookRequest) Updates() map[string]any {
	u := make(map[string]any)
	if r.Title != nil {
		u["title"] = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		u["description"] = *r.Description
	}
	return u
}

type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

type UpdateGenreRequest struct {
	Name *string `json:"name" validate:"omitnil,notblank,max=255"`
}

func (r UpdateGenreRequest) Updates() map[string]any {
	u := make(map[string]any)
	if r.Name != nil {
		u["name"] = strings.TrimSpace(*r.Name)
	}
	return u
}

// UpdateUserRequest deliberately leaves out roles and the external id:
// those belong to the identity provider.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitnil,notblank,max=255"`
}

func (r UpdateUserRequest) Updates() map[string]any {
	u := make(map[string]any)
	if r.Username != nil {
		u["username"] = strings.TrimSpace(*r.Username)
	}
	return u
}
