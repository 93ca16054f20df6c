package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appErr "github.com/langchain-flow/engine/pkg/errors"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// pagination reads page/limit query params, clamping to sane bounds.
// Out-of-range values fall back to the defaults rather than erroring.
func pagination(r *http.Request) (page, limit int) {
	page, limit = defaultPage, defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v >= 1 {
		limit = v
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// uuidParam parses a chi URL parameter as a UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, appErr.New(appErr.CodeInvalid, "invalid "+name)
	}
	return id, nil
}

// uuidQuery parses a required UUID query parameter.
func uuidQuery(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return uuid.Nil, appErr.New(appErr.CodeInvalid, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, appErr.New(appErr.CodeInvalid, "invalid "+name)
	}
	return id, nil
}
