package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/langchain-flow/engine/internal/api/middleware"
	"github.com/langchain-flow/engine/internal/api/types"
	appErr "github.com/langchain-flow/engine/pkg/errors"
	"github.com/langchain-flow/engine/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, body types.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L().Error("write response failed", zap.Error(err))
	}
}

// statusOf maps error codes to HTTP statuses. Conflicts render as 400:
// clients treat duplicate submissions the same as any other bad request.
func statusOf(code appErr.Code) int {
	switch code {
	case appErr.CodeInvalid, appErr.CodeConflict:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders an error through the envelope. Internal causes are
// logged with the request id but never leak into the body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *appErr.AppError
	if !errors.As(err, &ae) {
		ae = appErr.Wrap(err, appErr.CodeInternal, "internal server error")
	}

	status := statusOf(ae.Code)
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, status, types.Err("Internal server error"))
		return
	}

	writeJSON(w, status, types.APIResponse{
		Success: false,
		Error:   ae.Message,
		Details: ae.Details,
	})
}

func respondOK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, types.OK(data))
}

func respondCreated(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, types.OK(data))
}

// decodeJSON enforces a JSON body and rejects unknown trailing content.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return appErr.Wrap(err, appErr.CodeInvalid, "invalid request body")
	}
	return nil
}

// identity pulls the authenticated caller or fails closed.
func identity(r *http.Request) (middleware.Identity, error) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		return middleware.Identity{}, appErr.New(appErr.CodeUnauthorized, "Not authenticated")
	}
	return id, nil
}
