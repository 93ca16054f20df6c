package types

import (
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

// APIResponse is the uniform envelope every endpoint returns.
type APIResponse struct {
	Success bool                    `json:"success"`
	Data    interface{}             `json:"data,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Message string                  `json:"message,omitempty"`
	Details []appErr.FieldViolation `json:"details,omitempty"`
	Meta    *Meta                   `json:"meta,omitempty"`
}

// Meta carries pagination information on list responses.
type Meta struct {
	Page       int   `json:"page,omitempty"`
	Limit      int   `json:"limit,omitempty"`
	Total      int64 `json:"total,omitempty"`
	TotalPages int   `json:"totalPages,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// Err wraps a client-facing error message.
func Err(msg string) APIResponse {
	return APIResponse{Success: false, Error: msg}
}
