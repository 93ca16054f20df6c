package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/langchain-flow/engine/pkg/logger"
)

// Recovery logs panics and returns an opaque 500 envelope.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.L().Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("request_id", GetRequestID(r.Context())),
					zap.ByteString("stack", debug.Stack()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   "Internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
