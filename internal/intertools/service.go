// Package intertools is the embeddable chat-widget service. It hands out a
// self-contained JavaScript snippet and ingests the messages the widget
// posts back, storing them as project logs tagged with the intertools
// source.
package intertools

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/langchain-flow/engine/internal/api/middleware"
	"github.com/langchain-flow/engine/internal/models"
	"github.com/langchain-flow/engine/internal/repository"
)

const (
	// Messages longer than this are truncated in the stored message body;
	// the full text survives in metadata.
	maxMessageChars = 200

	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
	maxBodyBytes        = 1 << 20
)

const messagePrefix = "InterTools message: "

// Service is the InterTools HTTP surface. It shares the API's log storage
// but runs as its own process with a permissive CORS policy, since the
// widget is embedded on third-party pages.
type Service struct {
	logRepo     repository.LogRepository
	projectRepo repository.ProjectRepository
}

func New(logRepo repository.LogRepository, projectRepo repository.ProjectRepository) *Service {
	return &Service{logRepo: logRepo, projectRepo: projectRepo}
}

// Router assembles the widget routes.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS("*"))
	r.Use(middleware.RateLimit(50, 100))
	r.Use(chimw.Compress(5))

	r.Get("/health", s.health)
	r.Get("/chat.js", s.widget)
	r.Post("/api/messages", s.createMessage)
	r.Get("/api/messages/{projectId}", s.listMessages)
	return r
}

func (s *Service) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "service": "intertools"})
}

// widget serves the embeddable script. The response is immutable for a
// given projectId+theme, so downstream caches may hold it for an hour.
func (s *Service) widget(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectId")
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")

	if _, err := uuid.Parse(projectID); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "// InterTools: missing or invalid projectId query parameter\n")
		return
	}

	theme := r.URL.Query().Get("theme")
	if theme != "dark" {
		theme = "light"
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	fmt.Fprintf(w, widgetScript, projectID, theme)
}

type messageRequest struct {
	ProjectID   string         `json:"projectId"`
	HTMLSnippet string         `json:"htmlSnippet"`
	URL         string         `json:"url"`
	Metadata    map[string]any `json:"metadata"`
}

// createMessage ingests one widget capture. The stored log body is a
// prefixed preview of at most 200 snippet characters; the untruncated
// snippet always survives in metadata.fullContent.
func (s *Service) createMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		s.fail(w, http.StatusBadRequest, "projectId must be a valid UUID")
		return
	}
	if req.HTMLSnippet == "" {
		s.fail(w, http.StatusBadRequest, "htmlSnippet is required")
		return
	}
	if req.URL != "" {
		if _, err := url.ParseRequestURI(req.URL); err != nil {
			s.fail(w, http.StatusBadRequest, "url must be a valid URL")
			return
		}
	}
	var project models.Project
	if err := s.projectRepo.GetByID(r.Context(), projectID, &project); err != nil {
		s.fail(w, http.StatusNotFound, "project not found")
		return
	}

	metadata := datatypes.JSONMap{
		"source":      models.SourceInterTools,
		"fullContent": req.HTMLSnippet,
	}
	if req.URL != "" {
		metadata["url"] = req.URL
	}
	// Request metadata is merged last, so callers may override the
	// defaults above.
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	snippet := req.HTMLSnippet
	if r := []rune(snippet); len(r) > maxMessageChars {
		snippet = string(r[:maxMessageChars]) + "..."
	}
	message := messagePrefix + snippet

	log := &models.Log{
		ProjectID: projectID,
		Level:     models.LogLevelInfo,
		Message:   message,
		Metadata:  metadata,
		Source:    models.SourceInterTools,
		Timestamp: time.Now().UTC(),
	}
	if err := s.logRepo.Create(r.Context(), log); err != nil {
		s.fail(w, http.StatusInternalServerError, "failed to store message")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": log})
}

// listMessages returns the newest widget messages for a project.
func (s *Service) listMessages(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectId"))
	if err != nil {
		s.fail(w, http.StatusBadRequest, "projectId must be a valid UUID")
		return
	}

	// Unparsable limits fall back to the default; parsable ones are
	// honored up to a cap.
	limit := defaultHistoryLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v >= 1 {
		limit = min(v, maxHistoryLimit)
	}

	logs, err := s.logRepo.ListBySource(r.Context(), projectID, models.SourceInterTools, limit)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "failed to load messages")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": logs})
}

func (s *Service) fail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
