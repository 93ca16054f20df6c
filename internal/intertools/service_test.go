package intertools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/langchain-flow/engine/internal/models"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

type mockLogRepo struct {
	mock.Mock
}

func (m *mockLogRepo) Create(ctx context.Context, obj *models.Log) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockLogRepo) GetByID(ctx context.Context, id any, dest *models.Log) error {
	return m.Called(ctx, id, dest).Error(0)
}

func (m *mockLogRepo) Update(ctx context.Context, obj *models.Log) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockLogRepo) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLogRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Log, error) {
	args := m.Called(ctx, runID)
	out, _ := args.Get(0).([]models.Log)
	return out, args.Error(1)
}

func (m *mockLogRepo) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]models.Log, error) {
	args := m.Called(ctx, projectID, limit, offset)
	out, _ := args.Get(0).([]models.Log)
	return out, args.Error(1)
}

func (m *mockLogRepo) ListBySource(ctx context.Context, projectID uuid.UUID, source string, limit int) ([]models.Log, error) {
	args := m.Called(ctx, projectID, source, limit)
	out, _ := args.Get(0).([]models.Log)
	return out, args.Error(1)
}

type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) Create(ctx context.Context, obj *models.Project) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id any, dest *models.Project) error {
	args := m.Called(ctx, id, dest)
	if len(args) > 1 {
		if p, ok := args.Get(1).(*models.Project); ok && args.Error(0) == nil {
			*dest = *p
		}
	}
	return args.Error(0)
}

func (m *mockProjectRepo) Update(ctx context.Context, obj *models.Project) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockProjectRepo) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProjectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	args := m.Called(ctx, ownerID)
	out, _ := args.Get(0).([]models.Project)
	return out, args.Error(1)
}

func (m *mockProjectRepo) SetStatus(ctx context.Context, projectID uuid.UUID, status string) error {
	return m.Called(ctx, projectID, status).Error(0)
}

func knownProject(projectRepo *mockProjectRepo, projectID uuid.UUID) {
	projectRepo.On("GetByID", mock.Anything, projectID, mock.Anything).
		Return(nil, &models.Project{ID: projectID, Status: models.ProjectStatusActive})
}

func TestWidgetRequiresProjectID(t *testing.T) {
	svc := New(new(mockLogRepo), new(mockProjectRepo))
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/chat.js")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Contains(t, res.Header.Get("Content-Type"), "javascript")
}

func TestWidgetIsCacheable(t *testing.T) {
	svc := New(new(mockLogRepo), new(mockProjectRepo))
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	projectID := uuid.NewString()
	res, err := http.Get(srv.URL + "/chat.js?projectId=" + projectID + "&theme=dark")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "public, max-age=3600", res.Header.Get("Cache-Control"))

	var body bytes.Buffer
	_, err = body.ReadFrom(res.Body)
	require.NoError(t, err)
	require.Contains(t, body.String(), projectID)
	require.Contains(t, body.String(), `"dark"`)
}

func TestWidgetUnknownThemeFallsBackToLight(t *testing.T) {
	svc := New(new(mockLogRepo), new(mockProjectRepo))
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/chat.js?projectId=" + uuid.NewString() + "&theme=neon")
	require.NoError(t, err)
	defer res.Body.Close()

	var body bytes.Buffer
	_, err = body.ReadFrom(res.Body)
	require.NoError(t, err)
	require.Contains(t, body.String(), `"light"`)
}

func TestWidgetCapturesSelectionWithContext(t *testing.T) {
	svc := New(new(mockLogRepo), new(mockProjectRepo))
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/chat.js?projectId=" + uuid.NewString())
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body bytes.Buffer
	_, err = body.ReadFrom(res.Body)
	require.NoError(t, err)
	script := body.String()

	// The script captures the selection, falls back to a page snippet,
	// and posts page context alongside the snippet.
	require.Contains(t, script, "window.getSelection()")
	require.Contains(t, script, "selectedText || pageSnippet()")
	require.Contains(t, script, "'/api/messages'")
	for _, key := range []string{"htmlSnippet", "title", "timestamp", "userAgent", "hasSelection"} {
		require.Contains(t, script, key+":")
	}
}

func TestCreateMessageMergesRequestMetadataLast(t *testing.T) {
	projectID := uuid.New()

	projectRepo := new(mockProjectRepo)
	knownProject(projectRepo, projectID)

	logRepo := new(mockLogRepo)
	logRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *models.Log) bool {
		return l.Metadata["title"] == "Checkout" &&
			l.Metadata["hasSelection"] == true &&
			l.Metadata["source"] == "custom" // request keys win over defaults
	})).Return(nil)

	svc := New(logRepo, projectRepo)
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	payload, _ := json.Marshal(map[string]any{
		"projectId":   projectID.String(),
		"htmlSnippet": "selected words",
		"metadata": map[string]any{
			"title":        "Checkout",
			"hasSelection": true,
			"source":       "custom",
		},
	})
	res, err := http.Post(srv.URL+"/api/messages", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)
	logRepo.AssertExpectations(t)
}

func TestCreateMessageTruncatesLongContent(t *testing.T) {
	projectID := uuid.New()
	long := strings.Repeat("x", 5000)

	projectRepo := new(mockProjectRepo)
	knownProject(projectRepo, projectID)

	logRepo := new(mockLogRepo)
	logRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *models.Log) bool {
		return l.Message == messagePrefix+strings.Repeat("x", maxMessageChars)+"..." &&
			l.Metadata["fullContent"] == long &&
			l.Metadata["url"] == "https://example.com/checkout" &&
			l.Metadata["source"] == models.SourceInterTools &&
			l.Source == models.SourceInterTools
	})).Return(nil)

	svc := New(logRepo, projectRepo)
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	payload, _ := json.Marshal(map[string]any{
		"projectId":   projectID.String(),
		"htmlSnippet": long,
		"url":         "https://example.com/checkout",
	})
	res, err := http.Post(srv.URL+"/api/messages", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)
	logRepo.AssertExpectations(t)
}

func TestCreateMessageKeepsShortContentIntact(t *testing.T) {
	projectID := uuid.New()

	projectRepo := new(mockProjectRepo)
	knownProject(projectRepo, projectID)

	logRepo := new(mockLogRepo)
	logRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *models.Log) bool {
		return l.Message == messagePrefix+"hello" && l.Metadata["fullContent"] == "hello"
	})).Return(nil)

	svc := New(logRepo, projectRepo)
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	payload, _ := json.Marshal(map[string]any{"projectId": projectID.String(), "htmlSnippet": "hello"})
	res, err := http.Post(srv.URL+"/api/messages", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)
	logRepo.AssertExpectations(t)
}

func TestCreateMessageUnknownProject(t *testing.T) {
	projectID := uuid.New()

	projectRepo := new(mockProjectRepo)
	projectRepo.On("GetByID", mock.Anything, projectID, mock.Anything).
		Return(appErr.New(appErr.CodeNotFound, "entity not found"), nil)

	svc := New(new(mockLogRepo), projectRepo)
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	payload, _ := json.Marshal(map[string]any{"projectId": projectID.String(), "htmlSnippet": "hi"})
	res, err := http.Post(srv.URL+"/api/messages", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestListMessagesDefaultsLimit(t *testing.T) {
	projectID := uuid.New()

	logRepo := new(mockLogRepo)
	logRepo.On("ListBySource", mock.Anything, projectID, models.SourceInterTools, defaultHistoryLimit).
		Return([]models.Log{{Message: "latest"}, {Message: "older"}}, nil)

	svc := New(logRepo, new(mockProjectRepo))
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	res, err := http.Get(fmt.Sprintf("%s/api/messages/%s", srv.URL, projectID))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    []struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.True(t, body.Success)
	require.Len(t, body.Data, 2)
	require.Equal(t, "latest", body.Data[0].Message)
	logRepo.AssertExpectations(t)
}

func TestListMessagesLimitBounds(t *testing.T) {
	projectID := uuid.New()

	cases := []struct {
		name  string
		query string
		limit int
	}{
		{"large values clamp to the cap", "?limit=100000", maxHistoryLimit},
		{"in-range values are honored", "?limit=120", 120},
		{"unparsable values fall back", "?limit=soon", defaultHistoryLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logRepo := new(mockLogRepo)
			logRepo.On("ListBySource", mock.Anything, projectID, models.SourceInterTools, tc.limit).
				Return([]models.Log{}, nil)

			svc := New(logRepo, new(mockProjectRepo))
			srv := httptest.NewServer(svc.Router())
			defer srv.Close()

			res, err := http.Get(fmt.Sprintf("%s/api/messages/%s%s", srv.URL, projectID, tc.query))
			require.NoError(t, err)
			defer res.Body.Close()
			require.Equal(t, http.StatusOK, res.StatusCode)
			logRepo.AssertExpectations(t)
		})
	}
}
