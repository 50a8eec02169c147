package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iei-diagnostic-server/internal/casestore"
	"github.com/iei-diagnostic-server/internal/domain"
	"github.com/iei-diagnostic-server/internal/engine"
	"github.com/iei-diagnostic-server/internal/knowledge"
	"github.com/iei-diagnostic-server/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	reg, err := knowledge.NewIEIRegistry()
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	eng, err := engine.New(reg, domain.EngineConfig{
		PatternThreshold:    0.90,
		ConfidenceThreshold: 0.95,
		EntropyThreshold:    0.30,
	}, log)
	require.NoError(t, err)

	store, err := casestore.NewSQLiteStore(filepath.Join(t.TempDir(), "cases.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hub := NewHub(log)
	sessions := service.NewSessionService(eng, store, hub, log)

	cfg := &domain.Config{
		Logging:   domain.LoggingConfig{Level: "info", Format: "json"},
		RateLimit: domain.RateLimitConfig{Enabled: false},
	}
	return NewServer(cfg, sessions, hub, log)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func startCase(t *testing.T, srv *Server) string {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/api/v1/cases", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Case struct {
			CaseID string `json:"case_id"`
		} `json:"case"`
		Next *engine.Candidate `json:"next_question"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Case.CaseID)
	require.NotNil(t, resp.Next)
	return resp.Case.CaseID
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestCaseLifecycle(t *testing.T) {
	srv := newTestServer(t)
	caseID := startCase(t, srv)

	// Submit an answer.
	w := doJSON(t, srv, http.MethodPost, "/api/v1/cases/"+caseID+"/answers", payload{
		"question": "Q15", "answer": "Bacteria",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var answerResp struct {
		Step struct {
			Entropy float64 `json:"entropy"`
		} `json:"step"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &answerResp))
	assert.Greater(t, answerResp.Step.Entropy, 0.0)

	// Fetch the case back.
	w = doJSON(t, srv, http.MethodGet, "/api/v1/cases/"+caseID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Q15")

	// Trace includes the step.
	w = doJSON(t, srv, http.MethodGet, "/api/v1/cases/"+caseID+"/trace", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trace domain.ReasoningTrace
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trace))
	assert.Len(t, trace.Steps, 1)

	// Ranking excludes the answered question.
	w = doJSON(t, srv, http.MethodGet, "/api/v1/cases/"+caseID+"/ranking", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ranking struct {
		Candidates []engine.Candidate `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ranking))
	assert.Len(t, ranking.Candidates, 19)

	// List shows one case.
	w = doJSON(t, srv, http.MethodGet, "/api/v1/cases", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), caseID)

	// Delete it.
	w = doJSON(t, srv, http.MethodDelete, "/api/v1/cases/"+caseID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, srv, http.MethodGet, "/api/v1/cases/"+caseID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitAnswerErrors(t *testing.T) {
	srv := newTestServer(t)
	caseID := startCase(t, srv)

	t.Run("invalid answer", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/cases/"+caseID+"/answers", payload{
			"question": "Q15", "answer": "Prions",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), domain.ErrCodeInvalidAnswer)
	})

	t.Run("missing question", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/cases/"+caseID+"/answers", payload{
			"answer": "Bacteria",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), domain.ErrCodeInvalidInput)
	})

	t.Run("unknown case", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/cases/absent/answers", payload{
			"question": "Q15", "answer": "Bacteria",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestConcludedCaseConflict(t *testing.T) {
	srv := newTestServer(t)
	caseID := startCase(t, srv)

	answers := []payload{
		{"question": "Q1", "answer": "<6mo"},
		{"question": "Q5", "answer": "Yes_Multiple"},
		{"question": "Q33", "answer": "Yes"},
	}
	for _, a := range answers {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/cases/"+caseID+"/answers", a)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// The SCID pattern concluded the case; further answers conflict.
	w := doJSON(t, srv, http.MethodPost, "/api/v1/cases/"+caseID+"/answers", payload{
		"question": "Q9", "answer": "Yes",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrCodeCaseConcluded)

	// The stored conclusion names the pattern.
	w = doJSON(t, srv, http.MethodGet, "/api/v1/cases/"+caseID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PATTERN_FIRED")
	assert.Contains(t, w.Body.String(), "scid")
}

func TestReviseAnswer(t *testing.T) {
	srv := newTestServer(t)
	caseID := startCase(t, srv)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/cases/"+caseID+"/answers", payload{
		"question": "Q15", "answer": "Bacteria",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodPut, "/api/v1/cases/"+caseID+"/answers/Q15", payload{
		"answer": "Virus",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Virus")

	// Revising an unanswered question is invalid.
	w = doJSON(t, srv, http.MethodPut, "/api/v1/cases/"+caseID+"/answers/Q9", payload{
		"answer": "Yes",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKnowledgeEndpoints(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/knowledge/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Combined_ID")

	w = doJSON(t, srv, http.MethodGet, "/api/v1/knowledge/questions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var qs struct {
		Questions []*domain.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &qs))
	assert.Len(t, qs.Questions, 20)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/knowledge/questions/Q15", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mycobacteria")

	w = doJSON(t, srv, http.MethodGet, "/api/v1/knowledge/questions/Q99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/knowledge/patterns", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wiskott-aldrich")
}

func TestExportCases(t *testing.T) {
	srv := newTestServer(t)
	startCase(t, srv)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var export casestore.Export
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &export))
	assert.Equal(t, "1.0", export.Version)
	assert.Equal(t, 1, export.Count)
}

func TestStreamDeliversEvents(t *testing.T) {
	srv := newTestServer(t)
	caseID := startCase(t, srv)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/cases/" + caseID + "/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	// Give the server side a moment to register the subscription.
	time.Sleep(100 * time.Millisecond)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/cases/"+caseID+"/answers", payload{
		"question": "Q9", "answer": "Yes",
	})
	require.Equal(t, http.StatusOK, w.Code)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var event service.CaseEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, service.EventAnswer, event.Type)
	assert.Equal(t, caseID, event.CaseID)
	require.NoError(t, event.Beliefs.Validate())
}

func TestStreamUnknownCase(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/api/v1/cases/absent/stream", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// payload is a shorthand for JSON request bodies.
type payload = map[string]any
