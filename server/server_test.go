package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	classifyx "krishisetu/agent/classify"
	contractx "krishisetu/agent/contract"
	dispatchx "krishisetu/agent/dispatch"
	orchestratorx "krishisetu/agent/orchestrator"
	registryx "krishisetu/agent/registry"
	historyx "krishisetu/history"
)

type fakeSpecialist struct {
	category   contractx.Category
	name       string
	confidence float64
}

func (f *fakeSpecialist) Category() contractx.Category { return f.category }
func (f *fakeSpecialist) Name() string { return f.name }
func (f *fakeSpecialist) Capabilities() []string { return []string{"testing"} }

func (f *fakeSpecialist) Invoke(ctx context.Context, q contractx.Query, entities map[string]string) (contractx.SpecialistResult, error) {
	return contractx.SpecialistResult{
		Category:   f.category,
		Source:     f.name,
		Confidence: f.confidence,
		Data:       map[string]any{"answered_by": f.name},
		Outcome:    contractx.OutcomeSuccess,
	}, nil
}

type memoryStore struct {
	mu      sync.Mutex
	records []historyx.Record
}

func (m *memoryStore) Record(ctx context.Context, rec historyx.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryStore) Recent(ctx context.Context, limit int) ([]historyx.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.records) > limit {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func newTestServer(t *testing.T, store historyx.Store) *Server {
	t.Helper()

	reg := registryx.MustNew(
		&fakeSpecialist{category: contractx.CategoryWeather, name: "weather", confidence: 0.8},
		&fakeSpecialist{category: contractx.CategoryCrop, name: "crop", confidence: 0.6},
		&fakeSpecialist{category: contractx.CategoryFinance, name: "finance", confidence: 0.5},
	)
	orch, err := orchestratorx.New(classifyx.MustNew(), dispatchx.New(reg, time.Second))
	require.NoError(t, err)

	srv, err := New(Config{}, orch, reg, store)
	require.NoError(t, err)
	return srv
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func getPath(handler http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestQueryEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, historyx.NewNoopStore())
	w := postJSON(t, srv.Handler(), "/query", QueryRequest{Query: "will it rain tomorrow"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "weather", resp.Source)
	assert.InDelta(t, 0.8, resp.Confidence, 1e-9)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestQueryEndpointValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, historyx.NewNoopStore())

	missing := postJSON(t, srv.Handler(), "/query", map[string]any{"language": "hi"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)

	badLang := postJSON(t, srv.Handler(), "/query", map[string]any{"query": "rain", "language": "xx"})
	assert.Equal(t, http.StatusBadRequest, badLang.Code)

	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryEndpointRecordsHistory(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	srv := newTestServer(t, store)

	w := postJSON(t, srv.Handler(), "/query", QueryRequest{Query: "loan options"})
	require.Equal(t, http.StatusOK, w.Code)

	// Recording runs on a detached goroutine.
	require.Eventually(t, func() bool { return store.size() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, historyx.NewNoopStore())
	w := getPath(srv.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAgentsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, historyx.NewNoopStore())
	w := getPath(srv.Handler(), "/agents")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Agents []struct {
			Name     string `json:"name"`
			Category string `json:"category"`
		} `json:"agents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Agents, 3)
	assert.Equal(t, "weather", resp.Agents[0].Name)
}

func TestLanguagesEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, historyx.NewNoopStore())
	w := getPath(srv.Handler(), "/supported-languages")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Languages []string `json:"languages"`
		Default   string   `json:"default"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "en", resp.Default)
	assert.Contains(t, resp.Languages, "hi")
}

func TestCropsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, historyx.NewNoopStore())
	w := getPath(srv.Handler(), "/crops")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Crops   []string `json:"crops"`
		Seasons []string `json:"seasons"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Crops, "Rice")
	assert.Contains(t, resp.Seasons, "Kharif")
}

func TestHistoryEndpointValidatesLimit(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, historyx.NewNoopStore())

	assert.Equal(t, http.StatusBadRequest, getPath(srv.Handler(), "/history?limit=0").Code)
	assert.Equal(t, http.StatusBadRequest, getPath(srv.Handler(), "/history?limit=abc").Code)
	assert.Equal(t, http.StatusOK, getPath(srv.Handler(), "/history?limit=5").Code)
}
