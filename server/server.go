// Package server exposes the orchestrator over HTTP. One POST endpoint
// handles queries; the GET endpoints describe the deployment.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	classifyx "krishisetu/agent/classify"
	contractx "krishisetu/agent/contract"
	orchestratorx "krishisetu/agent/orchestrator"
	registryx "krishisetu/agent/registry"
	specialistsx "krishisetu/agent/specialists"
	historyx "krishisetu/history"
)

type Config struct {
	Host            string        `envconfig:"HOST" split_words:"true" default:"0.0.0.0"`
	Port            int           `envconfig:"PORT" split_words:"true" default:"8000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
}

type Server struct {
	cfg          Config
	orchestrator *orchestratorx.Orchestrator
	registry     *registryx.Registry
	store        historyx.Store
	validate     *validator.Validate
	mux          *http.ServeMux
}

func New(cfg Config, orch *orchestratorx.Orchestrator, reg *registryx.Registry, store historyx.Store) (*Server, error) {
	if orch == nil {
		return nil, errors.New("orchestrator is required")
	}
	if reg == nil {
		return nil, errors.New("registry is required")
	}
	if store == nil {
		store = historyx.NewNoopStore()
	}

	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		registry:     reg,
		store:        store,
		validate:     validator.New(),
		mux:          http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /query", s.handleQuery)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /agents", s.handleAgents)
	s.mux.HandleFunc("GET /supported-languages", s.handleLanguages)
	s.mux.HandleFunc("GET /crops", s.handleCrops)
	s.mux.HandleFunc("GET /history", s.handleHistory)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port)),
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}

// QueryRequest is the POST /query body.
type QueryRequest struct {
	Query         string            `json:"query" validate:"required,min=1,max=4000"`
	Context       map[string]string `json:"context"`
	Language      string            `json:"language" validate:"omitempty,oneof=en hi ta te bn mr gu kn ml pa"`
	Comprehensive bool              `json:"comprehensive"`
}

// QueryResponse mirrors the synthesized result with a flattened source list.
type QueryResponse struct {
	Success    bool                `json:"success"`
	Data       map[string]any      `json:"data"`
	Confidence float64             `json:"confidence"`
	Source     string              `json:"source"`
	Failures   []contractx.Failure `json:"failures,omitempty"`
	Timestamp  string              `json:"timestamp"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := contractx.Query{
		Text:          req.Query,
		Context:       req.Context,
		Language:      req.Language,
		Comprehensive: req.Comprehensive,
	}

	resp, err := s.orchestrator.Handle(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Msg("query handling failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.record(q, resp)

	writeJSON(w, http.StatusOK, QueryResponse{
		Success:    resp.Success,
		Data:       resp.Data,
		Confidence: resp.Confidence,
		Source:     strings.Join(resp.Sources, ", "),
		Failures:   resp.Failures,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// record persists on a detached goroutine so history latency and errors stay
// out of the request path.
func (s *Server) record(q contractx.Query, resp contractx.SynthesizedResponse) {
	rec := historyx.NewRecord(q, resp)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.Record(ctx, rec); err != nil {
			log.Warn().Err(err).Str("record_id", rec.ID.String()).Msg("history record failed")
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	type agentInfo struct {
		Name         string   `json:"name"`
		Category     string   `json:"category"`
		Capabilities []string `json:"capabilities"`
	}
	agents := make([]agentInfo, 0)
	for _, sp := range s.registry.All() {
		agents = append(agents, agentInfo{
			Name:         sp.Name(),
			Category:     string(sp.Category()),
			Capabilities: sp.Capabilities(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": agents})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": classifyx.SupportedLanguages,
		"default":   classifyx.DefaultLanguage,
	})
}

func (s *Server) handleCrops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"crops":   specialistsx.MajorCrops,
		"seasons": specialistsx.Seasons,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 200 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 200")
			return
		}
		limit = v
	}
	records, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("history lookup failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = []historyx.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("write response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
