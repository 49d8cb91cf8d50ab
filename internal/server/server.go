// Package server exposes stored screen configs and their render plans over
// HTTP, plus a websocket live-preview channel that re-plans on every config
// write.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/venkatesh3007/flexui/internal/live"
	"github.com/venkatesh3007/flexui/internal/render"
	"github.com/venkatesh3007/flexui/internal/schema"
	"github.com/venkatesh3007/flexui/internal/store"
	"github.com/venkatesh3007/flexui/internal/value"
)

// maxConfigBytes bounds uploaded config documents.
const maxConfigBytes = 4 << 20

// Server holds the preview service's collaborators.
type Server struct {
	store   *store.Store
	bus     *live.Bus
	planner *render.Planner
}

// New creates a server. The planner's component registry decides which node
// types count as known when planning.
func New(st *store.Store, bus *live.Bus, planner *render.Planner) *Server {
	return &Server{store: st, bus: bus, planner: planner}
}

// Routes builds the chi router with all endpoints registered.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/screens", s.listScreens)
		r.Put("/screens/{screenID}", s.putScreen)
		r.Get("/screens/{screenID}", s.getScreen)
		r.Delete("/screens/{screenID}", s.deleteScreen)
		r.Post("/screens/{screenID}/plan", s.planScreen)
		r.Get("/screens/{screenID}/live", s.liveScreen)
		r.Post("/validate", s.validateConfig)
	})

	return r
}

// Run starts the HTTP server and shuts it down when ctx is cancelled.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server: listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) listScreens(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	if infos == nil {
		infos = []store.ScreenInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) getScreen(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "screenID")
	data, err := s.store.Get(r.Context(), screenID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no config stored for "+screenID)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) putScreen(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "screenID")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxConfigBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "READ_ERROR", err.Error())
		return
	}

	cfg, err := schema.ParseConfig(body)
	if err != nil {
		writeParseError(w, err)
		return
	}
	if cfg.ScreenID != screenID {
		writeError(w, http.StatusBadRequest, "SCREEN_ID_MISMATCH",
			fmt.Sprintf("document screenId %q does not match path %q", cfg.ScreenID, screenID))
		return
	}
	if err := schema.CheckVersion(cfg.Version); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "UNSUPPORTED_VERSION", err.Error())
		return
	}

	if err := s.store.Put(r.Context(), screenID, cfg.Version, body); err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	if s.bus != nil {
		s.bus.Publish(live.NewScreenUpdate(screenID, cfg.Version))
	}
	writeJSON(w, http.StatusOK, map[string]string{"screenId": screenID, "version": cfg.Version})
}

func (s *Server) deleteScreen(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "screenID")
	if err := s.store.Delete(r.Context(), screenID); err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// planRequest is the body of POST /v1/screens/{id}/plan.
type planRequest struct {
	Data value.Value `json:"data"`
}

// planResponse carries a render plan and the recoverable issues hit while
// producing it.
type planResponse struct {
	ScreenID string             `json:"screenId"`
	Entry    *render.Entry      `json:"entry"`
	Issues   []render.NodeIssue `json:"issues,omitempty"`
}

func (s *Server) planScreen(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "screenID")
	raw, err := s.store.Get(r.Context(), screenID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no config stored for "+screenID)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	var req planRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid plan request: "+err.Error())
			return
		}
	}

	cfg, err := schema.ParseConfig(raw)
	if err != nil {
		writeParseError(w, err)
		return
	}

	entry, issues := s.planner.PlanScreen(cfg, dataMap(req.Data))
	writeJSON(w, http.StatusOK, planResponse{ScreenID: screenID, Entry: entry, Issues: issues})
}

// validateResponse reports both schema-level and structural issues for a
// candidate document.
type validateResponse struct {
	Valid        bool           `json:"valid"`
	SchemaIssues []schema.Issue `json:"schemaIssues,omitempty"`
	ParseIssues  []schema.Issue `json:"parseIssues,omitempty"`
	VersionIssue string         `json:"versionIssue,omitempty"`
}

func (s *Server) validateConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxConfigBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "READ_ERROR", err.Error())
		return
	}

	resp := validateResponse{Valid: true}

	if err := schema.ValidateDocument(body); err != nil {
		resp.Valid = false
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			resp.SchemaIssues = ve.Issues
		} else {
			resp.SchemaIssues = []schema.Issue{{Path: "$", Message: err.Error()}}
		}
	}

	cfg, parseErr := schema.ParseConfig(body)
	if parseErr != nil {
		resp.Valid = false
		var pe *schema.ParseError
		if errors.As(parseErr, &pe) {
			resp.ParseIssues = pe.Issues
		} else {
			resp.ParseIssues = []schema.Issue{{Path: "$", Message: parseErr.Error()}}
		}
	} else if err := schema.CheckVersion(cfg.Version); err != nil {
		resp.Valid = false
		resp.VersionIssue = err.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeParseError(w http.ResponseWriter, err error) {
	var pe *schema.ParseError
	if errors.As(err, &pe) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "config failed to parse",
			"code":   "PARSE_ERROR",
			"issues": pe.Issues,
		})
		return
	}
	writeError(w, http.StatusUnprocessableEntity, "PARSE_ERROR", err.Error())
}

// dataMap extracts the runtime data map from a request value; anything that
// is not an object plans against empty data.
func dataMap(v value.Value) *value.Map {
	if m, ok := v.AsMap(); ok {
		return m
	}
	return value.NewMap()
}
