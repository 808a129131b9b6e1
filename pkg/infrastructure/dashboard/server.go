// Package dashboard serves a read-only web view of the schedule: the
// board snapshot as HTML and JSON, plus live event streams over SSE and
// WebSocket so open pages follow commits without polling.
package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/jalvemo/planera/pkg/application"
	"github.com/jalvemo/planera/pkg/domain/events"
)

//go:embed templates/*
var templatesFS embed.FS

// DataProvider supplies the board snapshot rendered by the dashboard.
type DataProvider interface {
	Snapshot() (*application.BoardSnapshot, error)
}

// Server is the dashboard HTTP server.
type Server struct {
	addr     string
	provider DataProvider
	hub      *streamHub
	logger   *slog.Logger
	server   *http.Server
	tmpl     *template.Template
}

// NewServer creates a dashboard server and subscribes its stream hub to
// the dispatcher. dispatcher may be nil for a static, non-live page.
func NewServer(addr string, provider DataProvider, dispatcher *events.Dispatcher, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	funcMap := template.FuncMap{
		"formatTime": formatTime,
		"json":       toJSON,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		addr:     addr,
		provider: provider,
		hub:      newStreamHub(dispatcher),
		logger:   logger,
		tmpl:     tmpl,
	}, nil
}

// Handler returns the dashboard's route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /api/jobs", s.handleAPIJobs)
	mux.HandleFunc("GET /api/unassigned", s.handleAPIUnassigned)
	mux.HandleFunc("GET /api/board", s.handleAPIBoard)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /ws", s.handleWS)

	return mux
}

// Start starts the dashboard server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: /events and /ws are long-lived streams.
	}

	s.logger.Info("dashboard server starting", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// PageData holds data for template rendering.
type PageData struct {
	Title    string
	Snapshot *application.BoardSnapshot
	Stats    BoardStats
	Error    string
}

// BoardStats holds summary numbers for the header.
type BoardStats struct {
	Jobs       int
	Resources  int
	Orders     int
	Unassigned int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Schedule"}

	snapshot, err := s.provider.Snapshot()
	if err != nil {
		data.Error = err.Error()
	} else {
		data.Snapshot = snapshot
		data.Stats = BoardStats{
			Jobs:       len(snapshot.Jobs),
			Resources:  len(snapshot.Resources),
			Orders:     len(snapshot.Orders),
			Unassigned: len(snapshot.Unassigned),
		}
	}

	s.render(w, "index.html", data)
}

func (s *Server) handleAPIBoard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.provider.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, snapshot)
}

func (s *Server) handleAPIJobs(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.provider.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, snapshot.Jobs)
}

func (s *Server) handleAPIUnassigned(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.provider.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, snapshot.Unassigned)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template error", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Template helper functions
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func toJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
