package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/diagram-to-project/generator/internal/archive"
	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/history"
	"github.com/diagram-to-project/generator/internal/project"
	"github.com/diagram-to-project/generator/internal/result"
)

const defaultRunLimit = 50

func (s *Server) registerRoutes() {
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("POST /api/projects/{name}/generate", s.handleGenerate)
	s.router.HandleFunc("POST /api/notation/parse", s.handleParse)
	if s.opts.Runs != nil {
		s.router.HandleFunc("GET /api/runs", s.handleRuns)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

// readSource reads the request body as GoJS when the content type is JSON and as
// notation text otherwise.
func (s *Server) readSource(w http.ResponseWriter, r *http.Request) (project.Source, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBody))
	if err != nil {
		badRequest(w, "reading request body: %v", err)
		return project.Source{}, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		badRequest(w, "request body is empty: send the diagram as notation text or a JSON document")
		return project.Source{}, false
	}
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		return project.Source{GoJS: body}, true
	}
	return project.Source{Notation: string(body)}, true
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	src, ok := s.readSource(w, r)
	if !ok {
		return
	}

	// Held until the archive is open so a concurrent run cannot rewrite the tree
	// while it is being packed.
	unlock, err := s.locks.Lock(r.Context(), name)
	if err != nil {
		writeFailure(w, result.NewError(result.InternalError, "waiting for project", err), nil)
		return
	}
	defer unlock()

	opts := s.opts.Defaults
	opts.Project.Name = name
	rep, err := s.assembler.Generate(r.Context(), src, opts)
	if err != nil {
		writeFailure(w, err, rep.Errors)
		return
	}

	target, err := archive.Archive(rep.Project.Root, filepath.Join(opts.OutputRoot, archive.Name(name)))
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	f, err := os.Open(target)
	if err != nil {
		writeFailure(w, &archive.PackagingError{Target: target, Err: err}, nil)
		return
	}
	defer f.Close()
	unlock()
	info, err := f.Stat()
	if err != nil {
		writeFailure(w, &archive.PackagingError{Target: target, Err: err}, nil)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.Name(name)))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("X-Diagram-Warnings", strconv.Itoa(len(rep.Warnings)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		s.log.Warn("archive stream interrupted", "project", name, "error", err, "request_id", RequestID(r.Context()))
	}
}

type parseResponse struct {
	Success  bool             `json:"success"`
	Model    *diagram.Model   `json:"model"`
	Warnings []result.Warning `json:"warnings"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	src, ok := s.readSource(w, r)
	if !ok {
		return
	}
	m, err := project.Load(src)
	if err != nil {
		var verrs diagram.ValidationErrors
		var details []result.Error
		if errors.As(err, &verrs) {
			details = verrs.Results()
		}
		writeFailure(w, err, details)
		return
	}
	warnings := m.Warnings
	if warnings == nil {
		warnings = []result.Warning{}
	}
	writeJSON(w, parseResponse{Success: true, Model: m, Warnings: warnings}, http.StatusOK)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, "invalid limit %q", v)
			return
		}
		limit = n
	}
	runs, err := s.opts.Runs.List(limit)
	if err != nil {
		writeFailure(w, result.NewError(result.InternalError, "listing runs", err), nil)
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, map[string]any{"runs": runs, "count": len(runs)}, http.StatusOK)
}
