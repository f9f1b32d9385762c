package httpserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg          config.Config
	Jobs         *usecase.JobService
	Resumes      *usecase.ResumeService
	Match        *usecase.MatchService
	Applications *usecase.ApplicationService
	Chat         *usecase.ChatService

	RedisCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, jobs *usecase.JobService, resumes *usecase.ResumeService, match *usecase.MatchService, apps *usecase.ApplicationService, chat *usecase.ChatService, redisCheck func(context.Context) error) *Server {
	return &Server{
		Cfg:          cfg,
		Jobs:         jobs,
		Resumes:      resumes,
		Match:        match,
		Applications: apps,
		Chat:         chat,
		RedisCheck:   redisCheck,
	}
}

// JobsHandler serves GET /v1/jobs: a query/location search resolved through
// the cache/live/sample chain. The response source field tells the caller
// which tier answered.
func (s *Server) JobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		location := strings.TrimSpace(r.URL.Query().Get("location"))
		jobs, source := s.Jobs.Browse(r.Context(), query, location)
		writeJSON(w, http.StatusOK, envelope{Success: true, Source: source, Data: jobs})
	}
}

// RiseJobsHandler serves GET /v1/jobs/rise: one page of the public feed.
func (s *Server) RiseJobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 20)
		if limit > 50 {
			limit = 50
		}
		jobs, source := s.Jobs.FeedPage(r.Context(), page, limit)
		writeJSON(w, http.StatusOK, envelope{Success: true, Source: source, Data: jobs})
	}
}

// allowedExt enforces the upload allowlist: .txt, .pdf, .docx
func allowedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".pdf", ".docx":
		return true
	}
	return false
}

func allowedMIME(m string) bool {
	m = strings.ToLower(m)
	if strings.HasPrefix(m, "text/") {
		return true
	}
	return m == "application/pdf" ||
		m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// UploadResumeHandler serves POST /v1/resume/upload: a multipart form with a
// "resume" file field and an optional "userId" value. The file is spooled to
// a temp path for the text extractor and removed before returning.
func (s *Server) UploadResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument))
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeJSON(w, http.StatusRequestEntityTooLarge, envelope{
					Success: false,
					Message: fmt.Sprintf("file exceeds the %dMB upload limit", s.Cfg.MaxUploadMB),
				})
				return
			}
			writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
			return
		}

		file, header, err := r.FormFile("resume")
		if err != nil {
			writeError(w, fmt.Errorf("%w: resume file required", domain.ErrInvalidArgument))
			return
		}
		defer func() { _ = file.Close() }()

		if !allowedExt(header.Filename) {
			writeError(w, fmt.Errorf("%w: unsupported file type, want .txt, .pdf or .docx", domain.ErrInvalidArgument))
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, fmt.Errorf("%w: reading upload: %v", domain.ErrInternal, err))
			return
		}
		if len(data) == 0 {
			writeError(w, fmt.Errorf("%w: uploaded file is empty", domain.ErrInvalidArgument))
			return
		}
		if mt := mimetype.Detect(data); !allowedMIME(mt.String()) {
			writeError(w, fmt.Errorf("%w: detected content type %s is not allowed", domain.ErrInvalidArgument, mt.String()))
			return
		}

		tmp, err := os.CreateTemp("", "resume-*")
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", domain.ErrInternal, err))
			return
		}
		defer func() {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}()
		if _, err := tmp.Write(data); err != nil {
			writeError(w, fmt.Errorf("%w: %v", domain.ErrInternal, err))
			return
		}

		userID := strings.TrimSpace(r.FormValue("userId"))
		result, err := s.Resumes.Upload(r.Context(), userID, header.Filename, tmp.Name())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Resume processed successfully", Data: result})
	}
}

// ExtractSkillsHandler serves POST /v1/resume/skills: re-extracts the skill
// profile from the stored resume text.
func (s *Server) ExtractSkillsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req skillsRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		profile, err := s.Resumes.ExtractSkills(r.Context(), req.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, profile)
	}
}

// ScoreHandler serves POST /v1/match/score: the full matching pipeline.
func (s *Server) ScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		result, err := s.Match.ScoreJobs(r.Context(), req.UserID, req.Jobs, req.Query, req.Location)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Message: result.Message, Data: result.Jobs})
	}
}

// ApplyHandler serves POST /v1/applications/apply.
func (s *Server) ApplyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applyRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		app := domain.Application{
			JobID:   req.JobID,
			Title:   req.Title,
			Company: req.Company,
			Status:  req.Status,
			Notes:   req.Notes,
		}
		message, applied, err := s.Applications.Apply(r.Context(), req.UserID, req.UserChoice, app)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: map[string]any{"applied": applied}})
	}
}

// UpdateStatusHandler serves PATCH /v1/applications/{jobId}/status.
func (s *Server) UpdateStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobId")
		var req statusRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		app, err := s.Applications.UpdateStatus(r.Context(), req.UserID, jobID, req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Status updated", Data: app})
	}
}

// ListApplicationsHandler serves GET /v1/applications?userId=...
func (s *Server) ListApplicationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.URL.Query().Get("userId"))
		apps, err := s.Applications.List(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, apps)
	}
}

// ChatHandler serves POST /v1/chat: the career advisor. It always succeeds;
// AI unavailability degrades to a canned reply inside the service.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		reply := s.Chat.Assist(r.Context(), req.Query)
		writeData(w, map[string]string{"explanation": reply})
	}
}

// HealthzHandler is the liveness probe.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, "ok")
	}
}

// ReadyzHandler is the readiness probe. Redis is the only hard dependency
// checked: job providers and the AI all degrade gracefully, and a down
// cache still serves sample data, so readiness only reports, never gates.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"cache": "ok"}
		if s.RedisCheck != nil {
			if err := s.RedisCheck(r.Context()); err != nil {
				status["cache"] = "degraded"
			}
		}
		writeData(w, status)
	}
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
