package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amanattar/tubescribe/internal/channel"
	"github.com/amanattar/tubescribe/internal/download"
	"github.com/amanattar/tubescribe/internal/jobs"
	"github.com/amanattar/tubescribe/pkg/file"
	"github.com/amanattar/tubescribe/pkg/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("write response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listJobs(w, r)
	case http.MethodPost:
		s.submitJob(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listJobs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"jobs": s.queue.List()})
}

func (s *Server) submitJob(w http.ResponseWriter, r *http.Request) {
	var req jobs.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	req.Channel = strings.TrimSpace(req.Channel)
	req.URL = strings.TrimSpace(req.URL)

	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if _, err := download.ExtractVideoID(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, "invalid YouTube URL: %v", err)
		return
	}
	if _, err := channel.Lookup(req.Channel); err != nil {
		writeError(w, http.StatusBadRequest, "unknown channel %q, expected one of %s",
			req.Channel, strings.Join(channel.IDs(), ", "))
		return
	}

	job := s.queue.Enqueue(req)
	log.Info("job %s accepted: channel=%s url=%s", job.ID, req.Channel, req.URL)
	writeJSON(w, http.StatusOK, map[string]string{"job_id": job.ID})
}

func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	id, artifact, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "job id is required")
		return
	}

	job, ok := s.queue.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "job %s not found", id)
		return
	}

	switch artifact {
	case "":
		writeJSON(w, http.StatusOK, job)
	case "subtitle":
		s.serveArtifact(w, job, func(res *jobs.Result) string { return res.Subtitle }, ".srt")
	case "description":
		s.serveArtifact(w, job, func(res *jobs.Result) string { return res.Description }, "_description.txt")
	default:
		writeError(w, http.StatusNotFound, "unknown resource %q", artifact)
	}
}

func (s *Server) serveArtifact(w http.ResponseWriter, job *jobs.Job, pick func(*jobs.Result) string, suffix string) {
	if job.Status != jobs.StatusDone || job.Result == nil {
		writeError(w, http.StatusConflict, "job %s is %s, artifacts are available once it is done", job.ID, job.Status)
		return
	}

	name := file.SanitizeName(job.VideoTitle) + suffix
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(pick(job.Result))); err != nil {
		log.Warn("write artifact for job %s failed: %v", job.ID, err)
	}
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	type channelView struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Language string `json:"language"`
	}

	all := channel.All()
	views := make([]channelView, 0, len(all))
	for _, p := range all {
		views = append(views, channelView{ID: p.ID, Name: p.Name, Language: p.Language.String()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"channels": views})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if s.cleanup != nil {
		resp["cleanup"] = s.cleanup.Info()
	}
	writeJSON(w, http.StatusOK, resp)
}
