package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// handleJobStream pushes job snapshots over SSE once per second until
// the client disconnects. With ?id= it narrows the stream to a single
// job and closes once that job reaches a terminal status.
func (s *Server) handleJobStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	jobID := r.URL.Query().Get("id")
	if jobID != "" {
		if _, found := s.queue.Get(jobID); !found {
			writeError(w, http.StatusNotFound, "job %s not found", jobID)
			return
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// send emits one snapshot event. It returns false when the stream
	// should end, either because the client went away or because the
	// watched job finished.
	send := func() (alive bool) {
		var payload any
		done := false
		if jobID != "" {
			job, found := s.queue.Get(jobID)
			if !found {
				return false
			}
			payload = job
			done = job.Status.Terminal()
		} else {
			list := s.queue.List()
			payload = map[string]any{"jobs": list, "count": len(list)}
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return !done
	}

	if !send() {
		return
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
