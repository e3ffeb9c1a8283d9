package jobs

import "time"

type Status string

const (
	StatusQueued       Status = "queued"
	StatusDownloading  Status = "downloading"
	StatusTranscribing Status = "transcribing"
	StatusGenerating   Status = "generating"
	StatusDone         Status = "done"
	StatusFailed       Status = "failed"
)

// stageRank orders the pipeline stages. A job's status may only move
// forward through this order; failed is reachable from any non-terminal
// state and absorbing.
func stageRank(s Status) int {
	switch s {
	case StatusQueued:
		return 0
	case StatusDownloading:
		return 1
	case StatusTranscribing:
		return 2
	case StatusGenerating:
		return 3
	case StatusDone:
		return 4
	case StatusFailed:
		return 5
	default:
		return -1
	}
}

func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

type SubmitRequest struct {
	Channel string `json:"channel"`
	URL     string `json:"url"`
}

// Result holds the artifacts of a completed job. Both texts are kept
// in memory until downloaded; nothing is persisted.
type Result struct {
	Subtitle    string
	Description string
}

type Job struct {
	ID         string    `json:"id"`
	Channel    string    `json:"channel"`
	URL        string    `json:"url"`
	Status     Status    `json:"status"`
	Message    string    `json:"message"`
	VideoTitle string    `json:"video_title,omitempty"`
	Language   string    `json:"language,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Result *Result `json:"-"`
}
