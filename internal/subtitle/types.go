package subtitle

import (
	"time"

	"golang.org/x/text/language"
)

// Line represents a single subtitle entry
type Line struct {
	Index     int           // sequential entry number
	StartTime time.Duration // start time
	EndTime   time.Duration // end time
	Text      string        // subtitle text
}

// File represents a parsed subtitle document
type File struct {
	Lines    []Line
	Language language.Tag
	Format   string // e.g. SRT
}
