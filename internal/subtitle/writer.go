package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// Render serializes the file back to SRT text: sequential numbered
// entries, each with a start/end timestamp pair and the text line.
func (f *File) Render() string {
	var b strings.Builder

	for _, line := range f.Lines {
		fmt.Fprintf(&b, "%d\n", line.Index)
		fmt.Fprintf(&b, "%s --> %s\n", formatDuration(line.StartTime), formatDuration(line.EndTime))
		fmt.Fprintf(&b, "%s\n\n", line.Text)
	}

	return b.String()
}

// PlainText strips indices and timestamps, joining subtitle text into
// a single whitespace-normalized string.
func (f *File) PlainText() string {
	parts := make([]string, 0, len(f.Lines))
	for _, line := range f.Lines {
		text := strings.Join(strings.Fields(line.Text), " ")
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// formatDuration formats time.Duration to SRT time format
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, milliseconds)
}
