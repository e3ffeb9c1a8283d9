package download

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"github.com/amanattar/tubescribe/pkg/file"
	"github.com/amanattar/tubescribe/pkg/log"
)

// ErrUnavailable marks content that exists but cannot be fetched:
// private, removed, region-blocked or age-restricted videos.
var ErrUnavailable = errors.New("video unavailable")

// Audio is the product of a successful fetch.
type Audio struct {
	Path  string // local audio file
	Title string // video display title, used for artifact filenames
}

// Fetcher downloads the audio-only stream of a YouTube video into a
// per-job directory under workDir.
type Fetcher struct {
	workDir string
}

func NewFetcher(workDir string) *Fetcher {
	return &Fetcher{workDir: workDir}
}

func (f *Fetcher) FetchAudio(ctx context.Context, rawURL string) (*Audio, error) {
	if _, err := ExtractVideoID(rawURL); err != nil {
		return nil, err
	}

	jobDir, err := os.MkdirTemp(f.workDir, "audio-")
	if err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}

	dl := ytdlp.New().
		NoPlaylist().
		ExtractAudio().
		AudioFormat("m4a").
		RestrictFilenames().
		Output(filepath.Join(jobDir, "%(title)s.%(ext)s"))

	log.Info("Downloading audio for %s", rawURL)
	result, err := dl.Run(ctx, rawURL)
	if err != nil {
		_ = os.RemoveAll(jobDir)
		return nil, classify(err)
	}

	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		_ = os.RemoveAll(jobDir)
		return nil, fmt.Errorf("download produced no media info: %v", err)
	}

	audio := &Audio{}
	if info[0].Title != nil {
		audio.Title = *info[0].Title
	}
	if info[0].Filename != nil {
		audio.Path = withAudioExt(*info[0].Filename)
	}
	if audio.Path == "" {
		audio.Path = firstFileIn(jobDir)
	}
	if audio.Path == "" {
		_ = os.RemoveAll(jobDir)
		return nil, fmt.Errorf("download produced no audio file")
	}

	log.Info("Downloaded %q to %s", audio.Title, audio.Path)
	return audio, nil
}

// unavailableMarkers are yt-dlp error phrases for content that is not
// retrievable no matter how often we retry.
var unavailableMarkers = []string{
	"private video",
	"video unavailable",
	"this video is not available",
	"has been removed",
	"age-restricted",
	"age restricted",
	"sign in to confirm your age",
	"not available in your country",
	"members-only",
}

func classify(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range unavailableMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return fmt.Errorf("download failed: %w", err)
}

// ExtractVideoID validates that rawURL points at a YouTube video and
// returns its id.
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("not a valid URL: %s", rawURL)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id, nil
		}
		// /shorts/<id> and /embed/<id> forms
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 && (parts[0] == "shorts" || parts[0] == "embed") && parts[1] != "" {
			return parts[1], nil
		}
		return "", fmt.Errorf("no video id in URL: %s", rawURL)
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return "", fmt.Errorf("no video id in URL: %s", rawURL)
		}
		return id, nil
	default:
		return "", fmt.Errorf("not a youtube URL: %s", rawURL)
	}
}

// withAudioExt maps the pre-extraction filename yt-dlp reports to the
// post-extraction audio file.
func withAudioExt(path string) string {
	if filepath.Ext(path) == ".m4a" {
		return path
	}
	candidate := file.ReplaceExt(path, ".m4a")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func firstFileIn(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}
