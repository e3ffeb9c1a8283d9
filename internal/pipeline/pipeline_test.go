package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanattar/tubescribe/internal/download"
	"github.com/amanattar/tubescribe/internal/jobs"
)

// stubSRT is long enough to clear the generator's transcript guard.
var stubSRT = "1\n00:00:01,000 --> 00:00:04,000\n" + strings.Repeat("namaste doston ", 5) + "\n\n2\n00:00:05,000 --> 00:00:08,000\naaj hum unboxing karenge\n"

type stubDownloader struct {
	audio *download.Audio
	err   error
	calls int
}

func (s *stubDownloader) FetchAudio(context.Context, string) (*download.Audio, error) {
	s.calls++
	return s.audio, s.err
}

type stubTranscriber struct {
	srt   string
	err   error
	calls int
}

func (s *stubTranscriber) Translate(context.Context, string) (string, error) {
	s.calls++
	return s.srt, s.err
}

type stubGenerator struct {
	text    string
	err     error
	calls   int
	channel string
}

func (s *stubGenerator) Generate(_ context.Context, channelID, _ string) (string, error) {
	s.calls++
	s.channel = channelID
	return s.text, s.err
}

type metaSink struct {
	title string
	lang  string
}

func (m *metaSink) SetVideoTitle(_, title string) { m.title = title }
func (m *metaSink) SetLanguage(_, lang string)    { m.lang = lang }

func tempAudio(t *testing.T) *download.Audio {
	t.Helper()
	dir, err := os.MkdirTemp(t.TempDir(), "audio-")
	require.NoError(t, err)
	path := filepath.Join(dir, "clip.m4a")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))
	return &download.Audio{Path: path, Title: "iPhone 17 Unboxing"}
}

func newJob() *jobs.Job {
	return &jobs.Job{ID: "job-1", Channel: "trakin-tech", URL: "https://youtube.com/watch?v=abc"}
}

func collectStages() (jobs.ProgressFunc, *[]jobs.Status) {
	var seen []jobs.Status
	return func(status jobs.Status, _ string) {
		seen = append(seen, status)
	}, &seen
}

func TestRun_HappyPath(t *testing.T) {
	audio := tempAudio(t)
	dl := &stubDownloader{audio: audio}
	tr := &stubTranscriber{srt: stubSRT}
	gen := &stubGenerator{text: "generated description"}
	meta := &metaSink{}

	report, stages := collectStages()
	result, err := New(dl, tr, gen, meta).Executor()(context.Background(), newJob(), report)
	require.NoError(t, err)

	assert.Equal(t, stubSRT, result.Subtitle)
	assert.Equal(t, "generated description", result.Description)
	assert.Equal(t, []jobs.Status{jobs.StatusDownloading, jobs.StatusTranscribing, jobs.StatusGenerating}, *stages)
	assert.Equal(t, "iPhone 17 Unboxing", meta.title)
	assert.NotEmpty(t, meta.lang, "detected transcript language is recorded")
	assert.Equal(t, "trakin-tech", gen.channel)

	// Audio removed after transcription.
	_, statErr := os.Stat(audio.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_DownloadFailureSkipsLaterStages(t *testing.T) {
	dl := &stubDownloader{err: errors.New("video unavailable: removed by uploader")}
	tr := &stubTranscriber{srt: stubSRT}
	gen := &stubGenerator{text: "desc"}

	report, stages := collectStages()
	_, err := New(dl, tr, gen, nil).Executor()(context.Background(), newJob(), report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download error")
	assert.Contains(t, err.Error(), "video unavailable")

	assert.Zero(t, tr.calls)
	assert.Zero(t, gen.calls)
	assert.Equal(t, []jobs.Status{jobs.StatusDownloading}, *stages)
}

func TestRun_TranscriptionFailureSkipsGenerator(t *testing.T) {
	audio := tempAudio(t)
	dl := &stubDownloader{audio: audio}
	tr := &stubTranscriber{err: errors.New("quota exceeded")}
	gen := &stubGenerator{text: "desc"}

	report, stages := collectStages()
	_, err := New(dl, tr, gen, nil).Executor()(context.Background(), newJob(), report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translation error")
	assert.Zero(t, gen.calls)
	assert.Equal(t, []jobs.Status{jobs.StatusDownloading, jobs.StatusTranscribing}, *stages)

	// Audio cleaned up even when transcription fails.
	_, statErr := os.Stat(audio.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_InvalidSubtitlePayloadFailsJob(t *testing.T) {
	dl := &stubDownloader{audio: tempAudio(t)}
	tr := &stubTranscriber{srt: "this is not srt"}
	gen := &stubGenerator{text: "desc"}

	report, _ := collectStages()
	_, err := New(dl, tr, gen, nil).Executor()(context.Background(), newJob(), report)
	require.Error(t, err)
	assert.Zero(t, gen.calls)
}

func TestRun_GenerationFailureDiscardsSubtitle(t *testing.T) {
	dl := &stubDownloader{audio: tempAudio(t)}
	tr := &stubTranscriber{srt: stubSRT}
	gen := &stubGenerator{err: errors.New("bad credentials")}

	report, _ := collectStages()
	result, err := New(dl, tr, gen, nil).Executor()(context.Background(), newJob(), report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description generation error")
	assert.Nil(t, result)
}
