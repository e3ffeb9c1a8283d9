package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amanattar/tubescribe/internal/download"
	"github.com/amanattar/tubescribe/internal/jobs"
	"github.com/amanattar/tubescribe/internal/subtitle"
	"github.com/amanattar/tubescribe/pkg/log"
)

// Downloader fetches the audio-only stream of a video.
type Downloader interface {
	FetchAudio(ctx context.Context, url string) (*download.Audio, error)
}

// Transcriber turns an audio file into SRT subtitle text.
type Transcriber interface {
	Translate(ctx context.Context, audioPath string) (string, error)
}

// Generator produces a channel-styled description from a transcript.
type Generator interface {
	Generate(ctx context.Context, channelID, transcript string) (string, error)
}

// MetadataRecorder receives job metadata as the stages discover it:
// the video display title after download, the detected transcript
// language after transcription.
type MetadataRecorder interface {
	SetVideoTitle(id, title string)
	SetLanguage(id, lang string)
}

// Pipeline runs the three stages of a job strictly in order:
// download, transcribe, generate. Each stage needs the previous
// stage's output, so there is no parallelism within a job. Any stage
// error fails the whole job; no stage is retried and partial
// artifacts are discarded.
type Pipeline struct {
	downloader  Downloader
	transcriber Transcriber
	generator   Generator
	meta        MetadataRecorder
}

func New(downloader Downloader, transcriber Transcriber, generator Generator, meta MetadataRecorder) *Pipeline {
	return &Pipeline{
		downloader:  downloader,
		transcriber: transcriber,
		generator:   generator,
		meta:        meta,
	}
}

// Executor adapts the pipeline to the job queue.
func (p *Pipeline) Executor() jobs.Executor {
	return p.run
}

func (p *Pipeline) run(ctx context.Context, job *jobs.Job, report jobs.ProgressFunc) (*jobs.Result, error) {
	report(jobs.StatusDownloading, "Downloading audio...")
	audio, err := p.downloader.FetchAudio(ctx, job.URL)
	if err != nil {
		return nil, fmt.Errorf("download error: %w", err)
	}
	if p.meta != nil && audio.Title != "" {
		p.meta.SetVideoTitle(job.ID, audio.Title)
	}

	report(jobs.StatusTranscribing, "Translating audio to English...")
	srtText, err := p.transcriber.Translate(ctx, audio.Path)
	// The audio file is only needed for transcription.
	p.cleanupAudio(job.ID, audio.Path)
	if err != nil {
		return nil, fmt.Errorf("translation error: %w", err)
	}

	parsed, err := subtitle.Parse([]byte(srtText))
	if err != nil {
		return nil, fmt.Errorf("translation error: %w", err)
	}
	if p.meta != nil {
		p.meta.SetLanguage(job.ID, parsed.Language.String())
	}
	log.Info("Job %s: transcribed %d subtitle lines, detected language %s",
		job.ID, len(parsed.Lines), parsed.Language)

	report(jobs.StatusGenerating, "Generating description...")
	description, err := p.generator.Generate(ctx, job.Channel, srtText)
	if err != nil {
		return nil, fmt.Errorf("description generation error: %w", err)
	}

	return &jobs.Result{
		Subtitle:    srtText,
		Description: description,
	}, nil
}

func (p *Pipeline) cleanupAudio(jobID, path string) {
	if path == "" {
		return
	}
	// The fetcher puts each download in its own directory.
	if err := os.RemoveAll(filepath.Dir(path)); err != nil {
		log.Warn("Job %s: failed to clean up audio %s: %v", jobID, path, err)
	}
}
