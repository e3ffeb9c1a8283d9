package janitor

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/amanattar/tubescribe/internal/jobs"
	"github.com/amanattar/tubescribe/pkg/file"
	"github.com/amanattar/tubescribe/pkg/icron"
	"github.com/amanattar/tubescribe/pkg/log"
)

// audioDirPrefix matches the per-job directories the downloader
// creates; the janitor never touches anything else under the work dir.
const audioDirPrefix = "audio-"

// Janitor periodically removes orphaned audio directories (left behind
// by crashes or interrupted jobs) and prunes stale terminal jobs from
// the queue.
type Janitor struct {
	queue    *jobs.Queue
	workDir  string
	ttl      time.Duration
	cronExpr string
	cron     *cron.Cron

	group singleflight.Group

	mu      sync.Mutex
	lastRun time.Time
}

func New(queue *jobs.Queue, workDir string, ttl time.Duration, cronExpr string, c *cron.Cron) *Janitor {
	return &Janitor{
		queue:    queue,
		workDir:  workDir,
		ttl:      ttl,
		cronExpr: cronExpr,
		cron:     c,
	}
}

// Schedule registers the sweep on the cron instance. The caller owns
// starting and stopping the cron.
func (j *Janitor) Schedule() error {
	_, err := j.cron.AddFunc(j.cronExpr, j.Run)
	return err
}

// Run executes one sweep. Overlapping runs collapse into one.
func (j *Janitor) Run() {
	_, _, _ = j.group.Do("sweep", func() (any, error) {
		j.sweep()
		return nil, nil
	})
}

func (j *Janitor) sweep() {
	cutoff := time.Now().Add(-j.ttl)

	removedDirs := j.sweepAudioDirs(cutoff)
	removedJobs := j.queue.PruneTerminalBefore(cutoff)

	j.mu.Lock()
	j.lastRun = time.Now()
	j.mu.Unlock()

	if removedDirs > 0 || removedJobs > 0 {
		log.Info("Janitor removed %d stale audio dirs and %d finished jobs", removedDirs, removedJobs)
	}
}

func (j *Janitor) sweepAudioDirs(cutoff time.Time) int {
	entries, err := os.ReadDir(j.workDir)
	if err != nil {
		log.Error("Janitor failed to read work dir %s: %v", j.workDir, err)
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), audioDirPrefix) {
			continue
		}
		dir := filepath.Join(j.workDir, entry.Name())

		stale, err := file.FindOlderThan(dir, cutoff)
		if err != nil {
			log.Warn("Janitor failed to scan %s: %v", dir, err)
			continue
		}
		if len(stale) == 0 {
			// Empty leftover dirs are judged by their own mtime.
			info, err := entry.Info()
			if err != nil || info.ModTime().After(cutoff) {
				continue
			}
			if dirHasFiles(dir) {
				continue
			}
		}

		if err := os.RemoveAll(dir); err != nil {
			log.Warn("Janitor failed to remove %s: %v", dir, err)
			continue
		}
		removed++
	}
	return removed
}

func dirHasFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

// Info reports the schedule and the last completed sweep, for the
// health endpoint.
type Info struct {
	Schedule *icron.TriggerInfo `json:"schedule,omitempty"`
	LastRun  time.Time          `json:"last_run,omitzero"`
}

func (j *Janitor) Info() Info {
	j.mu.Lock()
	lastRun := j.lastRun
	j.mu.Unlock()

	trigger, err := icron.GetTriggerInfo(j.cronExpr, time.Now())
	if err != nil {
		log.Warn("Janitor schedule info: %v", err)
	}
	return Info{Schedule: trigger, LastRun: lastRun}
}
