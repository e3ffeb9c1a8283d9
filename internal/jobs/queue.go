package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amanattar/tubescribe/pkg/log"
)

// Executor runs the full pipeline for one job. It reports stage
// transitions through report and returns the artifacts on success.
type Executor func(ctx context.Context, job *Job, report ProgressFunc) (*Result, error)

// ProgressFunc advances the job to the given stage with a
// human-readable progress message.
type ProgressFunc func(status Status, message string)

// Queue owns the in-memory job table. Only queue workers mutate job
// state; readers get cloned snapshots. Duplicate submissions for the
// same URL are independent jobs.
type Queue struct {
	workerCount int
	maxJobs     int

	mu         sync.RWMutex
	jobs       map[string]*Job
	started    bool
	pendingIDs chan string
	stopCh     chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

func NewQueue(workerCount int) *Queue {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &Queue{
		workerCount: workerCount,
		maxJobs:     1000,
		jobs:        make(map[string]*Job),
		pendingIDs:  make(chan string, 1024),
		stopCh:      make(chan struct{}),
	}
}

func (q *Queue) Enqueue(req SubmitRequest) *Job {
	now := time.Now()

	job := &Job{
		ID:        uuid.NewString(),
		Channel:   req.Channel,
		URL:       req.URL,
		Status:    StatusQueued,
		Message:   "Waiting to start",
		CreatedAt: now,
		UpdatedAt: now,
	}

	q.mu.Lock()
	q.jobs[job.ID] = job
	started := q.started
	snapshot := cloneJob(job)
	q.mu.Unlock()

	if started {
		q.enqueuePendingID(job.ID)
	}
	return snapshot
}

func (q *Queue) Get(id string) (*Job, bool) {
	q.mu.RLock()
	job, ok := q.jobs[id]
	q.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return cloneJob(job), true
}

func (q *Queue) List() []*Job {
	q.mu.RLock()
	defer q.mu.RUnlock()

	ret := make([]*Job, 0, len(q.jobs))
	for _, job := range q.jobs {
		ret = append(ret, cloneJob(job))
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].CreatedAt.Before(ret[j].CreatedAt)
	})
	return ret
}

func (q *Queue) Start(exec Executor) {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return
	}
	q.started = true

	pending := make([]string, 0)
	for id, job := range q.jobs {
		if job.Status == StatusQueued {
			pending = append(pending, id)
		}
	}
	q.mu.Unlock()

	for _, id := range pending {
		q.enqueuePendingID(id)
	}

	for range q.workerCount {
		q.wg.Add(1)
		go q.worker(exec)
	}
}

func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		close(q.stopCh)
		q.wg.Wait()
	})
}

func (q *Queue) worker(exec Executor) {
	defer q.wg.Done()

	for {
		select {
		case <-q.stopCh:
			return
		case id := <-q.pendingIDs:
			job, ok := q.Get(id)
			if !ok || job.Status != StatusQueued {
				continue
			}

			report := func(status Status, message string) {
				if err := q.SetStage(id, status, message); err != nil {
					log.Warn("Job %s: %v", id, err)
				}
			}

			result, err := exec(context.Background(), job, report)
			if err != nil {
				q.markFailed(id, err)
				continue
			}
			q.markDone(id, result)
		}
	}
}

func (q *Queue) enqueuePendingID(id string) {
	select {
	case q.pendingIDs <- id:
	default:
		// Channel full; hand off without blocking the caller. The
		// goroutine must not outlive the queue, nothing drains the
		// channel after Stop.
		go func() {
			select {
			case q.pendingIDs <- id:
			case <-q.stopCh:
			}
		}()
	}
}

// SetStage advances a job to the given stage. Transitions never move
// backwards and terminal jobs never change.
func (q *Queue) SetStage(id string, status Status, message string) error {
	if stageRank(status) < 0 {
		return fmt.Errorf("unknown status %q", status)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return fmt.Errorf("unknown job %s", id)
	}
	if job.Status.Terminal() {
		return fmt.Errorf("job already %s", job.Status)
	}
	if stageRank(status) < stageRank(job.Status) {
		return fmt.Errorf("refusing transition %s -> %s", job.Status, status)
	}

	job.Status = status
	job.Message = message
	job.UpdatedAt = time.Now()
	return nil
}

// SetVideoTitle records the display title once the downloader knows it.
func (q *Queue) SetVideoTitle(id, title string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.VideoTitle = title
	job.UpdatedAt = time.Now()
}

// SetLanguage records the language detected in the transcript.
func (q *Queue) SetLanguage(id, lang string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Language = lang
	job.UpdatedAt = time.Now()
}

func (q *Queue) markDone(id string, result *Result) {
	q.mu.Lock()
	job, ok := q.jobs[id]
	if !ok || job.Status.Terminal() {
		q.mu.Unlock()
		return
	}
	job.Status = StatusDone
	job.Message = "Completed"
	job.Error = ""
	job.Result = result
	job.UpdatedAt = time.Now()
	q.pruneTerminalJobsLocked()
	q.mu.Unlock()
}

func (q *Queue) markFailed(id string, err error) {
	q.mu.Lock()
	job, ok := q.jobs[id]
	if !ok || job.Status.Terminal() {
		q.mu.Unlock()
		return
	}
	job.Status = StatusFailed
	job.Message = "Failed"
	if err != nil {
		job.Error = err.Error()
	}
	// Partial artifacts are never exposed.
	job.Result = nil
	job.UpdatedAt = time.Now()
	q.pruneTerminalJobsLocked()
	q.mu.Unlock()
}

// PruneTerminalBefore drops done/failed jobs last updated before
// cutoff. Used by the janitor; returns the number removed.
func (q *Queue) PruneTerminalBefore(cutoff time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	removed := 0
	for id, job := range q.jobs {
		if job.Status.Terminal() && job.UpdatedAt.Before(cutoff) {
			delete(q.jobs, id)
			removed++
		}
	}
	return removed
}

func (q *Queue) pruneTerminalJobsLocked() {
	if q.maxJobs <= 0 || len(q.jobs) <= q.maxJobs {
		return
	}

	type candidate struct {
		id        string
		updatedAt time.Time
	}
	terminal := make([]candidate, 0, len(q.jobs))
	for id, job := range q.jobs {
		if job == nil || !job.Status.Terminal() {
			continue
		}
		terminal = append(terminal, candidate{id: id, updatedAt: job.UpdatedAt})
	}
	if len(terminal) == 0 {
		return
	}

	sort.Slice(terminal, func(i, j int) bool {
		return terminal[i].updatedAt.Before(terminal[j].updatedAt)
	})

	toRemove := len(q.jobs) - q.maxJobs
	if toRemove > len(terminal) {
		toRemove = len(terminal)
	}
	for i := 0; i < toRemove; i++ {
		delete(q.jobs, terminal[i].id)
	}
}

func cloneJob(job *Job) *Job {
	if job == nil {
		return nil
	}
	tmp := *job
	if job.Result != nil {
		res := *job.Result
		tmp.Result = &res
	}
	return &tmp
}
