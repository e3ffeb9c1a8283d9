package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/amanattar/tubescribe/internal/config"
	"github.com/amanattar/tubescribe/internal/describe"
	"github.com/amanattar/tubescribe/internal/download"
	"github.com/amanattar/tubescribe/internal/httpapi"
	"github.com/amanattar/tubescribe/internal/janitor"
	"github.com/amanattar/tubescribe/internal/jobs"
	"github.com/amanattar/tubescribe/internal/llm"
	"github.com/amanattar/tubescribe/internal/pipeline"
	"github.com/amanattar/tubescribe/internal/speech"
	"github.com/amanattar/tubescribe/pkg/log"
)

const shutdownTimeout = 10 * time.Second

type scheduler interface {
	Schedule() error
}

type cronEngine interface {
	Start()
	Stop() context.Context
}

type httpServer interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

func main() {
	// Missing .env is fine, the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.InitLogger(log.ParseLevel(cfg.LogLevel))

	speechClient, err := speech.NewClient(&speech.Config{
		APIKey:  cfg.Speech.APIKey,
		APIURL:  cfg.Speech.APIURL,
		Model:   cfg.Speech.Model,
		Timeout: cfg.Speech.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to build speech client: %v", err)
	}

	llmClient, err := llm.NewClient(&llm.Config{
		APIKey:      cfg.LLM.APIKey,
		APIURL:      cfg.LLM.APIURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to build LLM client: %v", err)
	}

	queue := jobs.NewQueue(cfg.Worker.WorkerCount)
	fetcher := download.NewFetcher(cfg.Worker.WorkDir)
	generator := describe.NewGenerator(llmClient)
	pipe := pipeline.New(fetcher, speechClient, generator, queue)
	queue.Start(pipe.Executor())
	defer queue.Stop()

	cronRunner := cron.New()
	sweeper := janitor.New(
		queue,
		cfg.Worker.WorkDir,
		time.Duration(cfg.Worker.ArtifactTTLHours)*time.Hour,
		cfg.Worker.CleanupCron,
		cronRunner,
	)

	server := httpapi.NewServer(queue,
		httpapi.WithUI(cfg.HTTP.UIDir, cfg.HTTP.UIDir != ""),
		httpapi.WithCleanupReporter(sweeper),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runWithComponents(ctx, cfg, sweeper, cronRunner, server); err != nil {
		log.Fatal("Server exited: %v", err)
	}
}

// runWithComponents wires the janitor schedule, the cron engine and the
// HTTP server together and blocks until ctx is cancelled or the server
// fails.
func runWithComponents(ctx context.Context, cfg *config.Config, sweeper scheduler, cronRunner cronEngine, server httpServer) error {
	if err := sweeper.Schedule(); err != nil {
		return err
	}
	cronRunner.Start()
	defer func() {
		<-cronRunner.Stop().Done()
	}()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(cfg.HTTP.Addr()); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
