// Package importer runs the concurrent submission pipeline: a fixed pool
// of workers drains the dispatcher, passes the shared rate limiter,
// transforms each record into a user document and submits it, recording
// every outcome in shared Stats. Failures are isolated per record and
// never stop the pool.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vk/pingone-import/internal/csvsource"
	"github.com/vk/pingone-import/internal/ctxlog"
	"github.com/vk/pingone-import/internal/payload"
	"github.com/vk/pingone-import/internal/pingone"
	"github.com/vk/pingone-import/internal/ratelimit"
)

// progressInterval is how many processed records pass between throughput
// log lines.
const progressInterval = 10

// Submitter is the remote API surface the pool depends on.
type Submitter interface {
	CreateUser(ctx context.Context, user payload.User) error
}

// Importer owns one run of the pipeline over a single input file.
type Importer struct {
	dispatcher *csvsource.Dispatcher
	limiter    *ratelimit.Limiter
	builder    *payload.Builder
	client     Submitter
	workers    int
}

// New assembles an Importer over the shared pipeline pieces.
func New(dispatcher *csvsource.Dispatcher, limiter *ratelimit.Limiter, builder *payload.Builder, client Submitter, workers int) *Importer {
	return &Importer{
		dispatcher: dispatcher,
		limiter:    limiter,
		builder:    builder,
		client:     client,
		workers:    workers,
	}
}

// Run starts the worker pool and blocks until every worker has drained
// the dispatcher. The returned Stats are final: no goroutine touches them
// after Run returns.
func (imp *Importer) Run(ctx context.Context) *Stats {
	logger := ctxlog.FromContext(ctx)
	stats := NewStats()
	start := time.Now()

	logger.Debug("Starting worker pool.", "workers", imp.workers)
	var wg sync.WaitGroup
	wg.Add(imp.workers)
	for i := 0; i < imp.workers; i++ {
		go func(workerID int) {
			defer wg.Done()
			imp.worker(ctx, workerID, stats, start)
		}(i)
	}
	wg.Wait()
	logger.Debug("All workers finished.", "total", stats.Total())

	return stats
}

// worker is the processing loop for one pool member. It exits when the
// dispatcher is exhausted or the context is canceled.
func (imp *Importer) worker(ctx context.Context, workerID int, stats *Stats, start time.Time) {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)

	for {
		rec, ok := imp.dispatcher.Next()
		if !ok {
			logger.Debug("Dispatcher exhausted, worker exiting.")
			return
		}

		if err := imp.limiter.Acquire(ctx); err != nil {
			// Only context cancellation gets us here; stop cleanly.
			logger.Debug("Rate limiter interrupted, worker exiting.", "error", err)
			return
		}

		total := stats.BeginRecord()
		user := imp.builder.Build(rec)

		if err := imp.client.CreateUser(ctx, user); err != nil {
			stats.RecordFailure(rec.Line())
			logFailure(logger, rec.Line(), user, err)
		} else {
			stats.RecordSuccess()
		}

		if total%progressInterval == 0 {
			elapsed := time.Since(start).Seconds()
			logger.Info("Processed users.",
				"count", total,
				"perSecond", float64(total)/elapsed)
		}
	}
}

// logFailure records everything needed to diagnose one rejection: the
// line number, the document that was sent and, for API-level rejections,
// the response status and body.
func logFailure(logger *slog.Logger, line int, user payload.User, err error) {
	sent, marshalErr := json.Marshal(user)
	if marshalErr != nil {
		sent = []byte("<unencodable>")
	}

	var apiErr *pingone.APIError
	if errors.As(err, &apiErr) {
		logger.Error("Failed to import user.",
			"line", line,
			"payload", string(sent),
			"status", apiErr.StatusCode,
			"response", apiErr.Body)
		return
	}
	logger.Error("Failed to import user.",
		"line", line,
		"payload", string(sent),
		"error", err)
}
