package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/pingone-import/internal/csvsource"
	"github.com/vk/pingone-import/internal/ctxlog"
	"github.com/vk/pingone-import/internal/importer"
	"github.com/vk/pingone-import/internal/payload"
	"github.com/vk/pingone-import/internal/pingone"
	"github.com/vk/pingone-import/internal/ratelimit"
	"github.com/vk/pingone-import/internal/rejects"
)

// Run executes one import: parse the input file, drain it through the
// worker pool, report totals, and write the rejects file if any record
// failed. A non-nil error means a fatal setup problem; per-record
// submission failures never fail the run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	src, err := csvsource.Open(a.config.CSVFile)
	if err != nil {
		return fmt.Errorf("failed to read CSV file: %w", err)
	}
	defer src.Close()
	a.logger.Info("Importing users from CSV file.", "file", a.config.CSVFile)

	submitter := a.submitter
	if submitter == nil {
		submitter = pingone.New(ctx, pingone.Config{
			AuthHost:      a.config.AuthHost,
			APIHost:       a.config.APIHost,
			EnvironmentID: a.config.EnvironmentID,
			ClientID:      a.config.ClientID,
			ClientSecret:  a.config.ClientSecret,
		})
	}

	builder := payload.NewBuilder(src.Headers(), a.config.PopulationID, a.config.ForcePasswordChange)
	limiter := ratelimit.New(a.config.RatePerSecond)
	dispatcher := csvsource.NewDispatcher(src)

	imp := importer.New(dispatcher, limiter, builder, submitter, a.config.Workers)

	start := time.Now()
	stats := imp.Run(ctx)
	a.logger.Info("Import finished.",
		"success", stats.Success(),
		"errors", stats.Errors(),
		"duration", time.Since(start).Round(time.Millisecond).String())

	failed := stats.RejectedLines()
	if len(failed) > 0 {
		if err := rejects.Write(a.config.CSVFile, a.config.RejectsFile, failed); err != nil {
			// A run with a broken rejects file is still a completed run;
			// the counts above stand.
			a.logger.Warn("Failed to write rejects file.", "file", a.config.RejectsFile, "error", err)
		} else {
			a.logger.Info("Wrote rejects file.", "file", a.config.RejectsFile, "lines", len(failed))
		}
	}

	// A parse error that cut the stream short is a tool failure, even
	// though every record dispatched before it was still accounted for.
	if err := src.Err(); err != nil {
		return fmt.Errorf("failed to parse CSV file: %w", err)
	}
	return nil
}
