package main

import (
	"context"
	"log/slog"

	"github.com/nao1215/wikicat/internal/crawler"
	"github.com/nao1215/wikicat/internal/database"
	"github.com/nao1215/wikicat/internal/model"
)

// historyRecorder persists a run and its visited pages.
type historyRecorder struct {
	db     *database.HistoryDB
	runID  int64
	logger *slog.Logger
}

func newHistoryRecorder(ctx context.Context, db *database.HistoryDB, job model.Job, logger *slog.Logger) (*historyRecorder, error) {
	id, err := db.StartRun(ctx, &model.Run{
		StartURL:   job.StartURL,
		OutputPath: job.OutputPath,
		Limit:      job.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &historyRecorder{db: db, runID: id, logger: logger}, nil
}

// observe records one visited page. It logs when a listing page changed
// since the previous run.
func (r *historyRecorder) observe(ctx context.Context, event crawler.PageEvent) {
	visit := &model.Visit{
		RunID:      r.runID,
		Seq:        event.Seq,
		URL:        event.Page.URL,
		StatusCode: event.Page.StatusCode,
		Hash:       event.Page.Hash,
		Records:    event.Written,
		NextURL:    event.NextURL,
		FetchedAt:  event.Page.FetchedAt,
	}

	if prev, err := r.db.PreviousHash(ctx, visit.URL, r.runID); err == nil && prev != "" && prev != visit.Hash {
		r.logger.Info("listing page changed since last run", "url", visit.URL)
	}

	if err := r.db.AddVisit(ctx, visit); err != nil {
		r.logger.Warn("failed to record visited page", "url", visit.URL, "error", err)
	}
}

func (r *historyRecorder) finish(ctx context.Context, summary model.Summary, runErr error) {
	if err := r.db.FinishRun(ctx, r.runID, summary, runErr); err != nil {
		r.logger.Warn("failed to record run result", "run_id", r.runID, "error", err)
	}
}

func (r *historyRecorder) close() {
	if err := r.db.Close(); err != nil {
		r.logger.Warn("failed to close history database", "error", err)
	}
}
