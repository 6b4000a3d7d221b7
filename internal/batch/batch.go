// Package batch drives the quality-check workflow over the pending
// worksheet rows, flushing verdicts back in bounded-size batches.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"teleapo-qc-go/internal/logger"
	"teleapo-qc-go/internal/sheets"
	"teleapo-qc-go/internal/types"
	"teleapo-qc-go/internal/verdict"
)

// Store is the worksheet dependency; tests substitute a fake.
type Store interface {
	TargetRows(maxRows int) ([]types.BatchRow, error)
	WriteResults(results []sheets.RowResult) error
}

// Checker runs the quality-check workflow for one transcript.
type Checker interface {
	Run(ctx context.Context, rawTranscript string, checkers []string) (*verdict.Verdict, error)
}

// Options bounds one batch run. Workers > 1 parallelizes the rows
// inside each flush chunk; flushes themselves stay single-writer.
type Options struct {
	BatchSize  int
	MaxRows    int
	Workers    int
	FlushDelay time.Duration // storage rate-limit pause after each flush
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 5
	}
	if o.MaxRows <= 0 {
		o.MaxRows = 50
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.FlushDelay < 0 {
		o.FlushDelay = 0
	}
	return o
}

// Report summarizes one batch run.
type Report struct {
	Total     int
	Processed int
	Succeeded int
	Failed    int
	Flushes   int
	LostRows  int // rows whose flush could not be confirmed persisted
	Results   []sheets.RowResult
}

func (r Report) SuccessRate() float64 {
	if r.Processed == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(r.Processed)
}

// Outcome distinguishes the empty, all-failed, partial, and clean runs.
func (r Report) Outcome() string {
	switch {
	case r.Total == 0:
		return "no pending rows"
	case r.Succeeded == 0:
		return "no rows succeeded"
	case r.Failed > 0:
		return fmt.Sprintf("partial success (%d/%d)", r.Succeeded, r.Processed)
	default:
		return "all rows succeeded"
	}
}

type Runner struct {
	store   Store
	checker Checker
	opts    Options
	log     *logrus.Entry
}

func New(store Store, checker Checker, opts Options) *Runner {
	return &Runner{
		store:   store,
		checker: checker,
		opts:    opts.withDefaults(),
		log:     logger.Component("batch"),
	}
}

// Run pulls the pending rows and processes them chunk by chunk. One
// row's failure never stops the run: a fully failed verdict is
// substituted so the row's status columns are still populated and the
// row is not re-selected forever. Cancellation is honored between
// chunks and between rows.
func (r *Runner) Run(ctx context.Context, checkers []string) (Report, error) {
	opts := r.opts
	rows, err := r.store.TargetRows(opts.MaxRows)
	if err != nil {
		return Report{}, fmt.Errorf("scan pending rows: %w", err)
	}
	report := Report{Total: len(rows)}
	if len(rows) == 0 {
		r.log.Info("no pending rows")
		return report, nil
	}
	r.log.WithFields(logrus.Fields{
		"rows":       len(rows),
		"batch_size": opts.BatchSize,
		"workers":    opts.Workers,
	}).Info("batch run starting")

	for start := 0; start < len(rows); start += opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		end := start + opts.BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		results := r.processChunk(ctx, chunk, checkers, &report)
		report.Results = append(report.Results, results...)
		if len(results) == 0 {
			continue
		}

		if err := r.flush(results); err != nil {
			r.log.WithError(err).Error("flush not confirmed, continuing with next chunk")
			report.LostRows += len(results)
		} else {
			report.Flushes++
		}
		// storage backend rate limit
		if opts.FlushDelay > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(opts.FlushDelay):
			}
		}

		r.log.WithFields(logrus.Fields{
			"processed":    report.Processed,
			"succeeded":    report.Succeeded,
			"total":        report.Total,
			"success_rate": fmt.Sprintf("%.1f%%", report.SuccessRate()*100),
		}).Info("progress")
	}

	r.log.WithField("outcome", report.Outcome()).Info("batch run finished")
	return report, nil
}

// processChunk runs the workflow for each row of one chunk. Result
// order matches row order so correlation survives parallel workers.
func (r *Runner) processChunk(ctx context.Context, chunk []types.BatchRow, checkers []string, report *Report) []sheets.RowResult {
	if r.opts.Workers <= 1 {
		var results []sheets.RowResult
		for _, row := range chunk {
			if ctx.Err() != nil {
				break // abandon un-started rows on cancellation
			}
			results = append(results, r.processRow(ctx, row, checkers, report))
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	results := make([]sheets.RowResult, len(chunk))
	oks := make([]bool, len(chunk))
	for i, row := range chunk {
		i, row := i, row
		g.Go(func() error {
			v, err := r.checker.Run(ctx, row.Transcript, checkers)
			if err != nil {
				r.log.WithError(err).WithField("row", row.Index).Warn("row failed")
				results[i] = sheets.RowResult{Index: row.Index, Verdict: failedVerdict()}
				return nil
			}
			fillAgentPlaceholder(v)
			results[i] = sheets.RowResult{Index: row.Index, Verdict: v}
			oks[i] = true
			return nil
		})
	}
	_ = g.Wait()
	for i := range chunk {
		report.Processed++
		if oks[i] {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	return results
}

func (r *Runner) processRow(ctx context.Context, row types.BatchRow, checkers []string, report *Report) sheets.RowResult {
	log := r.log.WithFields(logrus.Fields{"row": row.Index, "filename": row.Filename})
	log.Info("processing row")
	report.Processed++

	v, err := r.checker.Run(ctx, row.Transcript, checkers)
	if err != nil {
		log.WithError(err).Warn("row failed, substituting failed verdict")
		report.Failed++
		return sheets.RowResult{Index: row.Index, Verdict: failedVerdict()}
	}
	fillAgentPlaceholder(v)
	report.Succeeded++
	return sheets.RowResult{Index: row.Index, Verdict: v}
}

// flush writes one chunk, retrying once: the storage write is the
// weakest point of the design, and a single retry covers most rate
// limit blips without stalling the run.
func (r *Runner) flush(results []sheets.RowResult) error {
	if err := r.store.WriteResults(results); err == nil {
		return nil
	} else {
		r.log.WithError(err).Warn("flush failed, retrying once")
	}
	time.Sleep(r.opts.FlushDelay)
	return r.store.WriteResults(results)
}

// failedVerdict is the row-fatal substitute: every rule carries the
// failed sentinel, and the agent column gets a placeholder so the row
// is not re-selected on the next run.
func failedVerdict() *verdict.Verdict {
	v := verdict.New()
	v.AgentName = "処理エラー"
	v.Summary = "ワークフロー実行エラー"
	return v
}

// fillAgentPlaceholder keeps the eligibility column non-empty even
// when the agent name could not be determined.
func fillAgentPlaceholder(v *verdict.Verdict) {
	if v.AgentName == "" {
		v.AgentName = "不明"
	}
}
