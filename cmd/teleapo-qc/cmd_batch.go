package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"teleapo-qc-go/internal/batch"
	"teleapo-qc-go/internal/config"
	"teleapo-qc-go/internal/gateway"
	"teleapo-qc-go/internal/report"
	"teleapo-qc-go/internal/sheets"
	"teleapo-qc-go/internal/verdict"
	"teleapo-qc-go/internal/workflow"
)

var batchFlags struct {
	batchSize  int
	maxRows    int
	workers    int
	flushDelay time.Duration
	checkers   []string
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Check every pending workbook row and write the verdicts back",
	RunE:  runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.IntVar(&batchFlags.batchSize, "batch-size", 0, "Rows per flush (default BATCH_SIZE)")
	f.IntVar(&batchFlags.maxRows, "max-rows", 0, "Row cap for one run (default MAX_ROWS)")
	f.IntVar(&batchFlags.workers, "workers", 0, "Parallel rows inside one flush chunk (default WORKERS)")
	f.DurationVar(&batchFlags.flushDelay, "flush-delay", time.Second, "Pause after each flush")
	f.StringSliceVar(&batchFlags.checkers, "checkers", nil, "Known agent surnames (default CHECKER_NAMES)")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	checkers := resolveCheckers(cfg, batchFlags.checkers)
	if len(checkers) == 0 {
		return fmt.Errorf("no checker names configured (set CHECKER_NAMES or --checkers)")
	}

	store := sheets.NewStore(cfg.WorkbookPath, cfg.SheetName)
	if err := store.Init(); err != nil {
		return err
	}

	runner := batch.New(store, workflow.New(gateway.New(cfg, gateway.DefaultPolicy)), batch.Options{
		BatchSize:  pickInt(batchFlags.batchSize, cfg.BatchSize),
		MaxRows:    pickInt(batchFlags.maxRows, cfg.MaxRows),
		Workers:    pickInt(batchFlags.workers, cfg.Workers),
		FlushDelay: batchFlags.flushDelay,
	})
	rep, err := runner.Run(cmd.Context(), checkers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rows:      %d\n", rep.Total)
	fmt.Fprintf(out, "Succeeded: %d\n", rep.Succeeded)
	fmt.Fprintf(out, "Failed:    %d\n", rep.Failed)
	fmt.Fprintf(out, "Flushes:   %d\n", rep.Flushes)
	if rep.LostRows > 0 {
		fmt.Fprintf(out, "Unconfirmed: %d rows (flush failed, rows stay pending)\n", rep.LostRows)
	}
	fmt.Fprintf(out, "Outcome:   %s\n", rep.Outcome())

	var verdicts []*verdict.Verdict
	for _, res := range rep.Results {
		verdicts = append(verdicts, res.Verdict)
	}
	card := report.Generate(report.Build(verdicts))
	fmt.Fprintf(out, "\n所見: %s\n対応: %s\n効果: %s\n", card.Insight, card.Action, card.Impact)
	return nil
}
