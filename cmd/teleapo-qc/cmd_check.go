package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teleapo-qc-go/internal/config"
	"teleapo-qc-go/internal/gateway"
	"teleapo-qc-go/internal/workflow"
)

var checkFlags struct {
	file     string
	checkers []string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the quality-check chain over one transcript file",
	RunE:  runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringVarP(&checkFlags.file, "file", "f", "", "Transcript text file (required)")
	f.StringSliceVar(&checkFlags.checkers, "checkers", nil, "Known agent surnames (default CHECKER_NAMES)")
	_ = checkCmd.MarkFlagRequired("file")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	checkers := resolveCheckers(cfg, checkFlags.checkers)
	if len(checkers) == 0 {
		return fmt.Errorf("no checker names configured (set CHECKER_NAMES or --checkers)")
	}

	data, err := os.ReadFile(checkFlags.file)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	runner := workflow.New(gateway.New(cfg, gateway.DefaultPolicy))
	v, err := runner.Run(cmd.Context(), string(data), checkers)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
