package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"teleapo-qc-go/internal/config"
	"teleapo-qc-go/internal/logger"
	"teleapo-qc-go/internal/sheets"
	"teleapo-qc-go/internal/speaker"
	"teleapo-qc-go/internal/transcription"
)

var transcribeFlags struct {
	file      string
	agentOnly bool
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Diarize an audio file and append the transcript as a pending row",
	RunE:  runTranscribe,
}

func init() {
	f := transcribeCmd.Flags()
	f.StringVarP(&transcribeFlags.file, "file", "f", "", "Audio file (required)")
	f.BoolVar(&transcribeFlags.agentOnly, "agent-only", false, "Print only the detected agent's lines, skip the workbook")
	_ = transcribeCmd.MarkFlagRequired("file")
}

func runTranscribe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	out := cmd.OutOrStdout()

	audio, err := os.ReadFile(transcribeFlags.file)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}
	info := cfg.FileSizeInfo(int64(len(audio)))
	if info.IsVeryLarge {
		fmt.Fprintf(out, "警告: %.0fMBの大容量ファイルです。処理に時間がかかります。\n", info.SizeMB)
	} else if info.IsLarge {
		fmt.Fprintf(out, "注意: 推奨サイズ(%dMB)を超えています。\n", cfg.RecommendedFileSizeMB)
	}

	filename := filepath.Base(transcribeFlags.file)
	tr, err := transcription.New(cfg).Transcribe(cmd.Context(), audio, filename)
	if err != nil {
		return err
	}

	rules, err := loadDetectionRules(cfg)
	if err != nil {
		return err
	}
	det := speaker.NewDetector(rules)
	agent := det.Detect(tr)
	for sp, s := range det.Summary(tr) {
		logger.Component("speaker").WithFields(logrus.Fields{
			"speaker":    sp,
			"words":      s.TotalWords,
			"score":      s.Score,
			"categories": s.Categories,
		}).Debug("detection evidence")
	}

	if transcribeFlags.agentOnly {
		for _, line := range speaker.AgentLines(tr, agent) {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	formatted := speaker.FormatConversation(tr, agent, info.SizeMB)
	store := sheets.NewStore(cfg.WorkbookPath, cfg.SheetName)
	if err := store.Init(); err != nil {
		return err
	}
	row, err := store.AppendTranscript(formatted, filename)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "担当者: %s (行 %d に追加)\n", agent, row)
	return nil
}
