// Package sheets is the tabular storage backend: an xlsx workbook whose
// fixed columns are A transcript, B filename, C timestamp, D agent name,
// E summary, then one column per compliance rule.
package sheets

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"teleapo-qc-go/internal/logger"
	"teleapo-qc-go/internal/types"
	"teleapo-qc-go/internal/verdict"
)

const (
	colTranscript = 1
	colFilename   = 2
	colTimestamp  = 3
	colAgentName  = 4
	colSummary    = 5
	ruleColBase   = 6 // first rule column; rules follow verdict.RuleNames order
)

// ruleColumns maps each rule name to its 1-based worksheet column.
var ruleColumns = func() map[string]int {
	m := make(map[string]int, len(verdict.RuleNames))
	for i, r := range verdict.RuleNames {
		m[r] = ruleColBase + i
	}
	return m
}()

// RowResult pairs a worksheet row with its finished verdict.
type RowResult struct {
	Index   int
	Verdict *verdict.Verdict
}

type Store struct {
	path  string
	sheet string
	log   *logrus.Entry
}

func NewStore(path, sheet string) *Store {
	return &Store{path: path, sheet: sheet, log: logger.Component("sheets").WithField("workbook", path)}
}

// Header returns the fixed column titles in order, for bootstrapping a
// fresh workbook.
func Header() []string {
	h := []string{"会話記録", "ファイル名", "処理日時", verdict.AgentNameKey, verdict.SummaryKey}
	return append(h, verdict.RuleNames...)
}

// Init creates the workbook with the header row when it does not exist.
func (s *Store) Init() error {
	if existing, err := excelize.OpenFile(s.path); err == nil {
		existing.Close()
		return nil
	}
	f := excelize.NewFile()
	defer f.Close()
	idx, err := f.NewSheet(s.sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	for i, title := range Header() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(s.sheet, cell, title); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	s.log.Info("workbook created")
	return nil
}

// TargetRows scans for rows pending a quality check: the transcript
// column is non-empty and the agent-name column is still empty. Row
// order is preserved; at most maxRows rows are returned. Re-running
// over a fully processed sheet selects nothing.
func (s *Store) TargetRows(maxRows int) ([]types.BatchRow, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	var out []types.BatchRow
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		transcript := cellAt(row, colTranscript)
		if transcript == "" {
			continue
		}
		if cellAt(row, colAgentName) != "" {
			continue // already checked
		}
		filename := cellAt(row, colFilename)
		if filename == "" {
			filename = fmt.Sprintf("行 %d", i+1)
		}
		out = append(out, types.BatchRow{Index: i + 1, Transcript: transcript, Filename: filename})
		if maxRows > 0 && len(out) >= maxRows {
			break
		}
	}
	s.log.WithField("pending", len(out)).Info("scanned for pending rows")
	return out, nil
}

// WriteResults writes one batch of verdicts back to their rows and
// saves the workbook. The store is the only writer; callers serialize
// access.
func (s *Store) WriteResults(results []RowResult) error {
	if len(results) == 0 {
		return nil
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, res := range results {
		if res.Verdict == nil {
			continue
		}
		if err := s.setCell(f, res.Index, colAgentName, res.Verdict.AgentName); err != nil {
			return err
		}
		if err := s.setCell(f, res.Index, colSummary, res.Verdict.Summary); err != nil {
			return err
		}
		for rule, col := range ruleColumns {
			if err := s.setCell(f, res.Index, col, string(res.Verdict.Judgment(rule))); err != nil {
				return err
			}
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	s.log.WithField("rows", len(results)).Info("results flushed to workbook")
	return nil
}

// AppendTranscript adds a freshly transcribed conversation as a new
// pending row with the filename and processing timestamp.
func (s *Store) AppendTranscript(transcript, filename string) (int, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return 0, fmt.Errorf("read rows: %w", err)
	}
	next := len(rows) + 1

	now := time.Now().Format("2006-01-02 15:04:05")
	for col, val := range map[int]string{
		colTranscript: transcript,
		colFilename:   filename,
		colTimestamp:  now,
	} {
		if err := s.setCell(f, next, col, val); err != nil {
			return 0, err
		}
	}
	if err := f.Save(); err != nil {
		return 0, fmt.Errorf("save workbook: %w", err)
	}
	s.log.WithFields(logrus.Fields{"row": next, "filename": filename}).Info("transcript appended")
	return next, nil
}

func (s *Store) setCell(f *excelize.File, row, col int, val string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(s.sheet, cell, val); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}

func cellAt(row []string, col int) string {
	if col-1 < len(row) {
		return strings.TrimSpace(row[col-1])
	}
	return ""
}
