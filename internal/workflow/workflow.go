// Package workflow runs the fixed quality-check chain over one
// transcript: name normalization, speaker labeling, the five rule
// checks, concatenation, and structured extraction.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"teleapo-qc-go/internal/logger"
	"teleapo-qc-go/internal/prompts"
	"teleapo-qc-go/internal/verdict"
)

// Gateway is the chat-completion dependency; tests substitute a fake.
type Gateway interface {
	Chat(ctx context.Context, systemPrompt, userContent string, temperature float64) (string, error)
}

// longCallThreshold: ring markers at or above this count are an issue.
const longCallThreshold = 7

// stepFailedBlock replaces a rule-check step's contribution when the
// gateway gives up, so the chain still reaches the structured step.
func stepFailedBlock(label string) string {
	return fmt.Sprintf("▪️%s\n判定 : 確認失敗\n報告 : チェックを実行できませんでした", label)
}

type Runner struct {
	gw  Gateway
	log *logrus.Entry
}

func New(gw Gateway) *Runner {
	return &Runner{gw: gw, log: logger.Component("workflow")}
}

// Run executes the full chain and always returns a complete verdict on
// success. An error is returned only for row-fatal failures (name
// normalization or speaker labeling produced nothing); individual rule
// checks degrade to a placeholder instead of aborting.
func (r *Runner) Run(ctx context.Context, rawTranscript string, checkers []string) (*verdict.Verdict, error) {
	start := time.Now()

	normalized, err := r.chatStep(ctx, prompts.StepNormalizeNames, checkers, rawTranscript, 0)
	if err != nil || strings.TrimSpace(normalized) == "" {
		return nil, fmt.Errorf("name normalization failed: %w", orEmpty(err))
	}

	labeled, err := r.chatStep(ctx, prompts.StepLabelSpeakers, nil, normalized, 0)
	if err != nil || strings.TrimSpace(labeled) == "" {
		return nil, fmt.Errorf("speaker labeling failed: %w", orEmpty(err))
	}

	// rule-check steps, each independent of the others
	blocks := []string{
		r.checkStep(ctx, prompts.StepCheckCompanyName, checkers, labeled, "社名や担当者名を名乗らない"),
		r.checkStep(ctx, prompts.StepCheckConduct, nil, labeled, "テレアポ担当者の行動"),
		r.longCallBlock(labeled),
		r.checkStep(ctx, prompts.StepCheckCustomerReaction, nil, labeled, "お客様の反応"),
		r.checkStep(ctx, prompts.StepCheckManners, nil, labeled, "言葉遣い・マナー"),
	}

	concatenated := concat(blocks)

	v := r.toStructured(ctx, concatenated)

	// the long-call judgment is counted locally; pin it so a sloppy
	// structured reply cannot flip the deterministic result
	ringCount := strings.Count(labeled, verdict.LongCallMarker)
	_ = v.Set(verdict.RuleLongCall, longCallJudgment(ringCount))

	r.log.WithFields(logrus.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
		"issues":      len(v.Issues()),
	}).Info("quality check finished")
	return v, nil
}

// chatStep builds the step prompt and sends it through the gateway.
func (r *Runner) chatStep(ctx context.Context, step prompts.Step, checkers []string, content string, temperature float64) (string, error) {
	prompt, err := prompts.Build(step, checkers)
	if err != nil {
		return "", err
	}
	reply, err := r.gw.Chat(ctx, prompt, content, temperature)
	if err != nil {
		return "", fmt.Errorf("step %s: %w", step, err)
	}
	return reply, nil
}

// checkStep is chatStep with the degradation policy of rule checks: a
// failure becomes a placeholder block instead of an error.
func (r *Runner) checkStep(ctx context.Context, step prompts.Step, checkers []string, labeled, label string) string {
	reply, err := r.chatStep(ctx, step, checkers, labeled, 0)
	if err != nil || strings.TrimSpace(reply) == "" {
		r.log.WithError(err).WithField("step", step.String()).Warn("rule check degraded to placeholder")
		return stepFailedBlock(label)
	}
	return reply
}

// longCallBlock judges the long-call rule locally: the rule is a pure
// marker count against a fixed threshold, so no model call is needed.
func (r *Runner) longCallBlock(labeled string) string {
	count := strings.Count(labeled, verdict.LongCallMarker)
	j := longCallJudgment(count)
	report := "なし"
	if j == verdict.Issue {
		report = fmt.Sprintf("「%s」が%d回記録されています（%d回以上でロングコール）", verdict.LongCallMarker, count, longCallThreshold)
	}
	return fmt.Sprintf("▪️%s\n判定 : %s\n報告 : %s", verdict.RuleLongCall, j, report)
}

func longCallJudgment(count int) verdict.Judgment {
	if count >= longCallThreshold {
		return verdict.Issue
	}
	return verdict.NoIssue
}

// concat joins non-empty step outputs with a blank-line separator,
// preserving step order.
func concat(blocks []string) string {
	var kept []string
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}

// toStructured asks the gateway to restate the concatenated judgments
// as a JSON object; on failure or a malformed reply it falls back to
// the local extractor so the row still gets a complete verdict.
func (r *Runner) toStructured(ctx context.Context, concatenated string) *verdict.Verdict {
	reply, err := r.chatStep(ctx, prompts.StepToStructured, nil, concatenated, 0)
	if err == nil {
		if v, ok := verdict.FromJSON(reply); ok {
			return v
		}
		r.log.Warn("structured reply held no parseable JSON, using fallback extractor")
	} else {
		r.log.WithError(err).Warn("structured extraction failed, using fallback extractor")
	}
	return verdict.FromReport(concatenated)
}

func orEmpty(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("empty output")
}
