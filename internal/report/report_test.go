package report

import (
	"strings"
	"testing"

	"teleapo-qc-go/internal/verdict"
)

func cleanVerdict(t *testing.T) *verdict.Verdict {
	t.Helper()
	v := verdict.New()
	v.AgentName = "田中"
	for _, rule := range verdict.RuleNames {
		if err := v.Set(rule, verdict.NoIssue); err != nil {
			t.Fatal(err)
		}
	}
	return v
}

func TestBuildTalliesIssuesAndFailures(t *testing.T) {
	flagged := cleanVerdict(t)
	if err := flagged.Set(verdict.RuleLongCall, verdict.Issue); err != nil {
		t.Fatal(err)
	}
	verdicts := []*verdict.Verdict{cleanVerdict(t), flagged, verdict.New(), nil}

	ins := Build(verdicts)
	if ins.Rows != 3 {
		t.Errorf("rows = %d, want 3 (nil skipped)", ins.Rows)
	}
	if ins.IssueCounts[verdict.RuleLongCall] != 1 {
		t.Errorf("long call issues = %d, want 1", ins.IssueCounts[verdict.RuleLongCall])
	}
	// the untouched verdict carries the failed sentinel on every rule
	if ins.FailCounts[verdict.RuleLongCall] != 1 {
		t.Errorf("long call failures = %d, want 1", ins.FailCounts[verdict.RuleLongCall])
	}
}

func TestGenerateEscalatesDominantRule(t *testing.T) {
	var verdicts []*verdict.Verdict
	for i := 0; i < 2; i++ {
		v := cleanVerdict(t)
		if err := v.Set(verdict.RuleLongCall, verdict.Issue); err != nil {
			t.Fatal(err)
		}
		verdicts = append(verdicts, v)
	}
	verdicts = append(verdicts, cleanVerdict(t))

	card := Generate(Build(verdicts))
	if !strings.Contains(card.Insight, verdict.RuleLongCall) {
		t.Errorf("insight = %q, want the dominant rule named", card.Insight)
	}
	if !strings.Contains(card.Insight, "67%") {
		t.Errorf("insight = %q, want the detection rate", card.Insight)
	}
	if card.Action == "" || card.Impact == "" {
		t.Errorf("card incomplete: %+v", card)
	}
}

func TestGenerateQuietWhenBelowThreshold(t *testing.T) {
	flagged := cleanVerdict(t)
	if err := flagged.Set(verdict.RuleLongCall, verdict.Issue); err != nil {
		t.Fatal(err)
	}
	verdicts := []*verdict.Verdict{flagged, cleanVerdict(t), cleanVerdict(t), cleanVerdict(t)}

	card := Generate(Build(verdicts))
	if strings.Contains(card.Insight, verdict.RuleLongCall) {
		t.Errorf("insight = %q, 25%% should stay below the escalation threshold", card.Insight)
	}
}

func TestGenerateEmptyRun(t *testing.T) {
	card := Generate(Build(nil))
	if card.Insight == "" {
		t.Error("empty run still needs a card")
	}
}
