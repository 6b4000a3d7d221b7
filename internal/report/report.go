// Package report aggregates finished verdicts into per-rule tallies and
// a short action card for the operations team.
package report

import (
	"fmt"

	"teleapo-qc-go/internal/verdict"
)

// Insight is the per-rule view over one batch run.
type Insight struct {
	Rows        int            `json:"rows"`
	IssueCounts map[string]int `json:"issue_counts"`
	FailCounts  map[string]int `json:"fail_counts"`
}

// Build tallies issue and check-failure counts across verdicts.
func Build(verdicts []*verdict.Verdict) Insight {
	issues := map[string]int{}
	fails := map[string]int{}
	rows := 0
	for _, v := range verdicts {
		if v == nil {
			continue
		}
		rows++
		for _, rule := range verdict.RuleNames {
			switch v.Judgment(rule) {
			case verdict.Issue:
				issues[rule]++
			case verdict.Failed:
				fails[rule]++
			}
		}
	}
	return Insight{Rows: rows, IssueCounts: issues, FailCounts: fails}
}

// ActionCard is the one-glance takeaway from a run.
type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// actionThreshold: a rule flagged in at least this share of rows gets
// escalated on the card.
const actionThreshold = 0.35

// Generate picks the worst-offending rule and recommends a follow-up.
func Generate(ins Insight) ActionCard {
	worst := ""
	highest := 0.0
	if ins.Rows > 0 {
		for _, rule := range verdict.RuleNames {
			rate := float64(ins.IssueCounts[rule]) / float64(ins.Rows)
			if rate > highest {
				highest = rate
				worst = rule
			}
		}
	}
	if highest >= actionThreshold && worst != "" {
		return ActionCard{
			Insight: fmt.Sprintf("「%s」が%.0f%%の通話で検出されています", worst, highest*100),
			Action:  "該当担当者のトークスクリプトを確認し、個別フィードバックを実施してください",
			Impact:  "クレーム・通報リスクの低減",
		}
	}
	return ActionCard{
		Insight: "顕著な問題パターンは検出されていません",
		Action:  "引き続きモニタリングを継続してください",
		Impact:  "現状維持",
	}
}
