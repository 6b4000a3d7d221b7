// Package verdict defines the fixed-schema quality-check result and the
// extraction paths that build one from model output.
package verdict

import (
	"encoding/json"
	"fmt"
)

// Judgment is the per-rule outcome written to the worksheet.
type Judgment string

const (
	NoIssue Judgment = "問題なし"
	Issue   Judgment = "問題あり"
	Failed  Judgment = "確認失敗"
)

// Worksheet keys that are not rule columns.
const (
	AgentNameKey = "テレアポ担当者名"
	SummaryKey   = "報告まとめ"
)

// LongCallMarker is the ring notation counted for the long-call rule.
const LongCallMarker = "電話が鳴る"

// RuleLongCall is referenced directly by the workflow.
const RuleLongCall = "ロングコール"

// RuleNames is the closed set of compliance rules, in worksheet column
// order. The result always carries exactly these keys.
var RuleNames = []string{
	"社名や担当者名を名乗らない",
	"アプローチで販売店名、ソフト名の先出し",
	"同業他社の悪口等",
	"運転中や電車内でも無理やり続ける",
	"2回断られても食い下がる",
	"暴言・悪口・脅迫・逆上",
	"情報漏洩",
	"共犯（教唆・幇助）",
	"通話対応（無言電話／ガチャ切り）",
	"呼び方",
	RuleLongCall,
	"ガチャ切りされた△",
	"当社の電話お断り",
	"しつこい・何度も電話がある",
	"お客様専用電話番号と言われる",
	"口調を注意された",
	"怒らせた",
	"暴言を受けた",
	"通報する",
	"営業お断り",
	"事務員に対して代表者のことを「社長」「オーナー」「代表」",
	"一人称が「僕」「自分」「俺」",
	"「弊社」のことを「うち」「僕ら」と言う",
	"謝罪が「すみません」「ごめんなさい」",
	"口調や態度が失礼",
	"会話が成り立っていない",
	"残債の「下取り」「買い取り」トーク",
	"嘘・真偽不明",
	"その他問題",
}

var ruleSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(RuleNames))
	for _, r := range RuleNames {
		m[r] = struct{}{}
	}
	return m
}()

// IsRule reports whether name is one of the fixed rules.
func IsRule(name string) bool {
	_, ok := ruleSet[name]
	return ok
}

// Verdict is the structured result for one transcript. The rule map is
// unexported so every instance goes through New, which pre-fills all
// rules with the failed sentinel: the worksheet writer depends on the
// column set being complete.
type Verdict struct {
	AgentName string
	Summary   string
	judgments map[string]Judgment
}

// New returns a verdict with every rule set to the failed sentinel.
func New() *Verdict {
	j := make(map[string]Judgment, len(RuleNames))
	for _, r := range RuleNames {
		j[r] = Failed
	}
	return &Verdict{judgments: j}
}

// Set records a judgment for a known rule; unknown rule names are
// rejected so model output cannot widen the schema.
func (v *Verdict) Set(rule string, j Judgment) error {
	if !IsRule(rule) {
		return fmt.Errorf("unknown rule %q", rule)
	}
	v.judgments[rule] = j
	return nil
}

// Judgment returns the recorded judgment for a rule (Failed for names
// outside the fixed set).
func (v *Verdict) Judgment(rule string) Judgment {
	if j, ok := v.judgments[rule]; ok {
		return j
	}
	return Failed
}

// Issues returns the rules judged problematic, in column order.
func (v *Verdict) Issues() []string {
	var out []string
	for _, r := range RuleNames {
		if v.judgments[r] == Issue {
			out = append(out, r)
		}
	}
	return out
}

// AllFailed reports whether no rule produced a usable judgment (the
// row-fatal substitute verdict looks like this).
func (v *Verdict) AllFailed() bool {
	for _, r := range RuleNames {
		if v.judgments[r] != Failed {
			return false
		}
	}
	return true
}

// MarshalJSON renders the worksheet-shaped object: agent name, summary,
// then every rule key.
func (v *Verdict) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(RuleNames)+2)
	out[AgentNameKey] = v.AgentName
	out[SummaryKey] = v.Summary
	for _, r := range RuleNames {
		out[r] = string(v.judgments[r])
	}
	return json.Marshal(out)
}

// normalizeJudgment maps a free-text cell value onto the three-valued
// judgment. 問題あり is checked first: a reply quoting both labels is
// treated as an issue rather than silently passed.
func normalizeJudgment(s string) Judgment {
	switch {
	case contains(s, string(Issue)):
		return Issue
	case contains(s, string(NoIssue)):
		return NoIssue
	default:
		return Failed
	}
}
