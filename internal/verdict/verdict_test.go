package verdict

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestNewPrefillsEveryRule(t *testing.T) {
	v := New()
	for _, r := range RuleNames {
		if got := v.Judgment(r); got != Failed {
			t.Errorf("Judgment(%q) = %q, want failed sentinel", r, got)
		}
	}
	if !v.AllFailed() {
		t.Error("fresh verdict should report AllFailed")
	}
}

func TestSetRejectsUnknownRule(t *testing.T) {
	v := New()
	if err := v.Set("存在しないルール", Issue); err == nil {
		t.Error("Set(unknown) = nil error")
	}
	if err := v.Set(RuleLongCall, Issue); err != nil {
		t.Errorf("Set(known): %v", err)
	}
	if got := v.Judgment(RuleLongCall); got != Issue {
		t.Errorf("Judgment = %q", got)
	}
}

func TestMarshalJSONCarriesFullColumnSet(t *testing.T) {
	v := New()
	v.AgentName = "田中"
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if len(m) != len(RuleNames)+2 {
		t.Errorf("marshalled key count = %d, want %d", len(m), len(RuleNames)+2)
	}
	if m[AgentNameKey] != "田中" {
		t.Errorf("agent name = %q", m[AgentNameKey])
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounded", "前置き {\"a\":{\"b\":2}} 後書き", `{"a":{"b":2}}`},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`},
		{"none", "判定だけのテキスト", ""},
		{"unbalanced", `{"a":1`, ""},
	}
	for _, tc := range cases {
		if got := ExtractJSON(tc.in); got != tc.want {
			t.Errorf("%s: ExtractJSON = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFromJSON(t *testing.T) {
	obj := map[string]any{
		AgentNameKey: "鈴木",
		SummaryKey:   []any{"ロングコールあり", "口調の問題"},
		RuleLongCall: "問題あり",
		"情報漏洩":       "問題なし",
		"知らない列":      "問題あり", // outside the schema, must be dropped
	}
	b, _ := json.Marshal(obj)
	v, ok := FromJSON("回答:\n" + string(b))
	if !ok {
		t.Fatal("FromJSON not ok")
	}
	if v.AgentName != "鈴木" {
		t.Errorf("AgentName = %q", v.AgentName)
	}
	if v.Summary != "ロングコールあり, 口調の問題" {
		t.Errorf("Summary = %q", v.Summary)
	}
	if got := v.Judgment(RuleLongCall); got != Issue {
		t.Errorf("long call = %q", got)
	}
	if got := v.Judgment("情報漏洩"); got != NoIssue {
		t.Errorf("情報漏洩 = %q", got)
	}
	// unset rules keep the sentinel
	if got := v.Judgment("嘘・真偽不明"); got != Failed {
		t.Errorf("unset rule = %q", got)
	}
}

func TestFromJSONMalformed(t *testing.T) {
	if _, ok := FromJSON("braceless reply"); ok {
		t.Error("want ok=false for reply without JSON")
	}
	if _, ok := FromJSON("{broken"); ok {
		t.Error("want ok=false for unbalanced JSON")
	}
}

func TestFromReportCompleteKeySet(t *testing.T) {
	report := "▪️ロングコール\n判定 : 問題あり\n報告 : 8回鳴っていた\n\n" +
		"▪️情報漏洩\n判定 : 問題なし\n報告 : なし\n"
	v := FromReport(report)
	if got := v.Judgment(RuleLongCall); got != Issue {
		t.Errorf("long call = %q", got)
	}
	if got := v.Judgment("情報漏洩"); got != NoIssue {
		t.Errorf("情報漏洩 = %q", got)
	}
	// every other rule is present and failed
	count := 0
	for _, r := range RuleNames {
		if v.Judgment(r) == Failed {
			count++
		}
	}
	if count != len(RuleNames)-2 {
		t.Errorf("failed count = %d, want %d", count, len(RuleNames)-2)
	}
}

func TestFromReportSkipsTemplateEchoLines(t *testing.T) {
	report := "▪️呼び方\n判定 : 問題なし or 問題あり\n判定 : 問題なし\n"
	v := FromReport(report)
	if got := v.Judgment("呼び方"); got != NoIssue {
		t.Errorf("呼び方 = %q, want no issue (echo line skipped)", got)
	}
}

func TestFromReportAgentNameAndSummary(t *testing.T) {
	report := fmt.Sprintf("1. %s : 佐藤\n▪️怒らせた\n判定 : 問題あり\n報告 : 語気が強い\n", AgentNameKey)
	v := FromReport(report)
	if v.AgentName != "佐藤" {
		t.Errorf("AgentName = %q", v.AgentName)
	}
	if !strings.Contains(v.Summary, "怒らせた") {
		t.Errorf("Summary = %q", v.Summary)
	}
}
