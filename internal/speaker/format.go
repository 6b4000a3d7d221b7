package speaker

import (
	"fmt"
	"strings"

	"teleapo-qc-go/internal/types"
)

// FormatConversation renders the diarized transcript in the worksheet
// layout: the full conversation followed by the agent-only section.
func FormatConversation(tr *types.TranscriptResult, agent string, sizeMB float64) string {
	if tr == nil || len(tr.Utterances) == 0 {
		return "文字起こし結果が取得できませんでした。"
	}

	var b strings.Builder
	if sizeMB > 0 {
		fmt.Fprintf(&b, "=== 全体の会話 （ファイルサイズ: %.1fMB） ===\n", sizeMB)
	} else {
		b.WriteString("=== 全体の会話 ===\n")
	}
	for _, u := range tr.Utterances {
		fmt.Fprintf(&b, "[%s] %s\n", u.Speaker, u.Text)
	}

	fmt.Fprintf(&b, "\n=== テレアポ担当者の発言のみ (%s) ===\n", agent)
	b.WriteString(strings.Join(AgentLines(tr, agent), "\n"))
	return b.String()
}

// AgentLines returns only the agent's utterances, in order.
func AgentLines(tr *types.TranscriptResult, agent string) []string {
	if tr == nil {
		return nil
	}
	var lines []string
	for _, u := range tr.Utterances {
		if u.Speaker == agent {
			lines = append(lines, u.Text)
		}
	}
	return lines
}
