package verdict

import (
	"encoding/json"
	"sort"
	"strings"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

// ExtractJSON finds the first balanced JSON object in a model reply,
// stripping the markdown fences models like to add. Returns "" when no
// opening/closing brace pair exists.
func ExtractJSON(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for _, fence := range []string{"```json", "```yaml", "```text", "```", "`json", "`"} {
		s = strings.ReplaceAll(s, fence, "")
	}
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[start : i+1])
			}
		}
	}
	return ""
}

// FromJSON parses a structured model reply into a complete verdict.
// ok is false when the reply holds no parseable JSON object; the caller
// then falls back to FromReport.
func FromJSON(reply string) (v *Verdict, ok bool) {
	raw := ExtractJSON(reply)
	if raw == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, false
	}

	v = New()
	for key, val := range obj {
		key = strings.TrimSpace(key)
		switch {
		case key == AgentNameKey:
			v.AgentName = flatten(val)
		case key == SummaryKey:
			v.Summary = flatten(val)
		case IsRule(key):
			_ = v.Set(key, normalizeJudgment(flatten(val)))
		}
		// keys outside the fixed schema are dropped
	}
	return v, true
}

// flatten renders a JSON value as a cell string; lists join with ", "
// the way the worksheet expects.
func flatten(val any) string {
	switch t := val.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, flatten(item))
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// FromReport is the local fallback extractor: it scans the concatenated
// judgment text for rule markers and the literal judgment words, and
// builds a best-effort verdict. Every rule is present in the result;
// rules whose marker cannot be located stay at the failed sentinel.
func FromReport(text string) *Verdict {
	v := New()
	if text == "" {
		return v
	}

	// locate each rule's section, then judge the text up to the next
	// rule marker
	type hit struct {
		rule string
		pos  int
	}
	var hits []hit
	for _, rule := range RuleNames {
		if pos := strings.Index(text, rule); pos >= 0 {
			hits = append(hits, hit{rule: rule, pos: pos})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	for i, h := range hits {
		end := len(text)
		if i+1 < len(hits) {
			end = hits[i+1].pos
		}
		section := text[h.pos:end]
		if j := judgeSection(section); j != Failed {
			_ = v.Set(h.rule, j)
		}
	}

	// the agent name line survives the company-name check's output format
	v.AgentName = scanAgentName(text)
	if issues := v.Issues(); len(issues) > 0 {
		v.Summary = strings.Join(issues, ", ")
	}
	return v
}

func judgeSection(section string) Judgment {
	// skip template echoes that list both labels on one line
	for _, line := range strings.Split(section, "\n") {
		hasIssue := contains(line, string(Issue))
		hasNoIssue := contains(line, string(NoIssue))
		if hasIssue && hasNoIssue {
			continue
		}
		if hasIssue {
			return Issue
		}
		if hasNoIssue {
			return NoIssue
		}
	}
	return Failed
}

func scanAgentName(text string) string {
	idx := strings.Index(text, AgentNameKey)
	if idx == -1 {
		return ""
	}
	rest := text[idx+len(AgentNameKey):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	rest = strings.TrimLeft(rest, " \t:：()（）④.")
	return strings.TrimSpace(rest)
}
