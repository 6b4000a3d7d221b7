// Package speaker identifies which diarized speaker is the telemarketing
// agent, using a configurable keyword/weight heuristic.
package speaker

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"teleapo-qc-go/internal/types"
)

// Category is one keyword group with its scoring weight. Negative weights
// mark customer-side phrasing.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Weight   float64  `yaml:"weight"`
}

// Rules is the full detection configuration. It is plain data so product
// tuning never requires a code change.
type Rules struct {
	Categories           []Category `yaml:"categories"`
	FirstSpeakerBonus    float64    `yaml:"first_speaker_bonus"`
	SpeechRatioThreshold float64    `yaml:"speech_ratio_threshold"`
	SpeechRatioBonus     float64    `yaml:"speech_ratio_bonus"`
	DefaultSpeaker       string     `yaml:"default_speaker"`
}

// DefaultRules returns the production tuning. The weights are example
// defaults, not a behavioral contract.
func DefaultRules() Rules {
	return Rules{
		Categories: []Category{
			{
				Name:   "company",
				Weight: 3.0,
				Keywords: []string{
					"会社", "株式会社", "有限会社", "と申します", "と言います",
					"営業", "担当", "部署", "本日は", "お忙しい中",
				},
			},
			{
				Name:   "sales",
				Weight: 2.5,
				Keywords: []string{
					"ご紹介", "サービス", "商品", "プラン", "料金", "価格",
					"お得", "キャンペーン", "無料", "体験", "導入",
				},
			},
			{
				Name:   "customer_service",
				Weight: 2.0,
				Keywords: []string{
					"いかがでしょうか", "ご質問", "ご相談", "ご検討",
					"資料", "説明", "デモ", "お話",
				},
			},
			{
				Name:   "customer_response",
				Weight: -2.0,
				Keywords: []string{
					"はい", "そうですね", "わかりました", "なるほど",
					"興味があります", "検討します", "質問があります",
				},
			},
		},
		FirstSpeakerBonus:    1.5,
		SpeechRatioThreshold: 0.6,
		SpeechRatioBonus:     2.0,
		DefaultSpeaker:       "A",
	}
}

// LoadRules reads a YAML rules file. Fields left zero fall back to the
// defaults so a file can override only the weights it cares about.
func LoadRules(path string) (Rules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	rules := DefaultRules()
	if err := yaml.Unmarshal(b, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules file: %w", err)
	}
	if rules.DefaultSpeaker == "" {
		rules.DefaultSpeaker = "A"
	}
	return rules, nil
}

type Detector struct {
	rules Rules
}

func NewDetector(rules Rules) *Detector {
	return &Detector{rules: rules}
}

// Detect returns the speaker id judged to be the agent. It never fails:
// an empty transcript returns the configured default id, and the returned
// id otherwise always appears in the input. Ties break toward the speaker
// seen first in the utterance sequence.
func (d *Detector) Detect(tr *types.TranscriptResult) string {
	if tr == nil || len(tr.Utterances) == 0 {
		return d.rules.DefaultSpeaker
	}

	scores := map[string]float64{}
	wordCounts := map[string]int{}
	var order []string // first-seen order, the tie-break
	first := tr.Utterances[0].Speaker

	for _, u := range tr.Utterances {
		if _, ok := scores[u.Speaker]; !ok {
			scores[u.Speaker] = 0
			order = append(order, u.Speaker)
		}
		wordCounts[u.Speaker] += len(strings.Fields(u.Text))
		scores[u.Speaker] += d.keywordScore(u.Text)
		if u.Speaker == first {
			scores[u.Speaker] += d.rules.FirstSpeakerBonus
		}
	}

	// the agent usually talks more
	total := 0
	for _, n := range wordCounts {
		total += n
	}
	if total > 0 {
		for sp, n := range wordCounts {
			if float64(n)/float64(total) >= d.rules.SpeechRatioThreshold {
				scores[sp] += d.rules.SpeechRatioBonus
			}
		}
	}

	best := d.rules.DefaultSpeaker
	bestScore := 0.0
	for i, sp := range order {
		if i == 0 || scores[sp] > bestScore {
			best = sp
			bestScore = scores[sp]
		}
	}
	return best
}

func (d *Detector) keywordScore(text string) float64 {
	score, _ := d.matchCategories(text)
	return score
}

// matchCategories scores one utterance and names the categories that hit.
func (d *Detector) matchCategories(text string) (float64, []string) {
	lower := strings.ToLower(text)
	score := 0.0
	var matched []string
	for _, cat := range d.rules.Categories {
		hit := false
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				score += cat.Weight
				hit = true
			}
		}
		if hit {
			matched = append(matched, cat.Name)
		}
	}
	return score, matched
}

// SpeakerSummary is the per-speaker evidence behind one detection.
type SpeakerSummary struct {
	TotalWords int      `json:"total_words"`
	Score      float64  `json:"score"`
	Categories []string `json:"categories,omitempty"`
}

// Summary exposes the scoring evidence for rule tuning and debugging.
// Categories lists each rule category that matched at least once, in
// configuration order.
func (d *Detector) Summary(tr *types.TranscriptResult) map[string]SpeakerSummary {
	out := map[string]SpeakerSummary{}
	if tr == nil {
		return out
	}
	matched := map[string]map[string]bool{}
	for _, u := range tr.Utterances {
		s := out[u.Speaker]
		s.TotalWords += len(strings.Fields(u.Text))
		score, cats := d.matchCategories(u.Text)
		s.Score += score
		if matched[u.Speaker] == nil {
			matched[u.Speaker] = map[string]bool{}
		}
		for _, c := range cats {
			matched[u.Speaker][c] = true
		}
		out[u.Speaker] = s
	}
	for sp, s := range out {
		for _, cat := range d.rules.Categories {
			if matched[sp][cat.Name] {
				s.Categories = append(s.Categories, cat.Name)
			}
		}
		out[sp] = s
	}
	return out
}
