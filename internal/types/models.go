package types

// Utterance is a single diarized statement as returned by the
// transcription provider. Order of utterances = chronological order.
type Utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// TranscriptResult aggregates a diarized transcript for one audio file.
type TranscriptResult struct {
	FullText   string              `json:"full_text"`
	Utterances []Utterance         `json:"utterances"`
	Speakers   map[string][]string `json:"speakers"`
}

// NewTranscriptResult builds the per-speaker view from the utterance list.
func NewTranscriptResult(fullText string, utterances []Utterance) *TranscriptResult {
	speakers := map[string][]string{}
	for _, u := range utterances {
		speakers[u.Speaker] = append(speakers[u.Speaker], u.Text)
	}
	return &TranscriptResult{
		FullText:   fullText,
		Utterances: utterances,
		Speakers:   speakers,
	}
}

// BatchRow is one pending worksheet row awaiting a quality check.
// Index is the 1-based sheet row and is the correlation key used to
// write results back to the same row.
type BatchRow struct {
	Index      int    `json:"row_index"`
	Transcript string `json:"transcript"`
	Filename   string `json:"filename"`
}
