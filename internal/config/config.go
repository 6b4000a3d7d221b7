package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries all runtime settings. Values come from the environment
// (the CLI loads .env first); defaults match the production deployment.
type Config struct {
	// chat-completion gateway
	LLMGatewayURL string
	LLMAPIKey     string
	LLMModel      string

	// diarization provider
	TranscribeURL    string
	TranscribeAPIKey string

	// workbook storage
	WorkbookPath string
	SheetName    string

	// file intake
	MaxFileSizeMB         int
	RecommendedFileSizeMB int

	// diarization defaults
	SpeakersExpected int
	Language         string

	// quality-check batch defaults
	BatchSize int
	MaxRows   int
	Workers   int

	// known-valid agent surnames for the name checks
	CheckerNames []string

	// optional speaker-detection rules override (YAML)
	RulesPath string
}

func Load() Config {
	return Config{
		LLMGatewayURL:         envOr("LLM_GATEWAY_URL", "https://api.openai.com/v1/chat/completions"),
		LLMAPIKey:             os.Getenv("OPENAI_API_KEY"),
		LLMModel:              envOr("LLM_MODEL", "gpt-4o-mini"),
		TranscribeURL:         envOr("TRANSCRIBE_URL", "https://api.assemblyai.com"),
		TranscribeAPIKey:      os.Getenv("ASSEMBLYAI_API_KEY"),
		WorkbookPath:          envOr("WORKBOOK_PATH", "テレアポチェックシート.xlsx"),
		SheetName:             envOr("SHEET_NAME", "Difyテスト"),
		MaxFileSizeMB:         envInt("MAX_FILE_SIZE_MB", 2048),
		RecommendedFileSizeMB: envInt("RECOMMENDED_FILE_SIZE_MB", 500),
		SpeakersExpected:      envInt("SPEAKERS_EXPECTED", 2),
		Language:              envOr("LANGUAGE_CODE", "ja"),
		BatchSize:             envInt("BATCH_SIZE", 5),
		MaxRows:               envInt("MAX_ROWS", 50),
		Workers:               envInt("WORKERS", 1),
		CheckerNames:          splitNames(os.Getenv("CHECKER_NAMES")),
		RulesPath:             os.Getenv("DETECTION_RULES_PATH"),
	}
}

// FileSizeInfo classifies an upload by size so the caller can warn or
// reject before spending a transcription call.
type FileSizeInfo struct {
	SizeMB      float64
	IsLarge     bool // above the recommended size
	IsVeryLarge bool // above 1GB, expect long processing
	IsOversized bool // above the hard limit, reject
}

func (c Config) FileSizeInfo(sizeBytes int64) FileSizeInfo {
	mb := float64(sizeBytes) / (1024 * 1024)
	return FileSizeInfo{
		SizeMB:      mb,
		IsLarge:     mb > float64(c.RecommendedFileSizeMB),
		IsVeryLarge: mb > 1000,
		IsOversized: mb > float64(c.MaxFileSizeMB),
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func splitNames(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '、' }) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
