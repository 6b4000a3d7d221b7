package transcription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"teleapo-qc-go/internal/config"
)

func testConfig(url string) config.Config {
	cfg := config.Load()
	cfg.TranscribeURL = url
	cfg.TranscribeAPIKey = "test-key"
	cfg.MaxFileSizeMB = 1
	return cfg
}

func TestTranscribeRejectsOversizedFile(t *testing.T) {
	c := New(testConfig("http://unused"))
	big := make([]byte, 2*1024*1024) // 2MB against a 1MB limit
	if _, err := c.Transcribe(context.Background(), big, "big.mp3"); err == nil {
		t.Fatal("want oversized-file rejection before any network call")
	}
}

func TestTranscribeFullFlow(t *testing.T) {
	polls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("Authorization = %q", got)
		}
		switch {
		case r.URL.Path == "/v2/upload":
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/audio"})
		case r.URL.Path == "/v2/transcript" && r.Method == http.MethodPost:
			var req submitRequest
			json.NewDecoder(r.Body).Decode(&req)
			if !req.SpeakerLabels {
				t.Error("speaker_labels not requested")
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "queued"})
		case strings.HasPrefix(r.URL.Path, "/v2/transcript/"):
			polls++
			status := "processing"
			if polls >= 2 {
				status = "completed"
			}
			json.NewEncoder(w).Encode(map[string]any{
				"id": "tr-1", "status": status, "text": "もしもし。 はい。",
				"utterances": []map[string]string{
					{"speaker": "A", "text": "もしもし。"},
					{"speaker": "B", "text": "はい。"},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	c.pollEvery = time.Millisecond
	tr, err := c.Transcribe(context.Background(), []byte("audio"), "call.mp3")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(tr.Utterances) != 2 {
		t.Fatalf("utterances = %d, want 2", len(tr.Utterances))
	}
	if tr.Utterances[0].Speaker != "A" {
		t.Errorf("first speaker = %q", tr.Utterances[0].Speaker)
	}
	if got := tr.Speakers["B"]; len(got) != 1 || got[0] != "はい。" {
		t.Errorf("speaker view = %v", tr.Speakers)
	}
}

func TestTranscribeProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v2/upload":
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "u"})
		case r.URL.Path == "/v2/transcript":
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-2", "status": "queued"})
		default:
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-2", "status": "error", "error": "bad audio"})
		}
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	c.pollEvery = time.Millisecond
	_, err := c.Transcribe(context.Background(), []byte("x"), "bad.mp3")
	if err == nil || !strings.Contains(err.Error(), "bad audio") {
		t.Fatalf("err = %v, want provider error surfaced", err)
	}
}

func TestTranscribeMissingKey(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.TranscribeAPIKey = ""
	if _, err := New(cfg).Transcribe(context.Background(), []byte("x"), "f.mp3"); err == nil {
		t.Fatal("want error without API key")
	}
}
