// Package transcription wraps the speech-to-text provider's diarized
// transcription flow: upload, submit with speaker labels, poll, map.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"teleapo-qc-go/internal/config"
	"teleapo-qc-go/internal/logger"
	"teleapo-qc-go/internal/types"
)

const (
	pollInterval = 1500 * time.Millisecond
	maxPolls     = 400 // long files take a while
)

type Client struct {
	baseURL   string
	apiKey    string
	speakers  int
	language  string
	cfg       config.Config
	httpc     *http.Client
	log       *logrus.Entry
	pollEvery time.Duration
}

func New(cfg config.Config) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.TranscribeURL, "/"),
		apiKey:    cfg.TranscribeAPIKey,
		speakers:  cfg.SpeakersExpected,
		language:  cfg.Language,
		cfg:       cfg,
		httpc:     &http.Client{Timeout: 30 * time.Second},
		log:       logger.Component("transcription"),
		pollEvery: pollInterval,
	}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type submitRequest struct {
	AudioURL         string `json:"audio_url"`
	SpeakerLabels    bool   `json:"speaker_labels"`
	SpeakersExpected int    `json:"speakers_expected"`
	LanguageCode     string `json:"language_code"`
}

type transcriptResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"` // queued, processing, completed, error
	Text       string `json:"text"`
	Error      string `json:"error"`
	Utterances []struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	} `json:"utterances"`
}

// Transcribe uploads audio bytes and returns the diarized transcript.
// Supports mock mode via env USE_MOCK_TRANSCRIBE=true, same switch
// style as the LLM mock.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (*types.TranscriptResult, error) {
	if os.Getenv("USE_MOCK_TRANSCRIBE") == "true" {
		return types.NewTranscriptResult(
			"もしもし、SFIDA Xの田中と申します。 はい。",
			[]types.Utterance{
				{Speaker: "A", Text: "もしもし、SFIDA Xの田中と申します。"},
				{Speaker: "B", Text: "はい。"},
			},
		), nil
	}
	if c.apiKey == "" {
		return nil, errors.New("ASSEMBLYAI_API_KEY not set")
	}

	info := c.cfg.FileSizeInfo(int64(len(audio)))
	if info.IsOversized {
		return nil, fmt.Errorf("file %s is %.1fMB, over the %dMB limit", filename, info.SizeMB, c.cfg.MaxFileSizeMB)
	}
	log := c.log.WithFields(logrus.Fields{"filename": filename, "size_mb": fmt.Sprintf("%.1f", info.SizeMB)})
	if info.IsVeryLarge {
		log.Warn("very large file, transcription may take over ten minutes")
	}

	audioURL, err := c.upload(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	id, err := c.submit(ctx, audioURL)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	log.WithField("transcript_id", id).Info("transcription submitted")

	final, err := c.poll(ctx, id)
	if err != nil {
		return nil, err
	}

	utterances := make([]types.Utterance, 0, len(final.Utterances))
	for _, u := range final.Utterances {
		utterances = append(utterances, types.Utterance{Speaker: u.Speaker, Text: u.Text})
	}
	log.WithField("utterances", len(utterances)).Info("transcription completed")
	return types.NewTranscriptResult(final.Text, utterances), nil
}

func (c *Client) upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	var out uploadResponse
	if err := c.doJSON(req, &out); err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return "", errors.New("provider returned no upload_url")
	}
	return out.UploadURL, nil
}

func (c *Client) submit(ctx context.Context, audioURL string) (string, error) {
	body, _ := json.Marshal(submitRequest{
		AudioURL:         audioURL,
		SpeakerLabels:    true,
		SpeakersExpected: c.speakers,
		LanguageCode:     c.language,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	var out transcriptResponse
	if err := c.doJSON(req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("provider returned no transcript id")
	}
	return out.ID, nil
}

func (c *Client) poll(ctx context.Context, id string) (*transcriptResponse, error) {
	for i := 0; i < maxPolls; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollEvery):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+id, nil)
		if err != nil {
			return nil, err
		}
		var s transcriptResponse
		if err := c.doJSON(req, &s); err != nil {
			c.log.WithError(err).Warn("status poll failed")
			continue
		}
		switch s.Status {
		case "completed":
			return &s, nil
		case "error":
			return nil, fmt.Errorf("transcription failed: %s", s.Error)
		}
	}
	return nil, errors.New("transcription timeout")
}

func (c *Client) doJSON(req *http.Request, target any) error {
	req.Header.Set("Authorization", c.apiKey)
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 12 * time.Second
	var lastErr error
	op := func() error {
		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", string(body))
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("client error: status=%d body=%s", resp.StatusCode, string(body))
			return backoff.Permanent(lastErr)
		}
		if err := json.Unmarshal(body, target); err != nil {
			lastErr = fmt.Errorf("json decode error: %v body=%s", err, string(body))
			return lastErr
		}
		return nil
	}
	if err := backoff.Retry(op, bo); err != nil {
		return lastErr
	}
	return nil
}
