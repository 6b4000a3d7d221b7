package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"teleapo-qc-go/internal/config"
)

var zeroDelay = Policy{MaxAttempts: 3, Delay: 0}

func testClient(url string) *Client {
	cfg := config.Config{LLMGatewayURL: url, LLMAPIKey: "test-key", LLMModel: "test-model"}
	return New(cfg, zeroDelay)
}

func chatBody(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"content":%q}}]}`, content)
}

func TestChatReturnsReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		fmt.Fprint(w, chatBody("問題なし"))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Chat(context.Background(), "system", "user", 0)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "問題なし" {
		t.Errorf("reply = %q, want 問題なし", got)
	}
}

func TestChatRetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, chatBody("ok"))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Chat(context.Background(), "s", "u", 0)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "ok" {
		t.Errorf("reply = %q", got)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestChatExhaustsRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Chat(context.Background(), "s", "u", 0)
	if err == nil {
		t.Fatal("want error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (max attempts)", calls)
	}
}

func TestChatDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Chat(context.Background(), "s", "u", 0)
	if err == nil {
		t.Fatal("want error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (4xx is permanent)", calls)
	}
}

func TestChatUnconfigured(t *testing.T) {
	c := New(config.Config{}, zeroDelay)
	if _, err := c.Chat(context.Background(), "s", "u", 0); err == nil {
		t.Fatal("want error when gateway is not configured")
	}
}
