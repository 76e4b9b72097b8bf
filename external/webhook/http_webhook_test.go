package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foxseedlab/kikitorin/internal/webhook"
)

func TestSendTranscript_EmptyWebhookURL(t *testing.T) {
	sender := NewHTTPSender("")
	err := sender.SendTranscript(context.Background(), webhook.TranscriptNotification{Text: "hello"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestSendTranscript_Success(t *testing.T) {
	var got webhook.TranscriptNotification

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	err := sender.SendTranscript(context.Background(), webhook.TranscriptNotification{
		Text:       "turn on the light",
		Language:   "en-US",
		DurationMS: 1200,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.Text != "turn on the light" || got.Language != "en-US" || got.DurationMS != 1200 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestNewHTTPSender_SetsRequestTimeout(t *testing.T) {
	sender, ok := NewHTTPSender("https://example.invalid/hook").(*HTTPSender)
	if !ok {
		t.Fatal("expected *HTTPSender")
	}
	if sender.client.Timeout != requestTimeout {
		t.Fatalf("unexpected client timeout: %v", sender.client.Timeout)
	}
}

func TestSendTranscript_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	err := sender.SendTranscript(context.Background(), webhook.TranscriptNotification{Text: "hello"})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
