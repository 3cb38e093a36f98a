package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voice-interview-agent/internal/api"
)

func newElevenLabsForServer(ts *httptest.Server) *ElevenLabs {
	return &ElevenLabs{
		apiKey:   "test-key",
		endpoint: ts.URL,
		client:   &http.Client{Timeout: time.Second},
	}
}

func TestElevenLabsSynthesize(t *testing.T) {
	var gotRequest elevenLabsRequest
	var gotKey, gotAccept string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("xi-api-key")
		gotAccept = r.Header.Get("Accept")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("ошибка разбора запроса: %v", err)
		}
		w.Write([]byte("mp3 bytes"))
	}))
	defer ts.Close()

	provider := newElevenLabsForServer(ts)
	audio, err := provider.SynthesizeSpeech(context.Background(), "Hello candidate")
	if err != nil {
		t.Fatalf("SynthesizeSpeech failed: %v", err)
	}
	if string(audio) != "mp3 bytes" {
		t.Fatalf("неверные аудио байты: %q", audio)
	}

	if gotKey != "test-key" || gotAccept != "audio/mpeg" {
		t.Errorf("неверные заголовки: key=%q accept=%q", gotKey, gotAccept)
	}
	if gotRequest.Text != "Hello candidate" || gotRequest.ModelID != "eleven_multilingual_v2" {
		t.Errorf("неверное тело запроса: %+v", gotRequest)
	}
}

func TestElevenLabsErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "invalid api key"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	provider := newElevenLabsForServer(ts)
	_, err := provider.SynthesizeSpeech(context.Background(), "text")

	var svcErr *api.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("ожидался ServiceError, получено %v", err)
	}
	if svcErr.Service != "elevenlabs" || svcErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("неверная ошибка: %+v", svcErr)
	}
}

func TestElevenLabsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	provider := newElevenLabsForServer(ts)
	_, err := provider.SynthesizeSpeech(context.Background(), "text")

	var svcErr *api.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("ожидался ServiceError, получено %v", err)
	}
}
