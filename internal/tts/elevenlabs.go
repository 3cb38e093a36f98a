package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"voice-interview-agent/internal/api"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1/text-to-speech/"

// ElevenLabs — провайдер синтеза через ElevenLabs API
type ElevenLabs struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

type elevenLabsRequest struct {
	Text          string             `json:"text"`
	ModelID       string             `json:"model_id"`
	VoiceSettings elevenLabsSettings `json:"voice_settings"`
}

type elevenLabsSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// NewElevenLabs создает провайдер ElevenLabs
func NewElevenLabs(apiKey, voiceID string) *ElevenLabs {
	return &ElevenLabs{
		apiKey:   apiKey,
		endpoint: elevenLabsBaseURL + voiceID,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SynthesizeSpeech озвучивает текст и возвращает MP3 байты
func (e *ElevenLabs) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	request := elevenLabsRequest{
		Text:    text,
		ModelID: "eleven_multilingual_v2",
		VoiceSettings: elevenLabsSettings{
			Stability:       0.5,
			SimilarityBoost: 0.7,
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &api.ServiceError{Service: "elevenlabs", Message: "error making request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &api.ServiceError{Service: "elevenlabs", Message: "error reading response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &api.ServiceError{Service: "elevenlabs", StatusCode: resp.StatusCode, Message: string(body)}
	}

	return body, nil
}
