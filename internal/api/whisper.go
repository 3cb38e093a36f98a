package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

type transcriptionResponse struct {
	Text  string    `json:"text"`
	Error *apiError `json:"error,omitempty"`
}

// Transcribe отправляет аудио в Whisper API и возвращает расшифровку.
// Формат аудио определяет сам сервис, клиент передает байты как есть.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	text, err := c.transcribe(ctx, audio)
	c.metrics.IncrementAPICall(err == nil)
	return text, err
}

func (c *Client) transcribe(ctx context.Context, audio []byte) (string, error) {
	// Собираем multipart тело запроса
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "answer.wav")
	if err != nil {
		return "", fmt.Errorf("error creating form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("error writing audio bytes: %w", err)
	}

	if err := writer.WriteField("model", c.whisperModel); err != nil {
		return "", fmt.Errorf("error writing model field: %w", err)
	}
	if err := writer.WriteField("language", "en"); err != nil {
		return "", fmt.Errorf("error writing language field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("error closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ServiceError{Service: "whisper", Message: "error making request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{Service: "whisper", Message: "error reading response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ServiceError{Service: "whisper", StatusCode: resp.StatusCode, Message: string(body)}
	}

	var transcription transcriptionResponse
	if err := json.Unmarshal(body, &transcription); err != nil {
		return "", &ServiceError{Service: "whisper", Message: "error unmarshaling response", Err: err}
	}

	if transcription.Error != nil {
		return "", &ServiceError{Service: "whisper", Message: transcription.Error.Message}
	}

	return strings.TrimSpace(transcription.Text), nil
}
