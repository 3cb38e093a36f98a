package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"voice-interview-agent/internal/config"
	"voice-interview-agent/internal/metrics"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client — клиент OpenAI API: генерация текста и транскрибация аудио.
// Без ретраев и кеширования, одна операция — один запрос.
type Client struct {
	apiKey       string
	model        string
	whisperModel string
	temperature  float64
	maxTokens    int
	baseURL      string
	client       *http.Client
	metrics      *metrics.Metrics
}

// OpenAI API структуры
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []choice  `json:"choices"`
	Error   *apiError `json:"error,omitempty"`
}

type choice struct {
	Message Message `json:"message"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewClient создает клиент OpenAI
func NewClient(apiKey string, cfg config.OpenAIConfig, m *metrics.Metrics) *Client {
	return &Client{
		apiKey:       apiKey,
		model:        config.ModelOverride(cfg.Model),
		whisperModel: cfg.WhisperModel,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		baseURL:      defaultBaseURL,
		client: &http.Client{
			Timeout: 120 * time.Second, // сложные промпты отвечают долго
		},
		metrics: m,
	}
}

// Generate отправляет промпт в chat completions и возвращает сырой текст ответа
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := c.generate(ctx, prompt)
	c.metrics.IncrementAPICall(err == nil)
	return text, err
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	request := chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	// Сериализуем в JSON
	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	// Создаем HTTP запрос
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	// Выполняем запрос
	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ServiceError{Service: "openai", Message: "error making request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{Service: "openai", Message: "error reading response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ServiceError{Service: "openai", StatusCode: resp.StatusCode, Message: string(body)}
	}

	// Парсим ответ
	var openaiResp chatResponse
	err = json.Unmarshal(body, &openaiResp)
	if err != nil {
		return "", &ServiceError{Service: "openai", Message: "error unmarshaling response", Err: err}
	}

	if openaiResp.Error != nil {
		return "", &ServiceError{Service: "openai", Message: openaiResp.Error.Message}
	}

	if len(openaiResp.Choices) == 0 {
		return "", &ServiceError{Service: "openai", Message: "no choices returned"}
	}

	return openaiResp.Choices[0].Message.Content, nil
}
