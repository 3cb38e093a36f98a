package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	applyDefaults(&config)

	// Валидация конфигурации
	err = validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return &config, nil
}

// applyDefaults заполняет незаданные поля значениями по умолчанию
func applyDefaults(config *Config) {
	if config.Interview.QuestionCount == 0 {
		config.Interview.QuestionCount = 3
	}
	if config.OpenAI.Model == "" {
		config.OpenAI.Model = "gpt-4o"
	}
	if config.OpenAI.WhisperModel == "" {
		config.OpenAI.WhisperModel = "whisper-1"
	}
	if config.OpenAI.Temperature == 0 {
		config.OpenAI.Temperature = 0.2
	}
	if config.OpenAI.MaxTokens == 0 {
		config.OpenAI.MaxTokens = 1000
	}
	if config.TTS.Provider == "" {
		config.TTS.Provider = "elevenlabs"
	}
	if config.TTS.AudioDir == "" {
		config.TTS.AudioDir = "audio"
	}
	if config.Server.Addr == "" {
		config.Server.Addr = ":8000"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 120 * time.Second
	}
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.Interview.QuestionCount <= 0 {
		return fmt.Errorf("question_count должно быть больше 0")
	}

	if config.OpenAI.Temperature < 0 || config.OpenAI.Temperature > 2 {
		return fmt.Errorf("temperature должна быть в диапазоне [0, 2]")
	}

	if config.OpenAI.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens должно быть больше 0")
	}

	switch config.TTS.Provider {
	case "elevenlabs", "polly":
	default:
		return fmt.Errorf("неизвестный TTS провайдер: %q (допустимы elevenlabs и polly)", config.TTS.Provider)
	}

	return nil
}
