package config

import "time"

// Config представляет конфигурацию сервиса голосового интервью
type Config struct {
	Interview InterviewConfig `yaml:"interview"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	TTS       TTSConfig       `yaml:"tts"`
	Server    ServerConfig    `yaml:"server"`
}

// InterviewConfig содержит общие настройки интервью
type InterviewConfig struct {
	QuestionCount int `yaml:"question_count"`
}

// OpenAIConfig содержит настройки моделей OpenAI
type OpenAIConfig struct {
	Model        string  `yaml:"model"`
	WhisperModel string  `yaml:"whisper_model"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
}

// TTSConfig содержит настройки синтеза речи
type TTSConfig struct {
	Provider string `yaml:"provider"` // elevenlabs или polly
	AudioDir string `yaml:"audio_dir"`
	Voice    string `yaml:"voice"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// Методы для удобного доступа к конфигурации
func (c *Config) GetQuestionCount() int {
	return c.Interview.QuestionCount
}

func (c *Config) GetAudioDir() string {
	return c.TTS.AudioDir
}
