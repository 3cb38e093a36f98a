package config

import (
	"os"
)

// Credentials содержит секреты внешних сервисов из переменных окружения
type Credentials struct {
	OpenAIKey       string
	ElevenLabsKey   string
	ElevenLabsVoice string
	AWSRegion       string
}

// LoadCredentials загружает секреты из переменных окружения
func LoadCredentials() *Credentials {
	return &Credentials{
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ElevenLabsKey:   os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsVoice: getEnv("ELEVENLABS_VOICE_ID", "EXAVITQu4vr4xnSDxMaL"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
	}
}

// ModelOverride возвращает модель из переменных окружения, если она задана
func ModelOverride(configured string) string {
	return getEnv("OPENAI_MODEL", configured)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
