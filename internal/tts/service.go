package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"voice-interview-agent/internal/metrics"
)

// Provider — конкретный движок синтеза, возвращает MP3 байты
type Provider interface {
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

// Service — шлюз синтеза речи. Пишет аудио в каталог artifacts и возвращает
// имя файла как непрозрачную ссылку; вызывающая сторона отдает файл по /audio/.
type Service struct {
	provider Provider
	audioDir string
	metrics  *metrics.Metrics
}

// New создает сервис синтеза речи
func New(provider Provider, audioDir string, m *metrics.Metrics) *Service {
	return &Service{provider: provider, audioDir: audioDir, metrics: m}
}

// Synthesize озвучивает текст и возвращает имя сохраненного MP3 файла
func (s *Service) Synthesize(ctx context.Context, text string) (string, error) {
	audio, err := s.provider.SynthesizeSpeech(ctx, text)
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		return "", err
	}

	// Создаем каталог если его нет
	if err := os.MkdirAll(s.audioDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания каталога %s: %w", s.audioDir, err)
	}

	filename := fmt.Sprintf("audio_%s.mp3", uuid.New().String())
	if err := os.WriteFile(filepath.Join(s.audioDir, filename), audio, 0644); err != nil {
		return "", fmt.Errorf("ошибка записи файла %s: %w", filename, err)
	}

	return filename, nil
}
