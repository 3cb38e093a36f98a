package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"voice-interview-agent/internal/api"
	"voice-interview-agent/internal/config"
	"voice-interview-agent/internal/evaluation"
	"voice-interview-agent/internal/interview"
	"voice-interview-agent/internal/metrics"
	"voice-interview-agent/internal/questions"
	"voice-interview-agent/internal/server"
	"voice-interview-agent/internal/session"
	"voice-interview-agent/internal/summary"
	"voice-interview-agent/internal/tts"
)

func main() {
	fmt.Println("🚀 Запуск Voice Interview Agent...")

	// Загружаем переменные окружения; в проде переменные могут
	// приходить из окружения напрямую, без .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env файл не найден, используются переменные окружения")
	}

	creds := config.LoadCredentials()
	if creds.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY не установлен")
	}

	// Загружаем конфигурацию сервиса
	cfg, err := config.Load("config/app.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем сервисы
	fmt.Println("🔧 Инициализация сервисов...")

	m := metrics.New()

	openaiClient := api.NewClient(creds.OpenAIKey, cfg.OpenAI, m)
	fmt.Println("✅ OpenAI клиент инициализирован")

	var provider tts.Provider
	switch cfg.TTS.Provider {
	case "polly":
		provider, err = tts.NewPolly(context.Background(), creds.AWSRegion, cfg.TTS.Voice)
		if err != nil {
			log.Fatalf("Ошибка инициализации Polly: %v", err)
		}
	default:
		if creds.ElevenLabsKey == "" {
			log.Fatal("ELEVENLABS_API_KEY не установлен")
		}
		provider = tts.NewElevenLabs(creds.ElevenLabsKey, creds.ElevenLabsVoice)
	}
	ttsService := tts.New(provider, cfg.GetAudioDir(), m)
	fmt.Printf("✅ Синтез речи инициализирован (%s)\n", cfg.TTS.Provider)

	// Создаем каталог для аудио файлов
	if err := os.MkdirAll(cfg.GetAudioDir(), 0755); err != nil {
		log.Fatalf("Ошибка создания каталога %s: %v", cfg.GetAudioDir(), err)
	}

	store := session.NewMemoryStore()
	questionGen := questions.New(openaiClient, cfg.GetQuestionCount(), m)
	evaluator := evaluation.New(openaiClient, m)
	summaryGen := summary.New(openaiClient, m)

	svc := interview.New(store, openaiClient, ttsService, questionGen, evaluator, summaryGen, m)
	handler := server.New(svc, m, cfg.GetAudioDir(), cfg.Server.AllowedOrigins)
	fmt.Println("✅ Машина состояний интервью инициализирована")

	// Выводим информацию о конфигурации
	fmt.Println("\n📋 Конфигурация:")
	fmt.Printf("• Вопросов в интервью: %d\n", cfg.GetQuestionCount())
	fmt.Printf("• Модель: %s\n", config.ModelOverride(cfg.OpenAI.Model))
	fmt.Printf("• TTS провайдер: %s\n", cfg.TTS.Provider)
	fmt.Printf("• Адрес: %s\n", cfg.Server.Addr)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	fmt.Println("\n🎤 Voice Interview Agent запущен!")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
