package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"voice-interview-agent/internal/evaluation"
	"voice-interview-agent/internal/metrics"
	"voice-interview-agent/internal/questions"
	"voice-interview-agent/internal/session"
	"voice-interview-agent/internal/summary"
)

// Transcriber — шлюз распознавания речи
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer — шлюз синтеза речи, возвращает ссылку на аудио файл
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Service — машина состояний интервью. Единственный владелец состояния
// сессий: все мутации проходят через WithSession хранилища, так что над
// одной сессией одновременно идет не больше одной операции.
type Service struct {
	store     session.Store
	stt       Transcriber
	tts       Synthesizer
	questions *questions.Generator
	evaluator *evaluation.Evaluator
	summary   *summary.Generator
	metrics   *metrics.Metrics
}

// New создает машину состояний интервью
func New(
	store session.Store,
	stt Transcriber,
	tts Synthesizer,
	questionGen *questions.Generator,
	evaluator *evaluation.Evaluator,
	summaryGen *summary.Generator,
	m *metrics.Metrics,
) *Service {
	return &Service{
		store:     store,
		stt:       stt,
		tts:       tts,
		questions: questionGen,
		evaluator: evaluator,
		summary:   summaryGen,
		metrics:   m,
	}
}

// StartResult — ответ на создание интервью
type StartResult struct {
	SessionID string
	Question  string
	AudioFile string
}

// AnswerResult — ответ на принятый ход. Evaluation равен nil ровно в одном
// случае: ход закрыл сбор имени.
type AnswerResult struct {
	Transcript    string
	Evaluation    *evaluation.Evaluation
	NameCollected bool
	NextQuestion  string
	AudioFile     string
}

// NextResult — следующий вопрос либо отметка о завершении
type NextResult struct {
	Completed bool
	Question  string
	AudioFile string
}

// Create создает сессию в фазе сбора имени. Вопросы не генерируются до тех
// пор, пока кандидат не представится.
func (s *Service) Create(ctx context.Context, role string) (*StartResult, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, ErrEmptyRole
	}

	sess := &session.Session{
		ID:           uuid.New().String(),
		Role:         role,
		Phase:        session.PhaseAwaitingName,
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
	}

	prompt := namePrompt(role)
	audioFile, err := s.tts.Synthesize(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(sess); err != nil {
		return nil, fmt.Errorf("ошибка создания сессии: %w", err)
	}

	s.metrics.IncrementInterviewsStarted()

	return &StartResult{
		SessionID: sess.ID,
		Question:  prompt,
		AudioFile: audioFile,
	}, nil
}

// SubmitAnswer принимает аудио ответа. Первый ответ свежей сессии трактуется
// как имя кандидата, остальные — как ответы на очередной вопрос.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID string, audio []byte) (*AnswerResult, error) {
	var result *AnswerResult

	err := s.store.WithSession(sessionID, func(sess *session.Session) error {
		transcript, err := s.stt.Transcribe(ctx, audio)
		if err != nil {
			return err
		}

		transcript = strings.TrimSpace(transcript)
		if transcript == "" {
			return ErrEmptyTranscript
		}

		sess.LastActivity = time.Now()

		if sess.Phase == session.PhaseAwaitingName {
			result, err = s.collectName(ctx, sess, transcript)
			return err
		}

		result, err = s.acceptAnswer(ctx, sess, transcript)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// collectName закрывает фазу сбора имени: сохраняет имя, генерирует вопросы
// и озвучивает приветствие с первым вопросом
func (s *Service) collectName(ctx context.Context, sess *session.Session, transcript string) (*AnswerResult, error) {
	qs, err := s.questions.Generate(ctx, sess.Role, transcript)
	if err != nil {
		return nil, err
	}

	greeting := fmt.Sprintf("Nice to meet you, %s. Let's begin. %s", transcript, qs[0])
	audioFile, err := s.tts.Synthesize(ctx, greeting)
	if err != nil {
		return nil, err
	}

	// Мутируем сессию только когда все внешние вызовы прошли
	sess.CandidateName = transcript
	sess.Questions = qs
	sess.Phase = session.PhaseInProgress

	s.metrics.IncrementQuestionsServed()

	return &AnswerResult{
		Transcript:    transcript,
		NameCollected: true,
		NextQuestion:  qs[0],
		AudioFile:     audioFile,
	}, nil
}

// acceptAnswer оценивает ответ на текущий вопрос и сдвигает курсор
func (s *Service) acceptAnswer(ctx context.Context, sess *session.Session, transcript string) (*AnswerResult, error) {
	if sess.Cursor >= len(sess.Questions) {
		return nil, ErrInterviewCompleted
	}

	question := sess.Questions[sess.Cursor]
	eval, err := s.evaluator.Evaluate(ctx, question, transcript, sess.CandidateName)
	if err != nil {
		return nil, err
	}

	sess.Turns = append(sess.Turns, session.Turn{
		Question:   question,
		Transcript: transcript,
		Evaluation: eval,
	})
	sess.Cursor++

	s.metrics.IncrementAnswersEvaluated()

	if sess.Cursor == len(sess.Questions) {
		sess.Phase = session.PhaseCompleted
		s.metrics.IncrementInterviewsCompleted()
	}

	return &AnswerResult{
		Transcript: transcript,
		Evaluation: &eval,
	}, nil
}

// PeekNext озвучивает текущий вопрос, не трогая курсор. Повторный вызов
// безопасен; в фазе сбора имени повторяется просьба представиться.
func (s *Service) PeekNext(ctx context.Context, sessionID string) (*NextResult, error) {
	var result *NextResult

	err := s.store.WithSession(sessionID, func(sess *session.Session) error {
		if sess.Phase == session.PhaseAwaitingName {
			prompt := namePrompt(sess.Role)
			audioFile, err := s.tts.Synthesize(ctx, prompt)
			if err != nil {
				return err
			}
			result = &NextResult{Question: prompt, AudioFile: audioFile}
			return nil
		}

		if sess.Cursor >= len(sess.Questions) {
			result = &NextResult{Completed: true}
			return nil
		}

		question := sess.Questions[sess.Cursor]
		audioFile, err := s.tts.Synthesize(ctx, question)
		if err != nil {
			return err
		}

		s.metrics.IncrementQuestionsServed()
		result = &NextResult{Question: question, AudioFile: audioFile}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Summarize строит итоговый отчет по накопленным ходам сессии
func (s *Service) Summarize(ctx context.Context, sessionID string) (*summary.Summary, error) {
	var report summary.Summary

	err := s.store.WithSession(sessionID, func(sess *session.Session) error {
		var err error
		report, err = s.summary.Generate(ctx, sess.Turns, sess.CandidateName)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func namePrompt(role string) string {
	return fmt.Sprintf("Welcome to your mock interview for the %s position. Before we begin, please tell me your name.", role)
}
