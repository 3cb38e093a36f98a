package session

import (
	"time"

	"voice-interview-agent/internal/evaluation"
)

// Phase — фаза сессии интервью. Переходы только вперед:
// AwaitingName → InProgress → Completed.
type Phase int

const (
	PhaseAwaitingName Phase = iota
	PhaseInProgress
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingName:
		return "awaiting_name"
	case PhaseInProgress:
		return "in_progress"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Turn — один ход интервью: вопрос, расшифровка ответа и его оценка
type Turn struct {
	Question   string                `json:"question"`
	Transcript string                `json:"transcript"`
	Evaluation evaluation.Evaluation `json:"evaluation"`
}

// Session — одно интервью. Мутируется только машиной состояний под
// блокировкой своей сессии; инвариант Cursor == len(Turns) после сбора имени.
type Session struct {
	ID            string
	Role          string
	Phase         Phase
	CandidateName string
	Questions     []string
	Cursor        int
	Turns         []Turn
	CreatedAt     time.Time
	LastActivity  time.Time
}
