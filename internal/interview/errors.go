package interview

import (
	"errors"

	"voice-interview-agent/internal/session"
)

var (
	// ErrSessionNotFound — неизвестный идентификатор сессии
	ErrSessionNotFound = session.ErrNotFound

	// ErrInterviewCompleted — попытка ответить после последнего вопроса
	ErrInterviewCompleted = errors.New("interview already completed")

	// ErrEmptyRole — пустая роль при создании интервью
	ErrEmptyRole = errors.New("role must not be empty")

	// ErrEmptyTranscript — расшифровка оказалась пустой, ход не принимается
	ErrEmptyTranscript = errors.New("transcript is empty")
)
