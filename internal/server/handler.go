package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"voice-interview-agent/internal/api"
	"voice-interview-agent/internal/evaluation"
	"voice-interview-agent/internal/interview"
)

// Whisper принимает файлы до 25 МБ
const maxAudioBytes = 25 << 20

// DTO запросов и ответов

type startRequest struct {
	Role string `json:"role"`
}

type startResponse struct {
	InterviewID string `json:"interview_id"`
	Question    string `json:"question"`
	AudioFile   string `json:"audio_file"`
}

type answerResponse struct {
	Transcript    string                 `json:"transcript"`
	Evaluation    *evaluation.Evaluation `json:"evaluation"`
	NameCollected bool                   `json:"name_collected,omitempty"`
	NextQuestion  string                 `json:"next_question,omitempty"`
	AudioFile     string                 `json:"audio_file,omitempty"`
}

type nextResponse struct {
	Question  string `json:"question"`
	AudioFile string `json:"audio_file"`
}

type completedResponse struct {
	Completed bool `json:"completed"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// /interview/start
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	// Роль принимается query параметром либо JSON телом
	role := r.URL.Query().Get("role")
	if role == "" && r.Body != nil {
		var req startRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			role = req.Role
		}
	}

	result, err := s.svc.Create(r.Context(), role)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, startResponse{
		InterviewID: result.SessionID,
		Question:    result.Question,
		AudioFile:   result.AudioFile,
	})
}

// /interview/{id}/answer, /interview/{id}/next, /interview/{id}/summary
func (s *Server) handleInterviewWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/interview/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}

	id, action := parts[0], parts[1]

	switch action {
	case "answer":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleAnswer(w, r, id)
	case "next":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleNext(w, r, id)
	case "summary":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleSummary(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request, id string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "audio file is required"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "failed to read audio file"})
		return
	}

	result, err := s.svc.SubmitAnswer(r.Context(), id, audio)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		Transcript:    result.Transcript,
		Evaluation:    result.Evaluation,
		NameCollected: result.NameCollected,
		NextQuestion:  result.NextQuestion,
		AudioFile:     result.AudioFile,
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request, id string) {
	result, err := s.svc.PeekNext(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if result.Completed {
		writeJSON(w, http.StatusOK, completedResponse{Completed: true})
		return
	}

	writeJSON(w, http.StatusOK, nextResponse{
		Question:  result.Question,
		AudioFile: result.AudioFile,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, id string) {
	report, err := s.svc.Summarize(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// writeError переводит ошибки ядра в HTTP статусы: неизвестная сессия — 404,
// завершенное интервью — 409, пустой ввод — 422, сбой внешнего сервиса — 502
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var svcErr *api.ServiceError

	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Invalid interview session"})
	case errors.Is(err, interview.ErrInterviewCompleted):
		writeJSON(w, http.StatusConflict, errorResponse{Detail: "Interview already completed"})
	case errors.Is(err, interview.ErrEmptyTranscript):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "Could not recognize any speech in the audio"})
	case errors.Is(err, interview.ErrEmptyRole):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "Role must not be empty"})
	case errors.As(err, &svcErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{Detail: svcErr.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "Method not allowed"})
}
