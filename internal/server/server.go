package server

import (
	"net/http"

	"voice-interview-agent/internal/interview"
	"voice-interview-agent/internal/metrics"
)

// Server — тонкий HTTP слой над машиной состояний интервью
type Server struct {
	svc     *interview.Service
	metrics *metrics.Metrics
}

// New собирает маршруты и middleware
func New(svc *interview.Service, m *metrics.Metrics, audioDir string, allowedOrigins []string) http.Handler {
	s := &Server{svc: svc, metrics: m}

	mux := http.NewServeMux()

	// /interview/start          → POST: создать сессию
	// /interview/{id}/answer    → POST: принять аудио ответа (multipart)
	// /interview/{id}/next      → GET: текущий вопрос
	// /interview/{id}/summary   → GET: итоговый отчет
	mux.HandleFunc("/interview/start", s.handleStart)
	mux.HandleFunc("/interview/", s.handleInterviewWithID)

	// Синтезированные файлы отдаются как статика
	mux.Handle("/audio/", http.StripPrefix("/audio/", http.FileServer(http.Dir(audioDir))))

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)

	return chainMiddlewares(mux, withLogging, withCORS(allowedOrigins))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.metrics.GetSnapshot())
}
