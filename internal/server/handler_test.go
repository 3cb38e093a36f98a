package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"voice-interview-agent/internal/evaluation"
	"voice-interview-agent/internal/interview"
	"voice-interview-agent/internal/metrics"
	"voice-interview-agent/internal/questions"
	"voice-interview-agent/internal/server"
	"voice-interview-agent/internal/session"
	"voice-interview-agent/internal/summary"
)

type scriptedLLM struct {
	responses []string
}

func (f *scriptedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if len(f.responses) == 0 {
		return "", errors.New("no scripted response left")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next, nil
}

type fakeTranscriber struct {
	queue []string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(f.queue) == 0 {
		return "", errors.New("no scripted transcript left")
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next, nil
}

type fakeSynthesizer struct {
	calls int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	f.calls++
	return fmt.Sprintf("audio_%d.mp3", f.calls), nil
}

func newTestServer(t *testing.T, llm *scriptedLLM, stt *fakeTranscriber) http.Handler {
	t.Helper()
	m := metrics.New()
	svc := interview.New(
		session.NewMemoryStore(),
		stt,
		&fakeSynthesizer{},
		questions.New(llm, 3, m),
		evaluation.New(llm, m),
		summary.New(llm, m),
		m,
	)
	return server.New(svc, m, t.TempDir(), nil)
}

func audioRequest(t *testing.T, url string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", "answer.wav")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := part.Write([]byte("fake wav bytes")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func evalJSON(relevance, clarity, correctness int) string {
	return fmt.Sprintf(`{"relevance": %d, "clarity": %d, "correctness": %d, "feedback": "noted"}`, relevance, clarity, correctness)
}

func TestStartEndpoint(t *testing.T) {
	handler := newTestServer(t, &scriptedLLM{}, &fakeTranscriber{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/start?role=Backend+Engineer", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		InterviewID string `json:"interview_id"`
		Question    string `json:"question"`
		AudioFile   string `json:"audio_file"`
	}
	decodeBody(t, rec, &resp)
	if resp.InterviewID == "" || resp.Question == "" || resp.AudioFile == "" {
		t.Fatalf("incomplete start response: %+v", resp)
	}
}

func TestStartRoleFromBody(t *testing.T) {
	handler := newTestServer(t, &scriptedLLM{}, &fakeTranscriber{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/interview/start", bytes.NewBufferString(`{"role": "Data Scientist"}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStartRejectsEmptyRole(t *testing.T) {
	handler := newTestServer(t, &scriptedLLM{}, &fakeTranscriber{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/start", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestStartMethodNotAllowed(t *testing.T) {
	handler := newTestServer(t, &scriptedLLM{}, &fakeTranscriber{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/interview/start?role=Backend+Engineer", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	handler := newTestServer(t, &scriptedLLM{}, &fakeTranscriber{queue: []string{"Alice"}})

	for _, tc := range []struct {
		name string
		req  *http.Request
	}{
		{"answer", audioRequest(t, "/interview/missing/answer")},
		{"next", httptest.NewRequest(http.MethodGet, "/interview/missing/next", nil)},
		{"summary", httptest.NewRequest(http.MethodGet, "/interview/missing/summary", nil)},
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, tc.req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", tc.name, rec.Code)
		}

		var resp struct {
			Detail string `json:"detail"`
		}
		decodeBody(t, rec, &resp)
		if resp.Detail != "Invalid interview session" {
			t.Errorf("%s: unexpected detail %q", tc.name, resp.Detail)
		}
	}
}

func TestAnswerRequiresAudio(t *testing.T) {
	handler := newTestServer(t, &scriptedLLM{}, &fakeTranscriber{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/some-id/answer", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

// Полный прогон интервью через HTTP слой
func TestInterviewFlow(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`["Q1", "Q2", "Q3"]`,
		evalJSON(6, 7, 8),
		evalJSON(8, 9, 10),
		evalJSON(7, 8, 9),
		`{"overall_feedback": "Good run.", "strengths": "Steady.", "improvements": "Examples."}`,
	}}
	stt := &fakeTranscriber{queue: []string{"Alice", "answer one", "answer two", "answer three", "extra"}}
	handler := newTestServer(t, llm, stt)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/start?role=Backend+Engineer", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", rec.Code)
	}

	var started struct {
		InterviewID string `json:"interview_id"`
	}
	decodeBody(t, rec, &started)

	answerURL := "/interview/" + started.InterviewID + "/answer"

	// Имя кандидата: evaluation отдается как null
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, audioRequest(t, answerURL))
	if rec.Code != http.StatusOK {
		t.Fatalf("name answer: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var named struct {
		Transcript    string          `json:"transcript"`
		Evaluation    json.RawMessage `json:"evaluation"`
		NameCollected bool            `json:"name_collected"`
		NextQuestion  string          `json:"next_question"`
	}
	decodeBody(t, rec, &named)
	if !named.NameCollected || named.Transcript != "Alice" || named.NextQuestion != "Q1" {
		t.Fatalf("unexpected name response: %+v", named)
	}
	if string(named.Evaluation) != "null" {
		t.Fatalf("evaluation must be null during name collection, got %s", named.Evaluation)
	}

	for k := 1; k <= 3; k++ {
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, audioRequest(t, answerURL))
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %d: expected 200, got %d: %s", k, rec.Code, rec.Body.String())
		}

		var answered struct {
			Evaluation *evaluation.Evaluation `json:"evaluation"`
		}
		decodeBody(t, rec, &answered)
		if answered.Evaluation == nil {
			t.Fatalf("answer %d must carry an evaluation", k)
		}
	}

	// Лишний ответ — конфликт
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, audioRequest(t, answerURL))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 after completion, got %d", rec.Code)
	}

	// После завершения next отдает отметку о завершении
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/interview/"+started.InterviewID+"/next", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("next: expected 200, got %d", rec.Code)
	}
	var next struct {
		Completed bool `json:"completed"`
	}
	decodeBody(t, rec, &next)
	if !next.Completed {
		t.Fatal("expected completion marker")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/interview/"+started.InterviewID+"/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", rec.Code)
	}

	var report summary.Summary
	decodeBody(t, rec, &report)
	if report.OverallFeedback != "Good run." || report.Strengths != "Steady." || report.Improvements != "Examples." {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	handler := newTestServer(t, &scriptedLLM{}, &fakeTranscriber{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/start?role=Backend+Engineer", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}

	var snap metrics.Snapshot
	decodeBody(t, rec, &snap)
	if snap.InterviewsStarted != 1 {
		t.Fatalf("expected 1 started interview, got %d", snap.InterviewsStarted)
	}
}

func TestCORSPreflight(t *testing.T) {
	llm := &scriptedLLM{}
	m := metrics.New()
	svc := interview.New(session.NewMemoryStore(), &fakeTranscriber{}, &fakeSynthesizer{},
		questions.New(llm, 3, m), evaluation.New(llm, m), summary.New(llm, m), m)
	handler := server.New(svc, m, t.TempDir(), []string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodOptions, "/interview/start", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q", got)
	}

	// Неразрешенный origin не получает CORS заголовков
	req = httptest.NewRequest(http.MethodOptions, "/interview/start", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin for foreign origin: %q", got)
	}
}
