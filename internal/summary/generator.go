package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"voice-interview-agent/internal/extractor"
	"voice-interview-agent/internal/metrics"
	"voice-interview-agent/internal/session"
)

// Summary — итоговый отчет по интервью
type Summary struct {
	OverallFeedback string `json:"overall_feedback"`
	Strengths       string `json:"strengths"`
	Improvements    string `json:"improvements"`
}

// TextGenerator — шлюз генерации текста
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var summarySchema = extractor.MustCompileSchema("summary.schema.json", `{
	"type": "object",
	"required": ["overall_feedback", "strengths", "improvements"],
	"properties": {
		"overall_feedback": {"type": "string"},
		"strengths":        {"type": "string"},
		"improvements":     {"type": "string"}
	}
}`)

// Generator строит итоговый отчет по всем ходам интервью
type Generator struct {
	llm     TextGenerator
	metrics *metrics.Metrics
}

// New создает генератор отчетов
func New(llm TextGenerator, m *metrics.Metrics) *Generator {
	return &Generator{llm: llm, metrics: m}
}

// Generate возвращает итоговый отчет. Без ходов шлюз не вызывается вовсе;
// неразборчивый ответ модели подменяется отчетом, рассчитанным из оценок.
func (g *Generator) Generate(ctx context.Context, turns []session.Turn, candidateName string) (Summary, error) {
	if len(turns) == 0 {
		return Summary{
			OverallFeedback: "No answers recorded yet.",
			Strengths:       "N/A",
			Improvements:    "N/A",
		}, nil
	}

	prompt := g.buildPrompt(turns, candidateName)

	response, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return Summary{}, fmt.Errorf("ошибка генерации отчета: %w", err)
	}

	result := extractor.ExtractWithSchema(response, extractor.KindObject, summarySchema)
	if !result.OK {
		return g.fallback(turns), nil
	}

	var report Summary
	if err := json.Unmarshal(result.Value, &report); err != nil {
		log.Printf("summary: не удалось декодировать отчет: %q", response)
		return g.fallback(turns), nil
	}

	return report, nil
}

// buildPrompt склеивает все ходы в текст интервью и формирует промпт отчета
func (g *Generator) buildPrompt(turns []session.Turn, candidateName string) string {
	var prompt strings.Builder

	prompt.WriteString("Interview Performance Analysis:\n\n")
	for i, turn := range turns {
		prompt.WriteString(fmt.Sprintf("Question %d: %s\n", i+1, turn.Question))
		prompt.WriteString(fmt.Sprintf("Answer: %s\n", turn.Transcript))
		prompt.WriteString(fmt.Sprintf("Evaluation: Relevance=%d/10, Clarity=%d/10, Correctness=%d/10\n",
			turn.Evaluation.Relevance, turn.Evaluation.Clarity, turn.Evaluation.Correctness))
		prompt.WriteString(fmt.Sprintf("Feedback: %s\n\n", turn.Evaluation.Feedback))
	}

	prompt.WriteString("Based on this complete interview performance, provide a comprehensive summary with:\n\n")
	prompt.WriteString("1. Overall Feedback: A 2-3 sentence summary of the candidate's overall performance\n")
	prompt.WriteString("2. Strengths: Key strengths demonstrated across all answers (2-3 specific points)\n")
	prompt.WriteString("3. Areas for Improvement: Specific actionable suggestions for improvement (2-3 points)\n\n")

	if candidateName != "" {
		prompt.WriteString(fmt.Sprintf("Address the candidate by name: %s.\n\n", candidateName))
	}

	prompt.WriteString("Return ONLY valid JSON, no markdown or extra text:\n")
	prompt.WriteString(`{"overall_feedback": "text", "strengths": "text", "improvements": "text"}`)

	return prompt.String()
}

// fallback считает средние оценки по всем ходам, округление до одного знака
func (g *Generator) fallback(turns []session.Turn) Summary {
	g.metrics.IncrementFallbacksUsed()

	var relevance, clarity, correctness int
	for _, turn := range turns {
		relevance += turn.Evaluation.Relevance
		clarity += turn.Evaluation.Clarity
		correctness += turn.Evaluation.Correctness
	}

	n := float64(len(turns))
	return Summary{
		OverallFeedback: fmt.Sprintf(
			"Completed %d questions with average scores: Relevance %.1f/10, Clarity %.1f/10, Correctness %.1f/10",
			len(turns), float64(relevance)/n, float64(clarity)/n, float64(correctness)/n),
		Strengths:    "Demonstrated engagement throughout the interview",
		Improvements: "Continue practicing to improve scores across all evaluation criteria",
	}
}
