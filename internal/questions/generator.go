package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"voice-interview-agent/internal/extractor"
	"voice-interview-agent/internal/metrics"
)

// TextGenerator — шлюз генерации текста
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator формирует список вопросов интервью под заданную роль.
// Неразборчивый ответ модели подменяется фиксированным набором вопросов,
// ошибкой наверх поднимаются только сбои самого шлюза.
type Generator struct {
	llm     TextGenerator
	count   int
	metrics *metrics.Metrics
}

// New создает генератор вопросов
func New(llm TextGenerator, count int, m *metrics.Metrics) *Generator {
	if count <= 0 {
		count = 3
	}
	return &Generator{llm: llm, count: count, metrics: m}
}

// Generate возвращает упорядоченный список вопросов. Количество — лучшее
// усилие модели: список не дополняется и не обрезается.
func (g *Generator) Generate(ctx context.Context, role, candidateName string) ([]string, error) {
	prompt := g.buildPrompt(role, candidateName)

	response, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации вопросов: %w", err)
	}

	result := extractor.Extract(response, extractor.KindArray)
	if !result.OK {
		return g.fallback(role, candidateName), nil
	}

	var questions []string
	if err := json.Unmarshal(result.Value, &questions); err != nil || len(questions) == 0 {
		log.Printf("questions: модель вернула массив неподходящей формы: %q", response)
		return g.fallback(role, candidateName), nil
	}

	return questions, nil
}

// buildPrompt создает промпт генератора вопросов
func (g *Generator) buildPrompt(role, candidateName string) string {
	var prompt strings.Builder

	prompt.WriteString("You are an interview agent.\n\n")
	prompt.WriteString(fmt.Sprintf("Generate %d interview questions for the role: %s.\n\n", g.count, role))

	prompt.WriteString("Rules:\n")
	prompt.WriteString("- Questions must be suitable for a spoken interview\n")
	prompt.WriteString("- Open-ended\n")
	prompt.WriteString("- Increasing difficulty\n")
	prompt.WriteString("- No numbering\n")
	prompt.WriteString("- No explanations\n")
	if candidateName != "" {
		prompt.WriteString(fmt.Sprintf("- The candidate's name is %s, address them by name where it feels natural\n", candidateName))
	}

	prompt.WriteString("\nReturn ONLY a JSON array of strings, no markdown or extra text.\n")
	prompt.WriteString("Example:\n")
	prompt.WriteString(`["Question 1", "Question 2", "Question 3"]`)

	return prompt.String()
}

// fallback — фиксированный набор вопросов на случай неразборчивого ответа
func (g *Generator) fallback(role, candidateName string) []string {
	g.metrics.IncrementFallbacksUsed()

	first := fmt.Sprintf("Tell me about your experience with %s responsibilities.", role)
	if candidateName != "" {
		first = fmt.Sprintf("%s, tell me about your experience with %s responsibilities.", candidateName, role)
	}

	return []string{
		first,
		fmt.Sprintf("What technical skills do you bring to the %s position?", role),
		"Describe a challenging project you've worked on.",
	}
}
