package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"voice-interview-agent/internal/extractor"
	"voice-interview-agent/internal/metrics"
)

// Evaluation — оценка одного ответа кандидата, создается ровно один раз
// на ход интервью и дальше не меняется
type Evaluation struct {
	Relevance   int    `json:"relevance"`
	Clarity     int    `json:"clarity"`
	Correctness int    `json:"correctness"`
	Feedback    string `json:"feedback"`
}

// TextGenerator — шлюз генерации текста
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Схема держит оценки целыми числами в диапазоне [0, 10]; ответ модели,
// вышедший за границы, приравнивается к неудаче разбора
var evaluationSchema = extractor.MustCompileSchema("evaluation.schema.json", `{
	"type": "object",
	"required": ["relevance", "clarity", "correctness", "feedback"],
	"properties": {
		"relevance":   {"type": "integer", "minimum": 0, "maximum": 10},
		"clarity":     {"type": "integer", "minimum": 0, "maximum": 10},
		"correctness": {"type": "integer", "minimum": 0, "maximum": 10},
		"feedback":    {"type": "string"}
	}
}`)

// Evaluator оценивает ответ кандидата на заданный вопрос
type Evaluator struct {
	llm     TextGenerator
	metrics *metrics.Metrics
}

// New создает оценщик ответов
func New(llm TextGenerator, m *metrics.Metrics) *Evaluator {
	return &Evaluator{llm: llm, metrics: m}
}

// Evaluate возвращает оценку ответа. Каждый принятый ответ получает оценку:
// неразборчивый вывод модели подменяется нейтральным fallback, наверх
// поднимаются только ошибки шлюза.
func (e *Evaluator) Evaluate(ctx context.Context, question, answer, candidateName string) (Evaluation, error) {
	prompt := e.buildPrompt(question, answer, candidateName)

	response, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		return Evaluation{}, fmt.Errorf("ошибка оценки ответа: %w", err)
	}

	result := extractor.ExtractWithSchema(response, extractor.KindObject, evaluationSchema)
	if !result.OK {
		return e.fallback(), nil
	}

	var eval Evaluation
	if err := json.Unmarshal(result.Value, &eval); err != nil {
		log.Printf("evaluation: не удалось декодировать оценку: %q", response)
		return e.fallback(), nil
	}

	return eval, nil
}

// buildPrompt создает промпт оценщика
func (e *Evaluator) buildPrompt(question, answer, candidateName string) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Question: %s\n", question))
	prompt.WriteString(fmt.Sprintf("Answer: %s\n\n", answer))

	prompt.WriteString("Evaluate from 0-10 on:\n")
	prompt.WriteString("- Relevance\n")
	prompt.WriteString("- Clarity\n")
	prompt.WriteString("- Correctness\n\n")

	if candidateName != "" {
		prompt.WriteString(fmt.Sprintf("Write the feedback addressed to %s in a supportive tone.\n\n", candidateName))
	}

	prompt.WriteString("Return ONLY valid JSON, no markdown or extra text:\n")
	prompt.WriteString(`{"relevance": int, "clarity": int, "correctness": int, "feedback": "text"}`)

	return prompt.String()
}

// fallback — нейтральная оценка на случай неразборчивого ответа модели
func (e *Evaluator) fallback() Evaluation {
	e.metrics.IncrementFallbacksUsed()
	return Evaluation{
		Relevance:   5,
		Clarity:     5,
		Correctness: 5,
		Feedback:    "Unable to evaluate answer properly. Please try again.",
	}
}
