package extractor

import (
	"encoding/json"
	"log"
	"regexp"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind задает ожидаемый тип JSON значения верхнего уровня
type Kind int

const (
	KindObject Kind = iota
	KindArray
)

// Result — тегированный результат извлечения JSON из ответа модели.
// OK=false означает, что разобрать ответ не удалось и вызывающая сторона
// обязана подставить свой детерминированный fallback. Ошибок наружу нет.
type Result struct {
	OK    bool
	Value json.RawMessage
	Raw   string
}

var fencedRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// Extract извлекает одно JSON значение из произвольно оформленного текста:
// сначала содержимое fenced блока, затем первый сбалансированный фрагмент
// {...} или [...] в сыром тексте, после чего строгий разбор.
func Extract(raw string, kind Kind) Result {
	candidates := []string{raw}
	if m := fencedRe.FindStringSubmatch(raw); m != nil {
		// Содержимое fenced блока имеет приоритет
		candidates = []string{m[1], raw}
	}

	open, close := byte('{'), byte('}')
	if kind == KindArray {
		open, close = '[', ']'
	}

	for _, candidate := range candidates {
		span, found := balancedSpan(candidate, open, close)
		if !found {
			continue
		}
		var value json.RawMessage
		if err := json.Unmarshal([]byte(span), &value); err != nil {
			continue
		}
		return Result{OK: true, Value: value, Raw: raw}
	}

	log.Printf("extractor: не удалось извлечь JSON из ответа модели: %q", raw)
	return Result{Raw: raw}
}

// ExtractWithSchema дополнительно проверяет извлеченное значение по JSON схеме.
// Несоответствие схеме приравнивается к неудаче разбора.
func ExtractWithSchema(raw string, kind Kind, schema *jsonschema.Schema) Result {
	result := Extract(raw, kind)
	if !result.OK {
		return result
	}

	var value interface{}
	if err := json.Unmarshal(result.Value, &value); err != nil {
		log.Printf("extractor: не удалось декодировать извлеченный JSON: %v", err)
		return Result{Raw: raw}
	}

	if err := schema.Validate(value); err != nil {
		log.Printf("extractor: ответ модели не прошел валидацию схемы: %v; текст: %q", err, raw)
		return Result{Raw: raw}
	}

	return result
}

// MustCompileSchema компилирует JSON схему из исходника, паника при ошибке.
// Схемы в этом сервисе статические, ошибка компиляции — дефект сборки.
func MustCompileSchema(name, source string) *jsonschema.Schema {
	return jsonschema.MustCompileString(name, source)
}

// balancedSpan находит первый завершенный фрагмент от open до парного close,
// учитывая вложенность и скобки внутри строковых литералов
func balancedSpan(s string, open, close byte) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if start >= 0 {
				inString = true
			}
		case open:
			if start < 0 {
				start = i
			}
			depth++
		case close:
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
