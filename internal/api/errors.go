package api

import "fmt"

// ServiceError представляет ошибку внешнего сервиса: транспорт, авторизация,
// квоты, неуспешный HTTP статус. Такие ошибки не маскируются и поднимаются
// до вызывающей стороны как есть.
type ServiceError struct {
	Service    string // openai, whisper, elevenlabs, polly
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Service, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
