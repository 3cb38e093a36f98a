package tts

import (
	"context"
	"errors"
	"fmt"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/aws/smithy-go"

	"voice-interview-agent/internal/api"
)

// synthClient покрывает используемую часть Polly клиента, подменяется в тестах
type synthClient interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// Polly — провайдер синтеза через Amazon Polly
type Polly struct {
	client  synthClient
	voiceID string
}

// NewPolly создает провайдер Polly с AWS конфигурацией по умолчанию
func NewPolly(ctx context.Context, region, voiceID string) (*Polly, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки AWS конфигурации: %w", err)
	}
	return NewPollyWithClient(polly.NewFromConfig(cfg), voiceID), nil
}

// NewPollyWithClient создает провайдер с готовым клиентом
func NewPollyWithClient(client synthClient, voiceID string) *Polly {
	if voiceID == "" {
		voiceID = "Joanna"
	}
	return &Polly{client: client, voiceID: voiceID}
}

// SynthesizeSpeech озвучивает текст и возвращает MP3 байты
func (p *Polly) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	output, err := p.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Engine:       pollytypes.EngineNeural,
		OutputFormat: pollytypes.OutputFormatMp3,
		Text:         &text,
		TextType:     pollytypes.TextTypeText,
		VoiceId:      pollytypes.VoiceId(p.voiceID),
	})
	if err != nil {
		return nil, normalizePollyError(err)
	}
	if output == nil || output.AudioStream == nil {
		return nil, &api.ServiceError{Service: "polly", Message: "empty audio stream"}
	}
	defer output.AudioStream.Close()

	audio, err := io.ReadAll(output.AudioStream)
	if err != nil {
		return nil, &api.ServiceError{Service: "polly", Message: "error reading audio stream", Err: err}
	}

	return audio, nil
}

func normalizePollyError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &api.ServiceError{
			Service: "polly",
			Message: fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage()),
			Err:     err,
		}
	}
	return &api.ServiceError{Service: "polly", Message: "error calling SynthesizeSpeech", Err: err}
}
