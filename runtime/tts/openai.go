package tts

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/itai-levin/paper-to-audio/runtime/audio"
	"github.com/itai-levin/paper-to-audio/runtime/credentials"
	"github.com/itai-levin/paper-to-audio/runtime/logger"
)

const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openAITTSEndpoint = "/audio/speech"

	// ModelGPT4oMiniTTS is the default OpenAI speech model; it accepts
	// style instructions.
	ModelGPT4oMiniTTS = "gpt-4o-mini-tts"

	// openAIFormatWAV asks for a complete WAV file in the response body.
	openAIFormatWAV = "wav"
)

// VoiceAlloy is the default OpenAI voice.
const VoiceAlloy = "alloy"

// DefaultInstructions is the narration style sent with every OpenAI request.
const DefaultInstructions = "Speak in a calm, clear, and measured narrator voice, " +
	"as if reading a scientific paper aloud to an attentive listener. " +
	"Pronounce technical terms carefully and pause briefly at section headings."

// OpenAIService implements TTS using OpenAI's text-to-speech API. Responses
// are requested as WAV containers and unwrapped to PCM.
type OpenAIService struct {
	credential   credentials.Credential
	baseURL      string
	client       *http.Client
	model        string
	voice        string
	instructions string
}

// OpenAIOption configures the OpenAI TTS service.
type OpenAIOption func(*OpenAIService)

// WithOpenAIBaseURL sets a custom base URL (for testing or proxies).
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(s *OpenAIService) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

// WithOpenAIClient sets a custom HTTP client.
func WithOpenAIClient(client *http.Client) OpenAIOption {
	return func(s *OpenAIService) {
		s.client = client
	}
}

// WithOpenAIModel sets the TTS model to use.
func WithOpenAIModel(model string) OpenAIOption {
	return func(s *OpenAIService) {
		s.model = model
	}
}

// WithOpenAIVoice sets the voice to use.
func WithOpenAIVoice(voice string) OpenAIOption {
	return func(s *OpenAIService) {
		s.voice = voice
	}
}

// WithOpenAIInstructions sets the speaking-style instructions. An empty
// string omits them from the request.
func WithOpenAIInstructions(instructions string) OpenAIOption {
	return func(s *OpenAIService) {
		s.instructions = instructions
	}
}

// NewOpenAI creates an OpenAI TTS service.
func NewOpenAI(cred credentials.Credential, opts ...OpenAIOption) *OpenAIService {
	s := &OpenAIService{
		credential:   cred,
		baseURL:      openAIBaseURL,
		client:       defaultHTTPClient(),
		model:        ModelGPT4oMiniTTS,
		voice:        VoiceAlloy,
		instructions: DefaultInstructions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the provider identifier.
func (s *OpenAIService) Name() string {
	return "openai"
}

// Model returns the configured model.
func (s *OpenAIService) Model() string {
	return s.model
}

// Voice returns the configured voice.
func (s *OpenAIService) Voice() string {
	return s.voice
}

// openAIRequest is the request body for OpenAI TTS API.
type openAIRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	Instructions   string `json:"instructions,omitempty"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize converts text to PCM using OpenAI's TTS API. The WAV header of
// the response is discarded; audio at another sample rate is resampled to
// 24 kHz.
func (s *OpenAIService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	reqBody := openAIRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		Instructions:   s.instructions,
		ResponseFormat: openAIFormatWAV,
	}

	respBody, err := postJSON(ctx, s.client, s.credential, s.Name(), s.baseURL+openAITTSEndpoint, reqBody)
	if err != nil {
		return nil, err
	}

	pcm, format, err := audio.DecodeWAV(respBody)
	if err != nil {
		return nil, NewSynthesisError(s.Name(), "", "malformed WAV response",
			fmt.Errorf("%w: %w", ErrUnexpectedFormat, err), false)
	}

	if format != audio.DefaultFormat {
		logger.DebugContext(ctx, "Normalizing backend audio", "provider", s.Name(), "format", format.String())
		pcm, err = audio.Normalize(pcm, format)
		if err != nil {
			return nil, NewSynthesisError(s.Name(), "", "cannot normalize audio",
				fmt.Errorf("%w: %w", ErrUnexpectedFormat, err), false)
		}
	}

	return pcm, nil
}
