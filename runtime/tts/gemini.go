package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/itai-levin/paper-to-audio/runtime/audio"
	"github.com/itai-levin/paper-to-audio/runtime/credentials"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// ModelGeminiFlashTTS is the default Gemini speech model.
	ModelGeminiFlashTTS = "gemini-2.5-flash-preview-tts"

	// VoiceKore is the default Gemini prebuilt voice.
	VoiceKore = "Kore"

	// DefaultGeminiPrefix is prepended to every chunk so the model reads the
	// text instead of responding to it.
	DefaultGeminiPrefix = "Read:"

	geminiModalityAudio = "AUDIO"
)

// GeminiService implements TTS using Gemini's generateContent endpoint with
// audio response modality. The response carries raw PCM as base64 inline data.
type GeminiService struct {
	credential credentials.Credential
	baseURL    string
	client     *http.Client
	model      string
	voice      string
	prefix     string
}

// GeminiOption configures the Gemini TTS service.
type GeminiOption func(*GeminiService)

// WithGeminiBaseURL sets a custom base URL (for testing or proxies).
func WithGeminiBaseURL(url string) GeminiOption {
	return func(s *GeminiService) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

// WithGeminiClient sets a custom HTTP client.
func WithGeminiClient(client *http.Client) GeminiOption {
	return func(s *GeminiService) {
		s.client = client
	}
}

// WithGeminiModel sets the TTS model to use.
func WithGeminiModel(model string) GeminiOption {
	return func(s *GeminiService) {
		s.model = model
	}
}

// WithGeminiVoice sets the prebuilt voice name.
func WithGeminiVoice(voice string) GeminiOption {
	return func(s *GeminiService) {
		s.voice = voice
	}
}

// WithGeminiPrefix sets the instruction prepended to each chunk.
func WithGeminiPrefix(prefix string) GeminiOption {
	return func(s *GeminiService) {
		s.prefix = prefix
	}
}

// NewGemini creates a Gemini TTS service. cred is applied to every request;
// credentials.Resolve returns one configured for the x-goog-api-key header.
func NewGemini(cred credentials.Credential, opts ...GeminiOption) *GeminiService {
	s := &GeminiService{
		credential: cred,
		baseURL:    geminiBaseURL,
		client:     defaultHTTPClient(),
		model:      ModelGeminiFlashTTS,
		voice:      VoiceKore,
		prefix:     DefaultGeminiPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the provider identifier.
func (s *GeminiService) Name() string {
	return "gemini"
}

// Model returns the configured model.
func (s *GeminiService) Model() string {
	return s.model
}

// Voice returns the configured voice.
func (s *GeminiService) Voice() string {
	return s.voice
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type geminiGenConfig struct {
	ResponseModalities []string           `json:"responseModalities"`
	SpeechConfig       geminiSpeechConfig `json:"speechConfig"`
}

type geminiSpeechConfig struct {
	VoiceConfig geminiVoiceConfig `json:"voiceConfig"`
}

type geminiVoiceConfig struct {
	PrebuiltVoiceConfig geminiPrebuiltVoice `json:"prebuiltVoiceConfig"`
}

type geminiPrebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// Synthesize converts text to PCM using Gemini. The result is the
// concatenation, in response order, of every inline audio payload in the
// first candidate. A response without audio parts yields an empty slice.
func (s *GeminiService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: s.prefix + text}},
		}},
		GenerationConfig: geminiGenConfig{
			ResponseModalities: []string{geminiModalityAudio},
			SpeechConfig: geminiSpeechConfig{
				VoiceConfig: geminiVoiceConfig{
					PrebuiltVoiceConfig: geminiPrebuiltVoice{VoiceName: s.voice},
				},
			},
		},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	respBody, err := postJSON(ctx, s.client, s.credential, s.Name(), url, reqBody)
	if err != nil {
		return nil, err
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, NewSynthesisError(s.Name(), "", "failed to unmarshal response", err, false)
	}

	if len(resp.Candidates) == 0 {
		msg := "no candidates in response"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg += " (blocked: " + resp.PromptFeedback.BlockReason + ")"
		}
		return nil, NewSynthesisError(s.Name(), "", msg, ErrSynthesisFailed, false)
	}

	return decodeInlineAudio(s.Name(), resp.Candidates[0].Content.Parts)
}

func decodeInlineAudio(provider string, parts []geminiPart) ([]byte, error) {
	var pcm []byte
	for i, part := range parts {
		if part.InlineData == nil || part.InlineData.Data == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return nil, NewSynthesisError(provider, "",
				fmt.Sprintf("invalid base64 in part %d", i), err, false)
		}
		if rate := sampleRateFromMIME(part.InlineData.MimeType); rate != 0 && rate != audio.SampleRate24kHz {
			from := audio.Format{Channels: 1, SampleRate: rate, SampleWidth: audio.DefaultFormat.SampleWidth}
			if data, err = audio.Normalize(data, from); err != nil {
				return nil, NewSynthesisError(provider, "", "cannot normalize inline audio",
					fmt.Errorf("%w: %w", ErrUnexpectedFormat, err), false)
			}
		}
		pcm = append(pcm, data...)
	}
	if pcm == nil {
		pcm = []byte{}
	}
	return pcm, nil
}

// sampleRateFromMIME reads the rate parameter of an inline audio MIME type
// such as "audio/L16;codec=pcm;rate=24000". It returns 0 when absent.
func sampleRateFromMIME(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return 0
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return 0
	}
	return rate
}
