package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/itai-levin/paper-to-audio/pkg/httputil"
	"github.com/itai-levin/paper-to-audio/runtime/credentials"
	"github.com/itai-levin/paper-to-audio/runtime/logger"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIChatEndpoint = "/chat/completions"
	contentTypeHeader  = "Content-Type"
	applicationJSON    = "application/json"
	pdfDataURLPrefix   = "data:application/pdf;base64,"

	// DefaultModel is the document-capable chat model used for extraction.
	DefaultModel = "gpt-4.1-mini-2025-04-14"
)

// Extraction errors.
var (
	ErrEmptyDocument = errors.New("document is empty")
	ErrNoChoices     = errors.New("no choices in response")
	ErrEmptyContent  = errors.New("extraction returned no text")
)

// OpenAIExtractor sends a PDF to the OpenAI chat completions endpoint as a
// file content part and returns the model's text reply.
type OpenAIExtractor struct {
	credential credentials.Credential
	baseURL    string
	client     *http.Client
	model      string
}

// OpenAIOption configures an OpenAIExtractor.
type OpenAIOption func(*OpenAIExtractor)

// WithBaseURL sets a custom base URL (for testing or proxies).
func WithBaseURL(url string) OpenAIOption {
	return func(e *OpenAIExtractor) {
		e.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(e *OpenAIExtractor) {
		e.client = client
	}
}

// WithModel sets the extraction model.
func WithModel(model string) OpenAIOption {
	return func(e *OpenAIExtractor) {
		e.model = model
	}
}

// NewOpenAIExtractor creates an extractor using cred for authentication.
func NewOpenAIExtractor(cred credentials.Credential, opts ...OpenAIOption) *OpenAIExtractor {
	e := &OpenAIExtractor{
		credential: cred,
		baseURL:    openAIBaseURL,
		client:     httputil.NewHTTPClient(httputil.DefaultExtractionTimeout),
		model:      DefaultModel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Model returns the configured model.
func (e *OpenAIExtractor) Model() string {
	return e.model
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string or []contentPart
}

type contentPart struct {
	Type string    `json:"type"`
	Text string    `json:"text,omitempty"`
	File *filePart `json:"file,omitempty"`
}

type filePart struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// Extract returns the narratable text of doc as produced by the model.
func (e *OpenAIExtractor) Extract(ctx context.Context, doc Document, prompt string) (string, error) {
	if len(doc.Data) == 0 {
		return "", ErrEmptyDocument
	}

	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{
					Type: "file",
					File: &filePart{
						Filename: doc.Name,
						FileData: pdfDataURLPrefix + base64.StdEncoding.EncodeToString(doc.Data),
					},
				},
				{Type: "text", Text: prompt},
			},
		}},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := e.baseURL + openAIChatEndpoint
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set(contentTypeHeader, applicationJSON)
	if e.credential != nil {
		if applyErr := e.credential.Apply(ctx, httpReq); applyErr != nil {
			return "", fmt.Errorf("failed to apply credentials: %w", applyErr)
		}
	}

	logger.APIRequest("OpenAI", http.MethodPost, url, map[string]string{
		contentTypeHeader: applicationJSON,
	}, map[string]any{"model": e.model, "document": doc.Name, "document_bytes": len(doc.Data)})

	resp, err := e.client.Do(httpReq)
	if err != nil {
		logger.APIResponse("OpenAI", 0, "", err)
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	logger.APIResponse("OpenAI", resp.StatusCode, string(respBody), nil)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrNoChoices
	}

	content := chatResp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	return content, nil
}
