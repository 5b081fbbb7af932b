package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/itai-levin/paper-to-audio/pkg/httputil"
	"github.com/itai-levin/paper-to-audio/runtime/credentials"
	"github.com/itai-levin/paper-to-audio/runtime/logger"
)

// Service converts text to raw PCM audio.
// Every implementation returns mono, 16-bit signed little-endian samples at
// 24 kHz (audio.DefaultFormat), so callers can concatenate results from any
// backend without inspecting them.
type Service interface {
	// Name returns the provider identifier (for logging/debugging).
	Name() string

	// Synthesize converts text to PCM. A backend may legitimately return
	// zero bytes; callers decide whether that is an error.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

const (
	contentTypeHeader = "Content-Type"
	applicationJSON   = "application/json"
)

func defaultHTTPClient() *http.Client {
	return httputil.NewHTTPClient(httputil.DefaultSynthesisTimeout)
}

// postJSON sends body as JSON to url and returns the raw response body of a
// 2xx response. Non-2xx responses become a *SynthesisError.
func postJSON(
	ctx context.Context,
	client *http.Client,
	cred credentials.Credential,
	provider, url string,
	body any,
) ([]byte, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(contentTypeHeader, applicationJSON)
	if cred != nil {
		if applyErr := cred.Apply(ctx, req); applyErr != nil {
			return nil, fmt.Errorf("failed to apply credentials: %w", applyErr)
		}
	}

	logger.APIRequest(provider, http.MethodPost, url, headerMap(req), body)

	resp, err := client.Do(req)
	if err != nil {
		logger.APIResponse(provider, 0, "", err)
		return nil, NewSynthesisError(provider, "", "request failed", err, true)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.APIResponse(provider, resp.StatusCode, "", err)
		return nil, NewSynthesisError(provider, "", "failed to read response", err, true)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.APIResponse(provider, resp.StatusCode, string(respBody), nil)
		return nil, newHTTPError(provider, resp.StatusCode, respBody)
	}

	logger.APIResponse(provider, resp.StatusCode,
		fmt.Sprintf("<%d bytes %s>", len(respBody), resp.Header.Get(contentTypeHeader)), nil)
	return respBody, nil
}

func headerMap(req *http.Request) map[string]string {
	headers := make(map[string]string, len(req.Header))
	for key := range req.Header {
		headers[key] = req.Header.Get(key)
	}
	return headers
}
