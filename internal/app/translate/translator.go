/*
Package translate contains the client for the external Translation Collaborator.

The collaborator exposes a single HTTP contract: POST {text, targetLanguage}
answered with {translatedText} on 2xx. Any transport error, non-2xx status, or
malformed body is reported as a failure; callers treat translation failure as
non-fatal and deliver the message untranslated.
*/
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Translator is the capability the message router depends on.
type Translator interface {
	// Translate returns text rendered in targetLang, or an error on any failure.
	// Implementations must honor ctx cancellation and bound their own latency.
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// maxResponseBytes caps how much of a collaborator response is read, so a
// misbehaving endpoint cannot exhaust memory.
const maxResponseBytes = 1 << 20

// HTTPTranslator calls the translation collaborator over HTTP.
type HTTPTranslator struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

// NewHTTPTranslator constructs a client for the collaborator at endpoint.
// Every call is bounded by timeout so a stalled collaborator cannot pin
// sender goroutines indefinitely.
func NewHTTPTranslator(endpoint string, timeout time.Duration) *HTTPTranslator {
	return &HTTPTranslator{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

// translateRequest is the collaborator's request body.
type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

// translateResponse is the collaborator's success body.
type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate posts the text to the collaborator and returns the translated text.
func (t *HTTPTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	body, err := json.Marshal(translateRequest{
		Text:           text,
		TargetLanguage: targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("translate: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("translate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: collaborator unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(res.Body, maxResponseBytes))
		return "", fmt.Errorf("translate: collaborator returned status %d", res.StatusCode)
	}

	var decoded translateResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("translate: malformed response body: %w", err)
	}

	if decoded.TranslatedText == "" {
		return "", fmt.Errorf("translate: response carries no translated text")
	}

	return decoded.TranslatedText, nil
}
