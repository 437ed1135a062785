package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"productai/internal/logger"
)

const (
	defaultModel   = "gemini-1.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultLanguage is used whenever the caller passes an empty or
	// unsupported language.
	DefaultLanguage = "English"
)

// SupportedLanguages mirrors the language choices offered in the admin UI.
var SupportedLanguages = []string{"English", "Hindi", "Spanish", "French", "German"}

// GenerationError wraps any failure of the text-generation call. The call is
// single-attempt; the error propagates to the caller without retry.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NormalizeLanguage maps a requested language onto the supported set,
// falling back to the default.
func NormalizeLanguage(language string) string {
	for _, supported := range SupportedLanguages {
		if strings.EqualFold(language, supported) {
			return supported
		}
	}
	return DefaultLanguage
}

// Client calls the Gemini generateContent API. One prompt in, plain text out;
// no retries, no conversation state.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(apiKey string, logger *logger.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL overrides the API endpoint, used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate produces a plain-text product description for the given title.
// The model output is returned verbatim; escaping is the caller's concern.
func (c *Client) Generate(ctx context.Context, title, language string) (string, error) {
	if c.apiKey == "" {
		return "", &GenerationError{Err: fmt.Errorf("gemini API key not configured")}
	}

	language = NormalizeLanguage(language)
	prompt := fmt.Sprintf(
		`Write a plain-text product description in %s for a product titled %q. Avoid markdown or formatting. Include no headings or placeholders.`,
		language, title,
	)

	c.logger.Debug("generating description for %q in %s", title, language)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &GenerationError{Err: fmt.Errorf("API error: %d - %s", resp.StatusCode, string(respBody))}
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("no candidates in response")}
	}

	return strings.TrimSpace(genResp.Candidates[0].Content.Parts[0].Text), nil
}
