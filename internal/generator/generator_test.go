package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productai/internal/logger"
)

func stubGemini(t *testing.T, text string, capture *string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Contents)
		require.NotEmpty(t, req.Contents[0].Parts)
		if capture != nil {
			*capture = req.Contents[0].Parts[0].Text
		}

		quoted, _ := json.Marshal(text)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":` + string(quoted) + `}]}}]}`))
	}))
	t.Cleanup(server.Close)
	return NewClient("test-key", logger.New("error")).WithBaseURL(server.URL)
}

func TestGeneratePromptEmbedsTitleAndLanguage(t *testing.T) {
	var prompt string
	client := stubGemini(t, "Une tasse bleue élégante.", &prompt)

	text, err := client.Generate(context.Background(), "Blue Mug", "French")
	require.NoError(t, err)

	assert.Equal(t, "Une tasse bleue élégante.", text)
	assert.Contains(t, prompt, "Blue Mug")
	assert.Contains(t, prompt, "French")
}

func TestGenerateDefaultsLanguage(t *testing.T) {
	var prompt string
	client := stubGemini(t, "A fine mug.", &prompt)

	_, err := client.Generate(context.Background(), "Blue Mug", "")
	require.NoError(t, err)
	assert.Contains(t, prompt, "English")

	_, err = client.Generate(context.Background(), "Blue Mug", "Klingon")
	require.NoError(t, err)
	assert.Contains(t, prompt, "English")
}

func TestGenerateTrimsWhitespace(t *testing.T) {
	client := stubGemini(t, "  A fine mug.\n", nil)

	text, err := client.Generate(context.Background(), "Blue Mug", "English")
	require.NoError(t, err)
	assert.Equal(t, "A fine mug.", text)
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", logger.New("error")).WithBaseURL(server.URL)

	_, err := client.Generate(context.Background(), "Blue Mug", "English")
	require.Error(t, err)

	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	client := NewClient("", logger.New("error"))

	_, err := client.Generate(context.Background(), "Blue Mug", "English")
	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "French", NormalizeLanguage("french"))
	assert.Equal(t, "Hindi", NormalizeLanguage("Hindi"))
	assert.Equal(t, "English", NormalizeLanguage(""))
	assert.Equal(t, "English", NormalizeLanguage("Esperanto"))
}
