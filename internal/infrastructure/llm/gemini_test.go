package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CuratorHub/internal/domain"
)

func clientFor(endpoint string) *GeminiClient {
	return &GeminiClient{
		endpoint:   endpoint,
		model:      "test-model",
		apiKey:     "test-key",
		httpClient: &http.Client{},
	}
}

func geminiReply(t *testing.T, result map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "test-model:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		text, err := json.Marshal(result)
		require.NoError(t, err)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": string(text)}}}},
			},
		})
	}
}

func sampleRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		Title:       "Solid-state batteries reach the road",
		Description: "Progress report on energy density and electric range.",
		Type:        domain.TypeArticle,
		URL:         "https://example.com/solid-state",
	}
}

func TestGenerate_StructuredResult(t *testing.T) {
	srv := httptest.NewServer(geminiReply(t, map[string]any{
		"summary":    "Batteries improved. Range followed.",
		"category":   "Science",
		"tags":       []string{"batteries", "energy", "ev"},
		"content":    "Long form analysis.",
		"keyPoints":  "- density up\n- cost down",
		"conclusion": "The road is near.",
	}))
	defer srv.Close()

	got := clientFor(srv.URL).Generate(context.Background(), sampleRequest())

	assert.False(t, got.Fallback)
	assert.Equal(t, "Batteries improved. Range followed.", got.Summary)
	assert.Equal(t, domain.CategoryScience, got.Category)
	assert.Equal(t, []string{"batteries", "energy", "ev"}, got.Tags)
	assert.Equal(t, "The road is near.", got.Conclusion)
}

func TestGenerate_UnknownCategoryFallsBack(t *testing.T) {
	srv := httptest.NewServer(geminiReply(t, map[string]any{
		"summary":  "Fine summary.",
		"category": "Gardening",
		"tags":     []string{"a", "b", "c"},
	}))
	defer srv.Close()

	got := clientFor(srv.URL).Generate(context.Background(), sampleRequest())

	assert.True(t, got.Fallback)
	assert.Equal(t, domain.DefaultCategory, got.Category)
}

func TestGenerate_MalformedJSONFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "not json"}}}},
			},
		})
	}))
	defer srv.Close()

	got := clientFor(srv.URL).Generate(context.Background(), sampleRequest())
	assert.True(t, got.Fallback)
}

func TestGenerate_NoKeyFallsBack(t *testing.T) {
	c := &GeminiClient{httpClient: &http.Client{}}
	got := c.Generate(context.Background(), sampleRequest())

	assert.True(t, got.Fallback)
	assert.Equal(t, domain.DefaultCategory, got.Category)
	assert.Equal(t, []string{"General"}, got.Tags)
	assert.True(t, strings.HasSuffix(got.Summary, "..."))
}

func TestGenerate_ServiceErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	got := clientFor(srv.URL).Generate(context.Background(), sampleRequest())
	assert.True(t, got.Fallback)
}

func TestFallback_TruncatesDescription(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := Fallback(domain.GenerationRequest{Description: long})

	assert.Equal(t, strings.Repeat("x", 100)+"...", got.Summary)
	assert.Equal(t, domain.DefaultCategory, got.Category)
}

func TestBuildPrompt_CapsPageText(t *testing.T) {
	req := sampleRequest()
	req.PageText = strings.Repeat("y", pageTextBudget+500)

	prompt := buildPrompt(req)
	assert.Less(t, len(prompt), pageTextBudget+1000)
	assert.Contains(t, prompt, fmt.Sprintf("Title: %s", req.Title))
}
