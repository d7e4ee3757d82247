package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"CuratorHub/internal/config"
	"CuratorHub/internal/domain"
	"CuratorHub/internal/ports"
)

const (
	// pageTextBudget caps scraped text included in the prompt.
	pageTextBudget = 15000
	// fallbackSummaryLength bounds the deterministic fallback summary.
	fallbackSummaryLength = 100
)

// GeminiClient implements ports.ContentGenerator against the Gemini
// generateContent API with a JSON response schema. It never fails: any
// error path degrades to a deterministic fallback result.
type GeminiClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.ContentGenerator = (*GeminiClient)(nil)

// NewGeminiClient builds a client from configuration.
func NewGeminiClient(cfg config.GeminiConfig, logger *slog.Logger) *GeminiClient {
	return &GeminiClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Generate requests structured editorial fields for the submission.
func (c *GeminiClient) Generate(ctx context.Context, req domain.GenerationRequest) domain.GeneratedContent {
	if c == nil || c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return Fallback(req)
	}

	result, err := c.call(ctx, req)
	if err != nil {
		c.warn("generation failed, using fallback", "url", req.URL, "error", err)
		return Fallback(req)
	}
	return result
}

type generated struct {
	Summary    string   `json:"summary"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Content    string   `json:"content"`
	KeyPoints  string   `json:"keyPoints"`
	Conclusion string   `json:"conclusion"`
}

func (c *GeminiClient) call(ctx context.Context, req domain.GenerationRequest) (domain.GeneratedContent, error) {
	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": buildPrompt(req)}}},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   responseSchema(),
		},
	})
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.GeneratedContent{}, fmt.Errorf("gemini error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var envelope struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("decode envelope: %w", err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return domain.GeneratedContent{}, fmt.Errorf("empty candidates")
	}

	var parsed generated
	if err := json.Unmarshal([]byte(envelope.Candidates[0].Content.Parts[0].Text), &parsed); err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("decode result: %w", err)
	}

	return validate(parsed)
}

// validate enforces the schema before the result is trusted; violations
// fall back rather than half-filling the record.
func validate(parsed generated) (domain.GeneratedContent, error) {
	if strings.TrimSpace(parsed.Summary) == "" {
		return domain.GeneratedContent{}, fmt.Errorf("missing summary")
	}

	category := domain.Category(parsed.Category)
	if !domain.ValidCategory(category) {
		return domain.GeneratedContent{}, fmt.Errorf("unknown category %q", parsed.Category)
	}

	return domain.GeneratedContent{
		Summary:    strings.TrimSpace(parsed.Summary),
		Category:   category,
		Tags:       parsed.Tags,
		Content:    parsed.Content,
		KeyPoints:  parsed.KeyPoints,
		Conclusion: parsed.Conclusion,
	}, nil
}

func buildPrompt(req domain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert content curator for a high-end knowledge website.\n")
	b.WriteString("Analyze the submitted resource and produce:\n")
	b.WriteString("1. A concise, professional summary (max 2 sentences).\n")
	fmt.Fprintf(&b, "2. A category chosen from exactly: %s.\n", categoryList())
	b.WriteString("3. Three short tags.\n")
	if req.Type == domain.TypeBook {
		b.WriteString("4. A longer content field: a chapter-level outline of the book.\n")
	} else {
		b.WriteString("4. A content field: a detailed description of the resource.\n")
	}
	b.WriteString("5. A keyPoints field: bulleted analysis, one point per line.\n")
	b.WriteString("6. A conclusion paragraph.\n\n")

	fmt.Fprintf(&b, "Type: %s\nURL: %s\nTitle: %s\nDescription: %s\n", req.Type, req.URL, req.Title, req.Description)
	if text := capText(req.PageText, pageTextBudget); text != "" {
		fmt.Fprintf(&b, "\nPage text:\n%s\n", text)
	}
	return b.String()
}

func responseSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"summary":  map[string]any{"type": "STRING"},
			"category": map[string]any{"type": "STRING", "enum": categoryEnum()},
			"tags": map[string]any{
				"type":  "ARRAY",
				"items": map[string]any{"type": "STRING"},
			},
			"content":    map[string]any{"type": "STRING"},
			"keyPoints":  map[string]any{"type": "STRING"},
			"conclusion": map[string]any{"type": "STRING"},
		},
		"required": []string{"summary", "category", "tags"},
	}
}

func categoryEnum() []string {
	var names []string
	for _, c := range domain.Categories() {
		names = append(names, string(c))
	}
	return names
}

func categoryList() string {
	return strings.Join(categoryEnum(), ", ")
}

// Fallback builds the deterministic result used when the AI call fails or
// no key is configured: truncated description, default category.
func Fallback(req domain.GenerationRequest) domain.GeneratedContent {
	return domain.GeneratedContent{
		Summary:  capText(req.Description, fallbackSummaryLength) + "...",
		Category: domain.DefaultCategory,
		Tags:     []string{"General"},
		Fallback: true,
	}
}

func capText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func (c *GeminiClient) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
