package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/teemow/inboxpilot/internal/logging"
)

// DefaultModels is the fallback chain used when no models are configured.
var DefaultModels = []string{"gemini-2.5-flash", "gemini-2.0-flash"}

// GeminiClient implements Client against the Gemini API, trying each
// configured model identifier in order until one returns a reply.
type GeminiClient struct {
	client *genai.Client
	models []string
	logger *slog.Logger
}

// NewGeminiClient creates a Gemini-backed client. The models slice is the
// ordered fallback chain; when empty, DefaultModels is used.
func NewGeminiClient(ctx context.Context, apiKey string, models []string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if len(models) == 0 {
		models = DefaultModels
	}

	return &GeminiClient{
		client: client,
		models: models,
		logger: logging.WithComponent(slog.Default(), "llm"),
	}, nil
}

// GenerateWithSystem sends one prompt under the given system instruction.
// Each model in the fallback chain is tried once; the last error is
// surfaced if all fail.
func (c *GeminiClient) GenerateWithSystem(ctx context.Context, system, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	var lastErr error
	for _, model := range c.models {
		resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
		if err != nil {
			lastErr = fmt.Errorf("model %s: %w", model, err)
			c.logger.Warn("model call failed, trying next",
				slog.String("model", model),
				logging.Err(err))
			continue
		}

		text := strings.TrimSpace(resp.Text())
		if text == "" {
			lastErr = fmt.Errorf("model %s: empty reply", model)
			continue
		}

		c.logger.Debug("generation complete",
			slog.String("model", model),
			slog.Int("reply_len", len(text)))
		return text, nil
	}

	return "", fmt.Errorf("all models failed: %w", lastErr)
}
