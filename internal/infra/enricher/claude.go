package enricher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"satire-news/internal/domain/entity"
	"satire-news/internal/observability/metrics"
	"satire-news/internal/resilience/circuitbreaker"
	"satire-news/internal/resilience/retry"
)

// Claude implements the Enricher interface using Anthropic's Claude API.
// Semantics mirror the OpenAI implementation: title failure is fatal,
// category failure falls back to general.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// NewClaude creates a new Claude enricher with the given API key.
// The breaker lives in the shared registry under the key "claude".
func NewClaude(apiKey string, config Config, breakers *circuitbreaker.Registry) *Claude {
	slog.Info("initialized claude enricher",
		slog.String("model", config.Model),
		slog.Duration("timeout", config.Timeout))

	return &Claude{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: breakers.Breaker("claude", circuitbreaker.EnricherConfig("claude")),
		retryConfig:    retry.AIAPIConfig(),
		config:         config,
	}
}

// EnrichArticle generates a satirical title and derived category for the
// article, issuing the two prompts in parallel.
func (c *Claude) EnrichArticle(ctx context.Context, article *entity.Article) (Enrichment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var (
		title    string
		category entity.Category
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		title, err = c.generateSatiricalTitle(ctx, article)
		return err
	})
	g.Go(func() error {
		category = c.deriveCategory(ctx, article)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Enrichment{}, fmt.Errorf("claude enrichment failed: %w", err)
	}

	return Enrichment{SatiricalTitle: title, DerivedCategory: category}, nil
}

func (c *Claude) generateSatiricalTitle(ctx context.Context, article *entity.Article) (string, error) {
	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.complete(ctx, buildTitlePrompt(article))
		})
		if err != nil {
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("satirical title generation failed: %w", retryErr)
	}

	title := sanitizeTitle(result)
	if title == "" {
		return "", fmt.Errorf("claude returned empty satirical title")
	}
	return title, nil
}

func (c *Claude) deriveCategory(ctx context.Context, article *entity.Article) entity.Category {
	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.complete(ctx, buildCategoryPrompt(article))
		})
		if err != nil {
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		slog.WarnContext(ctx, "category derivation failed, falling back to general",
			slog.String("article_id", article.ID),
			slog.Any("error", retryErr))
		return entity.CategoryGeneral
	}

	return entity.DeriveCategory(result)
}

// complete performs a single messages call without retry or breaker.
func (c *Claude) complete(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.New().String()
	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)

	if err != nil {
		metrics.RecordExternalAPIRequest("claude", false)
		slog.ErrorContext(ctx, "claude completion failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		metrics.RecordExternalAPIRequest("claude", false)
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		metrics.RecordExternalAPIRequest("claude", false)
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	metrics.RecordExternalAPIRequest("claude", true)
	return textBlock.Text, nil
}
