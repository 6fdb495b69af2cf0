package enricher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"satire-news/internal/domain/entity"
	"satire-news/internal/observability/metrics"
	"satire-news/internal/resilience/circuitbreaker"
	"satire-news/internal/resilience/retry"
)

// OpenAI implements the Enricher interface using OpenAI's chat completion API.
// It includes circuit breaker and retry logic for improved reliability. The
// title and category prompts for one article are issued in parallel.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// NewOpenAI creates a new OpenAI enricher with the given API key.
// The breaker lives in the shared registry under the key "openai".
func NewOpenAI(apiKey string, config Config, breakers *circuitbreaker.Registry) *OpenAI {
	slog.Info("initialized openai enricher",
		slog.String("model", config.Model),
		slog.Duration("timeout", config.Timeout))

	return &OpenAI{
		client:         openai.NewClient(apiKey),
		circuitBreaker: breakers.Breaker("openai", circuitbreaker.EnricherConfig("openai")),
		retryConfig:    retry.AIAPIConfig(),
		config:         config,
	}
}

// EnrichArticle generates a satirical title and derived category for the
// article. The two prompts run in parallel. A title generation failure fails
// the whole enrichment; a category derivation failure falls back to general.
func (o *OpenAI) EnrichArticle(ctx context.Context, article *entity.Article) (Enrichment, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var (
		title    string
		category entity.Category
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		title, err = o.generateSatiricalTitle(ctx, article)
		return err
	})
	g.Go(func() error {
		category = o.deriveCategory(ctx, article)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Enrichment{}, fmt.Errorf("openai enrichment failed: %w", err)
	}

	return Enrichment{SatiricalTitle: title, DerivedCategory: category}, nil
}

// generateSatiricalTitle produces the absurd version of the headline.
// Wrapped in retry and circuit breaker; failures propagate to the caller.
func (o *OpenAI) generateSatiricalTitle(ctx context.Context, article *entity.Article) (string, error) {
	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.complete(ctx, buildTitlePrompt(article))
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
		return "", fmt.Errorf("openai returned empty satirical title")
	}
	return title, nil
}

// deriveCategory asks the model to categorize the article.
// Any failure, including an unparseable response, falls back to general.
func (o *OpenAI) deriveCategory(ctx context.Context, article *entity.Article) entity.Category {
	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.complete(ctx, buildCategoryPrompt(article))
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

// complete performs a single chat completion call without retry or breaker.
func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.config.Model,
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})

	duration := time.Since(start)

	if err != nil {
		metrics.RecordExternalAPIRequest("openai", false)
		slog.ErrorContext(ctx, "openai completion failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		metrics.RecordExternalAPIRequest("openai", false)
		return "", fmt.Errorf("openai api returned empty response")
	}

	metrics.RecordExternalAPIRequest("openai", true)
	return resp.Choices[0].Message.Content, nil
}
