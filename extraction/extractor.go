package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/DecisionNerd/collie/errors"
	"github.com/DecisionNerd/collie/pkg/cache"
	"github.com/DecisionNerd/collie/pkg/retry"
)

// Extractor calls an OpenAI-compatible chat completion service to pull
// typed entities and relationship claims out of unstructured text. Works
// with the OpenAI cloud API or any self-hosted compatible endpoint.
type Extractor struct {
	client *openai.Client
	model  string
	retry  retry.Config
	cache  cache.Cache[*Result]
	logger *slog.Logger
}

// Config configures the extractor.
type Config struct {
	// BaseURL overrides the service endpoint for self-hosted deployments.
	// Empty means the OpenAI cloud default.
	BaseURL string

	// Model is the inference model used for extraction.
	Model string

	// APIKey authenticates against the service.
	APIKey string

	// Timeout for HTTP requests (default: 60s).
	Timeout time.Duration

	// Retry controls backoff for transient service failures. Zero value
	// uses retry.DefaultConfig().
	Retry retry.Config

	// CacheSize enables response caching for repeated texts when positive.
	// Zero disables caching.
	CacheSize int

	// Logger for request logging (optional, defaults to slog.Default()).
	Logger *slog.Logger
}

// NewExtractor creates an extraction client.
func NewExtractor(cfg Config) (*Extractor, error) {
	if cfg.Model == "" {
		return nil, errors.WrapSpec(
			fmt.Errorf("%w: extraction model", errors.ErrMissingConfig),
			"Extractor", "NewExtractor", "configuration")
	}
	if cfg.APIKey == "" {
		return nil, errors.WrapSpec(
			fmt.Errorf("%w: extraction api key", errors.ErrMissingConfig),
			"Extractor", "NewExtractor", "configuration")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	retryCfg := cfg.Retry
	if retryCfg.MaxAttempts == 0 {
		retryCfg = retry.DefaultConfig()
	}

	var responseCache cache.Cache[*Result]
	if cfg.CacheSize > 0 {
		c, err := cache.NewLRU[*Result](cfg.CacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "Extractor", "NewExtractor", "cache setup")
		}
		responseCache = c
	}

	return &Extractor{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		retry:  retryCfg,
		cache:  responseCache,
		logger: logger.With("component", "extraction"),
	}, nil
}

const systemPrompt = `You are an expert in CIDOC CRM for cultural heritage information.
Extract structured entities and relationship claims from biographical and historical text.

Entity class codes:
- E21 Person, E5 Event, E12 Production, E53 Place, E22 Human-Made Object, E52 Time-Span

Relation codes for claims:
- P7 took place at (Event -> Place)
- P11 had participant (Event -> Actor)
- P14 carried out by (Activity -> Actor)
- P108 was produced by (Object -> Production)
- P53 has current location (Object -> Place)
- P4 has time-span (Event -> Time-Span)

Respond with a single JSON object:
{"entities": [{"id": "<stable-kebab-case-key>", "class_code": "E21", "label": "...",
  "description": "...", "confidence": 0.0-1.0, "source_text": "..."}],
 "claims": [{"source": "<entity key>", "target": "<entity key>", "relation": "P14",
  "confidence": 0.0-1.0, "source_text": "..."}]}

Guidelines: extract factual, verifiable information only; use high confidence
(0.7-1.0) for explicit facts and low (0.3-0.6) for inferred ones; reuse the
same key for every mention of the same real-world thing.`

// Extract runs one extraction call over the given text. Transient service
// failures and malformed responses are retried with backoff; authentication
// and request errors fail immediately.
func (e *Extractor) Extract(ctx context.Context, text string) (*Result, error) {
	start := time.Now()

	key := cacheKey(e.model, text)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			e.logger.Debug("extraction cache hit", "entities", len(cached.Entities))
			return cached, nil
		}
	}

	result, err := retry.DoWithResult(ctx, e.retry, func() (*Result, error) {
		return e.extractOnce(ctx, text)
	})
	if err != nil {
		return nil, errors.Wrap(err, "Extractor", "Extract", "inference call")
	}
	if e.cache != nil {
		_, _ = e.cache.Set(key, result)
	}

	e.logger.Info("extraction complete",
		"entities", len(result.Entities),
		"claims", len(result.Claims),
		"elapsed", time.Since(start))
	return result, nil
}

func (e *Extractor) extractOnce(ctx context.Context, text string) (*Result, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if stderrors.As(err, &apiErr) && apiErr.HTTPStatusCode >= 400 &&
			apiErr.HTTPStatusCode < 500 && apiErr.HTTPStatusCode != 429 {
			return nil, retry.NonRetryable(err)
		}
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("inference service returned no choices")
	}

	// Malformed JSON is retryable: a second completion usually fixes it.
	var result Result
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("response parsing: %w", err)
	}
	return &result, nil
}

func cacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
