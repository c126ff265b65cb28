package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	ai "github.com/spetersoncode/postflow"
	"github.com/spetersoncode/postflow/internal/provider/anthropic"
	"github.com/spetersoncode/postflow/internal/provider/google"
	"github.com/spetersoncode/postflow/internal/provider/openai"
	"github.com/spetersoncode/postflow/retry"
)

// DefaultRequestTimeout bounds a single generation call, including all
// retry attempts.
const DefaultRequestTimeout = 2 * time.Minute

// APIKeys holds API keys for different providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// Defaults holds default models for each capability.
// The model's provider determines which backend is used.
type Defaults struct {
	Chat  ai.Model
	Image ai.Model
}

// Config holds configuration for creating a unified client.
type Config struct {
	// APIKeys contains authentication keys for each provider.
	APIKeys APIKeys

	// Defaults contains default models for each capability.
	Defaults Defaults

	// RetryConfig configures retry behavior for transient errors.
	// If nil, the default configuration is used (3 attempts with
	// exponential backoff).
	RetryConfig *retry.Config

	// RequestTimeout bounds a single call including retries.
	// Zero means DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// ErrFeatureNotSupported is returned when a capability is unavailable for
// the provider, such as image generation on Anthropic.
type ErrFeatureNotSupported struct {
	Provider string
	Feature  string
}

func (e *ErrFeatureNotSupported) Error() string {
	return fmt.Sprintf("%s provider does not support %s", e.Provider, e.Feature)
}

// ErrMissingAPIKey is returned when a model is used but no API key
// is configured for that model's provider.
type ErrMissingAPIKey struct {
	Provider string
	Model    string
}

func (e *ErrMissingAPIKey) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no API key configured for %s (required by model %q)", e.Provider, e.Model)
	}
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ErrNoModel is returned when no model is specified and no default is configured.
type ErrNoModel struct {
	Operation string
}

func (e *ErrNoModel) Error() string {
	return fmt.Sprintf("no model specified for %s and no default configured", e.Operation)
}

// Client is a unified interface to the configured providers.
// Provider clients are lazily initialized when first needed.
type Client struct {
	apiKeys        APIKeys
	defaults       Defaults
	retryConfig    retry.Config
	requestTimeout time.Duration

	// Lazy-initialized providers (protected by mutex)
	mu              sync.RWMutex
	anthropicClient *anthropic.Client
	openaiClient    *openai.Client
	googleClient    *google.Client
	googleInitErr   error
}

// New creates a unified client with the given configuration.
func New(cfg Config) *Client {
	retryConfig := retry.DefaultConfig()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &Client{
		apiKeys:        cfg.APIKeys,
		defaults:       cfg.Defaults,
		retryConfig:    retryConfig,
		requestTimeout: timeout,
	}
}

// getAnthropicClient returns the Anthropic client, initializing it if needed.
func (c *Client) getAnthropicClient() (*anthropic.Client, error) {
	c.mu.RLock()
	if c.anthropicClient != nil {
		defer c.mu.RUnlock()
		return c.anthropicClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.anthropicClient != nil {
		return c.anthropicClient, nil
	}

	if c.apiKeys.Anthropic == "" {
		return nil, &ErrMissingAPIKey{Provider: "anthropic"}
	}

	c.anthropicClient = anthropic.New(c.apiKeys.Anthropic)
	return c.anthropicClient, nil
}

// getOpenAIClient returns the OpenAI client, initializing it if needed.
func (c *Client) getOpenAIClient() (*openai.Client, error) {
	c.mu.RLock()
	if c.openaiClient != nil {
		defer c.mu.RUnlock()
		return c.openaiClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.openaiClient != nil {
		return c.openaiClient, nil
	}

	if c.apiKeys.OpenAI == "" {
		return nil, &ErrMissingAPIKey{Provider: "openai"}
	}

	c.openaiClient = openai.New(c.apiKeys.OpenAI)
	return c.openaiClient, nil
}

// getGoogleClient returns the Google client, initializing it if needed.
// Initialization failure is cached so every caller sees the same error.
func (c *Client) getGoogleClient(ctx context.Context) (*google.Client, error) {
	c.mu.RLock()
	if c.googleClient != nil {
		defer c.mu.RUnlock()
		return c.googleClient, nil
	}
	if c.googleInitErr != nil {
		defer c.mu.RUnlock()
		return nil, c.googleInitErr
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.googleClient != nil {
		return c.googleClient, nil
	}
	if c.googleInitErr != nil {
		return nil, c.googleInitErr
	}

	if c.apiKeys.Google == "" {
		return nil, &ErrMissingAPIKey{Provider: "google"}
	}

	client, err := google.New(ctx, c.apiKeys.Google)
	if err != nil {
		c.googleInitErr = fmt.Errorf("failed to initialize Google client: %w", err)
		return nil, c.googleInitErr
	}

	c.googleClient = client
	return c.googleClient, nil
}

// getChatProvider returns the chat provider for the given model.
func (c *Client) getChatProvider(ctx context.Context, model ai.Model) (ai.ChatProvider, error) {
	switch provider := model.Provider(); provider {
	case ai.ProviderAnthropic:
		return c.getAnthropicClient()
	case ai.ProviderOpenAI:
		return c.getOpenAIClient()
	case ai.ProviderGoogle:
		return c.getGoogleClient(ctx)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// getImageProvider returns the image provider for the given model.
func (c *Client) getImageProvider(ctx context.Context, model ai.Model) (ai.ImageProvider, error) {
	switch provider := model.Provider(); provider {
	case ai.ProviderOpenAI:
		return c.getOpenAIClient()
	case ai.ProviderGoogle:
		return c.getGoogleClient(ctx)
	default:
		return nil, &ErrFeatureNotSupported{Provider: string(provider), Feature: "image generation"}
	}
}

// Chat sends a conversation and returns a complete response.
// The model can be set via WithModel, otherwise the default chat model is
// used. Transient errors are retried per the client's retry configuration;
// the whole call is bounded by the request timeout.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)

	model := options.Model
	if model == nil {
		model = c.defaults.Chat
	}
	if model == nil {
		return nil, &ErrNoModel{Operation: "chat"}
	}

	chatProvider, err := c.getChatProvider(ctx, model)
	if err != nil {
		return nil, err
	}

	if options.Model == nil {
		opts = append([]ai.Option{ai.WithModel(model)}, opts...)
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	return retry.Do(ctx, c.retryConfig, func() (*ai.Response, error) {
		return chatProvider.Chat(ctx, messages, opts...)
	})
}

// GenerateImage generates an image from a text prompt.
// The model can be set via WithImageModel, otherwise the default image
// model is used. Retry and timeout behavior match Chat.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (*ai.ImageResponse, error) {
	options := ai.ApplyImageOptions(opts...)

	model := options.Model
	if model == nil {
		model = c.defaults.Image
	}
	if model == nil {
		return nil, &ErrNoModel{Operation: "image"}
	}

	imageProvider, err := c.getImageProvider(ctx, model)
	if err != nil {
		return nil, err
	}

	if options.Model == nil {
		opts = append([]ai.ImageOption{ai.WithImageModel(model)}, opts...)
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	return retry.Do(ctx, c.retryConfig, func() (*ai.ImageResponse, error) {
		return imageProvider.GenerateImage(ctx, prompt, opts...)
	})
}

var _ ai.ChatProvider = (*Client)(nil)
var _ ai.ImageProvider = (*Client)(nil)
