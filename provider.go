package postflow

import "context"

// Provider identifies an AI provider.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
)

// Model identifies a provider model. Concrete model values live in the
// model subpackage; the provider determines which backend serves the request.
type Model interface {
	// String returns the API identifier for the model.
	String() string
	// Provider returns which provider this model belongs to.
	Provider() Provider
}

// ChatProvider defines the interface for AI text generation providers.
type ChatProvider interface {
	// Chat sends a conversation and returns a complete response.
	Chat(ctx context.Context, messages []Message, opts ...Option) (*Response, error)
}

// ImageProvider defines the interface for AI image generation providers.
type ImageProvider interface {
	// GenerateImage creates images from a text prompt.
	GenerateImage(ctx context.Context, prompt string, opts ...ImageOption) (*ImageResponse, error)
}
