package google

import (
	"context"

	ai "github.com/spetersoncode/postflow"
	"google.golang.org/genai"
)

// ChatModel is a Gemini model identifier.
type ChatModel string

// ImageModel is an Imagen model identifier.
type ImageModel string

const (
	DefaultChatModel  ChatModel  = "gemini-2.5-flash"
	DefaultImageModel ImageModel = "imagen-4.0-generate-001"
)

func (m ChatModel) String() string  { return string(m) }
func (m ImageModel) String() string { return string(m) }

// Client wraps the Google GenAI SDK to implement ai.ChatProvider and
// ai.ImageProvider.
type Client struct {
	client *genai.Client
	model  ChatModel
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		client: client,
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != nil {
		model = ChatModel(options.Model.String())
	}

	contents, system := convertMessages(messages)
	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if options.JSONResponse {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, model.String(), contents, config)
	if err != nil {
		return nil, wrapError(err)
	}

	content := ""
	finishReason := ""
	if len(resp.Candidates) > 0 {
		if resp.Candidates[0].Content != nil {
			for _, part := range resp.Candidates[0].Content.Parts {
				if part.Text != "" {
					content += part.Text
				}
			}
		}
		finishReason = string(resp.Candidates[0].FinishReason)
	}

	usage := ai.Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &ai.Response{
		Content:      content,
		FinishReason: finishReason,
		Usage:        usage,
	}, nil
}

// convertMessages maps messages to genai contents. System messages are
// collected into a single system instruction since Gemini takes them
// out of band.
func convertMessages(messages []ai.Message) ([]*genai.Content, string) {
	var contents []*genai.Content
	var system string

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
			continue
		}

		role := "user"
		if msg.Role == ai.RoleAssistant {
			role = "model"
		}
		if msg.Content == "" {
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	return contents, system
}

var _ ai.ChatProvider = (*Client)(nil)
var _ ai.ImageProvider = (*Client)(nil)
