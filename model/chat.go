package model

import ai "github.com/spetersoncode/postflow"

// ChatModel represents a chat/completion model from any provider.
type ChatModel struct {
	id       string
	provider ai.Provider
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() ai.Provider { return m.provider }

// Chat creates a ChatModel for an identifier not in the catalog.
func Chat(id string, provider ai.Provider) ChatModel {
	return ChatModel{id: id, provider: provider}
}

// Google Gemini models.
var (
	Gemini25Flash = ChatModel{id: "gemini-2.5-flash", provider: ai.ProviderGoogle}
	Gemini25Pro   = ChatModel{id: "gemini-2.5-pro", provider: ai.ProviderGoogle}

	// DefaultGeminiModel is the recommended default Google model.
	DefaultGeminiModel = Gemini25Flash
)

// Anthropic Claude models.
var (
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: ai.ProviderAnthropic}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: ai.ProviderAnthropic}

	// DefaultClaudeModel is the recommended default Anthropic model.
	DefaultClaudeModel = ClaudeSonnet45
)

// OpenAI GPT models.
var (
	GPT51     = ChatModel{id: "gpt-5.1", provider: ai.ProviderOpenAI}
	GPT51Mini = ChatModel{id: "gpt-5.1-mini", provider: ai.ProviderOpenAI}

	// DefaultGPTModel is the recommended default OpenAI model.
	DefaultGPTModel = GPT51Mini
)
