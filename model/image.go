package model

import ai "github.com/spetersoncode/postflow"

// ImageModel represents an image generation model from any provider.
type ImageModel struct {
	id       string
	provider ai.Provider
}

// String returns the API identifier for this model.
func (m ImageModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ImageModel) Provider() ai.Provider { return m.provider }

// Image creates an ImageModel for an identifier not in the catalog.
func Image(id string, provider ai.Provider) ImageModel {
	return ImageModel{id: id, provider: provider}
}

// Google Imagen models.
var (
	Imagen4     = ImageModel{id: "imagen-4.0-generate-001", provider: ai.ProviderGoogle}
	Imagen4Fast = ImageModel{id: "imagen-4.0-fast-generate-001", provider: ai.ProviderGoogle}

	// DefaultImagenModel is the recommended default Google image model.
	DefaultImagenModel = Imagen4
)

// OpenAI image models.
var (
	GPTImage1     = ImageModel{id: "gpt-image-1", provider: ai.ProviderOpenAI}
	GPTImage1Mini = ImageModel{id: "gpt-image-1-mini", provider: ai.ProviderOpenAI}

	// DefaultGPTImageModel is the recommended default OpenAI image model.
	DefaultGPTImageModel = GPTImage1
)
