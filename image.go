package postflow

// ImageResponse represents a complete response from an image generation
// provider.
type ImageResponse struct {
	Images []GeneratedImage
}

// GeneratedImage represents a single generated image.
type GeneratedImage struct {
	// URL contains the URL to the generated image (if URL format was requested).
	URL string
	// Base64 contains the base64-encoded image data (if Base64 format was
	// requested, or for providers that return bytes directly).
	Base64 string
	// RevisedPrompt contains the prompt that was actually used.
	// DALL-E rewrites prompts for better results.
	RevisedPrompt string
}

// ImageFormat specifies the output format for generated images.
type ImageFormat string

const (
	// ImageFormatURL returns images as URLs.
	ImageFormatURL ImageFormat = "url"
	// ImageFormatBase64 returns images as base64-encoded data.
	ImageFormatBase64 ImageFormat = "b64_json"
)

// ImageSize represents predefined image dimensions.
type ImageSize string

const (
	ImageSize1024x1024 ImageSize = "1024x1024"
	ImageSize1024x1792 ImageSize = "1024x1792" // Portrait
	ImageSize1792x1024 ImageSize = "1792x1024" // Landscape
)

// ImageOptions contains configuration for an image generation request.
type ImageOptions struct {
	Model  Model
	Size   ImageSize
	Format ImageFormat
}

// ImageOption is a functional option for configuring image generation requests.
type ImageOption func(*ImageOptions)

// WithImageModel sets the model to use for image generation.
func WithImageModel(model Model) ImageOption {
	return func(o *ImageOptions) {
		o.Model = model
	}
}

// WithImageSize sets the dimensions for generated images.
func WithImageSize(size ImageSize) ImageOption {
	return func(o *ImageOptions) {
		o.Size = size
	}
}

// WithImageFormat sets the output format for generated images.
func WithImageFormat(f ImageFormat) ImageOption {
	return func(o *ImageOptions) {
		o.Format = f
	}
}

// ApplyImageOptions applies functional options to an ImageOptions struct.
func ApplyImageOptions(opts ...ImageOption) *ImageOptions {
	o := &ImageOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
