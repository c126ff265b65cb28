package google

import (
	"context"
	"encoding/base64"

	ai "github.com/spetersoncode/postflow"
	"google.golang.org/genai"
)

// GenerateImage generates an image from a text prompt using Imagen.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (*ai.ImageResponse, error) {
	options := ai.ApplyImageOptions(opts...)

	model := DefaultImageModel
	if options.Model != nil {
		model = ImageModel(options.Model.String())
	}

	config := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	}
	if options.Size != "" {
		config.AspectRatio = convertSizeToAspectRatio(options.Size)
	}

	resp, err := c.client.Models.GenerateImages(ctx, model.String(), prompt, config)
	if err != nil {
		return nil, wrapError(err)
	}

	images := make([]ai.GeneratedImage, len(resp.GeneratedImages))
	for i, img := range resp.GeneratedImages {
		var b64 string
		// Imagen returns raw image bytes, never URLs.
		if img.Image != nil && len(img.Image.ImageBytes) > 0 {
			b64 = base64.StdEncoding.EncodeToString(img.Image.ImageBytes)
		}
		images[i] = ai.GeneratedImage{Base64: b64}
	}

	return &ai.ImageResponse{Images: images}, nil
}

// convertSizeToAspectRatio maps an image size to an Imagen aspect ratio.
func convertSizeToAspectRatio(size ai.ImageSize) string {
	switch size {
	case ai.ImageSize1024x1024:
		return "1:1"
	case ai.ImageSize1024x1792:
		return "9:16"
	case ai.ImageSize1792x1024:
		return "16:9"
	default:
		return "1:1"
	}
}
