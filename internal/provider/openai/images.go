package openai

import (
	"context"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/postflow"
)

// GenerateImage generates an image from a text prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (*ai.ImageResponse, error) {
	options := ai.ApplyImageOptions(opts...)

	model := DefaultImageModel
	if options.Model != nil {
		model = ImageModel(options.Model.String())
	}

	params := openai.ImageGenerateParams{
		Model:  openai.ImageModel(model.String()),
		Prompt: prompt,
	}

	size := options.Size
	if size == "" {
		size = ai.ImageSize1024x1024
	}
	params.Size = openai.ImageGenerateParamsSize(size)

	format := options.Format
	if format == "" {
		format = ai.ImageFormatBase64
	}
	params.ResponseFormat = openai.ImageGenerateParamsResponseFormat(format)

	resp, err := c.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	images := make([]ai.GeneratedImage, len(resp.Data))
	for i, img := range resp.Data {
		images[i] = ai.GeneratedImage{
			URL:           img.URL,
			Base64:        img.B64JSON,
			RevisedPrompt: img.RevisedPrompt,
		}
	}

	return &ai.ImageResponse{Images: images}, nil
}
