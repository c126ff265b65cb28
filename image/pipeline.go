package image

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	ai "github.com/spetersoncode/postflow"
)

// Client is the subset of the unified client needed for image generation.
type Client interface {
	GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (*ai.ImageResponse, error)
}

// AssetStore persists generated image bytes and returns a stable
// reference for them.
type AssetStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// Pipeline generates an image for a prompt and stores it.
type Pipeline struct {
	client Client
	store  AssetStore
}

// New creates an image pipeline over the given client and store.
func New(client Client, store AssetStore) *Pipeline {
	return &Pipeline{client: client, store: store}
}

// Generate produces one image for the prompt and returns the stored
// asset reference.
func (p *Pipeline) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.GenerateImage(ctx, prompt, ai.WithImageFormat(ai.ImageFormatBase64))
	if err != nil {
		return "", err
	}
	if len(resp.Images) == 0 {
		return "", &ai.ImageError{Op: "generate", Ref: "response", Err: fmt.Errorf("provider returned no images")}
	}

	data, err := imageBytes(resp.Images[0])
	if err != nil {
		return "", err
	}

	name := uuid.New().String() + ".png"
	return p.store.Save(ctx, name, data)
}

// imageBytes extracts raw bytes from a generated image, decoding base64
// or fetching the URL, whichever the provider returned.
func imageBytes(img ai.GeneratedImage) ([]byte, error) {
	if img.Base64 != "" {
		data, err := base64.StdEncoding.DecodeString(img.Base64)
		if err != nil {
			return nil, &ai.ImageError{Op: "decode", Ref: "base64", Err: err}
		}
		return data, nil
	}
	if img.URL != "" {
		return fetchImage(img.URL)
	}
	return nil, &ai.ImageError{Op: "decode", Ref: "response", Err: fmt.Errorf("image has neither data nor URL")}
}

func fetchImage(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, &ai.ImageError{Op: "fetch", Ref: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ai.ImageError{Op: "fetch", Ref: url, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ai.ImageError{Op: "fetch", Ref: url, Err: err}
	}
	return data, nil
}
