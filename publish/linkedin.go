package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	ai "github.com/spetersoncode/postflow"
)

const defaultBaseURL = "https://api.linkedin.com/v2"

// LinkedInConfig holds credentials and overrides for the LinkedIn
// publisher.
type LinkedInConfig struct {
	AccessToken string
	PersonID    string

	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
	// HTTPClient overrides the transport. Nil means a client with a
	// 30 second timeout.
	HTTPClient *http.Client
}

// Configured reports whether both credentials are present.
func (c LinkedInConfig) Configured() bool {
	return c.AccessToken != "" && c.PersonID != ""
}

// LinkedIn publishes drafts through the LinkedIn UGC post API.
type LinkedIn struct {
	accessToken string
	personID    string
	baseURL     string
	httpClient  *http.Client
}

// NewLinkedIn creates a LinkedIn publisher.
func NewLinkedIn(cfg LinkedInConfig) *LinkedIn {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &LinkedIn{
		accessToken: cfg.AccessToken,
		personID:    cfg.PersonID,
		baseURL:     baseURL,
		httpClient:  httpClient,
	}
}

// Publish posts the draft. A draft with a stored image is published as
// an image share, uploading the asset first; otherwise as a text share.
func (l *LinkedIn) Publish(ctx context.Context, draft ai.Draft) (*Receipt, error) {
	var media []mediaEntry
	if draft.ImagePath != "" {
		assetURN, err := l.uploadImage(ctx, draft.ImagePath)
		if err != nil {
			return nil, err
		}
		media = append(media, mediaEntry{
			Status:      "READY",
			Description: textBlock{Text: "Generated image for post"},
			Media:       assetURN,
			Title:       textBlock{Text: "Post Image"},
		})
	}

	category := "NONE"
	if len(media) > 0 {
		category = "IMAGE"
	}

	payload := ugcPost{
		Author:         "urn:li:person:" + l.personID,
		LifecycleState: "PUBLISHED",
		SpecificContent: specificContent{
			ShareContent: shareContent{
				ShareCommentary:    textBlock{Text: renderContent(draft)},
				ShareMediaCategory: category,
				Media:              media,
			},
		},
		Visibility: visibility{MemberNetworkVisibility: "PUBLIC"},
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := l.postJSON(ctx, l.baseURL+"/ugcPosts", payload, http.StatusCreated, &result); err != nil {
		return nil, err
	}

	return &Receipt{
		PostID:      result.ID,
		PublishedAt: time.Now().UTC(),
	}, nil
}

// uploadImage registers a feed-share upload, sends the image bytes, and
// returns the asset URN for the post payload.
func (l *LinkedIn) uploadImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ai.ImageError{Op: "read", Ref: path, Err: err}
	}

	register := registerUploadRequest{
		RegisterUploadRequest: registerUpload{
			Recipes: []string{"urn:li:digitalmediaRecipe:feedshare-image"},
			Owner:   "urn:li:person:" + l.personID,
			ServiceRelationships: []serviceRelationship{{
				RelationshipType: "OWNER",
				Identifier:       "urn:li:userGeneratedContent",
			}},
		},
	}

	var registered struct {
		Value struct {
			Asset           string `json:"asset"`
			UploadMechanism struct {
				MediaUploadHTTPRequest struct {
					UploadURL string `json:"uploadUrl"`
				} `json:"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"`
			} `json:"uploadMechanism"`
		} `json:"value"`
	}
	if err := l.postJSON(ctx, l.baseURL+"/assets?action=registerUpload", register, http.StatusOK, &registered); err != nil {
		return "", err
	}

	uploadURL := registered.Value.UploadMechanism.MediaUploadHTTPRequest.UploadURL
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+l.accessToken)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", ai.NewTransientError("image upload failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", categorizeResponse("image upload", resp)
	}

	return registered.Value.Asset, nil
}

// postJSON sends a JSON request and decodes the response when the status
// matches wantStatus.
func (l *LinkedIn) postJSON(ctx context.Context, url string, payload any, wantStatus int, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+l.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return ai.NewTransientError("linkedin request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return categorizeResponse("linkedin api", resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode linkedin response: %w", err)
		}
	}
	return nil
}

// categorizeResponse maps an unexpected HTTP status onto the error
// taxonomy. Rate limits and server errors are transient, the rest
// permanent.
func categorizeResponse(op string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := fmt.Sprintf("%s error: %d - %s", op, resp.StatusCode, string(detail))

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return ai.NewTransientError(msg, resp.StatusCode, nil)
	}
	return ai.NewPermanentError(msg, resp.StatusCode, nil)
}

type ugcPost struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent specificContent `json:"specificContent"`
	Visibility      visibility      `json:"visibility"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type shareContent struct {
	ShareCommentary    textBlock    `json:"shareCommentary"`
	ShareMediaCategory string       `json:"shareMediaCategory"`
	Media              []mediaEntry `json:"media,omitempty"`
}

type mediaEntry struct {
	Status      string    `json:"status"`
	Description textBlock `json:"description"`
	Media       string    `json:"media"`
	Title       textBlock `json:"title"`
}

type textBlock struct {
	Text string `json:"text"`
}

type visibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

type registerUploadRequest struct {
	RegisterUploadRequest registerUpload `json:"registerUploadRequest"`
}

type registerUpload struct {
	Recipes              []string              `json:"recipes"`
	Owner                string                `json:"owner"`
	ServiceRelationships []serviceRelationship `json:"serviceRelationships"`
}

type serviceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

var _ Publisher = (*LinkedIn)(nil)
