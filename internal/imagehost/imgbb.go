// Package imagehost uploads item photos to an imgbb-style hosting API. When
// no API key is configured, photos are kept inline as base64 so the rest of
// the app never has to care where an image lives.
package imagehost

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"cratepricer/internal/model"
	"cratepricer/internal/ratelimit"
)

// Host stores and removes item photos.
type Host interface {
	Available() bool
	Upload(ctx context.Context, name string, data []byte) (*model.Photo, error)
	Delete(ctx context.Context, deleteRef string) error
}

const defaultUploadURL = "https://api.imgbb.com/1/upload"

// ImgBB talks to the imgbb upload API.
type ImgBB struct {
	apiKey    string
	uploadURL string
	client    *resty.Client
	limiter   *ratelimit.Limiter
}

func NewImgBB(apiKey string) *ImgBB {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &ImgBB{
		apiKey:    apiKey,
		uploadURL: defaultUploadURL,
		client:    client,
		limiter:   ratelimit.NewLimiter(10, 2*time.Second),
	}
}

func (h *ImgBB) Available() bool {
	return h.apiKey != ""
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL   string `json:"url"`
		Thumb struct {
			URL string `json:"url"`
		} `json:"thumb"`
		DeleteURL string `json:"delete_url"`
	} `json:"data"`
}

// Upload pushes one image and returns its hosted locations.
func (h *ImgBB) Upload(ctx context.Context, name string, data []byte) (*model.Photo, error) {
	if !h.Available() {
		return nil, fmt.Errorf("image host not configured")
	}
	h.limiter.Wait()

	var out uploadResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("key", h.apiKey).
		SetFormData(map[string]string{
			"name":  name,
			"image": base64.StdEncoding.EncodeToString(data),
		}).
		SetResult(&out).
		Post(h.uploadURL)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", name, err)
	}
	if resp.StatusCode() != 200 || !out.Success {
		return nil, fmt.Errorf("uploading %s: HTTP %d", name, resp.StatusCode())
	}
	if out.Data.URL == "" {
		return nil, fmt.Errorf("uploading %s: empty response", name)
	}

	return &model.Photo{
		URL:       out.Data.URL,
		Thumbnail: out.Data.Thumb.URL,
		DeleteRef: out.Data.DeleteURL,
	}, nil
}

// Delete removes a previously uploaded image via its deletion URL.
func (h *ImgBB) Delete(ctx context.Context, deleteRef string) error {
	if deleteRef == "" {
		return nil
	}
	resp, err := h.client.R().SetContext(ctx).Get(deleteRef)
	if err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("deleting image: HTTP %d", resp.StatusCode())
	}
	return nil
}

// Inline keeps photos embedded in the collection file. It is the fallback
// storage when no hosting key is configured.
type Inline struct{}

func (Inline) Available() bool {
	return true
}

func (Inline) Upload(ctx context.Context, name string, data []byte) (*model.Photo, error) {
	return &model.Photo{Inline: base64.StdEncoding.EncodeToString(data)}, nil
}

func (Inline) Delete(ctx context.Context, deleteRef string) error {
	return nil
}

// New picks the hosted backend when a key is present, inline otherwise.
func New(apiKey string) Host {
	if apiKey == "" {
		return Inline{}
	}
	return NewImgBB(apiKey)
}
