package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUpstream marks failures of the external content APIs so handlers can map
// them to 502.
var ErrUpstream = errors.New("content upstream failed")

// ContentClient talks to the external summarization and image-generation APIs
// used by the post publish pipeline.
type ContentClient struct {
	SummarizerURL string
	ImageGenURL   string
	APIKey        string
	HTTP          *http.Client
}

func NewContentClient(summarizerURL, imageGenURL, apiKey string) *ContentClient {
	return &ContentClient{
		SummarizerURL: summarizerURL,
		ImageGenURL:   imageGenURL,
		APIKey:        apiKey,
		HTTP:          &http.Client{Timeout: 30 * time.Second},
	}
}

type summarizeRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

// Summarize sends the post body to the summarization API and returns the
// generated abstract.
func (c *ContentClient) Summarize(ctx context.Context, text string) (string, error) {
	var out summarizeResponse
	if err := c.post(ctx, c.SummarizerURL, summarizeRequest{Text: text, MaxLength: 280}, &out); err != nil {
		return "", err
	}
	if out.Summary == "" {
		return "", fmt.Errorf("%w: empty summary", ErrUpstream)
	}
	return out.Summary, nil
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	URL string `json:"url"`
}

// GenerateCoverImage asks the image API for a cover illustration and returns
// its URL.
func (c *ContentClient) GenerateCoverImage(ctx context.Context, title string) (string, error) {
	var out imageResponse
	if err := c.post(ctx, c.ImageGenURL, imageRequest{Prompt: title}, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("%w: empty image url", ErrUpstream)
	}
	return out.URL, nil
}

func (c *ContentClient) post(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	return nil
}
