package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req summarizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "long article body", req.Text)

		json.NewEncoder(w).Encode(summarizeResponse{Summary: "short version"})
	}))
	defer srv.Close()

	c := NewContentClient(srv.URL, "", "test-key")
	summary, err := c.Summarize(context.Background(), "long article body")
	require.NoError(t, err)
	assert.Equal(t, "short version", summary)
}

func TestSummarizeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewContentClient(srv.URL, "", "")
	_, err := c.Summarize(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestSummarizeMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := NewContentClient(srv.URL, "", "")
	_, err := c.Summarize(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestSummarizeEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(summarizeResponse{})
	}))
	defer srv.Close()

	c := NewContentClient(srv.URL, "", "")
	_, err := c.Summarize(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGenerateCoverImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "My Post Title", req.Prompt)

		json.NewEncoder(w).Encode(imageResponse{URL: "https://img.example.com/1.png"})
	}))
	defer srv.Close()

	c := NewContentClient("", srv.URL, "")
	url, err := c.GenerateCoverImage(context.Background(), "My Post Title")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/1.png", url)
}

func TestGenerateCoverImageUnreachable(t *testing.T) {
	c := NewContentClient("", "http://127.0.0.1:1/image", "")
	_, err := c.GenerateCoverImage(context.Background(), "title")
	assert.ErrorIs(t, err, ErrUpstream)
}
