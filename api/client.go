package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vidgrab/vidgrab/constant"
	"github.com/vidgrab/vidgrab/log"
)

// Backend endpoints.
const (
	EndpointInfo      = "/api/info"
	EndpointInfos     = "/api/infos"
	EndpointDownload  = "/api/download"
	EndpointDownloads = "/api/downloads"
)

// Client talks to the download backend over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIKey sets the key sent in the X-API-KEY header.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// New returns a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the backend root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Payload is a file streamed back by a download endpoint.
// The caller must close Body.
type Payload struct {
	Filename string
	// Size is the announced length in bytes, or -1 when unknown.
	Size int64
	Body io.ReadCloser
}

// Info fetches metadata and formats for a single URL.
func (c *Client) Info(ctx context.Context, url string) (*MediaInfo, error) {
	resp, err := c.post(ctx, EndpointInfo, infoRequest{URL: url})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var info MediaInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode info response: %w", err)
	}

	return &info, nil
}

// Infos fetches metadata for several URLs in one request.
// Per-URL failures are reported through BatchItem.Error.
func (c *Client) Infos(ctx context.Context, urls []string) ([]BatchItem, error) {
	resp, err := c.post(ctx, EndpointInfos, infosRequest{URLs: urls})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if batchMissing(resp.StatusCode) {
		return nil, ErrBatchUnsupported
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var items []BatchItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode infos response: %w", err)
	}

	return items, nil
}

// Download requests a single URL, optionally in a given format.
// An empty formatID lets the backend pick its default.
func (c *Client) Download(ctx context.Context, url, formatID string) (*Payload, error) {
	resp, err := c.post(ctx, EndpointDownload, downloadRequest{URL: url, FormatID: formatID})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}

	return payload(resp, constant.DefaultFilename), nil
}

// DownloadArchive requests several URLs bundled into one zip archive.
func (c *Client) DownloadArchive(ctx context.Context, urls []string) (*Payload, error) {
	resp, err := c.post(ctx, EndpointDownloads, infosRequest{URLs: urls})
	if err != nil {
		return nil, err
	}

	if batchMissing(resp.StatusCode) {
		_ = resp.Body.Close()
		return nil, ErrBatchUnsupported
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}

	return payload(resp, constant.DefaultArchiveFilename), nil
}

func payload(resp *http.Response, fallback string) *Payload {
	return &Payload{
		Filename: FilenameFromDisposition(resp.Header.Get("Content-Disposition"), fallback),
		Size:     resp.ContentLength,
		Body:     resp.Body,
	}
}

// post sends a JSON body to an endpoint. The caller owns the response body.
func (c *Client) post(ctx context.Context, endpoint string, body any) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, */*")
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set(constant.RequestIDHeader, requestID)
	if c.apiKey != "" {
		req.Header.Set(constant.APIKeyHeader, c.apiKey)
	}

	logger := log.WithFields(log.Fields{
		"request_id": requestID,
		"endpoint":   endpoint,
	})

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.WithError(err).Error("request failed")
		return nil, err
	}

	logger.WithFields(log.Fields{
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).String(),
	}).Info("request completed")

	return resp, nil
}
