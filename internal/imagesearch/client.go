package imagesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"slidewiz/pkg/httputil"
)

const (
	baseURL              = "https://api.pexels.com/v1/search"
	defaultSearchTimeout = 10 * time.Second
	defaultFetchTimeout  = 15 * time.Second
	defaultMaxBytes      = 20 << 20
	maxSearchBody        = 1 << 20
)

// ErrNoResults means the search succeeded but matched no photo.
var ErrNoResults = errors.New("no photos found")

type Client struct {
	apiKey       string
	baseURL      string
	searchHTTP   *http.Client
	downloadHTTP *http.Client
	maxBytes     int64
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

func WithTimeouts(search, fetch time.Duration) Option {
	return func(c *Client) {
		if search > 0 {
			c.searchHTTP = httputil.NewClient(search)
		}
		if fetch > 0 {
			c.downloadHTTP = httputil.NewClient(fetch)
		}
	}
}

func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

type searchResponse struct {
	Photos []photo `json:"photos"`
}

type photo struct {
	Src photoSource `json:"src"`
}

type photoSource struct {
	Landscape string `json:"landscape"`
	Original  string `json:"original"`
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      baseURL,
		searchHTTP:   httputil.NewClient(defaultSearchTimeout),
		downloadHTTP: httputil.NewClient(defaultFetchTimeout),
		maxBytes:     defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns the URL of the best photo for query: the landscape rendition
// of the first result, or its original when no landscape one exists.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	httputil.SetUserAgent(req)

	resp, err := c.searchHTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := httputil.CheckStatus(resp); err != nil {
		return "", fmt.Errorf("search api error: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search api error: %w", &httputil.StatusError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	body, err := httputil.ReadLimited(resp.Body, maxSearchBody)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(searchResp.Photos) == 0 {
		return "", ErrNoResults
	}

	src := searchResp.Photos[0].Src
	if src.Landscape != "" {
		return src.Landscape, nil
	}
	if src.Original != "" {
		return src.Original, nil
	}
	return "", fmt.Errorf("photo has no usable source")
}

func (c *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httputil.SetUserAgent(req)

	resp, err := c.downloadHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := httputil.CheckStatus(resp); err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}

	data, err := httputil.ReadLimited(resp.Body, c.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to download image: empty body")
	}

	return data, nil
}
