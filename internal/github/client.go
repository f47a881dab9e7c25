package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"grok-search-installer/internal/logger"
)

const (
	// requestTimeout bounds every HTTP call, metadata and download alike.
	requestTimeout = 60 * time.Second

	// maxRedirects bounds redirect following so a redirect cycle fails
	// instead of looping forever.
	maxRedirects = 5

	userAgent = "grok-search-installer"
)

// ErrTooManyRedirects is returned when a request chains through more than
// maxRedirects Location hops.
var ErrTooManyRedirects = errors.New("stopped after too many redirects")

// StatusError reports a terminal non-200 HTTP response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d from %s", e.StatusCode, e.URL)
}

// Release represents the GitHub "latest release" JSON response.
type Release struct {
	TagName string  `json:"tag_name"` // e.g. "v1.3.0"
	Assets  []Asset `json:"assets"`
}

// Asset is a single downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// AssetByName returns the asset with exactly the given name, if present.
func (r *Release) AssetByName(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// Client queries the GitHub Releases API. Requests identify themselves by
// header only; no auth token is sent.
type Client struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
}

// Option configures a Client during construction.
type Option func(*Client)

// WithBaseURL overrides the API base URL, primarily for test servers.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a release client for the given repository.
func NewClient(owner, repo string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return ErrTooManyRedirects
				}
				return nil
			},
		},
		baseURL: "https://api.github.com",
		owner:   owner,
		repo:    repo,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestRelease fetches the latest published release. The result is never
// cached; every operation sees fresh metadata.
func (c *Client) LatestRelease(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)
	logger.Debug("[DEBUG] Fetching latest release from %s\n", url)

	resp, err := c.get(ctx, url, "application/vnd.github+json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release for %s/%s: %w", c.owner, c.repo, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release JSON for %s/%s: %w", c.owner, c.repo, err)
	}
	logger.Debug("[DEBUG] Latest release is %s with %d assets\n", release.TagName, len(release.Assets))
	return &release, nil
}

// DownloadAsset streams the file at url to destPath. On any failure the
// partial file is removed, so destPath exists only when the download
// completed successfully.
func (c *Client) DownloadAsset(ctx context.Context, url, destPath string) (err error) {
	logger.Debug("[DEBUG] Downloading %s to %s\n", url, destPath)

	resp, err := c.get(ctx, url, "application/octet-stream")
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			// Leave no partial file behind.
			if rerr := os.Remove(destPath); rerr != nil && !os.IsNotExist(rerr) {
				logger.Warn("[WARN] Failed to remove partial download %s: %v\n", destPath, rerr)
			}
		}
	}()

	if _, err = io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to %s: %w", destPath, err)
	}
	return nil
}

// get issues a GET request with the installer's identifying headers.
// Redirects are followed by the underlying client up to maxRedirects hops.
func (c *Client) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)
	return c.httpClient.Do(req)
}
