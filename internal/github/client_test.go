package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("owner", "repo", WithBaseURL(server.URL)), server
}

func TestLatestRelease(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "grok-search-installer" {
			t.Errorf("User-Agent = %q, want grok-search-installer", got)
		}
		fmt.Fprint(w, `{
			"tag_name": "v1.3.0",
			"assets": [
				{"name": "grok-search-mcp-macos-arm64", "browser_download_url": "https://example.invalid/a"},
				{"name": "grok-search-mcp-linux-x64", "browser_download_url": "https://example.invalid/b"}
			]
		}`)
	})

	client, _ := newTestClient(t, mux)

	release, err := client.LatestRelease(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if release.TagName != "v1.3.0" {
		t.Errorf("TagName = %q, want v1.3.0", release.TagName)
	}
	if len(release.Assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(release.Assets))
	}

	asset, ok := release.AssetByName("grok-search-mcp-macos-arm64")
	if !ok {
		t.Fatal("AssetByName did not find grok-search-mcp-macos-arm64")
	}
	if asset.BrowserDownloadURL != "https://example.invalid/a" {
		t.Errorf("BrowserDownloadURL = %q, want https://example.invalid/a", asset.BrowserDownloadURL)
	}
}

func TestLatestRelease_Non200(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.LatestRelease(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("got error %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", statusErr.StatusCode)
	}
}

func TestLatestRelease_FollowsRedirect(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/moved", http.StatusFound)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name": "v2.0.0", "assets": []}`)
	})

	client, _ := newTestClient(t, mux)

	release, err := client.LatestRelease(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if release.TagName != "v2.0.0" {
		t.Errorf("TagName = %q, want v2.0.0", release.TagName)
	}
}

func TestDownloadAsset_Success(t *testing.T) {
	t.Parallel()

	payload := []byte("binary-bytes-v1.3.0")
	mux := http.NewServeMux()
	mux.HandleFunc("/asset", func(w http.ResponseWriter, r *http.Request) {
		// Mirror GitHub's behavior: the asset URL redirects to a CDN.
		http.Redirect(w, r, "/cdn/asset", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/cdn/asset", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	})

	client, server := newTestClient(t, mux)
	dest := filepath.Join(t.TempDir(), "binary")

	if err := client.DownloadAsset(context.Background(), server.URL+"/asset", dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("downloaded %q, want %q", got, payload)
	}
}

func TestDownloadAsset_Non200LeavesNoFile(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	dest := filepath.Join(t.TempDir(), "binary")

	err := client.DownloadAsset(context.Background(), server.URL+"/asset", dest)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("got error %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", statusErr.StatusCode)
	}

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination file exists after failed download, stat err = %v", err)
	}
}

func TestDownloadAsset_RedirectCycle(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})

	client, server := newTestClient(t, mux)
	dest := filepath.Join(t.TempDir(), "binary")

	err := client.DownloadAsset(context.Background(), server.URL+"/loop", dest)
	if !errors.Is(err, ErrTooManyRedirects) {
		t.Fatalf("got error %v, want ErrTooManyRedirects", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination file exists after redirect cycle, stat err = %v", err)
	}
}
