package vignette

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Fetcher retrieves raw resource bodies. Implementations must settle the
// returned future on loop (background work goes through Loop.Post).
type Fetcher interface {
	Fetch(loop *Loop, method, url string) *Future[string]
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(loop *Loop, method, url string) *Future[string]

// Fetch calls f.
func (f FetcherFunc) Fetch(loop *Loop, method, url string) *Future[string] {
	return f(loop, method, url)
}

// StatusError reports a response outside the 200-399 range. Redirects the
// client does not follow, such as 304 Not Modified, count as success.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vignette: fetch %s: status %d", e.URL, e.Code)
}

// Unwrap lets errors.Is match ErrFetchStatus.
func (e *StatusError) Unwrap() error {
	return ErrFetchStatus
}

// goFetch runs read on a new goroutine and settles the returned future on loop.
func goFetch(loop *Loop, read func() ([]byte, error)) *Future[string] {
	fut := NewFuture[string]()
	go func() {
		body, err := read()
		loop.Post(func() {
			if err != nil {
				fut.Reject(err)
				return
			}
			fut.Resolve(string(body))
		})
	}()
	return fut
}

// HTTPFetcher fetches resources over HTTP. Relative URLs are resolved against
// Base.
type HTTPFetcher struct {
	Client  *http.Client
	Base    string
	Timeout time.Duration
}

// Fetch issues the request on a goroutine.
func (f *HTTPFetcher) Fetch(loop *Loop, method, rawURL string) *Future[string] {
	target, err := f.resolve(rawURL)
	if err != nil {
		return Rejected[string](err)
	}
	return goFetch(loop, func() ([]byte, error) {
		return f.do(method, target)
	})
}

func (f *HTTPFetcher) resolve(rawURL string) (string, error) {
	if f.Base == "" {
		return rawURL, nil
	}
	base, err := url.Parse(f.Base)
	if err != nil {
		return "", fmt.Errorf("vignette: parse base url: %w", err)
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("vignette: parse url %q: %w", rawURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (f *HTTPFetcher) do(method, target string) ([]byte, error) {
	ctx := context.Background()
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("vignette: fetch %s: %w", target, err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vignette: fetch %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vignette: read %s: %w", target, err)
	}
	return body, nil
}

// FSFetcher reads resources from a file system such as an embed.FS. URLs are
// slash-separated paths; a leading slash is ignored.
type FSFetcher struct {
	FS fs.FS
}

// Fetch reads the file on a goroutine.
func (f *FSFetcher) Fetch(loop *Loop, method, rawURL string) *Future[string] {
	name := path.Clean(strings.TrimPrefix(rawURL, "/"))
	return goFetch(loop, func() ([]byte, error) {
		body, err := fs.ReadFile(f.FS, name)
		if err != nil {
			return nil, fmt.Errorf("vignette: fetch %s: %w", rawURL, err)
		}
		return body, nil
	})
}

// MuxFetcher routes http and https URLs to Remote and everything else to
// Local.
type MuxFetcher struct {
	Remote Fetcher
	Local  Fetcher
}

// Fetch dispatches on the URL scheme.
func (m *MuxFetcher) Fetch(loop *Loop, method, rawURL string) *Future[string] {
	if isRemoteURL(rawURL) {
		if m.Remote == nil {
			return Rejected[string](fmt.Errorf("vignette: fetch %s: no remote fetcher", rawURL))
		}
		return m.Remote.Fetch(loop, method, rawURL)
	}
	if m.Local == nil {
		return Rejected[string](fmt.Errorf("vignette: fetch %s: no local fetcher", rawURL))
	}
	return m.Local.Fetch(loop, method, rawURL)
}

func isRemoteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
