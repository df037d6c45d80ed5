package pypi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/pypeek/pypeek/pkg/registry"
)

// DefaultBaseURL is the production PyPI metadata endpoint prefix.
const DefaultBaseURL = "https://pypi.org/pypi"

// Client provides access to the PyPI package registry API.
// Each lookup issues exactly one GET request: no retries, no caching,
// no timeout beyond the transport default.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a PyPI client. An empty baseURL selects
// [DefaultBaseURL]; tests and alternate indexes may point it elsewhere.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    registry.NewHTTPClient(),
		baseURL: baseURL,
	}
}

// Fetch retrieves the raw metadata JSON for pkg from {base}/{pkg}/json.
//
// The name is interpolated as given; callers are responsible for triggering
// lookups only with meaningful names. Failures are reported as
// [registry.Error] values with one of the transport codes:
//
//   - [registry.CodeBadURL] when no request could be built from pkg
//   - [registry.CodeTimeout] when the transport deadline expires
//   - [registry.CodeNetwork] for connection-level failures
//   - [registry.CodeBadStatus] for any non-2xx response
//   - [registry.CodeBadBody] when the body cannot be read
func (c *Client) Fetch(ctx context.Context, pkg string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s/json", c.baseURL, url.PathEscape(pkg))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, registry.BadURL(fmt.Sprintf("invalid request URL %q", u), err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, registry.Timeout(err)
		}
		return nil, registry.Network(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, registry.BadStatus(resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, registry.BadBody("could not read response body", err)
	}
	return data, nil
}

// FetchPackage retrieves and decodes metadata for a Python package.
//
// The pkg parameter is normalized following PEP 503 (case-insensitive,
// underscores become hyphens) before the request is issued. On success the
// returned PackageInfo is never nil. Decode failures carry
// [registry.CodeDecode] and format identically to bad-body transport
// failures.
//
// This method is safe for concurrent use.
func (c *Client) FetchPackage(ctx context.Context, pkg string) (*PackageInfo, error) {
	raw, err := c.Fetch(ctx, registry.NormalizePkgName(pkg))
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
