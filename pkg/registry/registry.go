// Package registry provides shared plumbing for package index clients:
// the failure taxonomy, the user-facing error formatter, and common
// helpers for HTTP access and package name handling.
package registry

import (
	"net/http"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

// NewHTTPClient creates an HTTP client with a standard timeout for registry
// requests. The timeout is the only deadline in play; requests are never
// retried.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizePkgName converts a package name to its canonical form.
// Applies lowercase and replaces underscores with hyphens, following PEP 503
// normalization rules used by PyPI.
func NormalizePkgName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}
