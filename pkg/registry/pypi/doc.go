// Package pypi provides an HTTP client and schema decoder for the Python
// Package Index JSON API.
//
// # Overview
//
// This package fetches package metadata from PyPI (https://pypi.org), the
// official repository for Python packages, from the per-package endpoint
// https://pypi.org/pypi/{name}/json.
//
// # Usage
//
//	client := pypi.NewClient("")
//
//	pkg, err := client.FetchPackage(ctx, "requests")
//	if err != nil {
//	    fmt.Println(registry.FormatError(err))
//	    return
//	}
//
//	fmt.Println(pkg.Name)
//	fmt.Println("Releases:", pkg.Releases)
//
// # Decoding
//
// [FetchPackage] returns a [PackageInfo] containing:
//
//   - Name: package identity as reported by the registry
//   - Releases: published version strings, registry emission order
//   - RelatedLinks: project URL values, labels discarded
//   - Dependencies: requires_dist specifiers, nil when undeclared
//
// The decoder walks the JSON token stream rather than unmarshaling into
// maps so that the emission order of the releases and project_urls mappings
// survives the round trip. Go maps would shuffle it.
//
// # Failures
//
// All errors are [registry.Error] values. Transport failures keep their
// category (bad URL, timeout, network, bad status, bad body) because the
// display text produced by [registry.FormatError] depends on it. Schema
// violations carry a path-aware diagnostic, e.g.
// "info.name: expected string, got null".
package pypi
