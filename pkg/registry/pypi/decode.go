package pypi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pypeek/pypeek/pkg/registry"
)

// PackageInfo holds decoded metadata for a Python package from PyPI.
//
// Releases and RelatedLinks preserve the order the registry emitted them in;
// PyPI makes no ordering promise for either, so callers must treat the order
// as "as received". A nil Dependencies slice means the registry declared
// none (requires_dist was null or missing), which is distinct from a
// declared-but-empty list.
//
// The struct is immutable by convention once constructed and safe for
// concurrent reads.
type PackageInfo struct {
	Name         string   // Canonical name as reported by the registry
	Releases     []string // Version strings, registry emission order
	RelatedLinks []string // Project URL values, labels discarded
	Dependencies []string // Dependency specifiers; nil when undeclared
}

// Decode parses raw metadata JSON into a PackageInfo.
//
// Required fields are info.name (string), info.project_urls (object of
// string values) and the top-level releases object; any of them missing,
// null, or wrong-typed fails the decode entirely. info.requires_dist is
// optional: null or absent yields nil Dependencies.
//
// The releases object contributes only its keys; per-release metadata is
// skipped without inspection. project_urls contributes only its values.
// Both retain emission order, which is why this decoder walks the token
// stream instead of unmarshaling into maps.
//
// Failures are [registry.Error] values with [registry.CodeDecode] and a
// message naming the offending JSON path.
func Decode(data []byte) (*PackageInfo, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, registry.DecodeFailed("response is not valid JSON: " + err.Error())
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, registry.DecodeFailed(fmt.Sprintf("expected top-level object, got %s", tokenType(tok)))
	}

	var info *infoFields
	var releases []string
	releasesSeen := false

	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		switch key {
		case "info":
			if info, err = decodeInfo(dec); err != nil {
				return nil, err
			}
		case "releases":
			if releases, err = decodeReleases(dec); err != nil {
				return nil, err
			}
			releasesSeen = true
		default:
			if err := skipValue(dec); err != nil {
				return nil, syntaxError(err)
			}
		}
	}

	if info == nil {
		return nil, registry.DecodeFailed("info: required field is missing")
	}
	if !releasesSeen {
		return nil, registry.DecodeFailed("releases: required field is missing")
	}

	return &PackageInfo{
		Name:         info.name,
		Releases:     releases,
		RelatedLinks: info.links,
		Dependencies: info.deps,
	}, nil
}

// infoFields accumulates the parts of the "info" object the decoder cares
// about. deps stays nil unless requires_dist held an actual array.
type infoFields struct {
	name  string
	links []string
	deps  []string
}

func decodeInfo(dec *json.Decoder) (*infoFields, error) {
	if err := expectObject(dec, "info"); err != nil {
		return nil, err
	}

	var f infoFields
	nameSeen := false
	linksSeen := false

	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		switch key {
		case "name":
			tok, err := dec.Token()
			if err != nil {
				return nil, syntaxError(err)
			}
			s, ok := tok.(string)
			if !ok {
				return nil, registry.DecodeFailed(fmt.Sprintf("info.name: expected string, got %s", tokenType(tok)))
			}
			f.name = s
			nameSeen = true
		case "project_urls":
			if f.links, err = decodeProjectURLs(dec); err != nil {
				return nil, err
			}
			linksSeen = true
		case "requires_dist":
			if f.deps, err = decodeRequiresDist(dec); err != nil {
				return nil, err
			}
		default:
			if err := skipValue(dec); err != nil {
				return nil, syntaxError(err)
			}
		}
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, syntaxError(err)
	}

	if !nameSeen {
		return nil, registry.DecodeFailed("info.name: required field is missing")
	}
	if !linksSeen {
		return nil, registry.DecodeFailed("info.project_urls: required field is missing")
	}
	return &f, nil
}

// decodeProjectURLs extracts the URL values of the project-links mapping in
// emission order, discarding the labels.
func decodeProjectURLs(dec *json.Decoder) ([]string, error) {
	if err := expectObject(dec, "info.project_urls"); err != nil {
		return nil, err
	}

	urls := []string{}
	for dec.More() {
		label, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError(err)
		}
		s, ok := tok.(string)
		if !ok {
			return nil, registry.DecodeFailed(fmt.Sprintf("info.project_urls.%s: expected string, got %s", label, tokenType(tok)))
		}
		urls = append(urls, s)
	}
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(err)
	}
	return urls, nil
}

// decodeRequiresDist returns nil for a null value and a non-nil slice
// (possibly empty) for an array. The distinction is load-bearing: nil means
// the registry declared no dependency information at all.
func decodeRequiresDist(dec *json.Decoder) ([]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, syntaxError(err)
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, registry.DecodeFailed(fmt.Sprintf("info.requires_dist: expected array or null, got %s", tokenType(tok)))
	}

	deps := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError(err)
		}
		s, ok := tok.(string)
		if !ok {
			return nil, registry.DecodeFailed(fmt.Sprintf("info.requires_dist[%d]: expected string, got %s", len(deps), tokenType(tok)))
		}
		deps = append(deps, s)
	}
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(err)
	}
	return deps, nil
}

// decodeReleases extracts the version-string keys of the releases mapping in
// emission order. The per-release metadata arrays are skipped entirely.
func decodeReleases(dec *json.Decoder) ([]string, error) {
	if err := expectObject(dec, "releases"); err != nil {
		return nil, err
	}

	versions := []string{}
	for dec.More() {
		version, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
		if err := skipValue(dec); err != nil {
			return nil, syntaxError(err)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(err)
	}
	return versions, nil
}

func expectObject(dec *json.Decoder, path string) error {
	tok, err := dec.Token()
	if err != nil {
		return syntaxError(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return registry.DecodeFailed(fmt.Sprintf("%s: expected object, got %s", path, tokenType(tok)))
	}
	return nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", syntaxError(err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", registry.DecodeFailed(fmt.Sprintf("expected object key, got %s", tokenType(tok)))
	}
	return key, nil
}

// skipValue consumes one complete JSON value from the stream, descending
// into nested objects and arrays.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	for dec.More() {
		if d == '{' {
			if _, err := dec.Token(); err != nil { // key
				return err
			}
		}
		if err := skipValue(dec); err != nil {
			return err
		}
	}
	_, err = dec.Token() // closing delim
	return err
}

func syntaxError(err error) error {
	return registry.DecodeFailed("response is not valid JSON: " + err.Error())
}

func tokenType(tok json.Token) string {
	switch t := tok.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case json.Delim:
		switch t {
		case '{':
			return "object"
		case '[':
			return "array"
		}
	}
	return "unknown"
}
