package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNotAbsolute is returned for URLs lacking a scheme or host.
var ErrNotAbsolute = errors.New("missing scheme or host")

// Canonical parses an absolute HTTP(S) URL and returns it without its fragment.
// The host is lowercased and a bare "/" path is dropped, so "https://Host/" and
// "https://host" are one page.
func Canonical(raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, ErrNotAbsolute
	}

	if !isSupportedScheme(parsed.Scheme) {
		return nil, errors.New("unsupported scheme " + parsed.Scheme)
	}

	normalize(parsed)

	return parsed, nil
}

// Resolve resolves href against base and returns it in the form Canonical produces.
func Resolve(base *url.URL, href string) (string, bool) {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}

	if !isSupportedScheme(parsed.Scheme) {
		return "", false
	}

	resolved := resolveReference(base, parsed)
	if !isSupportedScheme(resolved.Scheme) {
		return "", false
	}

	normalize(resolved)

	return resolved.String(), true
}

func isSupportedScheme(scheme string) bool {
	return scheme == "" || scheme == "http" || scheme == "https"
}

func resolveReference(base *url.URL, parsed *url.URL) *url.URL {
	if parsed.Scheme == "" {
		return base.ResolveReference(parsed)
	}

	return parsed
}

// normalize gives every spelling of one page the same string form.
func normalize(u *url.URL) {
	u.Host = strings.ToLower(u.Host)

	if u.Path == "/" {
		u.Path = ""
		u.RawPath = ""
	}

	u.Fragment = ""
	u.RawFragment = ""
}

// SameHost reports whether raw points at the same host (including port) as base.
// The scheme is ignored, so http and https pages of one site are both followed.
func SameHost(base *url.URL, raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return parsed.Host != "" && strings.EqualFold(parsed.Host, base.Host)
}
