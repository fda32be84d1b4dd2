package search

import (
	"fmt"
	"net"
	"net/url"
	"path"
	"strings"
)

// DedupKey returns the canonical identity of a result URL used for
// deduplication across backends.
//
// The rules are intentionally aggressive; two URLs that differ only in ways
// that do not change the page they point to must collapse into one key:
//   - The scheme is dropped entirely (http vs https is not a distinct page)
//   - Host is lower-cased; default ports (80, 443) are removed
//   - The path is cleaned (dot-segments, duplicate slashes) and a trailing
//     slash is removed
//   - Query string and fragment are stripped
//
// If the input cannot be parsed as an absolute URL, an error is returned.
func DedupKey(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("could not parse URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL %q has no host", raw)
	}

	host := strings.ToLower(u.Host)
	if h, p, err := net.SplitHostPort(host); err == nil {
		if p == "80" || p == "443" {
			host = h
		} else {
			host = net.JoinHostPort(h, p)
		}
	} // else: host without explicit port, keep as is

	cleaned := u.Path
	if cleaned == "" {
		cleaned = "/"
	}
	cleaned = path.Clean(cleaned)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	cleaned = strings.TrimSuffix(cleaned, "/")

	return host + cleaned, nil
}
