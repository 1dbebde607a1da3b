// Package deeplink extracts password-reset tokens from launch URLs.
//
// The app can be opened through a link carrying a reset token in either of
// two shapes:
//
//	matchify://new-password?token=ABC
//	matchify://new-password/XYZ
//
// When a token is present the app routes straight to the reset-password
// flow, bypassing the splash -> role-selection -> login chain.
package deeplink

import (
	"net/url"
	"strings"
)

// ResetToken extracts the reset token from rawURL. The query parameter
// "token" wins; otherwise the second path segment is used (for custom
// schemes the route name sits in the host position and counts as the first
// segment). Returns false when the URL carries no token.
func ResetToken(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	if token := u.Query().Get("token"); token != "" {
		return token, true
	}

	segments := pathSegments(u)
	if len(segments) >= 2 && segments[1] != "" {
		return segments[1], true
	}
	return "", false
}

// pathSegments returns the URL's route segments. For custom app schemes the
// parser puts the route name ("new-password") into the host, so it is
// prepended; for http(s) URLs the host is a domain, not a route.
func pathSegments(u *url.URL) []string {
	var segments []string
	if u.Host != "" && u.Scheme != "http" && u.Scheme != "https" {
		segments = append(segments, u.Host)
	}
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
