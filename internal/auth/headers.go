package auth

import (
	"net/http"
	"sort"
	"strings"
)

// bearerPrefix is the literal Authorization scheme prefix. The match is
// case-sensitive and requires exactly one space before the token.
const bearerPrefix = "Bearer "

// ExtractToken returns the credential presented in the request headers.
// An Authorization bearer token takes precedence over X-API-Key when both
// are present. The second return reports whether any token was found.
func ExtractToken(headers http.Header) (string, bool) {
	if headers == nil {
		return "", false
	}
	authz := strings.TrimSpace(headers.Get("Authorization"))
	if strings.HasPrefix(authz, bearerPrefix) {
		token := strings.TrimSpace(authz[len(bearerPrefix):])
		if token != "" {
			return token, true
		}
	}
	if token := strings.TrimSpace(headers.Get("X-API-Key")); token != "" {
		return token, true
	}
	return "", false
}

// HeadersFromEnviron reconstructs request headers from CGI/FastCGI style
// environment pairs ("HTTP_X_API_KEY=..."). It is the fallback path for
// deployments where the transport does not expose header enumeration
// directly. Underscores revert to hyphens; http.Header canonicalizes the
// resulting names, so lookups stay case-insensitive.
func HeadersFromEnviron(environ []string) http.Header {
	headers := http.Header{}
	for _, pair := range environ {
		idx := strings.Index(pair, "=")
		if idx <= 0 {
			continue
		}
		key := pair[:idx]
		value := pair[idx+1:]
		if !strings.HasPrefix(key, "HTTP_") {
			continue
		}
		name := strings.ReplaceAll(strings.TrimPrefix(key, "HTTP_"), "_", "-")
		if name == "" {
			continue
		}
		headers.Add(name, value)
	}
	return headers
}

// ObservedHeaderNames returns the sorted set of header names present,
// for diagnostic logging. Values are never included.
func ObservedHeaderNames(headers http.Header) []string {
	if len(headers) == 0 {
		return nil
	}
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
