package auth

import (
	"net/http"
	"testing"
)

func TestExtractTokenBearer(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer sgvr_abc")

	token, found := ExtractToken(headers)
	if !found || token != "sgvr_abc" {
		t.Fatalf("expected sgvr_abc, got %q found=%v", token, found)
	}
}

func TestExtractTokenXAPIKey(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-API-Key", "sgvr_xyz")

	token, found := ExtractToken(headers)
	if !found || token != "sgvr_xyz" {
		t.Fatalf("expected sgvr_xyz, got %q found=%v", token, found)
	}
}

func TestExtractTokenBearerTakesPrecedence(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer primary")
	headers.Set("X-API-Key", "secondary")

	token, _ := ExtractToken(headers)
	if token != "primary" {
		t.Fatalf("expected bearer token to win, got %q", token)
	}
}

func TestExtractTokenBearerPrefixIsCaseSensitive(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "bearer sgvr_abc")

	if _, found := ExtractToken(headers); found {
		t.Fatalf("lowercase scheme must not match")
	}
}

func TestExtractTokenHeaderNamesCaseInsensitive(t *testing.T) {
	headers := http.Header{}
	// Non-canonical spelling; http.Header.Set canonicalizes on write, so
	// emulate a transport that wrote the raw map directly.
	headers["X-Api-Key"] = []string{"sgvr_raw"}

	token, found := ExtractToken(headers)
	if !found || token != "sgvr_raw" {
		t.Fatalf("expected sgvr_raw, got %q found=%v", token, found)
	}
}

func TestExtractTokenNone(t *testing.T) {
	if _, found := ExtractToken(http.Header{}); found {
		t.Fatalf("empty headers must not yield a token")
	}
	headers := http.Header{}
	headers.Set("Authorization", "Bearer ")
	if _, found := ExtractToken(headers); found {
		t.Fatalf("empty bearer token must not be found")
	}
}

func TestHeadersFromEnviron(t *testing.T) {
	headers := HeadersFromEnviron([]string{
		"HTTP_AUTHORIZATION=Bearer sgvr_env",
		"HTTP_X_API_KEY=fallback",
		"PATH=/usr/bin",
		"HTTP_=ignored",
	})

	if got := headers.Get("Authorization"); got != "Bearer sgvr_env" {
		t.Fatalf("authorization not reconstructed: %q", got)
	}
	if got := headers.Get("X-Api-Key"); got != "fallback" {
		t.Fatalf("x-api-key not reconstructed: %q", got)
	}
	if len(headers) != 2 {
		t.Fatalf("expected 2 headers, got %d", len(headers))
	}

	token, found := ExtractToken(headers)
	if !found || token != "sgvr_env" {
		t.Fatalf("expected sgvr_env from reconstructed headers, got %q", token)
	}
}
