package security

import (
	"strings"
	"testing"
)

func TestGenerateAccessTokenFormat(t *testing.T) {
	token, errGenerate := GenerateAccessToken()
	if errGenerate != nil {
		t.Fatalf("generate: %v", errGenerate)
	}
	if !strings.HasPrefix(token, "sgvr_") {
		t.Fatalf("expected sgvr_ prefix, got %q", token)
	}
	// 32 random bytes, hex encoded.
	if len(token) != len("sgvr_")+64 {
		t.Fatalf("unexpected token length %d", len(token))
	}
}

func TestGenerateAccessTokenUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, errGenerate := GenerateAccessToken()
		if errGenerate != nil {
			t.Fatalf("generate: %v", errGenerate)
		}
		if _, ok := seen[token]; ok {
			t.Fatalf("duplicate token generated")
		}
		seen[token] = struct{}{}
	}
}

func TestHideToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"ab", "ab"},
		{"abc", "a...c"},
		{"abcde", "ab...de"},
		{"sgvr_0123456789", "sgvr...6789"},
	}
	for _, tc := range cases {
		if got := HideToken(tc.in); got != tc.want {
			t.Fatalf("HideToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
