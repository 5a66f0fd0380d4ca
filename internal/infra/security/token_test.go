package security

import "testing"

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(token))
	}
	for _, r := range token {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("unexpected character %q in token", r)
		}
	}

	other, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if token == other {
		t.Fatalf("expected distinct tokens")
	}
}

func TestTokensEqual(t *testing.T) {
	if !TokensEqual("abc", "abc") {
		t.Fatalf("expected equal tokens to match")
	}
	if TokensEqual("abc", "abd") {
		t.Fatalf("expected different tokens to mismatch")
	}
	if TokensEqual("", "") {
		t.Fatalf("empty tokens must never match")
	}
	if TokensEqual("abc", "") || TokensEqual("", "abc") {
		t.Fatalf("empty side must never match")
	}
}
