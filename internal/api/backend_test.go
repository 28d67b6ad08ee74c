package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestProtocolFromVersion(t *testing.T) {
	cases := map[string]Protocol{
		"0.19.3":     ProtocolV019,
		"0.19.0-rc1": ProtocolV019,
		"0.18.5":     ProtocolV018,
		"":           ProtocolV018,
	}
	for version, want := range cases {
		if got := ProtocolFromVersion(version); got != want {
			t.Fatalf("ProtocolFromVersion(%q) = %v, want %v", version, got, want)
		}
	}
}

func TestParseFlavor(t *testing.T) {
	if f, err := ParseFlavor(""); err != nil || f != FlavorLemmy {
		t.Fatalf("expected default lemmy flavor, got %q err=%v", f, err)
	}
	if f, err := ParseFlavor(" KBIN "); err != nil || f != FlavorKbin {
		t.Fatalf("expected kbin flavor, got %q err=%v", f, err)
	}
	if _, err := ParseFlavor("mastodon"); !errors.Is(err, ErrUnsupportedFlavor) {
		t.Fatalf("expected ErrUnsupportedFlavor, got %v", err)
	}
}

func TestHasCode_UnwrapsAPIError(t *testing.T) {
	err := fmt.Errorf("register failed: %w", &APIError{StatusCode: 400, Code: CodeCaptchaIncorrect})
	if !HasCode(err, CodeCaptchaIncorrect) {
		t.Fatalf("expected captcha code in %v", err)
	}
	if HasCode(errors.New("plain"), CodeCaptchaIncorrect) {
		t.Fatal("plain error must not carry a code")
	}
	if ErrorCode(nil) != "" {
		t.Fatal("nil error must have empty code")
	}
}
