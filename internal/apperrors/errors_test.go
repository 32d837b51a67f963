package apperrors

import (
	"errors"
	"testing"
)

func TestPublicMessage_UsesSafeMessage(t *testing.T) {
	sentinel := errors.New("SECRET_VALUE")
	err := New(KindAuth, "safe auth error", sentinel)
	if got := PublicMessage(err); got != "safe auth error" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "safe auth error")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped cause to be retained for internal matching")
	}
}

func TestKindOf(t *testing.T) {
	err := New(KindRateLimit, "", errors.New("boom"))
	kind, ok := KindOf(err)
	if !ok || kind != KindRateLimit {
		t.Fatalf("KindOf() = (%q, %v), want (%q, true)", kind, ok, KindRateLimit)
	}
}

func TestConfigAndMalformedPredicates(t *testing.T) {
	if !IsConfig(Config(errors.New("no key"))) {
		t.Fatalf("expected IsConfig to match a config error")
	}
	if IsConfig(Transient(errors.New("503"))) {
		t.Fatalf("transient error must not match IsConfig")
	}
	if !IsMalformed(Malformed(errors.New("bad json"))) {
		t.Fatalf("expected IsMalformed to match a malformed error")
	}
}

func TestPublicMessage_NonAppError(t *testing.T) {
	err := errors.New("plain")
	if got := PublicMessage(err); got != "plain" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "plain")
	}
}

func TestDefaultSafeMessage_NeverEmpty(t *testing.T) {
	for _, kind := range []Kind{KindConfig, KindMalformed, KindTransient, KindRateLimit, KindAuth, KindBadRequest} {
		err := New(kind, "", nil)
		if PublicMessage(err) == "" {
			t.Fatalf("kind %q produced an empty public message", kind)
		}
	}
}
