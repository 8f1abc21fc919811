package auth

import (
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCodec("super-secret")
	payload := map[string]any{"token": "lol"}

	encoded, err := codec.Encode(payload, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded := codec.Decode(encoded)
	if decoded == nil {
		t.Fatalf("expected payload, got nil")
	}
	if decoded["token"] != "lol" {
		t.Fatalf("payload mismatch: got %v", decoded["token"])
	}
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()

	codec := NewCodec("super-secret")
	expiresAt := time.Now().Add(time.Hour)

	first, err := codec.Encode(map[string]any{"token": "abc"}, expiresAt)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := codec.Encode(map[string]any{"token": "abc"}, expiresAt)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical tokens for identical input")
	}
}

func TestDecodeExpired(t *testing.T) {
	t.Parallel()

	codec := NewCodec("super-secret")
	encoded, err := codec.Encode(map[string]any{"token": "lol"}, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if decoded := codec.Decode(encoded); decoded != nil {
		t.Fatalf("expected nil for expired token, got %v", decoded)
	}
}

func TestDecodeTampered(t *testing.T) {
	t.Parallel()

	codec := NewCodec("super-secret")
	encoded, err := codec.Encode(map[string]any{"token": "lol"}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	tampered := encoded[:len(encoded)-2] + "xx"
	if decoded := codec.Decode(tampered); decoded != nil {
		t.Fatalf("expected nil for tampered token")
	}
	if decoded := codec.Decode(encoded[:10]); decoded != nil {
		t.Fatalf("expected nil for truncated token")
	}
	if decoded := codec.Decode("not.a.token"); decoded != nil {
		t.Fatalf("expected nil for malformed token")
	}
}

func TestDecodeWrongSecret(t *testing.T) {
	t.Parallel()

	encoded, err := NewCodec("right-secret").Encode(map[string]any{"token": "lol"}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if decoded := NewCodec("wrong-secret").Decode(encoded); decoded != nil {
		t.Fatalf("expected nil for wrong secret")
	}
}
