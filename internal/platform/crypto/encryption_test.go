package crypto

import (
	"bytes"
	"strings"
	"testing"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	s, err := New(testKeyHex)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !s.Configured() {
		t.Fatalf("service with a 32-byte key must report configured")
	}

	sealed, err := s.EncryptString("NL91ABNA0417164300")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(sealed, []byte("ABNA")) {
		t.Fatalf("ciphertext must not contain the plaintext")
	}
	plain, err := s.DecryptString(sealed)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "NL91ABNA0417164300" {
		t.Fatalf("round trip mismatch: %q", plain)
	}
}

func TestUnconfiguredServicePassesThrough(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Configured() {
		t.Fatalf("empty key must leave the service unconfigured")
	}
	out, err := s.Encrypt([]byte("plain"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if string(out) != "plain" {
		t.Fatalf("pass-through changed the data: %q", out)
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New("too-short"); err == nil {
		t.Fatalf("expected an error for a key shorter than 32 bytes")
	} else if !strings.Contains(err.Error(), "32 bytes") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecryptRejectsTruncatedCiphertext(t *testing.T) {
	s, err := New(testKeyHex)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Decrypt([]byte{0x01, 0x02}); err == nil {
		t.Fatalf("expected an error for ciphertext shorter than the nonce")
	}
}
