package fieldcrypt

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func generateTestKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("generate test key: %v", err)
	}
	return key
}

func TestNewAESGCM_KeyLength(t *testing.T) {
	if _, err := NewAESGCM(generateTestKey(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, n := range []int{0, 16, 64} {
		if _, err := NewAESGCM(make([]byte, n)); err == nil {
			t.Errorf("expected error for %d-byte key", n)
		}
	}
}

func TestAESGCM_RoundTrip(t *testing.T) {
	enc, err := NewAESGCM(generateTestKey(t))
	if err != nil {
		t.Fatalf("create encryptor: %v", err)
	}

	for _, plain := range []string{"", "short", "Client reports sleeping at the river bed; referred to PERT.", strings.Repeat("x", 4096)} {
		ct, err := enc.Encrypt(plain)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		if plain != "" && ct == plain {
			t.Errorf("ciphertext equals plaintext")
		}
		got, err := enc.Decrypt(ct)
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if got != plain {
			t.Errorf("round trip = %q, want %q", got, plain)
		}
	}
}

func TestAESGCM_NonceIsRandom(t *testing.T) {
	enc, _ := NewAESGCM(generateTestKey(t))
	a, _ := enc.Encrypt("same")
	b, _ := enc.Encrypt("same")
	if a == b {
		t.Error("expected different ciphertexts for the same plaintext")
	}
}

func TestAESGCM_TamperedCiphertext(t *testing.T) {
	enc, _ := NewAESGCM(generateTestKey(t))
	if _, err := enc.Decrypt("not base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := enc.Decrypt("AAAA"); err == nil {
		t.Error("expected error for short ciphertext")
	}

	other, _ := NewAESGCM(generateTestKey(t))
	ct, _ := other.Encrypt("secret")
	if _, err := enc.Decrypt(ct); err == nil {
		t.Error("expected error decrypting with the wrong key")
	}
}

func TestNewSealer_Disabled(t *testing.T) {
	s, err := NewSealer("", zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Enabled() {
		t.Fatal("expected disabled sealer")
	}
	v := "plain"
	if err := s.Seal(&v); err != nil {
		t.Fatalf("seal: %v", err)
	}
	if v != "plain" {
		t.Errorf("disabled sealer changed value to %q", v)
	}
}

func TestNewSealer_InvalidKey(t *testing.T) {
	if _, err := NewSealer("zz", zerolog.Nop()); err == nil {
		t.Error("expected error for non-hex key")
	}
	if _, err := NewSealer("abcd", zerolog.Nop()); err == nil {
		t.Error("expected error for short key")
	}
}

func TestSealer_SealOpen(t *testing.T) {
	s, err := NewSealer(hex.EncodeToString(generateTestKey(t)), zerolog.Nop())
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	if !s.Enabled() {
		t.Fatal("expected enabled sealer")
	}

	content, purpose, empty := "met at shelter", "intake", ""
	if err := s.Seal(&content, &purpose, &empty, nil); err != nil {
		t.Fatalf("seal: %v", err)
	}
	if content == "met at shelter" || purpose == "intake" {
		t.Error("expected fields to be sealed")
	}
	if empty != "" {
		t.Error("expected empty field to stay empty")
	}
	if err := s.Open(&content, &purpose, &empty); err != nil {
		t.Fatalf("open: %v", err)
	}
	if content != "met at shelter" || purpose != "intake" {
		t.Errorf("open returned %q, %q", content, purpose)
	}
}

func TestSealer_NilIsDisabled(t *testing.T) {
	var s *Sealer
	if s.Enabled() {
		t.Error("nil sealer should be disabled")
	}
	v := "x"
	if err := s.Open(&v); err != nil || v != "x" {
		t.Errorf("nil sealer open = %q, %v", v, err)
	}
}
