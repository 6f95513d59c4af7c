package webhook

import (
	"strings"
	"testing"
)

func TestComputeHMAC(t *testing.T) {
	payload := []byte(`{"event":"clearance.checked"}`)

	sig := ComputeHMAC(payload, "secret-1")

	if !strings.HasPrefix(sig, "sha256=") {
		t.Errorf("Expected 'sha256=' prefix, got %s", sig)
	}
	// Same inputs, same signature.
	if again := ComputeHMAC(payload, "secret-1"); again != sig {
		t.Errorf("HMAC should be deterministic: %s != %s", sig, again)
	}
	// Different secret, different signature.
	if other := ComputeHMAC(payload, "secret-2"); other == sig {
		t.Error("Different secrets must produce different signatures")
	}
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"event":"clearance.failed","proof_hash":"abc"}`)
	sig := ComputeHMAC(payload, "secret-1")

	if !VerifySignature(payload, sig, "secret-1") {
		t.Error("Valid signature should verify")
	}
	if VerifySignature(payload, sig, "wrong-secret") {
		t.Error("Signature must not verify with the wrong secret")
	}
	if VerifySignature([]byte(`{"event":"tampered"}`), sig, "secret-1") {
		t.Error("Signature must not verify for altered payload")
	}
	if VerifySignature(payload, "sha256=deadbeef", "secret-1") {
		t.Error("Garbage signature must not verify")
	}
}

func TestGenerateSecret(t *testing.T) {
	s1, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret: %v", err)
	}
	if !strings.HasPrefix(s1, "whsec_") {
		t.Errorf("Expected 'whsec_' prefix, got %s", s1)
	}

	s2, _ := GenerateSecret()
	if s1 == s2 {
		t.Error("Secrets should be random")
	}
}
