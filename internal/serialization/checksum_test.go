package serialization

import (
	"encoding/hex"
	"errors"
	"testing"
)

// TestComputeChecksum verifies SHA-256 checksum computation.
func TestComputeChecksum(t *testing.T) {
	a := ComputeChecksum([]byte("test data"))
	b := ComputeChecksum([]byte("test data"))
	c := ComputeChecksum([]byte("different data"))

	if a != b {
		t.Error("Checksums should match for identical data")
	}
	if a == c {
		t.Error("Checksums should differ for different data")
	}
}

// TestKnownVectorSHA256 checks the empty-input SHA-256 test vector.
func TestKnownVectorSHA256(t *testing.T) {
	const want = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	sum := ComputeChecksum(nil)
	if got := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("SHA-256(\"\") = %s, want %s", got, want)
	}
}

// TestValidateChecksum verifies mismatch detection.
func TestValidateChecksum(t *testing.T) {
	data := []byte("tensor bytes")
	stored := ComputeChecksum(data)

	if err := ValidateChecksum(data, stored); err != nil {
		t.Errorf("Expected no error for matching checksum, got: %v", err)
	}

	err := ValidateChecksum([]byte("tampered bytes"), stored)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Expected ErrChecksumMismatch, got: %v", err)
	}
}
