package serialization

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"
)

// ComputeChecksum computes the SHA-256 checksum of data.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum compares the checksum of data against stored.
// Returns an error wrapping ErrChecksumMismatch if they differ.
func ValidateChecksum(data []byte, stored [ChecksumSize]byte) error {
	computed := ComputeChecksum(data)
	if computed != stored {
		return errors.Wrapf(ErrChecksumMismatch, "stored %s, computed %s",
			hex.EncodeToString(stored[:8]), hex.EncodeToString(computed[:8]))
	}
	return nil
}
