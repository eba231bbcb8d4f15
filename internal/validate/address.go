package validate

import (
	"crypto/sha256"
	"fmt"
	"log/slog"

	"github.com/mr-tron/base58"
)

// Helium addresses are base58check-encoded public keys:
// version byte (0) + key type byte + raw key + 4-byte double-SHA256 checksum.
const (
	checksumLen = 4

	// payload lengths excluding the checksum: 1 version + 1 key type +
	// 32 (ed25519) or 33 (ecc_compact) key bytes.
	payloadLenED25519    = 34
	payloadLenECCCompact = 35
)

// Address validates that addr is a well-formed Helium public address.
// It checks base58 encoding, the trailing checksum, the version byte,
// and the decoded key length.
func Address(addr string) error {
	slog.Debug("validating address", "address", addr)

	decoded, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: base58 decode failed: %w", addr, err)
	}

	if len(decoded) < checksumLen+2 {
		return fmt.Errorf("invalid address %q: decoded to %d bytes, too short", addr, len(decoded))
	}

	payload := decoded[:len(decoded)-checksumLen]
	checksum := decoded[len(decoded)-checksumLen:]

	want := doubleSHA256(payload)
	for i := 0; i < checksumLen; i++ {
		if checksum[i] != want[i] {
			return fmt.Errorf("invalid address %q: checksum mismatch", addr)
		}
	}

	if payload[0] != 0 {
		return fmt.Errorf("invalid address %q: unsupported version byte %d", addr, payload[0])
	}

	if len(payload) != payloadLenED25519 && len(payload) != payloadLenECCCompact {
		return fmt.Errorf("invalid address %q: payload is %d bytes, expected %d or %d",
			addr, len(payload), payloadLenED25519, payloadLenECCCompact)
	}

	return nil
}

func doubleSHA256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}
