package idgen

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// base36Alphabet is the character set for base36 encoding (0-9, a-z).
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// EncodeBase36 converts a byte slice to a base36 string of specified length.
// Matches the algorithm used for bd hash IDs.
func EncodeBase36(data []byte, length int) string {
	// Convert bytes to big integer
	num := new(big.Int).SetBytes(data)

	// Convert to base36
	var result strings.Builder
	base := big.NewInt(36)
	zero := big.NewInt(0)
	mod := new(big.Int)

	// Build the string in reverse
	chars := make([]byte, 0, length)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base36Alphabet[mod.Int64()])
	}

	// Reverse the string
	for i := len(chars) - 1; i >= 0; i-- {
		result.WriteByte(chars[i])
	}

	// Pad with zeros if needed
	str := result.String()
	if len(str) < length {
		str = strings.Repeat("0", length-len(str)) + str
	}

	// Truncate to exact length if needed (keep least significant digits)
	if len(str) > length {
		str = str[len(str)-length:]
	}

	return str
}

// EncodeHex converts a byte slice to a hex string of the specified length
// (legacy encoding).
func EncodeHex(data []byte, length int) string {
	full := fmt.Sprintf("%x", data)
	if len(full) >= length {
		return full[:length]
	}
	return full + strings.Repeat("0", length-len(full))
}

// hashContent builds the deterministic content string hashed by the ID
// engine: "title|description|creator|timestamp_nanos|nonce".
func hashContent(title, description, creator string, timestamp time.Time, nonce int) [sha256.Size]byte {
	content := fmt.Sprintf("%s|%s|%s|%d|%d", title, description, creator, timestamp.UnixNano(), nonce)
	return sha256.Sum256([]byte(content))
}

// base36NumBytes maps output length to the number of hash bytes consumed.
func base36NumBytes(length int) int {
	switch length {
	case 3:
		return 2
	case 4:
		return 3
	case 5, 6:
		return 4
	case 7, 8:
		return 5
	default:
		return 3
	}
}

// GenerateHashID creates a base-36 hash-based ID for an issue.
// Uses base36 encoding (0-9, a-z) for better information density than hex.
// The length parameter is expected to be 3-8; other values fall back to a 3-char byte width.
func GenerateHashID(prefix, title, description, creator string, timestamp time.Time, length, nonce int) string {
	hash := hashContent(title, description, creator, timestamp, nonce)
	numBytes := base36NumBytes(length)
	shortHash := EncodeBase36(hash[:numBytes], length)
	return fmt.Sprintf("%s-%s", prefix, shortHash)
}

// GenerateHexID creates a legacy hex-encoded hash-based ID, at two hex
// characters per consumed byte.
func GenerateHexID(prefix, title, description, creator string, timestamp time.Time, length, nonce int) string {
	hash := hashContent(title, description, creator, timestamp, nonce)
	numBytes := (length + 1) / 2
	shortHash := EncodeHex(hash[:numBytes], length)
	return fmt.Sprintf("%s-%s", prefix, shortHash)
}
