// Package idgen is the ID engine: sequential IDs and content-addressed
// hash IDs with adaptive length escalation and nonce-based collision
// avoidance.
package idgen

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/textbeads/textbeads/internal/types"
)

// Encoding selects the alphabet used to render a hash ID.
type Encoding int

const (
	Base36 Encoding = iota
	Hex
)

const maxLength = 8
const noncesPerLength = 10

// initialLength picks the starting id length from the estimated store
// size.
func initialLength(encoding Encoding, storeSize int) int {
	if encoding == Hex {
		switch {
		case storeSize < 100:
			return 4
		case storeSize < 1000:
			return 5
		case storeSize < 10000:
			return 6
		case storeSize < 100000:
			return 7
		default:
			return 8
		}
	}
	switch {
	case storeSize < 10:
		return 3
	case storeSize < 100:
		return 4
	case storeSize < 1000:
		return 5
	case storeSize < 10000:
		return 6
	case storeSize < 100000:
		return 7
	default:
		return 8
	}
}

// GenerateUniqueHashID runs the collision policy: starting at the length
// the adaptive schedule picks for storeSize, try nonces 0..9; on
// exhaustion, grow the length by one; fail past length 8. exists reports
// whether a candidate ID is already taken. creator defaults to "user"
// when the caller has no better value.
func GenerateUniqueHashID(prefix, title, description, creator string, timestamp time.Time, storeSize int, encoding Encoding, exists func(string) bool) (string, error) {
	if creator == "" {
		creator = "user"
	}
	for length := initialLength(encoding, storeSize); length <= maxLength; length++ {
		for nonce := 0; nonce < noncesPerLength; nonce++ {
			var candidate string
			if encoding == Hex {
				candidate = GenerateHexID(prefix, title, description, creator, timestamp, length, nonce)
			} else {
				candidate = GenerateHashID(prefix, title, description, creator, timestamp, length, nonce)
			}
			if !exists(candidate) {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no unique id found after trying all lengths and nonces (store has ~%d issues)", types.ErrCollisionExhausted, storeSize)
}

// NextSequentialID returns one plus the maximum decimal suffix seen among
// existing ids for the prefix. An empty store starts at 1.
func NextSequentialID(existingSuffixes []int) int {
	max := 0
	for _, n := range existingSuffixes {
		if n > max {
			max = n
		}
	}
	return max + 1
}

var decimalSuffix = regexp.MustCompile(`^[0-9]+$`)

// IsDecimalSuffix reports whether an id's suffix (the part after the last
// "-") is purely decimal, i.e. a candidate sequential-scheme id.
func IsDecimalSuffix(suffix string) bool {
	return decimalSuffix.MatchString(suffix)
}

// ParseDecimalSuffix parses a decimal suffix, returning ok=false if it is
// not purely decimal.
func ParseDecimalSuffix(suffix string) (n int, ok bool) {
	if !IsDecimalSuffix(suffix) {
		return 0, false
	}
	v, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SplitID splits an id of the form "<prefix>-<suffix>" at the last
// hyphen. Returns ok=false if there is no hyphen.
func SplitID(id string) (prefix, suffix string, ok bool) {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '-' {
			return id[:i], id[i+1:], true
		}
	}
	return "", "", false
}
