// Package ids generates the short opaque identifiers used as primary
// keys for accounts and organizations. The format is XXXX-XXXXX over an
// uppercase alphanumeric alphabet, 10 characters total. IDs are drawn
// from crypto/rand; the unique indexes on the id columns are the final
// guard against the (unlikely) collision.
package ids

import "crypto/rand"

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the total length of a generated id, hyphen included.
const Length = 10

// New returns a fresh opaque id in XXXX-XXXXX form.
func New() string {
	out := make([]byte, Length)
	out[4] = '-'
	for i := 0; i < Length; i++ {
		if i == 4 {
			continue
		}
		out[i] = randomChar()
	}
	return string(out)
}

// limit is the largest multiple of the alphabet size that fits in a
// byte; values at or above it are rejected so every character is drawn
// uniformly (256 is not a multiple of 36).
const limit = 256 - 256%len(alphabet)

func randomChar() byte {
	var b [1]byte
	for {
		rand.Read(b[:])
		if int(b[0]) < limit {
			return alphabet[int(b[0])%len(alphabet)]
		}
	}
}

// Valid reports whether s has the shape of a generated id.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < Length; i++ {
		if i == 4 {
			if s[i] != '-' {
				return false
			}
			continue
		}
		c := s[i]
		if !(c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
