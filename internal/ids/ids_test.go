package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		assert.Len(t, id, Length)
		assert.True(t, Valid(id), "generated id should validate: %q", id)
		assert.False(t, seen[id], "ids should not repeat in a small sample")
		seen[id] = true
	}
}

func TestNewDrawsCharactersUniformly(t *testing.T) {
	const samples = 20000
	counts := make(map[byte]int)
	for i := 0; i < samples; i++ {
		id := New()
		for j := 0; j < Length; j++ {
			if j == 4 {
				continue
			}
			counts[id[j]]++
		}
	}

	// 9 characters per id; a modulo-biased draw over 36 symbols skews
	// the first four alphabet characters ~12% high, well outside this
	// tolerance
	expected := samples * (Length - 1) / len(alphabet)
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		got := counts[c]
		assert.InDelta(t, expected, got, float64(expected)*0.08,
			"character %q frequency out of range", string(c))
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"well formed", "AB12-CD34E", true},
		{"too short", "AB12-CD34", false},
		{"missing hyphen", "AB12XCD34E", false},
		{"lowercase", "ab12-cd34e", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.in))
		})
	}
}
