package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "Alice", "Alice"},
		{"lower case", "alice", "Alice"},
		{"upper case", "ALICE", "Alice"},
		{"mixed case", "aLiCe", "Alice"},
		{"surrounding whitespace", "  bob  ", "Bob"},
		{"inner whitespace collapsed", "mary   ann\tsmith", "Mary Ann Smith"},
		{"blank", "   ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	for _, in := range []string{"alice", "  MARY  ann ", "Bob"} {
		once := NormalizeName(in)
		assert.Equal(t, once, NormalizeName(once))
	}
}

// Only letters after whitespace are upper-cased. Apostrophes and digits do
// not start a new word, so names read the way people write them.
func TestNormalizeName_WordBoundaries(t *testing.T) {
	assert.Equal(t, "O'neil", NormalizeName("o'neil"))
	assert.Equal(t, "O'neil", NormalizeName("O'NEIL"))
	assert.Equal(t, "John2smith", NormalizeName("john2smith"))

	// Differently cased spellings still group as one person
	assert.Equal(t, NormalizeName("John2Smith"), NormalizeName("JOHN2SMITH"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Alice"))
	assert.ErrorIs(t, ValidateName(strings.Repeat("a", 101)), ErrNameTooLong)
}

func TestParseSteps(t *testing.T) {
	steps, err := ParseSteps(" 4200 ")
	assert.NoError(t, err)
	assert.Equal(t, 4200, steps)

	_, err = ParseSteps("")
	assert.ErrorIs(t, err, ErrStepsRequired)

	for _, bad := range []string{"0", "-5", "12.5", "lots"} {
		_, err = ParseSteps(bad)
		assert.ErrorIs(t, err, ErrStepsInvalid, bad)
	}
}
