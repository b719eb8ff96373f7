package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "5.0"},     // unset rating falls back to the default
		{-1, "5.0"},    // negative is treated as unset
		{4, "4.0"},     // whole numbers still show one decimal
		{4.26, "4.3"},  // standard rounding
		{4.24, "4.2"},
		{5, "5.0"},
		{3.95, "4.0"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Format(tc.in), "Format(%v)", tc.in)
	}
}
