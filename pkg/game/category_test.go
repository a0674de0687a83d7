package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		seconds int64
	}{
		{"Bullet", Bullet, 180},
		{"Blitz", Blitz, 300},
		{"Rapid", Rapid, 600},
	}

	for _, tt := range tests {
		c, err := ParseCategory(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, c)
		assert.Equal(t, tt.seconds, c.BaseSeconds())
	}
}

func TestParseCategoryRejectsUnknown(t *testing.T) {
	for _, input := range []string{"", "blitz", "Classical", "bullet "} {
		_, err := ParseCategory(input)
		assert.ErrorIs(t, err, ErrUnknownCategory, "input %q", input)
	}
}
