package svgfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathClosed(t *testing.T) {
	tests := []struct {
		d    string
		want bool
	}{
		{"M0,0 L10,0 L10,10 Z", true},
		{"M0,0 L10,0 L10,10", false},
		{"M0,0 L10,0 L10,10 z ", true},
		{"M0 0 L10 0 L10 10 L0 0", true},
		{"M0 0 H10 V10 H0 V0", true},
		{"m5 5 h10 v10 h-10 v-10", true},
		{"M0,0 10,0 10,10 0,0", true},
		{"M0,0 10,0 10,10", false},
		{"M0 0 C 5 5 10 5 0 0", true},
		{"M0 0 Q 5 5 10 0", false},
		{"M0-5L10-5L0-5", true},
		{"M0 0", false},
		{"M0 0 L10 10 Z M20 20 L30 30", false},
	}
	for _, tt := range tests {
		got, err := PathClosed(tt.d)
		assert.NoError(t, err, tt.d)
		assert.Equal(t, tt.want, got, tt.d)
	}
}

func TestPathClosedErrors(t *testing.T) {
	for _, d := range []string{"L0 0", "10 10", "M0 0 L1", "M0 0 L1 x"} {
		closed, err := PathClosed(d)
		assert.Error(t, err, d)
		assert.False(t, closed, d)
	}
}
