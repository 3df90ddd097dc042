package price

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"rupee with separator", "₹64,999", 64999},
		{"dollar", "$1,299", 1299},
		{"plain digits", "500", 500},
		{"empty", "", 0},
		{"no digits", "abc", 0},
		{"whitespace", "  ", 0},
		{"decimal marker dropped", "₹1,299.00", 129900},
		{"digits with text", "Rs. 2499 only", 2499},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalize_NeverNegative(t *testing.T) {
	for _, raw := range []string{"-500", "−1,299", "(-42)"} {
		assert.GreaterOrEqual(t, Normalize(raw), 0, "raw=%q", raw)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trim and fold", "  iPhone 16  ", "iphone 16"},
		{"collapse whitespace", "samsung\t\tgalaxy  s24", "samsung galaxy s24"},
		{"already normal", "macbook air", "macbook air"},
		{"empty", "", ""},
		{"whitespace only", " \t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuery(tt.in))
		})
	}
}

func TestNormalizeQuery_Idempotent(t *testing.T) {
	queries := []string{"  iPhone 16 Pro  MAX ", "Croma TV 55\"", "ŞEKER elma", ""}
	for _, q := range queries {
		once := NormalizeQuery(q)
		assert.Equal(t, once, NormalizeQuery(once), "q=%q", q)
	}
}
