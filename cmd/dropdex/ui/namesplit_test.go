package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantPrimary   string
		wantSecondary string
	}{
		{"ascii parens", "Slime (史萊姆)", "Slime", "史萊姆"},
		{"fullwidth parens", "史萊姆（Slime）", "史萊姆", "Slime"},
		{"no parens", "Orc", "Orc", ""},
		{"only parens", "(???)", "(???)", ""},
		{"empty parens", "Ghost ()", "Ghost ()", ""},
		{"parens in the middle", "King (Big) Slime", "King (Big) Slime", ""},
		{"last group wins", "A (b) (c)", "A (b)", "c"},
		{"surrounding space", "  Bat (蝙蝠)  ", "Bat", "蝙蝠"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, secondary := SplitName(tt.input)
			assert.Equal(t, tt.wantPrimary, primary)
			assert.Equal(t, tt.wantSecondary, secondary)
		})
	}
}
