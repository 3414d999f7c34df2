package projectindex_test

import (
	"slices"
	"testing"

	"github.com/rpggio/buildboard/internal/projectindex"
	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", " \t\r\n ", nil},
		{"lowercases", "Riverside Complex", []string{"riverside", "complex"}},
		{"punctuation", "phase-one/two_three(four)[five]{six}", []string{"phase", "one", "two", "three", "four", "five", "six"}},
		{"consecutive separators", "a,,b..;c", []string{"a", "b", "c"}},
		{"backslash colon", `C:\Sites\North`, []string{"c", "sites", "north"}},
		{"keeps other symbols", "R&D #4 o'brien", []string{"r&d", "#4", "o'brien"}},
		{"trailing token", "steel retrofit", []string{"steel", "retrofit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(projectindex.Tokens(tt.in))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTokens_Repeatable(t *testing.T) {
	seq := projectindex.Tokens("Harbor Bridge")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.Equal(t, first, second)
}

func TestTokens_EarlyStop(t *testing.T) {
	var got []string
	for tok := range projectindex.Tokens("one two three") {
		got = append(got, tok)
		if len(got) == 2 {
			break
		}
	}
	require.Equal(t, []string{"one", "two"}, got)
}
