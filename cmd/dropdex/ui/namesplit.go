package ui

import "strings"

// nameBrackets are the parenthesis pairs recognized around a secondary name.
var nameBrackets = [][2]string{
	{"(", ")"},
	{"（", "）"},
}

// SplitName splits a trailing parenthetical off a monster name, so
// "Slime (史萊姆)" becomes "Slime" and "史萊姆". Names without one come back whole.
func SplitName(name string) (primary, secondary string) {
	s := strings.TrimSpace(name)
	for _, b := range nameBrackets {
		if !strings.HasSuffix(s, b[1]) {
			continue
		}
		i := strings.LastIndex(s, b[0])
		if i <= 0 {
			continue
		}
		primary = strings.TrimSpace(s[:i])
		secondary = strings.TrimSpace(s[i+len(b[0]) : len(s)-len(b[1])])
		if primary != "" && secondary != "" {
			return primary, secondary
		}
	}
	return s, ""
}
