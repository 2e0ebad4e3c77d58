package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/ersonp/dropdex/internal/domain/entities"
)

// DefaultSuggestLimit is the default number of suggestions to return.
const DefaultSuggestLimit = 3

type suggestion struct {
	text string
	dist int
}

// Suggest returns monster or drop names within a small edit distance of query,
// closest first. Names are compared case-folded.
func Suggest(monsters []entities.Monster, query string, limit int) []string {
	q := foldQuery(query)
	if q == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	maxDist := suggestLimit(utf8.RuneCountInString(q))
	seen := make(map[string]bool)
	var candidates []suggestion

	consider := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		if d := levenshtein.ComputeDistance(q, fold(name)); d <= maxDist {
			candidates = append(candidates, suggestion{text: name, dist: d})
		}
	}

	for i := range monsters {
		consider(monsters[i].Name)
		for _, d := range monsters[i].Drops {
			consider(d)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return strings.Compare(candidates[i].text, candidates[j].text) < 0
	})

	out := make([]string, 0, min(limit, len(candidates)))
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, c.text)
	}
	return out
}

// suggestLimit scales the allowed edit distance with query length.
func suggestLimit(runes int) int {
	switch {
	case runes <= 2:
		return 0
	case runes <= 5:
		return 1
	case runes <= 9:
		return 2
	default:
		return 3
	}
}
