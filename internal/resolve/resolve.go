// Package resolve matches a natural-language task reference against a task
// collection.
package resolve

import (
	"strings"

	"github.com/sandeepkv93/taskbot/internal/model"
)

const (
	// MatchThreshold is the score a scored match must strictly exceed.
	MatchThreshold = 0.3
	// SubstringBonus is added when the whole reference occurs in the title.
	SubstringBonus = 0.5
)

type Method string

const (
	MethodID        Method = "id"
	MethodExact     Method = "exact"
	MethodSubstring Method = "substring"
	MethodScored    Method = "scored"
)

type Match struct {
	Task   model.Task
	Score  float64
	Method Method
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Score rates how well ref describes title: the fraction of reference words
// contained in the title, plus SubstringBonus when the whole reference is.
// The result lies in [0, 1.5].
func Score(ref, title string) float64 {
	ref = normalize(ref)
	title = normalize(title)
	words := strings.Fields(ref)
	if len(words) == 0 {
		return 0
	}
	hits := 0
	for _, w := range words {
		if strings.Contains(title, w) {
			hits++
		}
	}
	score := float64(hits) / float64(len(words))
	if strings.Contains(title, ref) {
		score += SubstringBonus
	}
	return score
}

// ByTitle resolves ref by exact title, then title substring, then the best
// Score above MatchThreshold. Earlier tasks win ties at every stage.
func ByTitle(ref string, tasks []model.Task) (Match, bool) {
	needle := normalize(ref)
	if needle == "" {
		return Match{}, false
	}
	for _, t := range tasks {
		if normalize(t.Title) == needle {
			return Match{Task: t, Score: Score(needle, t.Title), Method: MethodExact}, true
		}
	}
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			return Match{Task: t, Score: Score(needle, t.Title), Method: MethodSubstring}, true
		}
	}

	var best Match
	found := false
	for _, t := range tasks {
		s := Score(needle, t.Title)
		if s > MatchThreshold && s > best.Score {
			best = Match{Task: t, Score: s, Method: MethodScored}
			found = true
		}
	}
	return best, found
}

func ByID(id string, tasks []model.Task) (Match, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Match{}, false
	}
	for _, t := range tasks {
		if t.ID == id {
			return Match{Task: t, Method: MethodID}, true
		}
	}
	return Match{}, false
}
