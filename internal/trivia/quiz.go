package trivia

import (
	"bytes"
	"encoding/json"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// AllCategories is the quiz_category marker for an unfiltered quiz.
const AllCategories = "All"

// RandomSource picks an index in [0, n). Implementations must be safe for
// concurrent use.
type RandomSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// QuizSelector picks the next quiz question uniformly at random among the
// questions the player has not seen yet.
type QuizSelector struct {
	rnd RandomSource
}

// NewQuizSelector builds a selector; a nil source uses math/rand/v2.
func NewQuizSelector(rnd RandomSource) *QuizSelector {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &QuizSelector{rnd: rnd}
}

// Candidates returns the questions whose id is not in previous, preserving order.
func (s *QuizSelector) Candidates(questions []Question, previous []int) []Question {
	asked := make(map[int]struct{}, len(previous))
	for _, id := range previous {
		asked[id] = struct{}{}
	}
	candidates := make([]Question, 0, len(questions))
	for _, q := range questions {
		if _, seen := asked[q.ID]; !seen {
			candidates = append(candidates, q)
		}
	}
	return candidates
}

// Pick returns a random unseen question, or false when every question has been asked.
func (s *QuizSelector) Pick(questions []Question, previous []int) (Question, bool) {
	candidates := s.Candidates(questions, previous)
	if len(candidates) == 0 {
		return Question{}, false
	}
	return candidates[s.rnd.IntN(len(candidates))], true
}

// QuizCategoryID extracts the category id from a raw quiz_category value.
// It accepts "All", a number, a numeric string, or an object with an "id"
// member. Zero means every category; so does anything unrecognised.
func QuizCategoryID(raw json.RawMessage) int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0
	}
	return categoryIDFrom(v)
}

func categoryIDFrom(v interface{}) int {
	switch val := v.(type) {
	case json.Number:
		return nonNegative(val.String())
	case string:
		if strings.EqualFold(strings.TrimSpace(val), AllCategories) {
			return 0
		}
		return nonNegative(strings.TrimSpace(val))
	case map[string]interface{}:
		if id, ok := val["id"]; ok {
			if _, nested := id.(map[string]interface{}); !nested {
				return categoryIDFrom(id)
			}
		}
	}
	return 0
}

// nonNegative parses an integral id such as "6" or "6.0"; anything else is 0.
func nonNegative(s string) int {
	if id, err := strconv.Atoi(s); err == nil {
		return max(id, 0)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > math.MaxInt32 || f != math.Trunc(f) {
		return 0
	}
	return int(f)
}
