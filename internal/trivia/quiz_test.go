package trivia

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixedRandom always returns the same index, clamped to n.
type fixedRandom int

func (f fixedRandom) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func quizPool() []Question {
	return []Question{
		{ID: 2, Question: "What movie earned Tom Hanks his third straight Oscar nomination, in 1996?", Answer: "Apollo 13", Category: 5, Difficulty: 4},
		{ID: 4, Question: "What actor did author Anne Rice first denounce, then praise in the role of her beloved Lestat?", Answer: "Tom Cruise", Category: 5, Difficulty: 4},
		{ID: 5, Question: "Whose autobiography is entitled 'I Know Why the Caged Bird Sings'?", Answer: "Maya Angelou", Category: 4, Difficulty: 2},
		{ID: 9, Question: "What boxer's original name is Cassius Clay?", Answer: "Muhammad Ali", Category: 4, Difficulty: 1},
	}
}

func TestQuizSelectorNeverRepeats(t *testing.T) {
	pool := quizPool()
	for idx := 0; idx < len(pool); idx++ {
		selector := NewQuizSelector(fixedRandom(idx))
		var previous []int
		for range pool {
			q, ok := selector.Pick(pool, previous)
			assert.True(t, ok)
			assert.NotContains(t, previous, q.ID)
			previous = append(previous, q.ID)
		}
		_, ok := selector.Pick(pool, previous)
		assert.False(t, ok, "exhausted pool must report no candidate")
	}
}

func TestQuizSelectorCandidatesPreserveOrder(t *testing.T) {
	selector := NewQuizSelector(nil)
	got := selector.Candidates(quizPool(), []int{4, 100})
	assert.Equal(t, []int{2, 5, 9}, ids(got))
}

func TestQuizSelectorUsesRandomIndex(t *testing.T) {
	selector := NewQuizSelector(fixedRandom(1))
	q, ok := selector.Pick(quizPool(), []int{2})
	assert.True(t, ok)
	assert.Equal(t, 5, q.ID)
}

func TestQuizSelectorDefaultRandomStaysInRange(t *testing.T) {
	selector := NewQuizSelector(nil)
	pool := quizPool()
	for i := 0; i < 200; i++ {
		q, ok := selector.Pick(pool, []int{2, 9})
		assert.True(t, ok)
		assert.Contains(t, []int{4, 5}, q.ID)
	}
}

func TestQuizCategoryID(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{``, 0},
		{`null`, 0},
		{`"All"`, 0},
		{`"all"`, 0},
		{`6`, 6},
		{`"6"`, 6},
		{`" 3 "`, 3},
		{`0`, 0},
		{`-4`, 0},
		{`2.5`, 0},
		{`6.0`, 6},
		{`"6.0"`, 6},
		{`1e1`, 10},
		{`-4.0`, 0},
		{`1e300`, 0},
		{`{"type":"Sports","id":6.0}`, 6},
		{`"Science"`, 0},
		{`{"type":"click","id":0}`, 0},
		{`{"type":"History","id":"4"}`, 4},
		{`{"type":"Sports","id":6}`, 6},
		{`{"type":"Sports"}`, 0},
		{`{"id":{"id":3}}`, 0},
		{`[1,2]`, 0},
		{`{broken`, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, QuizCategoryID(json.RawMessage(tc.raw)), "raw=%s", tc.raw)
	}
}

func ids(qs []Question) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
