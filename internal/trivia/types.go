package trivia

import (
	"encoding/json"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

// QuestionsPerPage is the fixed page size for every paginated listing.
const QuestionsPerPage = 10

// Question is the formatted question returned by listing endpoints.
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// QuizQuestion is the question shape served to quiz players (no id).
type QuizQuestion struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// NewQuestion is a create request. Fields are passed to the store as given.
type NewQuestion struct {
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Category   *int    `json:"category"`
	Difficulty *int    `json:"difficulty"`
}

// QuestionPage is one page of a listing plus the count reported alongside it.
type QuestionPage struct {
	Questions []Question
	Total     int
}

// Listing is the GET /questions view.
type Listing struct {
	QuestionPage
	Categories map[int]string
}

// QuizRequest carries the client-held quiz state.
type QuizRequest struct {
	PreviousQuestions []int
	Category          json.RawMessage
}

// QuizResult is the next quiz question plus the updated history.
type QuizResult struct {
	PreviousQuestions []int
	Question          QuizQuestion
}

func toDomain(row repository.Question) Question {
	return Question{
		ID:         row.ID,
		Question:   row.Question,
		Answer:     row.Answer,
		Category:   row.Category,
		Difficulty: row.Difficulty,
	}
}

func toDomainList(rows []repository.Question) []Question {
	qs := make([]Question, 0, len(rows))
	for _, row := range rows {
		qs = append(qs, toDomain(row))
	}
	return qs
}

func (q Question) quizView() QuizQuestion {
	return QuizQuestion{
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}
