package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup or delete matches no row.
var ErrNotFound = errors.New("repository: record not found")

// Question mirrors a row of the questions table. Field order matches the
// column order of every SELECT in this package.
type Question struct {
	ID         int
	Question   string
	Answer     string
	Category   int
	Difficulty int
}

// Category mirrors a row of the categories table.
type Category struct {
	ID   int
	Type string
}

// InsertQuestionParams carries a new question as received. Nil fields are
// written as NULL and rejected by the schema.
type InsertQuestionParams struct {
	Question   *string
	Answer     *string
	Category   *int
	Difficulty *int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns term into a LIKE pattern matching it as a literal substring.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
