package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockDBTX struct {
	mock.Mock
}

func (m *mockDBTX) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	ret := m.Called(ctx, sql, args)
	return ret.Get(0).(pgconn.CommandTag), ret.Error(1)
}

func (m *mockDBTX) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	ret := m.Called(ctx, sql, args)
	rows, _ := ret.Get(0).(pgx.Rows)
	return rows, ret.Error(1)
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return m.Called(ctx, sql, args).Get(0).(pgx.Row)
}

type stubRow struct {
	scan func(dest ...interface{}) error
}

func (r stubRow) Scan(dest ...interface{}) error {
	return r.scan(dest...)
}

func TestQuestionRepository_GetQuestionNotFound(t *testing.T) {
	db := new(mockDBTX)
	repo := NewQuestionRepository(db)

	db.On("QueryRow", mock.Anything, pgGetQuestion, []interface{}{42}).
		Return(stubRow{scan: func(...interface{}) error { return pgx.ErrNoRows }})

	_, err := repo.GetQuestion(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	db.AssertExpectations(t)
}

func TestQuestionRepository_GetQuestion(t *testing.T) {
	db := new(mockDBTX)
	repo := NewQuestionRepository(db)

	db.On("QueryRow", mock.Anything, pgGetQuestion, []interface{}{7}).
		Return(stubRow{scan: func(dest ...interface{}) error {
			*dest[0].(*int) = 7
			*dest[1].(*string) = "Whose autobiography is entitled 'I Know Why the Caged Bird Sings'?"
			*dest[2].(*string) = "Maya Angelou"
			*dest[3].(*int) = 4
			*dest[4].(*int) = 2
			return nil
		}})

	q, err := repo.GetQuestion(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, Question{ID: 7, Question: "Whose autobiography is entitled 'I Know Why the Caged Bird Sings'?", Answer: "Maya Angelou", Category: 4, Difficulty: 2}, q)
}

func TestQuestionRepository_GetQuestionWrapsDriverErrors(t *testing.T) {
	db := new(mockDBTX)
	repo := NewQuestionRepository(db)
	boom := errors.New("connection reset")

	db.On("QueryRow", mock.Anything, pgGetQuestion, []interface{}{3}).
		Return(stubRow{scan: func(...interface{}) error { return boom }})

	_, err := repo.GetQuestion(context.Background(), 3)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestQuestionRepository_DeleteQuestion(t *testing.T) {
	db := new(mockDBTX)
	repo := NewQuestionRepository(db)

	db.On("Exec", mock.Anything, pgDeleteQuestion, []interface{}{5}).Return(pgconn.NewCommandTag("DELETE 1"), nil)
	db.On("Exec", mock.Anything, pgDeleteQuestion, []interface{}{6}).Return(pgconn.NewCommandTag("DELETE 0"), nil)

	assert.NoError(t, repo.DeleteQuestion(context.Background(), 5))
	assert.ErrorIs(t, repo.DeleteQuestion(context.Background(), 6), ErrNotFound)
	db.AssertExpectations(t)
}

func TestQuestionRepository_InsertPassesNilFieldsThrough(t *testing.T) {
	db := new(mockDBTX)
	repo := NewQuestionRepository(db)
	violation := &pgconn.PgError{Code: "23502", Message: "null value in column \"answer\""}
	text := "What is the heaviest organ in the human body?"

	db.On("QueryRow", mock.Anything, pgInsertQuestion, []interface{}{&text, (*string)(nil), (*int)(nil), (*int)(nil)}).
		Return(stubRow{scan: func(...interface{}) error { return violation }})

	_, err := repo.InsertQuestion(context.Background(), InsertQuestionParams{Question: &text})
	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23502", pgErr.Code)
}

func TestQuestionRepository_QueryError(t *testing.T) {
	db := new(mockDBTX)
	repo := NewQuestionRepository(db)

	db.On("Query", mock.Anything, pgListQuestions, []interface{}(nil)).Return(nil, errors.New("pool closed"))

	_, err := repo.ListQuestions(context.Background())
	assert.ErrorContains(t, err, "query questions")
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%title%", containsPattern("title"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\dir%`, containsPattern(`c:\dir`))
}
