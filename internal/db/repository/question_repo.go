package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool (or pgx.Tx) the Postgres store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const (
	pgListCategories = `SELECT id, type FROM categories ORDER BY id`
	pgListQuestions  = `SELECT id, question, answer, category, difficulty FROM questions ORDER BY id`
	pgByCategory     = `SELECT id, question, answer, category, difficulty FROM questions WHERE category = $1 ORDER BY id`
	pgSearch         = `SELECT id, question, answer, category, difficulty FROM questions WHERE question ILIKE $1 ESCAPE '\' ORDER BY id`
	pgGetQuestion    = `SELECT id, question, answer, category, difficulty FROM questions WHERE id = $1`
	pgInsertQuestion = `INSERT INTO questions (question, answer, category, difficulty)
		VALUES ($1, $2, $3, $4)
		RETURNING id, question, answer, category, difficulty`
	pgDeleteQuestion = `DELETE FROM questions WHERE id = $1`
)

// QuestionRepository is the Postgres-backed question and category store.
type QuestionRepository struct {
	db DBTX
}

func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListCategories returns every category ordered by id.
func (r *QuestionRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, pgListCategories)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Category])
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	return categories, nil
}

// ListQuestions returns every question ordered by id.
func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]Question, error) {
	return r.collectQuestions(ctx, pgListQuestions)
}

// ListQuestionsByCategory returns the questions of one category ordered by id.
func (r *QuestionRepository) ListQuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error) {
	return r.collectQuestions(ctx, pgByCategory, categoryID)
}

// SearchQuestions returns questions whose text contains term, ignoring case.
func (r *QuestionRepository) SearchQuestions(ctx context.Context, term string) ([]Question, error) {
	return r.collectQuestions(ctx, pgSearch, containsPattern(term))
}

// GetQuestion fetches a question by id, returning ErrNotFound when absent.
func (r *QuestionRepository) GetQuestion(ctx context.Context, id int) (Question, error) {
	var q Question
	err := r.db.QueryRow(ctx, pgGetQuestion, id).Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, fmt.Errorf("get question %d: %w", id, err)
	}
	return q, nil
}

// InsertQuestion stores a question and returns it with its assigned id.
func (r *QuestionRepository) InsertQuestion(ctx context.Context, arg InsertQuestionParams) (Question, error) {
	var q Question
	err := r.db.QueryRow(ctx, pgInsertQuestion, arg.Question, arg.Answer, arg.Category, arg.Difficulty).
		Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty)
	if err != nil {
		return Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

// DeleteQuestion removes a question, returning ErrNotFound when nothing was deleted.
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, pgDeleteQuestion, id)
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks connectivity when the underlying handle supports it.
func (r *QuestionRepository) Ping(ctx context.Context) error {
	if p, ok := r.db.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (r *QuestionRepository) collectQuestions(ctx context.Context, query string, args ...interface{}) ([]Question, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	questions, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Question])
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}
	return questions, nil
}
