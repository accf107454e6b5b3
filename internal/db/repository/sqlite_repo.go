package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	_ "modernc.org/sqlite"
)

const (
	liteListCategories = `SELECT id, type FROM categories ORDER BY id`
	liteListQuestions  = `SELECT id, question, answer, category, difficulty FROM questions ORDER BY id`
	liteByCategory     = `SELECT id, question, answer, category, difficulty FROM questions WHERE category = ? ORDER BY id`
	liteGetQuestion    = `SELECT id, question, answer, category, difficulty FROM questions WHERE id = ?`
	liteInsertQuestion = `INSERT INTO questions (question, answer, category, difficulty)
		VALUES (?, ?, ?, ?)
		RETURNING id, question, answer, category, difficulty`
	liteDeleteQuestion = `DELETE FROM questions WHERE id = ?`
)

// OpenSQLite opens a SQLite database file with foreign keys enforced. A single
// connection is kept so ":memory:" databases survive across calls.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// SQLiteRepository is the SQLite-backed store used for local runs and tests.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, liteListCategories)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *SQLiteRepository) ListQuestions(ctx context.Context) ([]Question, error) {
	return r.queryQuestions(ctx, liteListQuestions)
}

func (r *SQLiteRepository) ListQuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error) {
	return r.queryQuestions(ctx, liteByCategory, categoryID)
}

// SearchQuestions matches term against question text with Unicode case
// folding. SQLite's lower() and LIKE only fold ASCII, so the filter runs here.
func (r *SQLiteRepository) SearchQuestions(ctx context.Context, term string) ([]Question, error) {
	all, err := r.queryQuestions(ctx, liteListQuestions)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	needle := fold.String(term)

	matches := []Question{}
	for _, q := range all {
		if strings.Contains(fold.String(q.Question), needle) {
			matches = append(matches, q)
		}
	}
	return matches, nil
}

func (r *SQLiteRepository) GetQuestion(ctx context.Context, id int) (Question, error) {
	var q Question
	err := r.db.QueryRowContext(ctx, liteGetQuestion, id).Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, fmt.Errorf("get question %d: %w", id, err)
	}
	return q, nil
}

func (r *SQLiteRepository) InsertQuestion(ctx context.Context, arg InsertQuestionParams) (Question, error) {
	var q Question
	err := r.db.QueryRowContext(ctx, liteInsertQuestion, arg.Question, arg.Answer, arg.Category, arg.Difficulty).
		Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty)
	if err != nil {
		return Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

func (r *SQLiteRepository) DeleteQuestion(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, liteDeleteQuestion, id)
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) queryQuestions(ctx context.Context, query string, args ...interface{}) ([]Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := []Question{}
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}
