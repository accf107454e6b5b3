package trivia

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

// Store is the persistence collaborator. Implemented by the Postgres and
// SQLite repositories.
type Store interface {
	ListCategories(ctx context.Context) ([]repository.Category, error)
	ListQuestions(ctx context.Context) ([]repository.Question, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int) ([]repository.Question, error)
	SearchQuestions(ctx context.Context, term string) ([]repository.Question, error)
	GetQuestion(ctx context.Context, id int) (repository.Question, error)
	InsertQuestion(ctx context.Context, arg repository.InsertQuestionParams) (repository.Question, error)
	DeleteQuestion(ctx context.Context, id int) error
}

// ServiceOptions tunes service behaviour.
type ServiceOptions struct {
	// FilterQuizByCategory restricts quiz candidates to the requested
	// category. When false every quiz draws from all questions.
	FilterQuizByCategory bool
	Random               RandomSource
}

// Service implements the trivia operations on top of a Store.
type Service struct {
	store            Store
	cache            CategoryCache
	selector         *QuizSelector
	filterByCategory bool
	logger           zerolog.Logger
}

// NewService wires a Service. cache may be nil.
func NewService(store Store, cache CategoryCache, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		store:            store,
		cache:            cache,
		selector:         NewQuizSelector(opts.Random),
		filterByCategory: opts.FilterQuizByCategory,
		logger:           logger.With().Str("component", "trivia").Logger(),
	}
}

// Categories returns the id -> type map, or ErrNotFound when there are none.
func (s *Service) Categories(ctx context.Context) (map[int]string, error) {
	categories, err := s.categoryMap(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, ErrNotFound
	}
	return categories, nil
}

// ListQuestions returns one page of all questions with the category map.
// Total counts every question.
func (s *Service) ListQuestions(ctx context.Context, page int) (Listing, error) {
	rows, err := s.store.ListQuestions(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("list questions: %w", err)
	}
	categories, err := s.categoryMap(ctx)
	if err != nil {
		return Listing{}, err
	}

	all := toDomainList(rows)
	current := Paginate(all, page)
	if len(current) == 0 {
		return Listing{}, ErrNotFound
	}
	return Listing{
		QuestionPage: QuestionPage{Questions: current, Total: len(all)},
		Categories:   categories,
	}, nil
}

// SearchQuestions pages through questions containing term. Total counts every
// match and an empty result is not an error.
func (s *Service) SearchQuestions(ctx context.Context, term string, page int) (QuestionPage, error) {
	rows, err := s.store.SearchQuestions(ctx, term)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("%w: search questions: %w", ErrUnprocessable, err)
	}
	matches := toDomainList(rows)
	return QuestionPage{Questions: Paginate(matches, page), Total: len(matches)}, nil
}

// CreateQuestion inserts q and returns its id with a fresh page of all questions.
func (s *Service) CreateQuestion(ctx context.Context, q NewQuestion, page int) (int, QuestionPage, error) {
	created, err := s.store.InsertQuestion(ctx, repository.InsertQuestionParams{
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	})
	if err != nil {
		return 0, QuestionPage{}, fmt.Errorf("%w: %w", ErrUnprocessable, err)
	}

	listing, err := s.relist(ctx, page)
	if err != nil {
		return 0, QuestionPage{}, err
	}
	s.logger.Info().Int("question_id", created.ID).Msg("question created")
	return created.ID, listing, nil
}

// DeleteQuestion removes question id and returns a fresh page of the rest.
// A missing id is ErrNotFound; any later failure is ErrUnprocessable.
func (s *Service) DeleteQuestion(ctx context.Context, id int, page int) (QuestionPage, error) {
	if _, err := s.store.GetQuestion(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return QuestionPage{}, ErrNotFound
		}
		return QuestionPage{}, fmt.Errorf("%w: %w", ErrUnprocessable, err)
	}

	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return QuestionPage{}, fmt.Errorf("%w: %w", ErrUnprocessable, err)
	}

	listing, err := s.relist(ctx, page)
	if err != nil {
		return QuestionPage{}, err
	}
	s.logger.Info().Int("question_id", id).Msg("question deleted")
	return listing, nil
}

// QuestionsByCategory returns one page of a category's questions. Total is the
// size of the returned page, not the number of matches.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int, page int) (QuestionPage, error) {
	rows, err := s.store.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("list category %d questions: %w", categoryID, err)
	}
	current := Paginate(toDomainList(rows), page)
	if len(current) == 0 {
		return QuestionPage{}, ErrNotFound
	}
	return QuestionPage{Questions: current, Total: len(current)}, nil
}

// NextQuizQuestion picks a question the player has not seen and appends its id
// to the returned history. ErrNotFound means the pool is exhausted.
func (s *Service) NextQuizQuestion(ctx context.Context, req QuizRequest) (QuizResult, error) {
	if req.PreviousQuestions == nil {
		return QuizResult{}, fmt.Errorf("%w: previous_questions is required", ErrBadRequest)
	}

	categoryID := 0
	if s.filterByCategory {
		categoryID = QuizCategoryID(req.Category)
	}

	var (
		rows []repository.Question
		err  error
	)
	if categoryID > 0 {
		rows, err = s.store.ListQuestionsByCategory(ctx, categoryID)
	} else {
		rows, err = s.store.ListQuestions(ctx)
	}
	if err != nil {
		return QuizResult{}, fmt.Errorf("load quiz pool: %w", err)
	}

	picked, ok := s.selector.Pick(toDomainList(rows), req.PreviousQuestions)
	if !ok {
		quizSelections.WithLabelValues("exhausted").Inc()
		return QuizResult{}, ErrNotFound
	}
	quizSelections.WithLabelValues("selected").Inc()

	previous := make([]int, 0, len(req.PreviousQuestions)+1)
	previous = append(previous, req.PreviousQuestions...)
	previous = append(previous, picked.ID)

	return QuizResult{
		PreviousQuestions: previous,
		Question:          picked.quizView(),
	}, nil
}

// relist reloads every question after a mutation; failures are unprocessable.
func (s *Service) relist(ctx context.Context, page int) (QuestionPage, error) {
	rows, err := s.store.ListQuestions(ctx)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("%w: relist questions: %w", ErrUnprocessable, err)
	}
	all := toDomainList(rows)
	return QuestionPage{Questions: Paginate(all, page), Total: len(all)}, nil
}

// categoryMap serves categories from the cache when possible. Cache failures
// are logged and fall through to the store.
func (s *Service) categoryMap(ctx context.Context) (map[int]string, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			categoryCacheLookups.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("category cache read failed")
		case cached != nil:
			categoryCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			categoryCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	rows, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := make(map[int]string, len(rows))
	for _, c := range rows {
		if _, dup := categories[c.ID]; !dup {
			categories[c.ID] = c.Type
		}
	}

	if s.cache != nil && len(categories) > 0 {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}
