package trivia

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// HTTPHandlers exposes the trivia REST endpoints.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for trivia endpoints.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "trivia_http").Logger(),
	}
}

// Categories handles GET /categories
func (h *HTTPHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w, http.MethodGet)
		return
	}

	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"categories":       categories,
		"total_categories": len(categories),
	})
}

// Questions handles GET and POST /questions
func (h *HTTPHandlers) Questions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listQuestions(w, r)
	case http.MethodPost:
		h.createOrSearch(w, r)
	default:
		httperrors.RespondMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// listQuestions handles GET /questions?page=N&current_category=X
func (h *HTTPHandlers) listQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	listing, err := h.svc.ListQuestions(r.Context(), ParsePage(query.Get("page")))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	var currentCategory interface{}
	if query.Has("current_category") {
		currentCategory = query.Get("current_category")
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        listing.Questions,
		"total_questions":  listing.Total,
		"categories":       listing.Categories,
		"current_category": currentCategory,
	})
}

type createOrSearchRequest struct {
	NewQuestion
	SearchTerm   *string         `json:"searchTerm"`
	QuizCategory json.RawMessage `json:"quiz_category"`
}

// createOrSearch handles POST /questions: a non-empty searchTerm searches,
// anything else creates.
func (h *HTTPHandlers) createOrSearch(w http.ResponseWriter, r *http.Request) {
	var req createOrSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondServiceError(w, r, ErrBadRequest)
		return
	}
	page := ParsePage(r.URL.Query().Get("page"))

	if req.SearchTerm != nil && *req.SearchTerm != "" {
		result, err := h.svc.SearchQuestions(r.Context(), *req.SearchTerm, page)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":          true,
			"questions":        result.Questions,
			"total_questions":  result.Total,
			"current_category": req.QuizCategory,
		})
		return
	}

	created, result, err := h.svc.CreateQuestion(r.Context(), req.NewQuestion, page)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"created":         created,
		"questions":       result.Questions,
		"total_questions": result.Total,
	})
}

// QuestionByID handles DELETE /questions/{id}
func (h *HTTPHandlers) QuestionByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}
	if r.Method != http.MethodDelete {
		httperrors.RespondMethodNotAllowed(w, http.MethodDelete)
		return
	}

	result, err := h.svc.DeleteQuestion(r.Context(), id, ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"deleted":         id,
		"questions":       result.Questions,
		"total_questions": result.Total,
	})
}

// CategoryQuestions handles GET /categories/{id}/questions
func (h *HTTPHandlers) CategoryQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w, http.MethodGet)
		return
	}

	result, err := h.svc.QuestionsByCategory(r.Context(), id, ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"questions":       result.Questions,
		"total_questions": result.Total,
	})
}

type quizRequest struct {
	PreviousQuestions []int           `json:"previous_questions"`
	QuizCategory      json.RawMessage `json:"quiz_category"`
}

// Quizzes handles POST /quizzes
func (h *HTTPHandlers) Quizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w, http.MethodPost)
		return
	}

	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondServiceError(w, r, ErrBadRequest)
		return
	}

	result, err := h.svc.NextQuizQuestion(r.Context(), QuizRequest{
		PreviousQuestions: req.PreviousQuestions,
		Category:          req.QuizCategory,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":            true,
		"previous_questions": result.PreviousQuestions,
		"question":           result.Question,
		"current_category":   req.QuizCategory,
	})
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())
	switch {
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w)
	case errors.Is(err, ErrBadRequest):
		logger.Debug().Err(err).Msg("bad request")
		httperrors.RespondBadRequest(w)
	case errors.Is(err, ErrUnprocessable):
		logger.Warn().Err(err).Msg("unprocessable request")
		httperrors.RespondUnprocessable(w)
	default:
		logger.Error().Err(err).Msg("request failed")
		httperrors.RespondInternalError(w)
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response")
	}
}

// pathID reads a non-negative integer {id} path segment.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
