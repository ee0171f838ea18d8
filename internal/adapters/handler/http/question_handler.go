package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/polls/internal/core/ports"
	"go.uber.org/zap"
)

type QuestionHandler struct {
	service ports.QuestionService
	logger  *zap.Logger
}

func NewQuestionHandler(service ports.QuestionService, logger *zap.Logger) *QuestionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionHandler{
		service: service,
		logger:  logger,
	}
}

// Index lists the latest published questions, newest first.
// Query parameters: page (1-based) and q (text filter).
func (h *QuestionHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid page"})
			return
		}
		page = n
	}

	questions, err := h.service.Index(r.Context(), ports.ListQuestionsInput{
		Page:  page,
		Query: r.URL.Query().Get("q"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) Detail(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *QuestionHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

type createQuestionRequest struct {
	QuestionText string     `json:"question_text"`
	PubDate      *time.Time `json:"pub_date"`
	Choices      []string   `json:"choices"`
}

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	input := ports.CreateQuestionInput{
		Text:    req.QuestionText,
		Choices: req.Choices,
	}
	if req.PubDate != nil {
		input.PubDate = *req.PubDate
	}

	question, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	adminID, _ := AdminFromContext(r.Context())
	h.logger.Info("question created",
		zap.Stringer("question_id", question.ID),
		zap.Stringer("admin_id", adminID))

	writeJSON(w, http.StatusCreated, question)
}

func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("question deleted", zap.String("question_id", id))
	w.WriteHeader(http.StatusNoContent)
}
