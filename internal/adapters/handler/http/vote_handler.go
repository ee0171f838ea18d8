package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
	"go.uber.org/zap"
)

type VoteHandler struct {
	service ports.VoteService
	metrics *Metrics
	logger  *zap.Logger
}

func NewVoteHandler(service ports.VoteService, metrics *Metrics, logger *zap.Logger) *VoteHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VoteHandler{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

type voteRequest struct {
	Choice string `json:"choice"`
}

// errorMessage is the body returned when a vote cannot be counted. It carries
// the question so clients can show the choices again.
type errorMessage struct {
	Question     *domain.Question `json:"question"`
	ErrorMessage string           `json:"error_message"`
}

// Vote counts one vote for the submitted choice and redirects to the results.
// The choice comes from the "choice" form field or a JSON body.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	questionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, domain.ErrInvalidQuestionID)
		return
	}

	raw, err := choiceFromRequest(r)
	if err != nil {
		h.logger.Debug("unreadable vote body", zap.String("question_id", questionID.String()), zap.Error(err))
	}

	// An unreadable body counts as no choice, so the question lookup still
	// decides between 404 and the error message.
	input := ports.VoteInput{
		QuestionID: questionID,
		VoterIP:    clientIP(r),
	}
	if id, err := uuid.Parse(raw); err == nil {
		input.ChoiceID = &id
	}

	question, err := h.service.Vote(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrChoiceNotSelected) {
			h.metrics.observeVote("rejected")
			writeJSON(w, http.StatusBadRequest, errorMessage{
				Question:     question,
				ErrorMessage: domain.ErrChoiceNotSelected.Error(),
			})
			return
		}
		h.metrics.observeVote("error")
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.observeVote("counted")
	http.Redirect(w, r, resultsPath(question.ID), http.StatusSeeOther)
}

func resultsPath(id uuid.UUID) string {
	return "/api/questions/" + id.String() + "/results"
}

func choiceFromRequest(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req voteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", err
		}
		return strings.TrimSpace(req.Choice), nil
	}

	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return strings.TrimSpace(r.PostFormValue("choice")), nil
}

// clientIP relies on middleware.RealIP having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
