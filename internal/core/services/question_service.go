package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

// IndexPageSize is the number of questions returned per index page.
const IndexPageSize = 5

type questionService struct {
	repo ports.QuestionRepository
	now  func() time.Time
}

// NewQuestionService builds the question service. A nil clock means time.Now.
func NewQuestionService(repo ports.QuestionRepository, now func() time.Time) ports.QuestionService {
	if now == nil {
		now = time.Now
	}
	return &questionService{
		repo: repo,
		now:  now,
	}
}

func (s *questionService) Index(ctx context.Context, input ports.ListQuestionsInput) ([]*domain.Question, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * IndexPageSize
	now := s.now()

	var (
		questions []*domain.Question
		err       error
	)
	if q := strings.TrimSpace(input.Query); q != "" {
		questions, err = s.repo.SearchPublished(ctx, now, IndexPageSize, offset, q)
	} else {
		questions, err = s.repo.ListPublished(ctx, now, IndexPageSize, offset)
	}
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []*domain.Question{}
	}
	return questions, nil
}

func (s *questionService) Detail(ctx context.Context, id string) (*domain.Question, error) {
	question, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Unpublished questions are indistinguishable from missing ones.
	if !question.IsPublished(s.now()) {
		return nil, domain.ErrQuestionNotFound
	}
	return question, nil
}

func (s *questionService) Results(ctx context.Context, id string) (*domain.Results, error) {
	question, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.NewResults(question), nil
}

func (s *questionService) Create(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: question text is required", domain.ErrInvalidQuestion)
	}

	pubDate := input.PubDate
	if pubDate.IsZero() {
		pubDate = s.now()
	}

	questionID := uuid.New()
	question := &domain.Question{
		ID:      questionID,
		Text:    text,
		PubDate: pubDate,
		Choices: []domain.Choice{},
	}

	for _, choiceText := range input.Choices {
		choiceText = strings.TrimSpace(choiceText)
		if choiceText == "" {
			continue
		}
		question.Choices = append(question.Choices, domain.Choice{
			ID:         uuid.New(),
			QuestionID: questionID,
			Text:       choiceText,
		})
	}

	if err := s.repo.Save(ctx, question); err != nil {
		return nil, err
	}

	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	questionID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrInvalidQuestionID
	}
	return s.repo.Delete(ctx, questionID)
}

func (s *questionService) get(ctx context.Context, id string) (*domain.Question, error) {
	questionID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidQuestionID
	}
	return s.repo.GetByID(ctx, questionID)
}
