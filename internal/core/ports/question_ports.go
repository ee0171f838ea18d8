package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type QuestionRepository interface {
	Save(ctx context.Context, question *domain.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	GetAll(ctx context.Context) ([]*domain.Question, error)
	ListPublished(ctx context.Context, now time.Time, limit, offset int) ([]*domain.Question, error)
	SearchPublished(ctx context.Context, now time.Time, limit, offset int, query string) ([]*domain.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateQuestionInput struct {
	Text    string
	PubDate time.Time
	Choices []string
}

type ListQuestionsInput struct {
	Page  int
	Query string
}

type QuestionService interface {
	Index(ctx context.Context, input ListQuestionsInput) ([]*domain.Question, error)
	Detail(ctx context.Context, id string) (*domain.Question, error)
	Results(ctx context.Context, id string) (*domain.Results, error)
	Create(ctx context.Context, input CreateQuestionInput) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
}
