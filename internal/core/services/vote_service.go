package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type voteService struct {
	questionRepo ports.QuestionRepository
	voteRepo     ports.VoteRepository
	now          func() time.Time
}

func NewVoteService(questionRepo ports.QuestionRepository, voteRepo ports.VoteRepository, now func() time.Time) ports.VoteService {
	if now == nil {
		now = time.Now
	}
	return &voteService{
		questionRepo: questionRepo,
		voteRepo:     voteRepo,
		now:          now,
	}
}

func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) (*domain.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, input.QuestionID)
	if err != nil {
		return nil, err
	}

	if input.ChoiceID == nil {
		return question, domain.ErrChoiceNotSelected
	}
	choice, ok := question.ChoiceByID(*input.ChoiceID)
	if !ok {
		return question, domain.ErrChoiceNotSelected
	}

	vote := &domain.Vote{
		ID:         uuid.New(),
		QuestionID: question.ID,
		ChoiceID:   choice.ID,
		VoterIP:    input.VoterIP,
		CreatedAt:  s.now(),
	}
	if err := s.voteRepo.RecordVote(ctx, vote); err != nil {
		// The choice can vanish between the lookup and the write.
		if errors.Is(err, domain.ErrChoiceNotSelected) {
			return question, err
		}
		return nil, err
	}
	choice.Votes++

	return question, nil
}
