package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type VoteRepository interface {
	// RecordVote stores the ballot and increments the choice counter in one
	// transaction.
	RecordVote(ctx context.Context, vote *domain.Vote) error
	// TallyVotes rebuilds the counters of a question from its ballots.
	TallyVotes(ctx context.Context, questionID uuid.UUID) error
}

type VoteInput struct {
	QuestionID uuid.UUID
	// ChoiceID is nil when the form carried no choice.
	ChoiceID *uuid.UUID
	VoterIP  string
}

type VoteService interface {
	// Vote returns the question alongside domain.ErrChoiceNotSelected so the
	// caller can show it again.
	Vote(ctx context.Context, input VoteInput) (*domain.Question, error)
}

type TallyService interface {
	TallyAll(ctx context.Context) error
}
