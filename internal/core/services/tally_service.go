package services

import (
	"context"
	"fmt"

	"github.com/vncsmyrnk/polls/internal/core/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// tallyConcurrency bounds the number of questions recounted at once.
const tallyConcurrency = 8

type tallyService struct {
	questionRepo ports.QuestionRepository
	voteRepo     ports.VoteRepository
	logger       *zap.Logger
}

func NewTallyService(questionRepo ports.QuestionRepository, voteRepo ports.VoteRepository, logger *zap.Logger) ports.TallyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tallyService{
		questionRepo: questionRepo,
		voteRepo:     voteRepo,
		logger:       logger,
	}
}

// TallyAll recomputes the vote counters of every question from the ballot log.
func (s *tallyService) TallyAll(ctx context.Context) error {
	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all questions: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tallyConcurrency)

	for _, question := range questions {
		id := question.ID
		g.Go(func() error {
			if err := s.voteRepo.TallyVotes(gctx, id); err != nil {
				return fmt.Errorf("failed to tally question %s: %w", id, err)
			}
			s.logger.Debug("question tallied", zap.Stringer("question_id", id))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("vote tally completed", zap.Int("questions", len(questions)))
	return nil
}
