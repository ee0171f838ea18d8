package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) RecordVote(ctx context.Context, vote *domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Incrementing in SQL keeps concurrent votes from overwriting each other.
	res, err := tx.ExecContext(ctx, `
		UPDATE choices SET votes = votes + 1
		WHERE id = $1 AND question_id = $2
	`, vote.ChoiceID, vote.QuestionID)
	if err != nil {
		return fmt.Errorf("failed to increment votes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to increment votes: %w", err)
	}
	if n == 0 {
		return domain.ErrChoiceNotSelected
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (id, question_id, choice_id, voter_ip, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.ID, vote.QuestionID, vote.ChoiceID, vote.VoterIP, vote.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}
	return nil
}

func (r *voteRepository) TallyVotes(ctx context.Context, questionID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Votes in flight hold their choice row until commit. Locking the rows
	// first makes the recount below start from a snapshot that includes them.
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM choices WHERE question_id = $1 ORDER BY id FOR UPDATE
	`, questionID)
	if err != nil {
		return fmt.Errorf("failed to lock choices of question %s: %w", questionID, err)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to lock choices of question %s: %w", questionID, err)
	}

	query := `
		UPDATE choices c
		SET votes = (SELECT COUNT(*) FROM votes v WHERE v.choice_id = c.id)
		WHERE c.question_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, questionID); err != nil {
		return fmt.Errorf("failed to tally votes for question %s: %w", questionID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tally for question %s: %w", questionID, err)
	}
	return nil
}
