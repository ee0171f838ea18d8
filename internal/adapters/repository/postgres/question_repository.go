package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) ports.QuestionRepository {
	return &questionRepository{
		db: db,
	}
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryQuestion := `
		INSERT INTO questions (id, question_text, pub_date)
		VALUES ($1, $2, $3)
	`
	_, err = tx.ExecContext(ctx, queryQuestion, question.ID, question.Text, question.PubDate)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	queryChoice := `
		INSERT INTO choices (id, question_id, choice_text, votes, position)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, queryChoice)
	if err != nil {
		return fmt.Errorf("failed to prepare choice statement: %w", err)
	}
	defer stmt.Close()

	for i, c := range question.Choices {
		_, err = stmt.ExecContext(ctx, c.ID, c.QuestionID, c.Text, c.Votes, i)
		if err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date
		FROM questions
		WHERE id = $1
	`

	var q domain.Question
	err := r.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.Text, &q.PubDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	questions := []*domain.Question{&q}
	if err := r.attachChoices(ctx, questions); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepository) GetAll(ctx context.Context) ([]*domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date
		FROM questions
		ORDER BY pub_date DESC
	`
	return r.queryQuestions(ctx, query)
}

func (r *questionRepository) ListPublished(ctx context.Context, now time.Time, limit, offset int) ([]*domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date
		FROM questions
		WHERE pub_date <= $1
		ORDER BY pub_date DESC, id
		LIMIT $2 OFFSET $3
	`
	return r.queryQuestions(ctx, query, now, limit, offset)
}

func (r *questionRepository) SearchPublished(ctx context.Context, now time.Time, limit, offset int, q string) ([]*domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date
		FROM questions
		WHERE pub_date <= $1 AND question_text ILIKE $2 ESCAPE '\'
		ORDER BY pub_date DESC, id
		LIMIT $3 OFFSET $4
	`
	return r.queryQuestions(ctx, query, now, "%"+escapeLike(q)+"%", limit, offset)
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if n == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *questionRepository) queryQuestions(ctx context.Context, query string, args ...interface{}) ([]*domain.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []*domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.PubDate); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	if err := r.attachChoices(ctx, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// attachChoices loads the choices of all given questions in one query.
func (r *questionRepository) attachChoices(ctx context.Context, questions []*domain.Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]string, 0, len(questions))
	byID := make(map[uuid.UUID]*domain.Question, len(questions))
	for _, q := range questions {
		q.Choices = []domain.Choice{}
		ids = append(ids, q.ID.String())
		byID[q.ID] = q
	}

	query := `
		SELECT id, question_id, choice_text, votes
		FROM choices
		WHERE question_id = ANY($1::uuid[])
		ORDER BY question_id, position, id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.Votes); err != nil {
			return fmt.Errorf("failed to scan choice: %w", err)
		}
		if q, ok := byID[c.QuestionID]; ok {
			q.Choices = append(q.Choices, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating choices: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
