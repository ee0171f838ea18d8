package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is the audit record of a single ballot. Choice.Votes is the counter
// derived from these rows.
type Vote struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	ChoiceID   uuid.UUID `json:"choice_id"`
	VoterIP    string    `json:"voter_ip"`
	CreatedAt  time.Time `json:"created_at"`
}
