package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecentWindow is how far back a question still counts as recently published.
const RecentWindow = 24 * time.Hour

type Question struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"question_text"`
	PubDate time.Time `json:"pub_date"`
	Choices []Choice  `json:"choices"`
}

type Choice struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"choice_text"`
	Votes      int64     `json:"votes"`
}

// IsPublished reports whether the question is visible at now.
func (q *Question) IsPublished(now time.Time) bool {
	return !q.PubDate.After(now)
}

// WasPublishedRecently reports whether the question was published within the
// last RecentWindow. Questions dated in the future never qualify.
func (q *Question) WasPublishedRecently(now time.Time) bool {
	return !q.PubDate.Before(now.Add(-RecentWindow)) && q.IsPublished(now)
}

func (q *Question) ChoiceByID(id uuid.UUID) (*Choice, bool) {
	for i := range q.Choices {
		if q.Choices[i].ID == id {
			return &q.Choices[i], true
		}
	}
	return nil, false
}
