package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWasPublishedRecently(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		pubDate time.Time
		want    bool
	}{
		{"future question", now.Add(30 * 24 * time.Hour), false},
		{"old question", now.Add(-(24*time.Hour + time.Second)), false},
		{"published now", now, true},
		{"edge of window", now.Add(-24 * time.Hour), true},
		{"within window", now.Add(-23*time.Hour - 59*time.Minute - 59*time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{PubDate: tt.pubDate}
			assert.Equal(t, tt.want, q.WasPublishedRecently(now))
		})
	}
}

func TestIsPublished(t *testing.T) {
	now := time.Now()
	assert.True(t, (&Question{PubDate: now}).IsPublished(now))
	assert.True(t, (&Question{PubDate: now.Add(-time.Minute)}).IsPublished(now))
	assert.False(t, (&Question{PubDate: now.Add(time.Minute)}).IsPublished(now))
}

func TestChoiceByID(t *testing.T) {
	c1, c2 := uuid.New(), uuid.New()
	q := Question{Choices: []Choice{{ID: c1, Text: "a"}, {ID: c2, Text: "b"}}}

	c, ok := q.ChoiceByID(c2)
	assert.True(t, ok)
	assert.Equal(t, "b", c.Text)

	_, ok = q.ChoiceByID(uuid.New())
	assert.False(t, ok)
}

func TestNewResults(t *testing.T) {
	q := &Question{
		ID:   uuid.New(),
		Text: "Best pet?",
		Choices: []Choice{
			{ID: uuid.New(), Text: "cat", Votes: 2},
			{ID: uuid.New(), Text: "dog", Votes: 1},
			{ID: uuid.New(), Text: "fish", Votes: 0},
		},
	}

	res := NewResults(q)
	assert.Equal(t, int64(3), res.TotalVotes)
	assert.Len(t, res.Choices, 3)
	assert.InDelta(t, 66.66, res.Choices[0].Percentage, 0.01)
	assert.InDelta(t, 33.33, res.Choices[1].Percentage, 0.01)
	assert.Equal(t, 0.0, res.Choices[2].Percentage)
}

func TestNewResults_NoVotes(t *testing.T) {
	q := &Question{Choices: []Choice{{Text: "a"}, {Text: "b"}}}

	res := NewResults(q)
	assert.Zero(t, res.TotalVotes)
	for _, c := range res.Choices {
		assert.Equal(t, 0.0, c.Percentage)
	}
}
