package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

func newQuestion(text string, pubDate time.Time, choices ...string) *domain.Question {
	q := &domain.Question{ID: uuid.New(), Text: text, PubDate: pubDate}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{ID: uuid.New(), QuestionID: q.ID, Text: c})
	}
	return q
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := setupDB(t)

	applied, err := Migrate(context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, applied)

	file, ran, err := MigrateOne(context.Background(), db, "create_votes")
	require.NoError(t, err)
	assert.Equal(t, "0002_create_votes.up.sql", file)
	assert.False(t, ran)

	_, _, err = MigrateOne(context.Background(), db, "does_not_exist")
	assert.Error(t, err)
}

func TestQuestionRepository_SaveAndGet(t *testing.T) {
	db := setupDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()

	q := newQuestion("What's up?", time.Now().Add(-time.Hour).UTC().Truncate(time.Microsecond), "Not much", "The sky", "Lunch")
	require.NoError(t, repo.Save(ctx, q))

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Text, got.Text)
	assert.True(t, q.PubDate.Equal(got.PubDate))
	require.Len(t, got.Choices, 3)
	for i, c := range got.Choices {
		assert.Equal(t, q.Choices[i].ID, c.ID, "choices keep insertion order")
		assert.Zero(t, c.Votes)
	}

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}

func TestQuestionRepository_ListPublished(t *testing.T) {
	db := setupDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()
	now := time.Now()

	for i := 1; i <= 6; i++ {
		require.NoError(t, repo.Save(ctx, newQuestion(fmt.Sprintf("Past %d", i), now.Add(-time.Duration(i)*time.Hour), "a")))
	}
	require.NoError(t, repo.Save(ctx, newQuestion("Future", now.Add(time.Hour), "a")))
	require.NoError(t, repo.Save(ctx, newQuestion("Past 100%_done", now.Add(-100*time.Hour))))

	first, err := repo.ListPublished(ctx, now, 5, 0)
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, "Past 1", first[0].Text)
	assert.Equal(t, "Past 5", first[4].Text)
	assert.Len(t, first[0].Choices, 1)

	second, err := repo.ListPublished(ctx, now, 5, 5)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "Past 6", second[0].Text)
	assert.NotNil(t, second[1].Choices)
	assert.Empty(t, second[1].Choices)

	found, err := repo.SearchPublished(ctx, now, 5, 0, "past 3")
	require.NoError(t, err)
	require.Len(t, found, 1)

	none, err := repo.SearchPublished(ctx, now, 5, 0, "future")
	require.NoError(t, err)
	assert.Empty(t, none)

	literal, err := repo.SearchPublished(ctx, now, 5, 0, "%_")
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, "Past 100%_done", literal[0].Text)
}

func TestQuestionRepository_Delete(t *testing.T) {
	db := setupDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()

	q := newQuestion("Bye", time.Now(), "a")
	require.NoError(t, repo.Save(ctx, q))

	require.NoError(t, repo.Delete(ctx, q.ID))
	assert.ErrorIs(t, repo.Delete(ctx, q.ID), domain.ErrQuestionNotFound)

	var choices int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM choices WHERE question_id = $1`, q.ID).Scan(&choices))
	assert.Zero(t, choices)
}

func TestVoteRepository_ConcurrentVotesAndTally(t *testing.T) {
	db := setupDB(t)
	questions := NewQuestionRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	q := newQuestion("Pick", time.Now().Add(-time.Hour), "a", "b")
	require.NoError(t, questions.Save(ctx, q))

	const voters = 40
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := votes.RecordVote(ctx, &domain.Vote{
				ID:         uuid.New(),
				QuestionID: q.ID,
				ChoiceID:   q.Choices[i%2].ID,
				VoterIP:    fmt.Sprintf("10.0.0.%d", i),
				CreatedAt:  time.Now(),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(voters/2), got.Choices[0].Votes)
	assert.Equal(t, int64(voters/2), got.Choices[1].Votes)

	// Drift the counter and let the tally repair it.
	_, err = db.Exec(`UPDATE choices SET votes = 999 WHERE id = $1`, q.Choices[0].ID)
	require.NoError(t, err)
	require.NoError(t, votes.TallyVotes(ctx, q.ID))

	got, err = questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(voters/2), got.Choices[0].Votes)
}

func TestVoteRepository_TallyDuringConcurrentVotes(t *testing.T) {
	db := setupDB(t)
	questions := NewQuestionRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	q := newQuestion("Busy", time.Now().Add(-time.Hour), "a", "b", "c")
	require.NoError(t, questions.Save(ctx, q))

	const voters = 60
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := votes.RecordVote(ctx, &domain.Vote{
				ID:         uuid.New(),
				QuestionID: q.ID,
				ChoiceID:   q.Choices[i%3].ID,
				VoterIP:    "10.0.0.1",
				CreatedAt:  time.Now(),
			})
			assert.NoError(t, err)
		}(i)
		if i%10 == 0 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, votes.TallyVotes(ctx, q.ID))
			}()
		}
	}
	wg.Wait()

	got, err := questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	var total int64
	for _, c := range got.Choices {
		var logged int64
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM votes WHERE choice_id = $1`, c.ID).Scan(&logged))
		assert.Equal(t, logged, c.Votes, "counter of %s matches the vote log", c.Text)
		total += c.Votes
	}
	assert.Equal(t, int64(voters), total)
}

func TestVoteRepository_RejectsForeignChoice(t *testing.T) {
	db := setupDB(t)
	questions := NewQuestionRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	q1 := newQuestion("One", time.Now(), "a")
	q2 := newQuestion("Two", time.Now(), "b")
	require.NoError(t, questions.Save(ctx, q1))
	require.NoError(t, questions.Save(ctx, q2))

	err := votes.RecordVote(ctx, &domain.Vote{ID: uuid.New(), QuestionID: q1.ID, ChoiceID: q2.Choices[0].ID, CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrChoiceNotSelected)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM votes`).Scan(&n))
	assert.Zero(t, n)
}

func TestAdminAndAuthRepositories(t *testing.T) {
	db := setupDB(t)
	admins := NewAdminRepository(db)
	tokens := NewAuthRepository(db)
	ctx := context.Background()

	missing, err := admins.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	admin := &domain.Admin{Email: "Admin@Example.com", Name: "Ada"}
	require.NoError(t, admins.Create(ctx, admin))
	assert.NotEqual(t, uuid.Nil, admin.ID)

	byEmail, err := admins.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, admin.ID, byEmail.ID)

	dup := &domain.Admin{Email: "admin@example.com", Name: "Other"}
	assert.Error(t, admins.Create(ctx, dup), "emails are unique regardless of case")

	rt := &domain.RefreshToken{AdminID: admin.ID, TokenHash: fmt.Sprintf("%064d", 1), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, tokens.StoreRefreshToken(ctx, rt))

	got, err := tokens.GetRefreshTokenByHash(ctx, rt.TokenHash)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Revoked)

	require.NoError(t, tokens.RevokeRefreshToken(ctx, rt.ID))
	got, err = tokens.GetRefreshTokenByHash(ctx, rt.TokenHash)
	require.NoError(t, err)
	assert.True(t, got.Revoked)

	none, err := tokens.GetRefreshTokenByHash(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, none)
}
