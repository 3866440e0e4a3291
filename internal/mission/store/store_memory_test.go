package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impulsa/internal/mission/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
)

func TestInMemoryStoreMissions(t *testing.T) {
	store := New()
	ctx := context.Background()

	quiz := &models.Mission{
		ID: "quiz", Type: models.TypeMiniQuiz, Position: 2,
		Prerequisites: []id.MissionID{"video"},
		Questions:     []models.Question{{Prompt: "?", Options: []string{"a", "b"}, CorrectAnswer: 1}},
	}
	require.NoError(t, store.Save(ctx, quiz))
	require.NoError(t, store.Save(ctx, &models.Mission{ID: "video", Type: models.TypeMicrovideo, Position: 1}))
	require.NoError(t, store.Save(ctx, &models.Mission{ID: "guia", Type: models.TypeProcessGuide, Position: 2}))
	require.ErrorIs(t, store.Save(ctx, quiz), sentinel.ErrConflict)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []id.MissionID{"video", "guia", "quiz"}, []id.MissionID{list[0].ID, list[1].ID, list[2].ID})

	found, err := store.Find(ctx, "quiz")
	require.NoError(t, err)
	found.Prerequisites[0] = "tampered"
	found.Questions[0].Options[0] = "tampered"

	again, err := store.Find(ctx, "quiz")
	require.NoError(t, err)
	assert.Equal(t, id.MissionID("video"), again.Prerequisites[0])
	assert.Equal(t, "a", again.Questions[0].Options[0])

	_, err = store.Find(ctx, "nope")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStoreAttempts(t *testing.T) {
	store := New()
	ctx := context.Background()
	userID := id.NewUserID()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	score := 33.33

	require.NoError(t, store.RecordAttempt(ctx, &models.Attempt{
		ID: id.NewAttemptID(), UserID: userID, MissionID: "quiz", Outcome: models.OutcomeFailed, Score: &score, AttemptedAt: base,
	}))
	require.NoError(t, store.RecordAttempt(ctx, &models.Attempt{
		ID: id.NewAttemptID(), UserID: userID, MissionID: "quiz", Outcome: models.OutcomePassed, AttemptedAt: base.Add(8 * 24 * time.Hour),
	}))
	require.NoError(t, store.RecordAttempt(ctx, &models.Attempt{
		ID: id.NewAttemptID(), UserID: userID, MissionID: "video", Outcome: models.OutcomePassed, AttemptedAt: base,
	}))

	attempts, err := store.ListAttempts(ctx, userID, "quiz")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, models.OutcomePassed, attempts[0].Outcome)
	assert.Equal(t, 33.33, *attempts[1].Score)

	attempts, err = store.ListAttempts(ctx, id.NewUserID(), "quiz")
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestInMemoryStoreAttempts_SameInstantNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()
	userID := id.NewUserID()
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	for _, outcome := range []models.Outcome{models.OutcomeInReview, models.OutcomeRejected} {
		require.NoError(t, store.RecordAttempt(ctx, &models.Attempt{
			ID: id.NewAttemptID(), UserID: userID, MissionID: "plan", Outcome: outcome, AttemptedAt: at,
		}))
	}

	attempts, err := store.ListAttempts(ctx, userID, "plan")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, models.OutcomeRejected, attempts[0].Outcome)
	assert.Equal(t, models.OutcomeInReview, attempts[1].Outcome)
}
