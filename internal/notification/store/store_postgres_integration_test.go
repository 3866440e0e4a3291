//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"impulsa/internal/notification/models"
	"impulsa/internal/notification/store"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/testutil"
	"impulsa/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) TestInbox() {
	ctx := context.Background()
	userID := id.NewUserID()
	older := testutil.NewNotification(userID, models.KindMissionCompleted, testutil.FixedNow)
	newer := testutil.NewNotification(userID, models.KindLevelUp, testutil.FixedNow.Add(time.Minute))
	foreign := testutil.NewNotification(id.NewUserID(), models.KindBadgeAwarded, testutil.FixedNow)
	for _, n := range []*models.Notification{older, newer, foreign} {
		s.Require().NoError(s.store.Save(ctx, n))
	}

	s.Run("replayed event conflicts", func() {
		s.ErrorIs(s.store.Save(ctx, older), sentinel.ErrConflict)
	})

	s.Run("newest first", func() {
		list, err := s.store.ListByUser(ctx, userID, false, 0)
		s.Require().NoError(err)
		s.Require().Len(list, 2)
		s.Equal(newer.ID, list[0].ID)
		s.Equal(older.ID, list[1].ID)
	})

	s.Run("limit", func() {
		list, err := s.store.ListByUser(ctx, userID, false, 1)
		s.Require().NoError(err)
		s.Len(list, 1)
	})

	s.Run("mark read", func() {
		n, err := s.store.MarkRead(ctx, userID, older.ID)
		s.Require().NoError(err)
		s.True(n.Read)

		unread, err := s.store.ListByUser(ctx, userID, true, 0)
		s.Require().NoError(err)
		s.Require().Len(unread, 1)
		s.Equal(newer.ID, unread[0].ID)
	})

	s.Run("mark read of another user's notification", func() {
		_, err := s.store.MarkRead(ctx, userID, foreign.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestEmptyInbox() {
	list, err := s.store.ListByUser(context.Background(), id.NewUserID(), false, 10)
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)
}
