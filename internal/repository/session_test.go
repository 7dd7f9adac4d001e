package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
	"github.com/rocketscienceinc/tictactoe-table/testing/suite"
)

func newSnapshot() *entity.Snapshot {
	return &entity.Snapshot{
		CurrentPlayer: entity.Seat2,
		Board:         entity.Board{4: entity.MarkX},
		Status:        entity.StatusOngoing,
		MoveCount:     1,
		Seats:         map[entity.Seat]bool{entity.Seat1: true, entity.Seat2: true},
	}
}

func TestSessionRepository_Save(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage, "test")

	// When: Save is called
	err := sessionRepo.Save(ctx, newSnapshot())

	// Then: the snapshot is stored under the prefixed key
	require.NoError(t, err)

	exists, err := st.Storage.Exists(ctx, "test:session").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestSessionRepository_Get(t *testing.T) {
	t.Run("Get_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, "test")

		// Given: a saved snapshot
		snapshot := newSnapshot()
		require.NoError(t, sessionRepo.Save(ctx, snapshot))

		// When: Get is called
		retrieved, err := sessionRepo.Get(ctx)

		// Then: it matches what was saved
		require.NoError(t, err)
		assert.Equal(t, snapshot, retrieved)
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, "test")

		// When: nothing was saved
		retrieved, err := sessionRepo.Get(ctx)

		// Then: ErrSessionNotFound is returned
		require.ErrorIs(t, err, ErrSessionNotFound)
		assert.Nil(t, retrieved)
	})
}

func TestSessionRepository_Delete(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage, "test")

	// Given: a saved snapshot
	require.NoError(t, sessionRepo.Save(ctx, newSnapshot()))

	// When: Delete is called
	err := sessionRepo.Delete(ctx)

	// Then: the snapshot is gone
	require.NoError(t, err)

	_, err = sessionRepo.Get(ctx)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
