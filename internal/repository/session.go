package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository mirrors the latest session snapshot for external readers.
// It is never read back into the coordinator.
type SessionRepository interface {
	Save(ctx context.Context, snapshot *entity.Snapshot) error
	Get(ctx context.Context) (*entity.Snapshot, error)
	Delete(ctx context.Context) error
}

type dbSession struct {
	client *redis.Client
	key    string
}

func NewSessionRepository(client *redis.Client, keyPrefix string) SessionRepository {
	return &dbSession{
		client: client,
		key:    keyPrefix + ":session",
	}
}

func (that *dbSession) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	if err = that.client.Set(ctx, that.key, snapshotJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) Get(ctx context.Context) (*entity.Snapshot, error) {
	response, err := that.client.Get(ctx, that.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var snapshot entity.Snapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &snapshot, nil
}

func (that *dbSession) Delete(ctx context.Context) error {
	if err := that.client.Del(ctx, that.key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
