package room

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	keyPrefixRoom = "room:"
	keyRoomList   = "rooms:all"
)

// cachedRepository is a read-through Redis cache in front of Repository.
// Writes go to the underlying repository first and then drop the cached keys.
type cachedRepository struct {
	Repository
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedRepository wraps repo with a Redis cache. A nil client disables caching.
func NewCachedRepository(repo Repository, client *redis.Client, ttl time.Duration) Repository {
	if client == nil {
		return repo
	}
	return &cachedRepository{Repository: repo, redis: client, ttl: ttl}
}

func roomKey(id uuid.UUID) string {
	return keyPrefixRoom + id.String()
}

func (c *cachedRepository) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	var cached Room
	if c.get(ctx, roomKey(id), &cached) {
		return &cached, nil
	}

	room, err := c.Repository.GetByID(ctx, id)
	if err != nil || room == nil {
		return room, err
	}
	c.set(ctx, roomKey(id), room)
	return room, nil
}

func (c *cachedRepository) List(ctx context.Context) ([]*Room, error) {
	var cached []*Room
	if c.get(ctx, keyRoomList, &cached) {
		return cached, nil
	}

	rooms, err := c.Repository.List(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, keyRoomList, rooms)
	return rooms, nil
}

func (c *cachedRepository) Create(ctx context.Context, room *Room) error {
	if err := c.Repository.Create(ctx, room); err != nil {
		return err
	}
	c.invalidate(ctx, keyRoomList)
	return nil
}

func (c *cachedRepository) Update(ctx context.Context, room *Room) error {
	if err := c.Repository.Update(ctx, room); err != nil {
		return err
	}
	c.invalidate(ctx, roomKey(room.ID), keyRoomList)
	return nil
}

func (c *cachedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.Repository.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, roomKey(id), keyRoomList)
	return nil
}

// get reports whether key was found and decoded. Redis failures fall back to Postgres.
func (c *cachedRepository) get(ctx context.Context, key string, dest any) bool {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("room cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("room cache entry corrupt")
		return false
	}
	return true
}

func (c *cachedRepository) set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("room cache write failed")
	}
}

func (c *cachedRepository) invalidate(ctx context.Context, keys ...string) {
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("room cache invalidation failed")
	}
}
