package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (r *RedisStore) Load(ctx context.Context, session string) (Settings, error) {
	if err := validSession(session); err != nil {
		return Settings{}, err
	}

	value, err := r.Client.Get(ctx, key(session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Default(), nil
	} else if err != nil {
		return Settings{}, err
	}

	return decode(session, value), nil
}

func (r *RedisStore) Save(ctx context.Context, session string, settings Settings) error {
	if err := validSession(session); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	value, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	return r.Client.Set(ctx, key(session), value, 0).Err()
}

func (r *RedisStore) Reset(ctx context.Context, session string) error {
	if err := validSession(session); err != nil {
		return err
	}

	return r.Client.Del(ctx, key(session)).Err()
}

func key(session string) string {
	return fmt.Sprintf("keyakigo/settings/%s", session)
}

// decode reads saved settings over the defaults, falling back to the
// defaults entirely when they are corrupt
func decode(session string, value []byte) Settings {
	settings := Default()

	if err := json.Unmarshal(value, &settings); err != nil {
		log.Warn().Err(err).Str("session", session).Msg("Discarding corrupt settings")
		return Default()
	}

	if err := settings.Validate(); err != nil {
		log.Warn().Err(err).Str("session", session).Msg("Discarding invalid settings")
		return Default()
	}

	return settings
}
