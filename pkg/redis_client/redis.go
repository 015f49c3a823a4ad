package redis_client

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/keyakigo/keyakigo/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Client *redis.Client

const defaultConnectionPassword = ""
const defaultDatabase = 0

var ErrNotConfigured = errors.New("KEYAKIGO_REDIS_ADDRESS must be set")

// Connect opens the shared client. When redis is not required and no address
// is configured it returns without a client so callers fall back to memory.
func Connect(required bool) error {
	env := util.GetEnvironmentVariables()

	address := env["KEYAKIGO_REDIS_ADDRESS"]
	password := defaultConnectionPassword
	database := defaultDatabase

	if address == "" && !required {
		log.Info().Msg("Skipping Redis setup")
		return nil
	} else if address == "" && required {
		return ErrNotConfigured
	}

	if env["KEYAKIGO_REDIS_PASSWORD"] != "" {
		password = env["KEYAKIGO_REDIS_PASSWORD"]
	}

	if env["KEYAKIGO_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["KEYAKIGO_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = 30 * time.Second

	err := backoff.RetryNotify(func() error {
		return client.Ping(context.Background()).Err()
	}, retryBackoff, func(err error, next time.Duration) {
		log.Warn().Err(err).Str("retry", next.String()).Msg("Redis not reachable")
	})
	if err != nil {
		client.Close()
		return err
	}

	Client = client
	log.Info().Str("address", address).Int("database", database).Msg("Connected to Redis")

	return nil
}

func Connected() bool {
	return Client != nil
}
