package worker

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const maxDrainRetryDelay = time.Minute

// asynqRedisOpt übernimmt Adresse, Zugangsdaten, DB und TLS des bestehenden Clients.
func asynqRedisOpt(client *redis.Client) asynq.RedisClientOpt {
	opts := client.Options()
	return asynq.RedisClientOpt{
		Addr:      opts.Addr,
		Username:  opts.Username,
		Password:  opts.Password,
		DB:        opts.DB,
		TLSConfig: opts.TLSConfig,
	}
}

// drainRetryDelay gilt nur für den Drain-Task. Den Backoff einzelner
// Sync-Einträge steuert die Queue-Tabelle selbst.
func drainRetryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	d := time.Duration(n) * 5 * time.Second
	if d > maxDrainRetryDelay {
		return maxDrainRetryDelay
	}
	return d
}

// zerologAdapter erfüllt asynq.Logger.
type zerologAdapter struct {
	logger zerolog.Logger
}

func newZerologAdapter(logger zerolog.Logger) *zerologAdapter {
	return &zerologAdapter{logger: logger}
}

func (a *zerologAdapter) Debug(args ...any) { a.logger.Debug().Msg(fmt.Sprint(args...)) }
func (a *zerologAdapter) Info(args ...any)  { a.logger.Info().Msg(fmt.Sprint(args...)) }
func (a *zerologAdapter) Warn(args ...any)  { a.logger.Warn().Msg(fmt.Sprint(args...)) }
func (a *zerologAdapter) Error(args ...any) { a.logger.Error().Msg(fmt.Sprint(args...)) }
func (a *zerologAdapter) Fatal(args ...any) { a.logger.Fatal().Msg(fmt.Sprint(args...)) }
