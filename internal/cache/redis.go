// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
// Move recording is optional: when REDIS_ADDR is unset the server runs purely
// in memory and every publish is a no-op.
var Rdb *redis.Client

// DefaultQueueName is the Redis list (queue) name for move records.
var DefaultQueueName = "uno_moves"

// MoveRecord holds the minimal info the historian service needs to persist
// one move.
type MoveRecord struct {
	RoomCode  string                 `json:"room_code"`
	MoveIndex int                    `json:"move_index"`
	Seat      string                 `json:"seat"`
	Kind      string                 `json:"kind"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp int64                  `json:"timestamp"` // epoch millis
}

// Enabled reports whether move recording is configured at all.
func Enabled() bool {
	return os.Getenv("REDIS_ADDR") != "" && Rdb != nil
}

// ConnectRedis initializes the global Redis client with environment variables:
//   - REDIS_ADDR (required to enable recording)
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishMoveRecord serializes the record to JSON and pushes it onto the
// queue. Callers fire this from a goroutine; a failed publish never affects
// gameplay.
func PublishMoveRecord(ctx context.Context, record MoveRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal MoveRecord: %w", err)
	}

	queueName := getEnv("HISTORIAN_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
