package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	chatKeyPrefix    = "chat:"
	weatherKeyPrefix = "weather:"

	// Transcripts expire; weather history is kept indefinitely.
	chatTTL = 24 * time.Hour
)

// RedisSink appends records to Redis lists: one list per session under
// chat:{session_id}, one list per city under weather:{city}.
type RedisSink struct {
	client *redis.Client
}

var _ Sink = (*RedisSink)(nil)

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) StoreMessage(ctx context.Context, sessionID, role, content string) {
	record := MessageRecord{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	key := chatKeyPrefix + sessionID
	if err := s.push(ctx, key, record); err != nil {
		log.Printf("WARNING: failed to store message for session %s: %v", sessionID, err)
		return
	}
	if err := s.client.Expire(ctx, key, chatTTL).Err(); err != nil {
		log.Printf("WARNING: failed to refresh TTL for %s: %v", key, err)
	}
}

func (s *RedisSink) StoreWeather(ctx context.Context, city string, payload []byte) {
	record := WeatherRecord{
		City:      city,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	if err := s.push(ctx, weatherKeyPrefix+city, record); err != nil {
		log.Printf("WARNING: failed to store weather data for %s: %v", city, err)
	}
}

func (s *RedisSink) push(ctx context.Context, key string, record any) error {
	val, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return s.client.RPush(ctx, key, val).Err()
}
