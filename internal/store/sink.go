// Package store provides the write-only persistence sink for chat
// transcripts and fetched weather payloads. Sinks never return errors:
// a failed write is logged and dropped so persistence problems can not
// break the chat pipeline.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Sink records chat messages and weather payloads. Implementations must be
// safe for concurrent use; each call is an independent append with no
// transactional grouping.
type Sink interface {
	StoreMessage(ctx context.Context, sessionID, role, content string)
	StoreWeather(ctx context.Context, city string, payload []byte)
}

// MessageRecord is the persisted form of one conversation turn.
type MessageRecord struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// WeatherRecord is the persisted form of one fetched weather payload.
type WeatherRecord struct {
	City      string          `json:"city"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NopSink discards everything. Used when persistence is not configured.
type NopSink struct{}

var _ Sink = NopSink{}

func (NopSink) StoreMessage(ctx context.Context, sessionID, role, content string) {}
func (NopSink) StoreWeather(ctx context.Context, city string, payload []byte)     {}

// MemorySink keeps records in process memory. It backs local development
// runs without Redis and the package tests.
type MemorySink struct {
	mu       sync.Mutex
	messages map[string][]MessageRecord
	weather  map[string][]WeatherRecord
}

var _ Sink = (*MemorySink)(nil)

func NewMemorySink() *MemorySink {
	return &MemorySink{
		messages: make(map[string][]MessageRecord),
		weather:  make(map[string][]WeatherRecord),
	}
}

func (s *MemorySink) StoreMessage(ctx context.Context, sessionID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[sessionID] = append(s.messages[sessionID], MessageRecord{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

func (s *MemorySink) StoreWeather(ctx context.Context, city string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weather[city] = append(s.weather[city], WeatherRecord{
		City:      city,
		Payload:   append([]byte(nil), payload...),
		Timestamp: time.Now(),
	})
}

// SessionIDs returns the IDs of all sessions with stored messages.
func (s *MemorySink) SessionIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.messages))
	for id := range s.messages {
		ids = append(ids, id)
	}
	return ids
}

// Messages returns a copy of the records stored for a session.
func (s *MemorySink) Messages(sessionID string) []MessageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MessageRecord(nil), s.messages[sessionID]...)
}

// Weather returns a copy of the records stored for a city.
func (s *MemorySink) Weather(city string) []WeatherRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WeatherRecord(nil), s.weather[city]...)
}
