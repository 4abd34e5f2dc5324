package journal

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/example/weblarek/internal/eventbus"
)

// Entry is one bus event as recorded by the journal
type Entry struct {
	ID        string          `json:"id"`
	Session   string          `json:"session"`
	Kind      string          `json:"kind"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	Version   int             `json:"version"`
}

// Publisher forwards entries to an external topic
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Journal keeps the most recent bus events and forwards each one to the publisher
type Journal struct {
	mu        sync.RWMutex
	session   string
	entries   []Entry
	limit     int
	version   int
	publisher Publisher
}

// New creates a journal holding at most limit entries. publisher may be nil.
func New(session string, limit int, publisher Publisher) *Journal {
	if limit <= 0 {
		limit = 500
	}
	return &Journal{
		session:   session,
		entries:   make([]Entry, 0, limit),
		limit:     limit,
		publisher: publisher,
	}
}

// Record stores an envelope and publishes it keyed by session
func (j *Journal) Record(ctx context.Context, env eventbus.Envelope) (*Entry, error) {
	data, err := json.Marshal(env.Payload)
	if err != nil {
		return nil, err
	}

	j.mu.Lock()
	j.version++
	entry := Entry{
		ID:        env.ID,
		Session:   j.session,
		Kind:      env.Kind.String(),
		Data:      data,
		Timestamp: env.PublishedAt,
		Version:   j.version,
	}
	if len(j.entries) == j.limit {
		copy(j.entries, j.entries[1:])
		j.entries = j.entries[:len(j.entries)-1]
	}
	j.entries = append(j.entries, entry)
	j.mu.Unlock()

	if j.publisher != nil {
		if err := j.publisher.Publish(ctx, j.session, entry); err != nil {
			return nil, err
		}
	}

	return &entry, nil
}

// Handler adapts the journal to a wildcard bus subscription
func (j *Journal) Handler() eventbus.EnvelopeHandler {
	return func(env eventbus.Envelope) {
		if _, err := j.Record(context.Background(), env); err != nil {
			log.Printf("[Journal] Failed to record %s: %v", env.Kind, err)
		}
	}
}

// Entries returns the retained entries, oldest first
func (j *Journal) Entries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]Entry(nil), j.entries...)
}

// EntriesOf returns the retained entries of one kind
func (j *Journal) EntriesOf(kind string) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var matched []Entry
	for _, e := range j.entries {
		if e.Kind == kind {
			matched = append(matched, e)
		}
	}
	return matched
}
