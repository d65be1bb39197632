package reconcile

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MaxLogEntries caps the sync log; the oldest entry is evicted on the
// append that would exceed it.
const MaxLogEntries = 50

// LogEntry records one successful reconciliation. Purely observational:
// entries are never read back into the record store.
type LogEntry struct {
	StudentName string    `json:"studentName"`
	BookName    string    `json:"bookName"`
	IsCompleted bool      `json:"isCompleted"`
	IsPaid      bool      `json:"isPaid"`
	SyncedAt    time.Time `json:"syncedAt"`
}

// Log is the append-only bounded sync history.
type Log interface {
	Append(ctx context.Context, e LogEntry) error
	Recent(ctx context.Context, n int) ([]LogEntry, error)
}

// RedisLog keeps the history in a capped Redis list, newest first.
type RedisLog struct {
	client *redis.Client
	key    string
}

// NewRedisLog builds a log using LPUSH/LTRIM semantics.
func NewRedisLog(client *redis.Client, key string) *RedisLog {
	if key == "" {
		key = "textbook:synclog"
	}
	return &RedisLog{client: client, key: key}
}

// Append pushes the entry and trims to the cap in one pipeline.
func (l *RedisLog) Append(ctx context.Context, e LogEntry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := l.client.TxPipeline()
	pipe.LPush(ctx, l.key, raw)
	pipe.LTrim(ctx, l.key, 0, MaxLogEntries-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to n entries, newest first.
func (l *RedisLog) Recent(ctx context.Context, n int) ([]LogEntry, error) {
	if n <= 0 || n > MaxLogEntries {
		n = MaxLogEntries
	}
	raws, err := l.client.LRange(ctx, l.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]LogEntry, 0, len(raws))
	for _, raw := range raws {
		var e LogEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MemoryLog is a mutex-guarded in-memory log for dev/testing.
type MemoryLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMemoryLog creates an empty in-memory log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append prepends the entry, evicting the oldest past the cap. FIFO by
// insertion order, not by SyncedAt.
func (l *MemoryLog) Append(_ context.Context, e LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]LogEntry{e}, l.entries...)
	if len(l.entries) > MaxLogEntries {
		l.entries = l.entries[:MaxLogEntries]
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (l *MemoryLog) Recent(_ context.Context, n int) ([]LogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]LogEntry, n)
	copy(out, l.entries[:n])
	return out, nil
}
