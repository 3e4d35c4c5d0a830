package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// UpdateIncoming is the list the data pipeline drains for new reports.
const UpdateIncoming = "update_incoming"

// Open returns a redis client for the given address, or nil when no
// address is configured so that queueing degrades to a no-op.
func Open(addr, pass string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass})
}

// ReportQueue pushes measurement reports onto a redis list for the
// asynchronous update pipeline.
type ReportQueue struct {
	client *redis.Client
	key    string
}

// NewReportQueue creates a queue on the update_incoming list. A nil
// client is allowed; Enqueue then silently drops.
func NewReportQueue(client *redis.Client) *ReportQueue {
	return &ReportQueue{client: client, key: UpdateIncoming}
}

// Enqueue appends the JSON encoding of report to the list.
func (q *ReportQueue) Enqueue(ctx context.Context, report interface{}) error {
	if q.client == nil {
		return nil
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue report: %w", err)
	}
	return nil
}

// Length returns the number of queued reports.
func (q *ReportQueue) Length(ctx context.Context) (int64, error) {
	if q.client == nil {
		return 0, nil
	}
	return q.client.LLen(ctx, q.key).Result()
}
