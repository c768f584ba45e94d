// Package store loads the records of a tenant's collection for the query pipeline.
package store

import (
	"AdminAPI/internal/query"
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Store fetches every record of a collection visible to tenant, newest first.
type Store interface {
	Fetch(ctx context.Context, tenant, collection string) ([]query.Record, error)
}

// TimestampLayout is the fixed-width UTC form used for createdAt, so that values sort
// lexically in creation order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// DecodeRecords reads a JSON array of objects, keeping integers exact.
func DecodeRecords(data []byte) ([]query.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	out := make([]query.Record, len(raw))
	for i, r := range raw {
		out[i] = query.NormalizeRecord(r)
	}
	return out, nil
}

func decodeRecord(data []byte) (query.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return query.NormalizeRecord(raw), nil
}

// Memory is a fixed in-process store, used by tests and the offline run command.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]query.Record
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]query.Record{}}
}

// Put replaces the records of tenant's collection.
func (m *Memory) Put(tenant, collection string, records []query.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	normalized := make([]query.Record, len(records))
	for i, r := range records {
		normalized[i] = query.NormalizeRecord(r)
	}
	m.data[memoryKey(tenant, collection)] = normalized
}

func (m *Memory) Fetch(_ context.Context, tenant, collection string) ([]query.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := m.data[memoryKey(tenant, collection)]
	out := make([]query.Record, len(records))
	copy(out, records)
	return out, nil
}

func memoryKey(tenant, collection string) string {
	return tenant + "\x00" + collection
}
