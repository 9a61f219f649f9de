// internal/eventlog/eventlog.go
package eventlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrConcurrencyConflict = errors.New("concurrency conflict: version mismatch")
	ErrInvalidVersion      = errors.New("invalid version number")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event represents a domain event with full metadata
type Event struct {
	ID            int64             `json:"id"`
	AggregateID   string            `json:"aggregate_id"`
	AggregateType string            `json:"aggregate_type"`
	EventType     string            `json:"event_type"`
	EventData     []byte            `json:"event_data"`
	Metadata      map[string]string `json:"metadata,omitempty"` // request_id, trace_id, span_id
	Version       int               `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Journal is an append-only, in-memory event log with per-aggregate
// optimistic versioning.
type Journal struct {
	mu       sync.RWMutex
	events   []Event
	versions map[string]int
	tracer   trace.Tracer
	now      func() time.Time
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{
		versions: make(map[string]int),
		tracer:   otel.Tracer("shelfkeeper/eventlog"),
		now:      time.Now,
	}
}

// AppendEvents atomically appends events with optimistic concurrency control
func (j *Journal) AppendEvents(ctx context.Context, aggregateID, aggregateType string, expectedVersion int, events []Event) error {
	_, span := j.tracer.Start(ctx, "eventlog.append",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID),
			attribute.String("aggregate.type", aggregateType),
			attribute.Int("expected.version", expectedVersion),
			attribute.Int("event.count", len(events)),
		),
	)
	defer span.End()

	if expectedVersion < 0 {
		return ErrInvalidVersion
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	return j.appendLocked(span, aggregateID, aggregateType, expectedVersion, events)
}

func (j *Journal) appendLocked(span trace.Span, aggregateID, aggregateType string, expectedVersion int, events []Event) error {
	currentVersion := j.versions[aggregateID]
	if currentVersion != expectedVersion {
		span.SetAttributes(
			attribute.Int("actual.version", currentVersion),
			attribute.Bool("conflict.detected", true),
		)
		return ErrConcurrencyConflict
	}

	for i, event := range events {
		event.ID = int64(len(j.events)) + 1
		event.AggregateID = aggregateID
		event.AggregateType = aggregateType
		event.Version = expectedVersion + i + 1
		event.CreatedAt = j.now().UTC()
		j.events = append(j.events, event)

		span.AddEvent("event.appended", trace.WithAttributes(
			attribute.Int64("event.id", event.ID),
			attribute.Int("event.version", event.Version),
			attribute.String("event.type", event.EventType),
		))
	}
	j.versions[aggregateID] = expectedVersion + len(events)

	span.SetAttributes(attribute.Bool("append.success", true))
	return nil
}

// Record encodes payload as the data of a single event and appends it at the
// aggregate's current version.
func (j *Journal) Record(ctx context.Context, aggregateID, aggregateType, eventType string, payload any) error {
	metadata := metadataFrom(ctx)
	_, span := j.tracer.Start(ctx, "eventlog.record",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID),
			attribute.String("event.type", eventType),
		),
	)
	defer span.End()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	event := Event{EventType: eventType, EventData: data, Metadata: metadata}
	return j.appendLocked(span, aggregateID, aggregateType, j.versions[aggregateID], []Event{event})
}

// metadataFrom collects the request id and the active trace of ctx, or nil
// when there is neither.
func metadataFrom(ctx context.Context) map[string]string {
	metadata := make(map[string]string)
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		metadata["request_id"] = reqID
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		metadata["trace_id"] = sc.TraceID().String()
		metadata["span_id"] = sc.SpanID().String()
	}
	if len(metadata) == 0 {
		return nil
	}
	return metadata
}

// LoadEvents retrieves all events for an aggregate with optional version range
func (j *Journal) LoadEvents(ctx context.Context, aggregateID string, fromVersion, toVersion int) ([]Event, error) {
	_, span := j.tracer.Start(ctx, "eventlog.load",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID),
			attribute.Int("from.version", fromVersion),
			attribute.Int("to.version", toVersion),
		),
	)
	defer span.End()

	if fromVersion < 0 || toVersion < 0 {
		return nil, ErrInvalidVersion
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	var events []Event
	for _, event := range j.events {
		if event.AggregateID != aggregateID || event.Version < fromVersion {
			continue
		}
		if toVersion > 0 && event.Version > toVersion {
			continue
		}
		events = append(events, event)
	}

	span.SetAttributes(attribute.Int("events.loaded", len(events)))
	return events, nil
}

// CurrentVersion returns the latest version for an aggregate, 0 if it has no events.
func (j *Journal) CurrentVersion(ctx context.Context, aggregateID string) int {
	_, span := j.tracer.Start(ctx, "eventlog.get_version",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID),
		),
	)
	defer span.End()

	j.mu.RLock()
	defer j.mu.RUnlock()

	version := j.versions[aggregateID]
	span.SetAttributes(attribute.Int("current.version", version))
	return version
}

// StreamEvents provides a cursor-based event stream. A batchSize <= 0 returns
// everything after fromID.
func (j *Journal) StreamEvents(ctx context.Context, fromID int64, batchSize int) []Event {
	_, span := j.tracer.Start(ctx, "eventlog.stream",
		trace.WithAttributes(
			attribute.Int64("from.id", fromID),
			attribute.Int("batch.size", batchSize),
		),
	)
	defer span.End()

	j.mu.RLock()
	defer j.mu.RUnlock()

	// ids are 1-based positions in the slice
	start := max(fromID, 0)
	if start >= int64(len(j.events)) {
		return nil
	}
	end := int64(len(j.events))
	if batchSize > 0 && start+int64(batchSize) < end {
		end = start + int64(batchSize)
	}

	events := make([]Event, end-start)
	copy(events, j.events[start:end])

	span.SetAttributes(attribute.Int("events.streamed", len(events)))
	return events
}

// Len returns the number of events in the journal.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.events)
}

// Decode unmarshals the event data into v.
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.EventData, v); err != nil {
		return fmt.Errorf("failed to unmarshal event data: %w", err)
	}
	return nil
}
