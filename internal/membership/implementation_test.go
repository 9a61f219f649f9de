package membership

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"shelfkeeper/internal/eventlog"
)

func TestService_RegisterPatron(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	journal := eventlog.NewJournal()
	svc := NewService(NewStore(), journal, slog.New(slog.NewTextHandler(&logs, nil)))

	john, err := svc.RegisterPatron(ctx, "John Doe", "john.doe@email.com", "555-0101")
	require.NoError(t, err)
	jane, err := svc.RegisterPatron(ctx, "Jane Smith", "jane.smith@email.com", "555-0102")
	require.NoError(t, err)

	assert.Equal(t, 1, john.ID)
	assert.Equal(t, 2, jane.ID)
	assert.Equal(t, 2, svc.CountPatrons(ctx))
	assert.Equal(t, 3, svc.NextPatronID(ctx))
	assert.Contains(t, logs.String(), `msg="patron added"`)

	events, err := journal.LoadEvents(ctx, "2", 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	var registered PatronRegisteredEvent
	require.NoError(t, events[0].Decode(&registered))
	assert.Equal(t, "Jane Smith", registered.Name)

	_, err = svc.RegisterPatron(ctx, "", "", "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, logs.String(), "level=WARN")
}

func TestService_UpdateAndHistory(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	svc := NewService(NewStore(), eventlog.NewJournal(), slog.New(slog.NewTextHandler(&logs, nil)))

	require.NoError(t, svc.AddPatron(ctx, mustPatron(t, 1, "Bob Johnson")))
	assert.ErrorIs(t, svc.AddPatron(ctx, mustPatron(t, 1, "Bob Johnson")), ErrDuplicatePatronID)
	assert.Contains(t, logs.String(), `msg="failed to add patron"`)

	require.NoError(t, svc.UpdatePatron(ctx, 1, mustPatron(t, 1, "Robert Johnson")))
	found, err := svc.FindPatron(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Robert Johnson", found.Name)
	assert.Len(t, svc.ListPatrons(ctx), 1)

	history, err := svc.BorrowingHistory(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = svc.BorrowingHistory(ctx, 42)
	assert.ErrorIs(t, err, ErrPatronNotFound)
	assert.ErrorIs(t, svc.UpdatePatron(ctx, 42, mustPatron(t, 42, "Nobody")), ErrPatronNotFound)
}

func TestService_RegisterPatronSpans(t *testing.T) {
	ctx := context.Background()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	svc := NewService(NewStore(), eventlog.NewJournal(), nil, WithTracerProvider(tp))

	_, err := svc.RegisterPatron(ctx, "Jane Smith", "", "")
	require.NoError(t, err)
	require.ErrorIs(t, svc.UpdatePatron(ctx, 9, mustPatron(t, 9, "Nobody")), ErrPatronNotFound)

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "membership.add_patron", spans[0].Name)
	assert.Equal(t, "membership.register_patron", spans[1].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Contains(t, spans[1].Attributes, attribute.Int("patron.id", 1))
	assert.Equal(t, "membership.update_patron", spans[2].Name)
	assert.Equal(t, codes.Error, spans[2].Status.Code)
}
