package catalog

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

func newTestService(t *testing.T) (Service, *eventlog.Journal, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	journal := eventlog.NewJournal()
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewService(NewStore(), journal, logger), journal, &logs
}

func TestService_AddBookLogsAndRecords(t *testing.T) {
	ctx := context.Background()
	svc, journal, logs := newTestService(t)
	book := mustBook(t, "The Great Gatsby", "F. Scott Fitzgerald", "978-0-7432-7356-5", 1925)

	require.NoError(t, svc.AddBook(ctx, book))
	assert.Contains(t, logs.String(), "level=INFO")
	assert.Contains(t, logs.String(), `msg="book added"`)

	events, err := journal.LoadEvents(ctx, book.ISBN, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "BookAdded", events[0].EventType)

	var added BookAddedEvent
	require.NoError(t, events[0].Decode(&added))
	assert.Equal(t, "The Great Gatsby", added.Title)

	logs.Reset()
	assert.ErrorIs(t, svc.AddBook(ctx, book), ErrDuplicateISBN)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Equal(t, 1, journal.Len())
}

func TestService_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	svc, journal, logs := newTestService(t)
	require.NoError(t, svc.AddBook(ctx, mustBook(t, "Gatsby", "Fitzgerald", "1", 1925)))

	updated := mustBook(t, "The Great Gatsby (Updated)", "F. Scott Fitzgerald", "1", 1925)
	require.NoError(t, svc.UpdateBook(ctx, "1", updated))

	found, err := svc.FindBook(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "The Great Gatsby (Updated)", found.Title)

	require.NoError(t, svc.RemoveBook(ctx, "1"))
	_, err = svc.FindBook(ctx, "1")
	assert.ErrorIs(t, err, ErrBookNotFound)

	logs.Reset()
	assert.ErrorIs(t, svc.RemoveBook(ctx, "1"), ErrBookNotFound)
	assert.ErrorIs(t, svc.UpdateBook(ctx, "1", updated), ErrBookNotFound)
	assert.Contains(t, logs.String(), `msg="failed to remove book"`)
	assert.Contains(t, logs.String(), `msg="failed to update book"`)

	events, err := journal.LoadEvents(ctx, "1", 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "BookUpdated", events[1].EventType)
	assert.Equal(t, "BookRemoved", events[2].EventType)
}

func TestService_SearchBooks(t *testing.T) {
	ctx := context.Background()
	svc, _, logs := newTestService(t)
	for _, book := range classics(t) {
		require.NoError(t, svc.AddBook(ctx, book))
	}
	assert.Equal(t, 5, svc.CountBooks(ctx))
	assert.Len(t, svc.ListBooks(ctx), 5)

	results, err := svc.SearchBooks(ctx, "Gatsby", ByTitle)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "The Great Gatsby", results[0].Title)

	logs.Reset()
	results, err = svc.SearchBooks(ctx, "Gatsby", nil)
	assert.ErrorIs(t, err, ErrNoSearchPolicy)
	assert.Empty(t, results)
	assert.Contains(t, logs.String(), "level=ERROR")
}

func TestNewService_NilLogger(t *testing.T) {
	svc := NewService(NewStore(), eventlog.NewJournal(), nil)
	assert.NoError(t, svc.AddBook(context.Background(), Book{Title: "T", Author: "A", ISBN: "1"}))
}

func TestService_Spans(t *testing.T) {
	ctx := context.Background()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	svc := NewService(NewStore(), eventlog.NewJournal(), nil, WithTracerProvider(tp))

	book := mustBook(t, "1984", "George Orwell", "978-0-452-28423-4", 1949)
	require.NoError(t, svc.AddBook(ctx, book))
	require.ErrorIs(t, svc.AddBook(ctx, book), ErrDuplicateISBN)
	_, err := svc.SearchBooks(ctx, "orwell", ByAuthor)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveBook(ctx, book.ISBN))

	spans := exporter.GetSpans()
	require.Len(t, spans, 4)
	assert.Equal(t, "catalog.add_book", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Equal(t, "catalog.search", spans[2].Name)
	assert.Contains(t, spans[2].Attributes, attribute.Int("search.results", 1))
	assert.Equal(t, "catalog.remove_book", spans[3].Name)
}
