// cmd/demo/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"shelfkeeper/internal/catalog"
	"shelfkeeper/internal/circulation"
	"shelfkeeper/internal/config"
	"shelfkeeper/internal/eventlog"
	"shelfkeeper/internal/membership"
	"shelfkeeper/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := telemetry.NewLogger(cfg, os.Stderr)

	if err := run(context.Background(), os.Stdout, logger); err != nil {
		logger.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

type library struct {
	catalog     catalog.Service
	membership  membership.Service
	circulation circulation.Service
}

func newLibrary(logger *slog.Logger) *library {
	journal := eventlog.NewJournal()
	books := catalog.NewStore()
	patrons := membership.NewStore()
	return &library{
		catalog:     catalog.NewService(books, journal, logger),
		membership:  membership.NewService(patrons, journal, logger),
		circulation: circulation.NewService(books, patrons, journal, logger),
	}
}

// run walks through the catalog, membership and lending workflows and
// prints what it sees to w.
func run(ctx context.Context, w io.Writer, logger *slog.Logger) error {
	lib := newLibrary(logger)

	fmt.Fprintln(w, "=== Library Management System ===")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Book Management ---")

	for _, b := range []struct {
		title, author, isbn string
		year                int
	}{
		{"The Great Gatsby", "F. Scott Fitzgerald", "978-0-7432-7356-5", 1925},
		{"To Kill a Mockingbird", "Harper Lee", "978-0-06-112008-4", 1960},
		{"1984", "George Orwell", "978-0-452-28423-4", 1949},
		{"Pride and Prejudice", "Jane Austen", "978-0-14-143951-8", 1813},
	} {
		book, err := catalog.NewBook(b.title, b.author, b.isbn, b.year)
		if err != nil {
			return err
		}
		if err := lib.catalog.AddBook(ctx, book); err != nil {
			return fmt.Errorf("failed to add %q: %w", b.title, err)
		}
	}
	fmt.Fprintf(w, "\nTotal books in library: %d\n", lib.catalog.CountBooks(ctx))

	searches := []struct {
		heading, label, query string
		policy                catalog.SearchPolicy
	}{
		{"Title", "'Gatsby'", "Gatsby", catalog.ByTitle},
		{"Author", "author 'Orwell'", "Orwell", catalog.ByAuthor},
		{"ISBN", "ISBN '978-0-14-143951-8'", "978-0-14-143951-8", catalog.ByISBN},
	}
	for _, s := range searches {
		fmt.Fprintf(w, "\n--- Searching by %s ---\n", s.heading)
		results, err := lib.catalog.SearchBooks(ctx, s.query, s.policy)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Search results for %s:\n", s.label)
		for _, book := range results {
			fmt.Fprintf(w, "  - %s by %s\n", book.Title, book.Author)
		}
	}

	fmt.Fprintln(w, "\n--- Updating Book ---")
	updated, err := catalog.NewBook("The Great Gatsby (Updated)", "F. Scott Fitzgerald", "978-0-7432-7356-5", 1925)
	if err != nil {
		return err
	}
	if err := lib.catalog.UpdateBook(ctx, updated.ISBN, updated); err != nil {
		return err
	}
	gatsby, err := lib.catalog.FindBook(ctx, updated.ISBN)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Book updated: %s\n", gatsby.Title)

	fmt.Fprintln(w, "\n--- Patron Management ---")
	for _, p := range []struct{ name, email, phone string }{
		{"John Doe", "john.doe@email.com", "123-456-7890"},
		{"Jane Smith", "jane.smith@email.com", "987-654-3210"},
		{"Bob Johnson", "bob.johnson@email.com", "555-123-4567"},
	} {
		if _, err := lib.membership.RegisterPatron(ctx, p.name, p.email, p.phone); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "\nTotal patrons: %d\n", lib.membership.CountPatrons(ctx))

	fmt.Fprintln(w, "\n--- Lending Process ---")
	fmt.Fprintln(w, "\nChecking out books:")
	for _, c := range []struct {
		isbn     string
		patronID int
	}{
		{"978-0-7432-7356-5", 1},
		{"978-0-06-112008-4", 2},
		{"978-0-452-28423-4", 1},
	} {
		if _, err := lib.circulation.CheckoutBook(ctx, c.isbn, c.patronID); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "\nTrying to checkout already borrowed book:")
	if _, err := lib.circulation.CheckoutBook(ctx, "978-0-7432-7356-5", 3); err != nil {
		fmt.Fprintf(w, "  checkout refused: %v\n", err)
	}

	fmt.Fprintln(w, "\n--- Inventory Management ---")
	printInventory(ctx, w, lib, "")

	fmt.Fprintln(w, "\n--- Borrowing History ---")
	fmt.Fprintln(w, "\nBorrowing history for John Doe (ID: 1):")
	history, err := lib.membership.BorrowingHistory(ctx, 1)
	if err != nil {
		return err
	}
	for _, loan := range history {
		title := loan.ISBN
		if book, err := lib.catalog.FindBook(ctx, loan.ISBN); err == nil {
			title = book.Title
		}
		fmt.Fprintf(w, "  - %s (Checked out: %s)\n", title, loan.CheckoutDate.Format("2006-01-02"))
	}

	fmt.Fprintln(w, "\n--- Return Process ---")
	fmt.Fprintln(w, "\nReturning books:")
	for _, r := range []struct {
		isbn     string
		patronID int
	}{
		{"978-0-7432-7356-5", 1},
		{"978-0-06-112008-4", 2},
	} {
		if _, err := lib.circulation.ReturnBook(ctx, r.isbn, r.patronID); err != nil {
			return err
		}
	}
	printInventory(ctx, w, lib, " after returns")

	fmt.Fprintln(w, "\n=== System Summary ===")
	fmt.Fprintf(w, "Total Books: %d\n", lib.catalog.CountBooks(ctx))
	fmt.Fprintf(w, "Total Patrons: %d\n", lib.membership.CountPatrons(ctx))
	fmt.Fprintf(w, "Available Books: %d\n", len(lib.circulation.AvailableBooks(ctx)))
	fmt.Fprintf(w, "Borrowed Books: %d\n", len(lib.circulation.BorrowedBooks(ctx)))
	fmt.Fprintf(w, "Active Loans: %d\n", len(lib.circulation.ActiveLoans(ctx)))
	fmt.Fprintln(w, "\n=== Library Management System Demo Complete ===")
	return nil
}

func printInventory(ctx context.Context, w io.Writer, lib *library, suffix string) {
	available := lib.circulation.AvailableBooks(ctx)
	fmt.Fprintf(w, "\nAvailable books%s (%d):\n", suffix, len(available))
	for _, book := range available {
		fmt.Fprintf(w, "  - %s (ISBN: %s)\n", book.Title, book.ISBN)
	}

	borrowed := lib.circulation.BorrowedBooks(ctx)
	fmt.Fprintf(w, "\nBorrowed books%s (%d):\n", suffix, len(borrowed))
	for _, book := range borrowed {
		fmt.Fprintf(w, "  - %s (ISBN: %s)\n", book.Title, book.ISBN)
	}
}
