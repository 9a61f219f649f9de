package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classics(t *testing.T) []Book {
	return []Book{
		mustBook(t, "The Great Gatsby", "F. Scott Fitzgerald", "978-0-7432-7356-5", 1925),
		mustBook(t, "To Kill a Mockingbird", "Harper Lee", "978-0-06-112008-4", 1960),
		mustBook(t, "1984", "George Orwell", "978-0-452-28423-4", 1949),
		mustBook(t, "Animal Farm", "George Orwell", "978-0-452-28424-1", 1945),
		mustBook(t, "Pride and Prejudice", "Jane Austen", "978-0-14-143951-8", 1813),
	}
}

func TestSearch_ByTitle(t *testing.T) {
	results, err := Search(classics(t), "Gatsby", ByTitle)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "The Great Gatsby", results[0].Title)

	results, err = Search(classics(t), "gAtSbY", ByTitle)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_ByAuthorKeepsInputOrder(t *testing.T) {
	results, err := Search(classics(t), "orwell", ByAuthor)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1984", results[0].Title)
	assert.Equal(t, "Animal Farm", results[1].Title)
}

func TestSearch_ByISBNIsExact(t *testing.T) {
	books := classics(t)
	books[4].ISBN = "978-0-14-14395X-8"

	results, err := Search(books, "978-0-14-14395x-8", ByISBN)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Pride and Prejudice", results[0].Title)

	results, err = Search(books, "978-0-452", ByISBN)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyQuery(t *testing.T) {
	books := classics(t)

	results, err := Search(books, "", ByTitle)
	require.NoError(t, err)
	assert.Len(t, results, len(books))

	results, err = Search(books, "", ByAuthor)
	require.NoError(t, err)
	assert.Len(t, results, len(books))

	results, err = Search(books, "", ByISBN)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_NilPolicy(t *testing.T) {
	results, err := Search(classics(t), "Gatsby", nil)
	assert.ErrorIs(t, err, ErrNoSearchPolicy)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestParseSearchPolicy(t *testing.T) {
	book := mustBook(t, "Title", "Author", "ISBN-1", 2000)

	for name, query := range map[string]string{"title": "itl", "Author": "uth", "ISBN": "isbn-1"} {
		policy, err := ParseSearchPolicy(name)
		require.NoError(t, err, name)
		assert.True(t, policy(book, query), name)
	}

	_, err := ParseSearchPolicy("publisher")
	assert.Error(t, err)
}
