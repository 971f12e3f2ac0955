// Package library maintains per-book availability and borrow tallies.
package library

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/libsim/internal/model"
)

// Initialization and operation guard errors. Guard errors indicate driver
// misuse, not a normal simulation outcome.
var (
	ErrInvalidCatalog  = errors.New("invalid catalog")
	ErrNotFound        = errors.New("book not found")
	ErrAlreadyBorrowed = errors.New("book already borrowed")
	ErrNotBorrowed     = errors.New("book not borrowed")
)

// Library owns the catalog state for one simulation run. Books keep catalog
// order; titles are unique and act as book identity.
type Library struct {
	books []*model.Book
	index map[string]int
}

// New builds a Library with one available book per catalog entry.
func New(entries []model.CatalogEntry) (*Library, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrInvalidCatalog)
	}
	lib := &Library{
		books: make([]*model.Book, 0, len(entries)),
		index: make(map[string]int, len(entries)),
	}
	for i, entry := range entries {
		if entry.Title == "" || entry.Author == "" {
			return nil, fmt.Errorf("%w: row %d is missing title or author", ErrInvalidCatalog, i)
		}
		if _, ok := lib.index[entry.Title]; ok {
			return nil, fmt.Errorf("%w: duplicate title %q", ErrInvalidCatalog, entry.Title)
		}
		lib.index[entry.Title] = len(lib.books)
		lib.books = append(lib.books, &model.Book{Title: entry.Title, Author: entry.Author})
	}
	return lib, nil
}

// Borrow marks the book as borrowed until day+dueOffset and bumps its tally.
func (l *Library) Borrow(title string, day, dueOffset int) error {
	book, err := l.lookup(title)
	if err != nil {
		return err
	}
	if book.Borrowed {
		return fmt.Errorf("%w: %q", ErrAlreadyBorrowed, title)
	}
	due := day + dueOffset
	book.Borrowed = true
	book.DueDay = &due
	book.Borrows++
	return nil
}

// Return marks the book as available again. Overdue returns are accepted
// silently; the due day is informational only.
func (l *Library) Return(title string, day int) error {
	book, err := l.lookup(title)
	if err != nil {
		return err
	}
	if !book.Borrowed {
		return fmt.Errorf("%w: %q", ErrNotBorrowed, title)
	}
	book.Borrowed = false
	book.DueDay = nil
	return nil
}

// Available returns a snapshot of books currently on the shelf, in catalog order.
func (l *Library) Available() []model.Book {
	return l.filter(func(b *model.Book) bool { return !b.Borrowed })
}

// BorrowedBooks returns a snapshot of books currently out, in catalog order.
func (l *Library) BorrowedBooks() []model.Book {
	return l.filter(func(b *model.Book) bool { return b.Borrowed })
}

// Books returns a snapshot of the full catalog in catalog order.
func (l *Library) Books() []model.Book {
	return l.filter(func(*model.Book) bool { return true })
}

// MostBorrowed returns the book with the highest tally. Ties break by catalog
// order. Returns false when no borrow has ever occurred.
func (l *Library) MostBorrowed() (model.BookTally, bool) {
	best := -1
	for i, book := range l.books {
		if book.Borrows == 0 {
			continue
		}
		if best < 0 || book.Borrows > l.books[best].Borrows {
			best = i
		}
	}
	if best < 0 {
		return model.BookTally{}, false
	}
	book := l.books[best]
	return model.BookTally{Title: book.Title, Author: book.Author, Borrows: book.Borrows}, true
}

// Tallies returns per-book borrow counts in catalog order.
func (l *Library) Tallies() []model.BookTally {
	tallies := make([]model.BookTally, len(l.books))
	for i, book := range l.books {
		tallies[i] = model.BookTally{Title: book.Title, Author: book.Author, Borrows: book.Borrows}
	}
	return tallies
}

// UnreturnedCount returns how many books are currently out.
func (l *Library) UnreturnedCount() int {
	count := 0
	for _, book := range l.books {
		if book.Borrowed {
			count++
		}
	}
	return count
}

// TotalBorrows counts day records with a successful borrow.
func TotalBorrows(records []model.DayRecord) int {
	count := 0
	for _, rec := range records {
		if rec.BorrowedTitle != "" {
			count++
		}
	}
	return count
}

// TotalReturns counts day records with a successful return.
func TotalReturns(records []model.DayRecord) int {
	count := 0
	for _, rec := range records {
		if rec.ReturnedTitle != "" {
			count++
		}
	}
	return count
}

func (l *Library) lookup(title string) (*model.Book, error) {
	idx, ok := l.index[title]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return l.books[idx], nil
}

func (l *Library) filter(keep func(*model.Book) bool) []model.Book {
	var out []model.Book
	for _, book := range l.books {
		if !keep(book) {
			continue
		}
		copied := *book
		if book.DueDay != nil {
			due := *book.DueDay
			copied.DueDay = &due
		}
		out = append(out, copied)
	}
	return out
}
