package sim

import (
	"testing"

	"github.com/verte-zerg/libsim/internal/events"
	"github.com/verte-zerg/libsim/internal/library"
	"github.com/verte-zerg/libsim/internal/model"
)

func newTestLibrary(t *testing.T, titles ...string) *library.Library {
	t.Helper()
	entries := make([]model.CatalogEntry, len(titles))
	for i, title := range titles {
		entries[i] = model.CatalogEntry{Title: title, Author: "Author " + title}
	}
	lib, err := library.New(entries)
	if err != nil {
		t.Fatalf("new library: %v", err)
	}
	return lib
}

func TestRunAllProducesOneRecordPerDay(t *testing.T) {
	lib := newTestLibrary(t, "A", "B", "C")
	cfg := model.RunConfig{Days: 20, PBorrow: 0.5, PReturn: 0.95, MinLoan: 1, MaxLoan: 14, Seed: 11}
	gen := events.NewSeeded(events.Config{PBorrow: cfg.PBorrow, PReturn: cfg.PReturn, MinLoan: cfg.MinLoan, MaxLoan: cfg.MaxLoan}, cfg.Seed)
	run := New(lib, gen, cfg)

	records := run.RunAll()
	if len(records) != 20 {
		t.Fatalf("expected 20 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.Day != i {
			t.Fatalf("record %d has day %d", i, rec.Day)
		}
	}
	if !run.Done() {
		t.Fatalf("run must be done after RunAll")
	}
}

func TestCertainBorrowAlwaysBorrowsWhileShelved(t *testing.T) {
	lib := newTestLibrary(t, "A", "B")
	cfg := model.RunConfig{Days: 2, PBorrow: 1, PReturn: 0, MinLoan: 3, MaxLoan: 3}
	gen := events.NewSeeded(events.Config{PBorrow: 1, PReturn: 0, MinLoan: 3, MaxLoan: 3}, 5)
	run := New(lib, gen, cfg)

	for i := 0; i < 2; i++ {
		rec := run.Step()
		if rec.BorrowedTitle == "" {
			t.Fatalf("day %d: expected a borrow with p=1 and books on the shelf", i)
		}
		if rec.ReturnedTitle != "" {
			t.Fatalf("day %d: expected no return with p=0", i)
		}
	}
	if got := len(lib.Available()); got != 0 {
		t.Fatalf("expected empty shelf, got %d available", got)
	}
}

func TestEmptyShelfProducesRecordWithoutBorrow(t *testing.T) {
	lib := newTestLibrary(t, "A")
	gen := events.NewSeeded(events.Config{PBorrow: 1, PReturn: 0, MinLoan: 1, MaxLoan: 1}, 5)
	run := New(lib, gen, model.RunConfig{Days: 3, PBorrow: 1, MinLoan: 1, MaxLoan: 1})

	first := run.Step()
	if first.BorrowedTitle != "A" {
		t.Fatalf("expected day 0 to borrow A, got %+v", first)
	}
	second := run.Step()
	if second.BorrowedTitle != "" {
		t.Fatalf("empty shelf must yield a record with no borrow, got %+v", second)
	}
	if books := lib.Books(); books[0].Borrows != 1 {
		t.Fatalf("empty-shelf day must not touch the library, tally %d", books[0].Borrows)
	}
}

func TestBorrowedBookComesBack(t *testing.T) {
	lib := newTestLibrary(t, "A")
	gen := events.NewSeeded(events.Config{PBorrow: 0, PReturn: 1, MinLoan: 1, MaxLoan: 1}, 5)
	run := New(lib, gen, model.RunConfig{Days: 1, PReturn: 1, MinLoan: 1, MaxLoan: 1})

	if err := lib.Borrow("A", 0, 1); err != nil {
		t.Fatalf("seed borrow: %v", err)
	}
	rec := run.Step()
	if rec.ReturnedTitle != "A" {
		t.Fatalf("expected A returned, got %+v", rec)
	}
	if got := len(lib.Available()); got != 1 {
		t.Fatalf("expected A back on the shelf, got %d available", got)
	}
}

func TestBookInvariantHoldsAcrossRun(t *testing.T) {
	lib := newTestLibrary(t, "A", "B", "C", "D")
	gen := events.NewSeeded(events.Config{PBorrow: 0.8, PReturn: 0.6, MinLoan: 1, MaxLoan: 5}, 77)
	run := New(lib, gen, model.RunConfig{Days: 50, PBorrow: 0.8, PReturn: 0.6, MinLoan: 1, MaxLoan: 5})

	for !run.Done() {
		run.Step()
		for _, book := range lib.Books() {
			if book.Borrowed != (book.DueDay != nil) {
				t.Fatalf("day %d: book %q violates borrowed/due-day invariant: %+v", run.Day(), book.Title, book)
			}
		}
	}
}

func TestSummaryAggregates(t *testing.T) {
	lib := newTestLibrary(t, "A", "B")
	cfg := model.RunConfig{Days: 2, PBorrow: 1, PReturn: 0, MinLoan: 2, MaxLoan: 2, Seed: 9}
	gen := events.NewSeeded(events.Config{PBorrow: 1, PReturn: 0, MinLoan: 2, MaxLoan: 2}, 9)
	run := New(lib, gen, cfg)
	run.RunAll()

	summary := run.Summary()
	if summary.Days != 2 || summary.TotalBorrows != 2 || summary.TotalReturns != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Unreturned != 2 {
		t.Fatalf("expected 2 unreturned, got %d", summary.Unreturned)
	}
	if summary.MostBorrowedTitle == "" || summary.MostBorrowedCount != 1 {
		t.Fatalf("expected a most-borrowed book with count 1, got %+v", summary)
	}
	if summary.Seed != 9 {
		t.Fatalf("summary must echo the seed, got %d", summary.Seed)
	}
}

func TestSummaryWithoutBorrows(t *testing.T) {
	lib := newTestLibrary(t, "A")
	gen := events.NewSeeded(events.Config{PBorrow: 0, PReturn: 0, MinLoan: 1, MaxLoan: 1}, 9)
	run := New(lib, gen, model.RunConfig{Days: 5, MinLoan: 1, MaxLoan: 1})
	run.RunAll()

	summary := run.Summary()
	if summary.MostBorrowedTitle != "" || summary.MostBorrowedCount != 0 {
		t.Fatalf("expected no most-borrowed book, got %+v", summary)
	}
}
