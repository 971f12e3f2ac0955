package events

import (
	"testing"

	"github.com/verte-zerg/libsim/internal/model"
)

func TestRollBoundaries(t *testing.T) {
	gen := NewSeeded(Config{PBorrow: 0, PReturn: 1, MinLoan: 1, MaxLoan: 14}, 1)
	for i := 0; i < 100; i++ {
		if gen.RollBorrow() {
			t.Fatalf("p=0 must never roll true")
		}
		if !gen.RollReturn() {
			t.Fatalf("p=1 must always roll true")
		}
	}
}

func TestRollProbabilityRoughlyHolds(t *testing.T) {
	gen := NewSeeded(Config{PBorrow: 0.5}, 42)
	hits := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if gen.RollBorrow() {
			hits++
		}
	}
	if hits < n/3 || hits > 2*n/3 {
		t.Fatalf("p=0.5 produced %d/%d hits", hits, n)
	}
}

func TestDueOffsetStaysInRange(t *testing.T) {
	gen := NewSeeded(Config{MinLoan: 1, MaxLoan: 14}, 7)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		offset := gen.DueOffset()
		if offset < 1 || offset > 14 {
			t.Fatalf("offset %d outside [1, 14]", offset)
		}
		seen[offset] = true
	}
	if len(seen) < 10 {
		t.Fatalf("expected most offsets to be hit, got %d distinct", len(seen))
	}
}

func TestDueOffsetDegenerateRange(t *testing.T) {
	gen := NewSeeded(Config{MinLoan: 3, MaxLoan: 3}, 7)
	for i := 0; i < 10; i++ {
		if offset := gen.DueOffset(); offset != 3 {
			t.Fatalf("expected offset 3, got %d", offset)
		}
	}
}

func TestPickEmptyIsNotAnError(t *testing.T) {
	gen := NewSeeded(Config{}, 1)
	if _, ok := gen.PickAvailable(nil); ok {
		t.Fatalf("picking from empty available set must report false")
	}
	if _, ok := gen.PickBorrowed(nil); ok {
		t.Fatalf("picking from empty borrowed set must report false")
	}
}

func TestPickCoversAllBooks(t *testing.T) {
	gen := NewSeeded(Config{}, 3)
	books := []model.Book{
		{Title: "A"}, {Title: "B"}, {Title: "C"},
	}
	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		book, ok := gen.PickAvailable(books)
		if !ok {
			t.Fatalf("pick from non-empty set must succeed")
		}
		seen[book.Title] = true
	}
	if len(seen) != len(books) {
		t.Fatalf("uniform pick should reach every book, saw %d of %d", len(seen), len(books))
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	cfg := Config{PBorrow: 0.5, PReturn: 0.95, MinLoan: 1, MaxLoan: 14}
	a := NewSeeded(cfg, 99)
	b := NewSeeded(cfg, 99)
	for i := 0; i < 50; i++ {
		if a.RollBorrow() != b.RollBorrow() || a.DueOffset() != b.DueOffset() {
			t.Fatalf("same seed must produce the same decision stream")
		}
	}
}
