package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/libsim/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "libsim.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleSummary(end time.Time) model.RunSummary {
	return model.RunSummary{
		StartedAt:         end.Add(-time.Second),
		EndedAt:           end,
		Days:              10,
		Seed:              42,
		PBorrow:           0.5,
		PReturn:           0.95,
		MinLoan:           1,
		MaxLoan:           14,
		CatalogPath:       "catalog.csv",
		TotalBorrows:      4,
		TotalReturns:      3,
		Unreturned:        1,
		MostBorrowedTitle: "A",
		MostBorrowedCount: 3,
	}
}

func TestInsertAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Unix(0, 0)
	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := st.InsertRun(ctx, sampleSummary(base.Add(time.Duration(i)*time.Minute)),
			[]model.BookTally{
				{Title: "A", Author: "X", Borrows: 3},
				{Title: "B", Author: "Y", Borrows: 1},
			},
			[]model.DayRecord{
				{Day: 0, BorrowedTitle: "A"},
				{Day: 1, BorrowedTitle: "B", ReturnedTitle: "A"},
			})
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := st.ListRuns(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].RunID != ids[0] || runs[2].RunID != ids[2] {
		t.Fatalf("runs must come back in ended_at order: %+v", runs)
	}
	if runs[0].MostBorrowedTitle != "A" || runs[0].TotalBorrows != 4 {
		t.Fatalf("unexpected run aggregate: %+v", runs[0])
	}
}

func TestListRunsSinceFilter(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Unix(0, 0)
	for i := 0; i < 3; i++ {
		if _, err := st.InsertRun(ctx, sampleSummary(base.Add(time.Duration(i)*time.Hour)), nil, nil); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}
	since := base.Add(90 * time.Minute)
	runs, err := st.ListRuns(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run after since filter, got %d", len(runs))
	}
}

func TestListBookTalliesSumsAcrossRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Unix(0, 0)
	var ids []int64
	for i := 0; i < 2; i++ {
		id, err := st.InsertRun(ctx, sampleSummary(base.Add(time.Duration(i)*time.Minute)),
			[]model.BookTally{
				{Title: "A", Author: "X", Borrows: 2},
				{Title: "B", Author: "Y", Borrows: 1},
			}, nil)
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	tallies, err := st.ListBookTalliesForRuns(ctx, ids)
	if err != nil {
		t.Fatalf("list tallies: %v", err)
	}
	if len(tallies) != 2 {
		t.Fatalf("expected 2 tallies, got %d", len(tallies))
	}
	if tallies[0].Title != "A" || tallies[0].Borrows != 4 {
		t.Fatalf("expected A summed to 4, got %+v", tallies[0])
	}

	empty, err := st.ListBookTalliesForRuns(ctx, nil)
	if err != nil {
		t.Fatalf("list tallies for no runs: %v", err)
	}
	if empty != nil {
		t.Fatalf("expected nil tallies for no runs, got %+v", empty)
	}
}

func TestListDayRecords(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	records := []model.DayRecord{
		{Day: 0, BorrowedTitle: "A"},
		{Day: 1},
		{Day: 2, ReturnedTitle: "A"},
	}
	id, err := st.InsertRun(ctx, sampleSummary(time.Unix(0, 0)), nil, records)
	if err != nil {
		t.Fatalf("insert run: %v", err)
	}
	got, err := st.ListDayRecords(ctx, id)
	if err != nil {
		t.Fatalf("list day records: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, rec := range got {
		if rec != records[i] {
			t.Fatalf("record %d mismatch: got %+v want %+v", i, rec, records[i])
		}
	}
}
