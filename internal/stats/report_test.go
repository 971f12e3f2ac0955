package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/libsim/internal/model"
	"github.com/verte-zerg/libsim/internal/store"
)

func TestBuildArchiveReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "libsim.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	base := time.Unix(0, 0)
	for i := 0; i < 3; i++ {
		summary := model.RunSummary{
			StartedAt:         base.Add(time.Duration(i) * time.Minute),
			EndedAt:           base.Add(time.Duration(i)*time.Minute + 30*time.Second),
			Days:              5,
			TotalBorrows:      2,
			TotalReturns:      1,
			Unreturned:        1,
			MostBorrowedTitle: "A",
			MostBorrowedCount: 2,
		}
		tallies := []model.BookTally{
			{Title: "A", Author: "X", Borrows: 2},
			{Title: "B", Author: "Y", Borrows: 1},
		}
		if _, err := st.InsertRun(ctx, summary, tallies, nil); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	report, err := BuildArchiveReport(ctx, st, model.StatsConfig{Last: 2, Top: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Runs) != 2 {
		t.Fatalf("expected 2 runs after last filter, got %d", len(report.Runs))
	}
	if len(report.TopBooks) != 1 || report.TopBooks[0].Title != "A" || report.TopBooks[0].Borrows != 4 {
		t.Fatalf("unexpected top books: %+v", report.TopBooks)
	}

	var buf bytes.Buffer
	if err := WriteArchiveReport(&buf, report, true); err != nil {
		t.Fatalf("write report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Archived runs: 2", "Most borrowed across runs:", "borrows per run"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteArchiveReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteArchiveReport(&buf, ArchiveReport{}, false); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if !strings.Contains(buf.String(), "No archived runs yet") {
		t.Fatalf("expected empty-archive notice, got %q", buf.String())
	}
}

func TestWriteRunReport(t *testing.T) {
	summary := model.RunSummary{
		Days:              4,
		TotalBorrows:      2,
		TotalReturns:      1,
		Unreturned:        1,
		MostBorrowedTitle: "A",
		MostBorrowedCount: 2,
	}
	tallies := []model.BookTally{
		{Title: "A", Author: "X", Borrows: 2},
		{Title: "B", Author: "Y", Borrows: 0},
	}
	records := []model.DayRecord{
		{Day: 0, BorrowedTitle: "A"},
		{Day: 1, ReturnedTitle: "A"},
		{Day: 2, BorrowedTitle: "A"},
		{Day: 3},
	}
	var buf bytes.Buffer
	if err := WriteRunReport(&buf, summary, tallies, records); err != nil {
		t.Fatalf("write report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Simulated 4 days", "Most borrowed: A (2 times)", "Borrows per day"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "B") && strings.Contains(out, "Y") && strings.Contains(out, " 0\n") {
		t.Fatalf("never-borrowed book must not appear in top table:\n%s", out)
	}
}

func TestWriteRunReportWithoutBorrows(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRunReport(&buf, model.RunSummary{Days: 2}, nil, nil); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if !strings.Contains(buf.String(), "No book was borrowed.") {
		t.Fatalf("expected no-borrow notice, got %q", buf.String())
	}
}
