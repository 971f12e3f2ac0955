package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/libsim/internal/model"
	"github.com/verte-zerg/libsim/internal/store"
)

const defaultTopBooks = 10

// ArchiveReport contains precomputed data for archive stats rendering.
type ArchiveReport struct {
	Runs     []model.RunAggregate
	TopBooks []model.BookTally
}

// BuildArchiveReport loads and prepares archived-run data for rendering.
func BuildArchiveReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (ArchiveReport, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return ArchiveReport{}, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}

	ids := make([]int64, len(runs))
	for i, run := range runs {
		ids[i] = run.RunID
	}
	tallies, err := st.ListBookTalliesForRuns(ctx, ids)
	if err != nil {
		return ArchiveReport{}, err
	}
	top := cfg.Top
	if top <= 0 {
		top = defaultTopBooks
	}

	return ArchiveReport{
		Runs:     runs,
		TopBooks: TopBooks(tallies, top),
	}, nil
}

// WriteArchiveReport renders the archive report as plain text.
func WriteArchiveReport(w io.Writer, report ArchiveReport, showChart bool) error {
	if len(report.Runs) == 0 {
		_, err := fmt.Fprintln(w, "No archived runs yet. Finish a simulation first: libsim")
		return err
	}

	if _, err := fmt.Fprintf(w, "Archived runs: %d\n\n", len(report.Runs)); err != nil {
		return err
	}
	headers := []string{"Run", "Finished", "Days", "Borrows", "Returns", "Unreturned", "Most borrowed"}
	rows := make([][]string, 0, len(report.Runs))
	for _, run := range report.Runs {
		most := "-"
		if run.MostBorrowedTitle != "" {
			most = fmt.Sprintf("%s (%d)", run.MostBorrowedTitle, run.MostBorrowedCount)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", run.RunID),
			run.EndedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", run.Days),
			fmt.Sprintf("%d", run.TotalBorrows),
			fmt.Sprintf("%d", run.TotalReturns),
			fmt.Sprintf("%d", run.Unreturned),
			most,
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(report.TopBooks) > 0 {
		if _, err := fmt.Fprintf(w, "\nMost borrowed across runs:\n"); err != nil {
			return err
		}
		if err := writeTopBooks(w, report.TopBooks); err != nil {
			return err
		}
	}

	if showChart {
		borrows := make([]float64, len(report.Runs))
		unreturned := make([]float64, len(report.Runs))
		for i, run := range report.Runs {
			borrows[i] = float64(run.TotalBorrows)
			unreturned[i] = float64(run.Unreturned)
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
		series := []Series{
			{Name: "borrows per run", Values: borrows},
			{Name: "unreturned per run", Values: unreturned},
		}
		if err := RenderChart(w, "Borrow activity across runs", series, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

// WriteRunReport renders the final summary of one finished run.
func WriteRunReport(w io.Writer, summary model.RunSummary, tallies []model.BookTally, records []model.DayRecord) error {
	if _, err := fmt.Fprintf(w, "Simulated %d days: %d borrows, %d returns, %d books still out.\n",
		summary.Days, summary.TotalBorrows, summary.TotalReturns, summary.Unreturned); err != nil {
		return err
	}
	if summary.MostBorrowedTitle == "" {
		if _, err := fmt.Fprintln(w, "No book was borrowed."); err != nil {
			return err
		}
		return nil
	}
	if _, err := fmt.Fprintf(w, "Most borrowed: %s (%d times).\n\n",
		summary.MostBorrowedTitle, summary.MostBorrowedCount); err != nil {
		return err
	}

	if err := writeTopBooks(w, TopBooks(tallies, defaultTopBooks)); err != nil {
		return err
	}

	if len(records) > 1 {
		if _, err := fmt.Fprintf(w, "\nBorrows per day  %s\n", Sparkline(BorrowsPerDay(records))); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Books out        %s\n", Sparkline(OutstandingPerDay(records))); err != nil {
			return err
		}
	}
	return nil
}

func writeTopBooks(w io.Writer, top []model.BookTally) error {
	rows := make([][]string, 0, len(top))
	for i, tally := range top {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			tally.Title,
			tally.Author,
			fmt.Sprintf("%d", tally.Borrows),
		})
	}
	for _, line := range formatTable([]string{"#", "Title", "Author", "Borrows"}, rows, map[int]bool{0: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
