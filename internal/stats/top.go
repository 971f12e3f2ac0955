package stats

import (
	"sort"

	"github.com/verte-zerg/libsim/internal/model"
)

// TopBooks returns the n most-borrowed books. Ties keep catalog order, so the
// first-inserted book wins. Books never borrowed are excluded.
func TopBooks(tallies []model.BookTally, n int) []model.BookTally {
	if n <= 0 || len(tallies) == 0 {
		return nil
	}
	out := make([]model.BookTally, 0, len(tallies))
	for _, tally := range tallies {
		if tally.Borrows == 0 {
			continue
		}
		out = append(out, tally)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Borrows > out[j].Borrows
	})
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}

// MergeTallies sums per-book borrow counts across runs, keeping the order in
// which titles first appear.
func MergeTallies(tallies []model.BookTally) []model.BookTally {
	index := map[string]int{}
	var out []model.BookTally
	for _, tally := range tallies {
		if i, ok := index[tally.Title]; ok {
			out[i].Borrows += tally.Borrows
			continue
		}
		index[tally.Title] = len(out)
		out = append(out, tally)
	}
	return out
}
