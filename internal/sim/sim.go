// Package sim drives a library simulation one day at a time.
package sim

import (
	"fmt"
	"time"

	"github.com/verte-zerg/libsim/internal/events"
	"github.com/verte-zerg/libsim/internal/library"
	"github.com/verte-zerg/libsim/internal/model"
)

// Run owns the day counter and the day-record log for one simulation.
// A Run exclusively owns its Library; runs never share state.
type Run struct {
	cfg       model.RunConfig
	lib       *library.Library
	gen       *events.Generator
	day       int
	records   []model.DayRecord
	startedAt time.Time
}

// New builds a Run over an initialized library and generator.
func New(lib *library.Library, gen *events.Generator, cfg model.RunConfig) *Run {
	return &Run{
		cfg:       cfg,
		lib:       lib,
		gen:       gen,
		records:   make([]model.DayRecord, 0, cfg.Days),
		startedAt: time.Now(),
	}
}

// Step simulates one day: a borrow attempt, then a return attempt, then the
// day record. An empty pick (nothing on the shelf, nothing out) produces a
// record with no borrow/return; the library is not called in that case.
func (r *Run) Step() model.DayRecord {
	record := model.DayRecord{Day: r.day}

	if r.gen.RollBorrow() {
		if book, ok := r.gen.PickAvailable(r.lib.Available()); ok {
			if err := r.lib.Borrow(book.Title, r.day, r.gen.DueOffset()); err != nil {
				// The pick came from the available snapshot, so a guard
				// failure here is a driver bug.
				panic(fmt.Sprintf("sim: borrow %q on day %d: %v", book.Title, r.day, err))
			}
			record.BorrowedTitle = book.Title
		}
	}

	if r.gen.RollReturn() {
		if book, ok := r.gen.PickBorrowed(r.lib.BorrowedBooks()); ok {
			if err := r.lib.Return(book.Title, r.day); err != nil {
				panic(fmt.Sprintf("sim: return %q on day %d: %v", book.Title, r.day, err))
			}
			record.ReturnedTitle = book.Title
		}
	}

	r.records = append(r.records, record)
	r.day++
	return record
}

// Done reports whether all configured days have been simulated.
func (r *Run) Done() bool {
	return r.day >= r.cfg.Days
}

// Day returns the next day index to simulate.
func (r *Run) Day() int {
	return r.day
}

// Days returns the configured run length.
func (r *Run) Days() int {
	return r.cfg.Days
}

// Records returns the day records accumulated so far.
func (r *Run) Records() []model.DayRecord {
	return r.records
}

// Library exposes the run's library for summary queries.
func (r *Run) Library() *library.Library {
	return r.lib
}

// RunAll steps through every remaining day and returns the full record log.
func (r *Run) RunAll() []model.DayRecord {
	for !r.Done() {
		r.Step()
	}
	return r.records
}

// Summary aggregates the run's records and final library state.
func (r *Run) Summary() model.RunSummary {
	summary := model.RunSummary{
		StartedAt:    r.startedAt,
		EndedAt:      time.Now(),
		Days:         r.day,
		Seed:         r.cfg.Seed,
		PBorrow:      r.cfg.PBorrow,
		PReturn:      r.cfg.PReturn,
		MinLoan:      r.cfg.MinLoan,
		MaxLoan:      r.cfg.MaxLoan,
		CatalogPath:  r.cfg.CatalogPath,
		TotalBorrows: library.TotalBorrows(r.records),
		TotalReturns: library.TotalReturns(r.records),
		Unreturned:   r.lib.UnreturnedCount(),
	}
	if top, ok := r.lib.MostBorrowed(); ok {
		summary.MostBorrowedTitle = top.Title
		summary.MostBorrowedCount = top.Borrows
	}
	return summary
}
