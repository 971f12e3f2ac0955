// Package model defines shared data structures.
package model

import "time"

// CatalogEntry is one row of the book catalog.
type CatalogEntry struct {
	Title  string
	Author string
}

// Book is one catalog entry plus its circulation state.
// Borrowed and DueDay move together: DueDay is set iff the book is out.
type Book struct {
	Title    string
	Author   string
	Borrowed bool
	DueDay   *int
	Borrows  int
}

// DayRecord logs what happened on one simulated day.
// Empty titles mean no borrow/return occurred.
type DayRecord struct {
	Day           int
	BorrowedTitle string
	ReturnedTitle string
}

// RunConfig defines simulation settings.
type RunConfig struct {
	Days        int
	PBorrow     float64
	PReturn     float64
	MinLoan     int
	MaxLoan     int
	Seed        int64
	CatalogPath string
}

// RunSummary captures a completed simulation run.
type RunSummary struct {
	StartedAt         time.Time
	EndedAt           time.Time
	Days              int
	Seed              int64
	PBorrow           float64
	PReturn           float64
	MinLoan           int
	MaxLoan           int
	CatalogPath       string
	TotalBorrows      int
	TotalReturns      int
	Unreturned        int
	MostBorrowedTitle string
	MostBorrowedCount int
}

// BookTally is a per-book borrow count for reports and the archive.
type BookTally struct {
	Title   string
	Author  string
	Borrows int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since *time.Time
	Last  int
	Top   int
}

// RunAggregate summarizes an archived run for reporting.
type RunAggregate struct {
	RunID             int64
	EndedAt           time.Time
	Days              int
	TotalBorrows      int
	TotalReturns      int
	Unreturned        int
	MostBorrowedTitle string
	MostBorrowedCount int
}
