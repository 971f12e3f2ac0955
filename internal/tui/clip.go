package tui

import "github.com/mattn/go-runewidth"

// Overhead of one log line besides the two quoted titles: day prefix,
// "borrowed"/"returned" labels, quotes, and separators.
const lineOverhead = 32

// titleBudget splits the terminal width between the two possible titles of a
// log line. Zero means unconstrained.
func titleBudget(width int) int {
	if width <= 0 {
		return 0
	}
	budget := (width - lineOverhead) / 2
	if budget < 8 {
		budget = 8
	}
	return budget
}

// clipTitle shortens a title to the display-width budget. Zero budget keeps
// the title as is.
func clipTitle(title string, budget int) string {
	if budget <= 0 || runewidth.StringWidth(title) <= budget {
		return title
	}
	return runewidth.Truncate(title, budget, "…")
}
