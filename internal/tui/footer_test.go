package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/libsim/internal/events"
	"github.com/verte-zerg/libsim/internal/library"
	"github.com/verte-zerg/libsim/internal/model"
	"github.com/verte-zerg/libsim/internal/sim"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	lib, err := library.New([]model.CatalogEntry{
		{Title: "A", Author: "X"},
		{Title: "B", Author: "Y"},
	})
	if err != nil {
		t.Fatalf("new library: %v", err)
	}
	gen := events.NewSeeded(events.Config{PBorrow: 1, PReturn: 0, MinLoan: 2, MaxLoan: 2}, 1)
	run := sim.New(lib, gen, model.RunConfig{Days: 2, PBorrow: 1, MinLoan: 2, MaxLoan: 2})
	return NewModel(run)
}

func TestTickStepsOneDay(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tickMsg{})
	m = updated.(*Model)
	if len(m.records) != 1 {
		t.Fatalf("expected 1 record after one tick, got %d", len(m.records))
	}
	if cmd == nil {
		t.Fatalf("expected a follow-up tick while the run is not done")
	}
	updated, cmd = m.Update(tickMsg{})
	m = updated.(*Model)
	if !m.done {
		t.Fatalf("expected model to be done after the last day")
	}
	if cmd != nil {
		t.Fatalf("expected no tick after the run is done")
	}
}

func TestPauseSkipsSteps(t *testing.T) {
	m := newTestModel(t)
	m.paused = true
	updated, cmd := m.Update(tickMsg{})
	m = updated.(*Model)
	if len(m.records) != 0 {
		t.Fatalf("paused model must not step, got %d records", len(m.records))
	}
	if cmd == nil {
		t.Fatalf("paused model must keep ticking")
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tickMsg{})
	m = updated.(*Model)
	out := m.renderFooter()
	for _, want := range []string{"Day 1/2", "Borrows 1", "Out 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestFormatDayLine(t *testing.T) {
	line := FormatDayLine(model.DayRecord{Day: 3, BorrowedTitle: "A", ReturnedTitle: "B"})
	for _, want := range []string{"Day   3", `borrowed "A"`, `returned "B"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("line missing %q: %s", want, line)
		}
	}
	quiet := FormatDayLine(model.DayRecord{Day: 0})
	if !strings.Contains(quiet, "no activity") {
		t.Fatalf("expected quiet-day line, got %s", quiet)
	}
}
