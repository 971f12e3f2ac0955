// Package events produces the randomized decisions driving a simulation day.
package events

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/libsim/internal/model"
)

// Config holds the probability and loan-range settings for a generator.
type Config struct {
	PBorrow float64
	PReturn float64
	MinLoan int
	MaxLoan int
}

// Generator decides whether borrows and returns happen and picks the books
// involved. All randomness of a run lives here; the library state stays
// deterministic.
type Generator struct {
	rnd *rand.Rand
	cfg Config
}

// New returns a Generator seeded with the current time.
func New(cfg Config) *Generator {
	return NewSeeded(cfg, time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed for reproducible runs.
func NewSeeded(cfg Config, seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed)), cfg: cfg}
}

// RollBorrow reports whether a borrow attempt happens today.
func (g *Generator) RollBorrow() bool {
	return g.roll(g.cfg.PBorrow)
}

// RollReturn reports whether a return attempt happens today, independent of
// the borrow roll.
func (g *Generator) RollReturn() bool {
	return g.roll(g.cfg.PReturn)
}

// DueOffset returns a uniform loan length in [MinLoan, MaxLoan] inclusive.
func (g *Generator) DueOffset() int {
	span := g.cfg.MaxLoan - g.cfg.MinLoan
	if span <= 0 {
		return g.cfg.MinLoan
	}
	return g.cfg.MinLoan + g.rnd.Intn(span+1)
}

// PickAvailable chooses one book uniformly from the available snapshot.
// Returns false when there is nothing to borrow; that is a normal outcome.
func (g *Generator) PickAvailable(books []model.Book) (model.Book, bool) {
	return g.pick(books)
}

// PickBorrowed chooses one book uniformly from the borrowed snapshot.
// Returns false when there is nothing to return.
func (g *Generator) PickBorrowed(books []model.Book) (model.Book, bool) {
	return g.pick(books)
}

func (g *Generator) roll(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return g.rnd.Float64() < p
}

func (g *Generator) pick(books []model.Book) (model.Book, bool) {
	if len(books) == 0 {
		return model.Book{}, false
	}
	return books[g.rnd.Intn(len(books))], true
}
