// Package book defines the opening-book collaborator interface the
// engine searches through before falling back to its own search.
// Book learning is out of scope (spec.md §1 Non-goals); this package
// exists only as the seam, grounded on herohde-morlock's pattern of
// depending on a narrow engine.Book interface rather than a concrete
// implementation.
package book

import "github.com/kvchess/timecat/engine"

// Book looks up known-good replies for a position.
type Book interface {
	// Find returns candidate moves for pos, or nil if pos isn't in the
	// book.
	Find(pos *engine.Position) []engine.Move
}

// None is a Book that never has anything to offer.
type None struct{}

func (None) Find(*engine.Position) []engine.Move { return nil }
