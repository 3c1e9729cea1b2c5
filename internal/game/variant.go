package game

import (
	"errors"
	"fmt"
)

// Layout is the cell addressing a client uses.
type Layout string

const (
	LayoutFlat Layout = "flat"
	LayoutGrid Layout = "grid"
)

var (
	ErrUnknownVariant     = errors.New("unknown game")
	ErrVariantUnavailable = errors.New("game is not playable")
	ErrBadPosition        = errors.New("malformed position")
)

// Variant adapts the shared board to one game page. The tictactoe page talks
// in row/column pairs, the auraxo page in flat indices.
type Variant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Layout    Layout `json:"layout"`
	Available bool   `json:"available"`
}

var catalog = []Variant{
	{ID: "tictactoe", Name: "Tic-Tac-Toe", Layout: LayoutGrid, Available: true},
	{ID: "auraxo", Name: "Auraxo", Layout: LayoutFlat, Available: true},
	// Chess is a static placeholder page with no rules engine behind it.
	{ID: "chess", Name: "Chess", Layout: LayoutGrid, Available: false},
}

// Catalog returns every known game, playable or not.
func Catalog() []Variant {
	return append([]Variant(nil), catalog...)
}

// LookupVariant returns the playable variant with the given id.
func LookupVariant(id string) (Variant, error) {
	for _, v := range catalog {
		if v.ID != id {
			continue
		}
		if !v.Available {
			return Variant{}, fmt.Errorf("%w: %s", ErrVariantUnavailable, id)
		}
		return v, nil
	}
	return Variant{}, fmt.Errorf("%w: %s", ErrUnknownVariant, id)
}

// CellFromPosition converts a client position into a flat cell index. Flat
// variants send [index], grid variants send [row, col].
func (v Variant) CellFromPosition(position []int) (int, error) {
	switch {
	case v.Layout == LayoutFlat && len(position) == 1:
		if !InBounds(position[0]) {
			return -1, fmt.Errorf("%w: cell %d", ErrOutOfBounds, position[0])
		}
		return position[0], nil
	case v.Layout == LayoutGrid && len(position) == 2:
		return Index(position[0], position[1])
	default:
		return -1, fmt.Errorf("%w: %v for %s layout", ErrBadPosition, position, v.Layout)
	}
}

// Position converts a flat cell index into the variant's position shape.
func (v Variant) Position(cell int) []int {
	if v.Layout == LayoutGrid {
		row, col := RowCol(cell)
		return []int{row, col}
	}
	return []int{cell}
}

// Render returns the board in the variant's wire shape.
func (v Variant) Render(b Board) any {
	if v.Layout == LayoutGrid {
		return b.BoardAsRows()
	}
	return b[:]
}
