package game

import (
	"errors"
	"fmt"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

// Status is the lifecycle stage of a single game.
type Status string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Game statuses
	StatusSetup      Status = "setup"
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDraw       Status = "draw"

	// Board geometry
	Size   = 3
	Cells  = Size * Size
	Center = 4

	// Board boundaries
	BorderMin = 0
	BorderMax = Size - 1
)

var (
	ErrOutOfBounds = errors.New("cell out of bounds")

	// Corners lists the corner cells in row-major order.
	Corners = [4]int{0, 2, 6, 8}

	// WinLines holds every row, column and diagonal of the board.
	WinLines = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Opponent returns the other player's mark. None has no opponent.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// IsTerminal reports whether no further moves are accepted in this status.
func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusDraw
}

// Board is a flat, row-major 3x3 board. It is a value type: passing it around
// copies it, so hypothetical moves never leak into the caller's board.
type Board [Cells]PlayerMark

// Index converts a row/column pair into a flat cell index.
func Index(row, col int) (int, error) {
	if row < BorderMin || row > BorderMax || col < BorderMin || col > BorderMax {
		return -1, fmt.Errorf("%w: row %d col %d", ErrOutOfBounds, row, col)
	}
	return row*Size + col, nil
}

// RowCol converts a flat cell index into a row/column pair.
func RowCol(cell int) (row, col int) {
	return cell / Size, cell % Size
}

// InBounds reports whether cell addresses a square on the board.
func InBounds(cell int) bool {
	return cell >= 0 && cell < Cells
}

// IsEmpty reports whether the cell is in bounds and unoccupied.
func (b Board) IsEmpty(cell int) bool {
	return InBounds(cell) && b[cell] == None
}

// With returns a copy of the board with mark placed on cell.
func (b Board) With(cell int, mark PlayerMark) Board {
	b[cell] = mark
	return b
}

// EmptyCells returns the indices of unoccupied cells in ascending order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, Cells)
	for i, mark := range b {
		if mark == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// IsFull reports whether every cell is occupied.
func (b Board) IsFull() bool {
	for _, mark := range b {
		if mark == None {
			return false
		}
	}
	return true
}

// Grid returns the nested row/column view of the board.
func (b Board) Grid() [Size][Size]PlayerMark {
	var grid [Size][Size]PlayerMark
	for i, mark := range b {
		row, col := RowCol(i)
		grid[row][col] = mark
	}
	return grid
}

// BoardAsRows converts the board to a dynamic slice of slices, the shape the
// nested-grid clients exchange over the wire.
func (b Board) BoardAsRows() [][]PlayerMark {
	grid := b.Grid()
	rows := make([][]PlayerMark, Size)
	for i := range grid {
		rows[i] = append([]PlayerMark(nil), grid[i][:]...)
	}
	return rows
}
