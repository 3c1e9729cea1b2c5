package game

// Result is the terminal-state verdict for a board.
type Result struct {
	Winner PlayerMark
	IsDraw bool
}

// IsTerminal reports whether the board has a winner or is drawn.
func (r Result) IsTerminal() bool {
	return r.Winner != None || r.IsDraw
}

// Status maps the verdict onto a game status.
func (r Result) Status() Status {
	switch {
	case r.Winner != None:
		return StatusWon
	case r.IsDraw:
		return StatusDraw
	default:
		return StatusInProgress
	}
}

// Evaluate checks all eight lines for three identical non-empty marks. With
// alternating single-cell mutations at most one mark can complete a line, so
// the first match is the winner.
func Evaluate(b Board) Result {
	for _, line := range WinLines {
		a := b[line[0]]
		if a != None && a == b[line[1]] && a == b[line[2]] {
			return Result{Winner: a}
		}
	}
	return Result{IsDraw: b.IsFull()}
}

// WinningLine returns the line completed by mark, if any.
func WinningLine(b Board, mark PlayerMark) ([3]int, bool) {
	if mark == None {
		return [3]int{}, false
	}
	for _, line := range WinLines {
		if b[line[0]] == mark && b[line[1]] == mark && b[line[2]] == mark {
			return line, true
		}
	}
	return [3]int{}, false
}
