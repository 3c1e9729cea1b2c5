package proto

// Client message types
const (
	TypeMove  = "move"
	TypeReset = "reset"
)

// Server message types
const (
	TypeState    = "state"
	TypeMoved    = "move"
	TypeThinking = "thinking"
	TypeRejected = "rejected"
	TypeError    = "error"
)

// ClientToServerMessage represents a message from the client to the server.
// Position is [index] on flat boards and [row, col] on grid boards.
type ClientToServerMessage struct {
	Type       string `json:"type" validate:"required,oneof=move reset"`
	Position   []int  `json:"position,omitempty" validate:"required_if=Type move,max=2"`
	Difficulty string `json:"difficulty,omitempty" validate:"difficulty"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type       string `json:"type" validate:"required"`
	Reason     string `json:"reason,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
	Game       string `json:"game,omitempty"`
	Board      any    `json:"board,omitempty"`
	Side       string `json:"side,omitempty"`
	Position   []int  `json:"position,omitempty"`
	Next       string `json:"next,omitempty"`
	Status     string `json:"status,omitempty"`
	Winner     string `json:"winner,omitempty"`
	WinnerMark string `json:"winnerMark,omitempty"`
	// WinningLine lists the positions of the completed line.
	WinningLine [][]int `json:"winningLine,omitempty"`
	Difficulty  string  `json:"difficulty,omitempty"`
	Notice      string  `json:"notice,omitempty"`
	Score       *Score  `json:"score,omitempty"`
}

// Score is the running tally of a session's finished games.
type Score struct {
	Human int `json:"human"`
	AI    int `json:"ai"`
	Draws int `json:"draws"`
}
