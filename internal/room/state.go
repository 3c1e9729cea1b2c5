package room

import (
	"ctchen222/AI-Arcade/internal/game"
	"ctchen222/AI-Arcade/internal/session"
	"ctchen222/AI-Arcade/pkg/proto"
)

// reportNotice is shown when a finished game could not be saved to the
// player's statistics.
const reportNotice = "result could not be saved to your statistics"

func (r *Room) stateMessage() *proto.ServerToClientMessage {
	state := r.controller.Snapshot()
	msg := r.fromState(proto.TypeState, state)
	msg.Game = r.controller.Variant().ID
	msg.Score = &proto.Score{
		Human: state.Score.Human,
		AI:    state.Score.AI,
		Draws: state.Score.Draws,
	}
	return msg
}

func (r *Room) moveMessage(update session.Update) *proto.ServerToClientMessage {
	msg := r.fromState(proto.TypeMoved, update.State)
	msg.Side = string(update.Side)
	msg.Position = r.controller.Variant().Position(update.Cell)
	if update.ReportErr != nil {
		msg.Notice = reportNotice
	}
	return msg
}

func (r *Room) fromState(msgType string, state session.State) *proto.ServerToClientMessage {
	msg := &proto.ServerToClientMessage{
		Type:       msgType,
		SessionID:  r.ID,
		Board:      r.controller.Variant().Render(state.Board),
		Next:       string(state.SideToMove),
		Status:     string(state.Status),
		Winner:     string(state.Winner),
		Difficulty: state.Difficulty.String(),
	}
	if state.WinnerMark != game.None {
		msg.WinnerMark = string(state.WinnerMark)
	}
	for _, cell := range state.WinningLine {
		msg.WinningLine = append(msg.WinningLine, r.controller.Variant().Position(cell))
	}
	return msg
}
