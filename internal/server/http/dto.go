package httpserver

import (
	"fmt"
	"time"

	"crowdchess/internal/chess"
	"crowdchess/internal/server/game"
	"crowdchess/internal/tally"
)

// MoveDTO is a move as clients send it: algebraic squares plus an optional
// promotion piece ("q", "knight", ...) and the "castling" tag for the rook
// leg of a castle.
type MoveDTO struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Promotion string `json:"promotion,omitempty"`
	Tag       string `json:"tag,omitempty"`
}

func dtoToMove(m MoveDTO) chess.Move {
	return chess.Move{
		Start:     chess.Square(m.Start),
		End:       chess.Square(m.End),
		Promotion: chess.ParsePieceKind(m.Promotion),
		Tag:       chess.MoveTag(m.Tag),
	}
}

func moveToDTO(m chess.Move) MoveDTO {
	return MoveDTO{
		Start:     string(m.Start),
		End:       string(m.End),
		Promotion: m.Promotion.String(),
		Tag:       string(m.Tag),
	}
}

type RecordedMoveDTO struct {
	Position int     `json:"position"`
	Move     MoveDTO `json:"move"`
}

func recordedToDTO(rs []chess.RecordedMove) []RecordedMoveDTO {
	out := make([]RecordedMoveDTO, len(rs))
	for i, r := range rs {
		out[i] = RecordedMoveDTO{Position: r.Position, Move: moveToDTO(r.Move)}
	}
	return out
}

type OutcomeDTO struct {
	Status string `json:"status"`
	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func outcomeToDTO(o chess.Outcome) OutcomeDTO {
	dto := OutcomeDTO{Status: o.Status.String(), Reason: string(o.Reason)}
	if o.Winner != chess.NoColor {
		dto.Winner = o.Winner.String()
	}
	return dto
}

// GameResponse is the current state of a game.
type GameResponse struct {
	GameID            string              `json:"game_id"`
	CreatedAt         time.Time           `json:"created_at"`
	LastPlayed        time.Time           `json:"last_played"`
	Over              bool                `json:"over"`
	VoteWindowSeconds int                 `json:"vote_window_seconds"`
	ToMove            string              `json:"to_move"`
	MoveNumber        int                 `json:"move_number"`
	Board             []string            `json:"board"`
	Hash              string              `json:"hash"`
	LegalMoves        map[string][]string `json:"legal_moves"`
	Outcome           OutcomeDTO          `json:"outcome"`
}

func snapshotToResponse(s game.Snapshot) GameResponse {
	legal := make(map[string][]string, len(s.Legal))
	for from, dests := range s.Legal {
		to := make([]string, len(dests))
		for i, d := range dests {
			to[i] = string(d)
		}
		legal[string(from)] = to
	}
	return GameResponse{
		GameID:            s.Game.ID,
		CreatedAt:         s.Game.CreatedAt,
		LastPlayed:        s.Game.LastPlayed,
		Over:              s.Game.Over,
		VoteWindowSeconds: int(s.Game.VoteWindow / time.Second),
		ToMove:            s.ToMove().String(),
		MoveNumber:        s.State.MoveNumber,
		Board:             s.State.Board.Lines(),
		Hash:              fmt.Sprintf("%016x", s.Hash),
		LegalMoves:        legal,
		Outcome:           outcomeToDTO(s.Outcome),
	}
}

type HistoryResponse struct {
	GameID string            `json:"game_id"`
	Moves  []RecordedMoveDTO `json:"moves"`
}

type VoteResponse struct {
	VoteID string  `json:"vote_id"`
	GameID string  `json:"game_id"`
	Move   MoveDTO `json:"move"`
}

type VoteCountDTO struct {
	Move  MoveDTO `json:"move"`
	Count int     `json:"count"`
}

func recordsToDTO(rs []tally.VoteRecord) []VoteCountDTO {
	out := make([]VoteCountDTO, len(rs))
	for i, r := range rs {
		out[i] = VoteCountDTO{Move: moveToDTO(r.Move), Count: r.Count}
	}
	return out
}

type TallyResponse struct {
	GameID string         `json:"game_id"`
	Votes  []VoteCountDTO `json:"votes"`
}

// RoundResponse reports a played move, either a resolved vote or a direct
// move. Winner is absent when the round was skipped.
type RoundResponse struct {
	GameID  string           `json:"game_id"`
	Skipped bool             `json:"skipped"`
	Winner  *RecordedMoveDTO `json:"winner,omitempty"`
	Votes   []VoteCountDTO   `json:"votes,omitempty"`
	Outcome OutcomeDTO       `json:"outcome"`
}

func roundToResponse(r game.RoundResult) RoundResponse {
	resp := RoundResponse{
		GameID:  r.GameID,
		Skipped: r.Skipped,
		Votes:   recordsToDTO(r.Votes),
		Outcome: outcomeToDTO(r.Outcome),
	}
	if !r.Skipped {
		resp.Winner = &RecordedMoveDTO{Position: r.Winner.Position, Move: moveToDTO(r.Winner.Move)}
	}
	return resp
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
