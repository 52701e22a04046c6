// Package postgres is the gorm-backed game.Store.
package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"crowdchess/internal/chess"
	"crowdchess/internal/server/game"
)

const logModule = "internal/store/postgres"

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Models lists the tables the repository needs, for db.Migrate.
func Models() []any {
	return []any{&gameModel{}, &moveModel{}, &voteModel{}}
}

func (r *Repository) CreateGame(ctx context.Context, g game.Game) error {
	if strings.TrimSpace(g.ID) == "" {
		return game.ErrInvalidInput
	}
	row := gameModelFromGame(g)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return game.ErrConflict
		}
		return r.logError("games_repo_create_failed", err, "game_id", g.ID)
	}
	return nil
}

func (r *Repository) GetGame(ctx context.Context, id string) (game.Game, error) {
	var row gameModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(id)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.Game{}, game.ErrGameNotFound
		}
		return game.Game{}, r.logError("games_repo_get_failed", err, "game_id", strings.TrimSpace(id))
	}
	return row.toGame(), nil
}

func (r *Repository) UpdateGame(ctx context.Context, g game.Game) error {
	row := gameModelFromGame(g)
	res := r.db.WithContext(ctx).Model(&gameModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"last_played":    row.LastPlayed,
			"over":           row.Over,
			"vote_window_ms": row.VoteWindowMS,
			"result_status":  row.ResultStatus,
			"result_winner":  row.ResultWinner,
			"result_reason":  row.ResultReason,
		})
	if res.Error != nil {
		return r.logError("games_repo_update_failed", res.Error, "game_id", g.ID)
	}
	if res.RowsAffected == 0 {
		return game.ErrGameNotFound
	}
	return nil
}

func (r *Repository) ListActiveGames(ctx context.Context) ([]game.Game, error) {
	var rows []gameModel
	if err := r.db.WithContext(ctx).
		Where("over = ?", false).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("games_repo_list_active_failed", err)
	}
	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toGame())
	}
	return out, nil
}

// AppendMove stores m at one past the highest position of the game. Two
// concurrent appends for one position collide on the unique index and the
// loser gets game.ErrConflict.
func (r *Repository) AppendMove(ctx context.Context, gameID string, m chess.Move) (chess.RecordedMove, error) {
	var rec chess.RecordedMove
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&gameModel{}).Where("id = ?", gameID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return game.ErrGameNotFound
		}

		var last int
		if err := tx.Model(&moveModel{}).
			Where("game_id = ?", gameID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error; err != nil {
			return err
		}

		row := moveModelFromMove(gameID, last+1, m)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		rec = row.toRecordedMove()
		return nil
	})
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, game.ErrGameNotFound):
		return chess.RecordedMove{}, err
	case isUniqueViolation(err):
		return chess.RecordedMove{}, game.ErrConflict
	}
	return chess.RecordedMove{}, r.logError("games_repo_append_move_failed", err,
		"game_id", gameID,
		"move", m.String(),
	)
}

func (r *Repository) ListMoves(ctx context.Context, gameID string) ([]chess.RecordedMove, error) {
	if _, err := r.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	var rows []moveModel
	if err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("games_repo_list_moves_failed", err, "game_id", gameID)
	}
	out := make([]chess.RecordedMove, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRecordedMove())
	}
	return out, nil
}

func (r *Repository) SaveVote(ctx context.Context, v game.Vote) error {
	if _, err := r.GetGame(ctx, v.GameID); err != nil {
		return err
	}
	row := voteModelFromVote(v)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return game.ErrConflict
		}
		return r.logError("games_repo_save_vote_failed", err,
			"game_id", v.GameID,
			"vote_id", v.ID,
		)
	}
	return nil
}

func (r *Repository) ListVotes(ctx context.Context, gameID string) ([]game.Vote, error) {
	if _, err := r.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("games_repo_list_votes_failed", err, "game_id", gameID)
	}
	out := make([]game.Vote, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toVote())
	}
	return out, nil
}

func (r *Repository) ClearVotes(ctx context.Context, gameID string) error {
	if err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Delete(&voteModel{}).Error; err != nil {
		return r.logError("games_repo_clear_votes_failed", err, "game_id", gameID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", logModule,
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("game repository operation failed", fields...)
	return err
}

type gameModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	CreatedAt    time.Time `gorm:"column:created_at;index"`
	LastPlayed   time.Time `gorm:"column:last_played"`
	Over         bool      `gorm:"column:over;index"`
	VoteWindowMS int64     `gorm:"column:vote_window_ms"`
	ResultStatus int16     `gorm:"column:result_status"`
	ResultWinner int16     `gorm:"column:result_winner"`
	ResultReason string    `gorm:"column:result_reason"`
}

func (gameModel) TableName() string { return "games" }

func gameModelFromGame(g game.Game) gameModel {
	return gameModel{
		ID:           strings.TrimSpace(g.ID),
		CreatedAt:    g.CreatedAt.UTC(),
		LastPlayed:   g.LastPlayed.UTC(),
		Over:         g.Over,
		VoteWindowMS: g.VoteWindow.Milliseconds(),
		ResultStatus: int16(g.Result.Status),
		ResultWinner: int16(g.Result.Winner),
		ResultReason: string(g.Result.Reason),
	}
}

func (m gameModel) toGame() game.Game {
	return game.Game{
		ID:         m.ID,
		CreatedAt:  m.CreatedAt.UTC(),
		LastPlayed: m.LastPlayed.UTC(),
		Over:       m.Over,
		VoteWindow: time.Duration(m.VoteWindowMS) * time.Millisecond,
		Result: chess.Outcome{
			Status: chess.Status(m.ResultStatus),
			Winner: chess.Color(m.ResultWinner),
			Reason: chess.DrawReason(m.ResultReason),
		},
	}
}

type moveModel struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	GameID    string    `gorm:"column:game_id;uniqueIndex:idx_moves_game_position"`
	Position  int       `gorm:"column:position;uniqueIndex:idx_moves_game_position"`
	Start     string    `gorm:"column:start_square"`
	End       string    `gorm:"column:end_square"`
	Promotion string    `gorm:"column:promotion"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (moveModel) TableName() string { return "moves" }

func moveModelFromMove(gameID string, position int, m chess.Move) moveModel {
	return moveModel{
		GameID:    gameID,
		Position:  position,
		Start:     string(m.Start),
		End:       string(m.End),
		Promotion: m.Promotion.String(),
		CreatedAt: time.Now().UTC(),
	}
}

func (m moveModel) toRecordedMove() chess.RecordedMove {
	return chess.RecordedMove{
		Position: m.Position,
		Move: chess.Move{
			Start:     chess.Square(m.Start),
			End:       chess.Square(m.End),
			Promotion: chess.ParsePieceKind(m.Promotion),
		},
	}
}

type voteModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	GameID    string    `gorm:"column:game_id;index"`
	Start     string    `gorm:"column:start_square"`
	End       string    `gorm:"column:end_square"`
	Promotion string    `gorm:"column:promotion"`
	Tag       string    `gorm:"column:tag"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string { return "voted_moves" }

func voteModelFromVote(v game.Vote) voteModel {
	return voteModel{
		ID:        strings.TrimSpace(v.ID),
		GameID:    strings.TrimSpace(v.GameID),
		Start:     string(v.Move.Start),
		End:       string(v.Move.End),
		Promotion: v.Move.Promotion.String(),
		Tag:       string(v.Move.Tag),
		CreatedAt: v.CreatedAt.UTC(),
	}
}

func (m voteModel) toVote() game.Vote {
	return game.Vote{
		ID:     m.ID,
		GameID: m.GameID,
		Move: chess.Move{
			Start:     chess.Square(m.Start),
			End:       chess.Square(m.End),
			Promotion: chess.ParsePieceKind(m.Promotion),
			Tag:       chess.MoveTag(m.Tag),
		},
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ game.Store = (*Repository)(nil)
