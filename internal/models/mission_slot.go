package models

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// MissionSlot is a mission assigned to a player. SaveBlob is stored encoded; the mission
// package owns the format.
type MissionSlot struct {
	ID          int64      `json:"id"`
	PlayerID    int64      `json:"player_id"`
	MissionID   string     `json:"mission_id"`
	Variant     int        `json:"variant"`
	Difficulty  string     `json:"difficulty"`
	Objective   int        `json:"objective"`
	NumberDone  int        `json:"number_done"`
	SaveBlob    []byte     `json:"-"`
	MoneyReward int64      `json:"money_reward"`
	XPReward    int64      `json:"xp_reward"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (s *MissionSlot) IsCompleted() bool { return s.CompletedAt != nil }

func CreateMissionSlot(ctx context.Context, q Querier, s *MissionSlot) error {
	res, err := q.ExecContext(ctx,
		`INSERT INTO mission_slots(player_id, mission_id, variant, difficulty, objective, number_done, save_blob, money_reward, xp_reward, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.PlayerID, s.MissionID, s.Variant, s.Difficulty, s.Objective, s.NumberDone, s.SaveBlob,
		s.MoneyReward, s.XPReward, unixOrNull(s.CompletedAt),
	)
	if IsUniqueConstraint(err) {
		return ErrMissionAlreadyAssigned
	}
	if err != nil {
		return err
	}
	s.ID, err = res.LastInsertId()
	return err
}

const missionSlotColumns = `id, player_id, mission_id, variant, difficulty, objective, number_done, save_blob, money_reward, xp_reward, created_at, completed_at`

func scanMissionSlot(scan func(dest ...any) error) (*MissionSlot, error) {
	var s MissionSlot
	var created int64
	var completed sql.NullInt64
	if err := scan(&s.ID, &s.PlayerID, &s.MissionID, &s.Variant, &s.Difficulty, &s.Objective, &s.NumberDone,
		&s.SaveBlob, &s.MoneyReward, &s.XPReward, &created, &completed); err != nil {
		return nil, err
	}
	s.CreatedAt = unixTime(created)
	s.CompletedAt = nullUnixTime(completed)
	return &s, nil
}

func queryMissionSlots(ctx context.Context, q Querier, where string, args ...any) ([]MissionSlot, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+missionSlotColumns+` FROM mission_slots WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MissionSlot
	for rows.Next() {
		s, err := scanMissionSlot(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// ListMissionSlots returns every slot of a player, completed ones included.
func ListMissionSlots(ctx context.Context, q Querier, playerID int64) ([]MissionSlot, error) {
	return queryMissionSlots(ctx, q, `player_id = ?`, playerID)
}

// ListOpenMissionSlots returns the uncompleted slots of a player for one mission id,
// or for every mission when missionID is empty.
func ListOpenMissionSlots(ctx context.Context, q Querier, playerID int64, missionID string) ([]MissionSlot, error) {
	if missionID == "" {
		return queryMissionSlots(ctx, q, `player_id = ? AND completed_at IS NULL`, playerID)
	}
	return queryMissionSlots(ctx, q, `player_id = ? AND mission_id = ? AND completed_at IS NULL`, playerID, missionID)
}

func CountOpenMissionSlots(ctx context.Context, q Querier, playerID int64) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM mission_slots WHERE player_id = ? AND completed_at IS NULL`, playerID).Scan(&n)
	return n, err
}

func GetMissionSlot(ctx context.Context, q Querier, id int64) (*MissionSlot, error) {
	row := q.QueryRowContext(ctx, `SELECT `+missionSlotColumns+` FROM mission_slots WHERE id = ?`, id)
	s, err := scanMissionSlot(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// SaveMissionProgress writes progress, save blob and completion of a slot.
func SaveMissionProgress(ctx context.Context, q Querier, s *MissionSlot) error {
	res, err := q.ExecContext(ctx,
		`UPDATE mission_slots SET number_done = ?, save_blob = ?, completed_at = ? WHERE id = ?`,
		s.NumberDone, s.SaveBlob, unixOrNull(s.CompletedAt), s.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
