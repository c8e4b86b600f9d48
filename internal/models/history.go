package models

import (
	"context"
	"time"
)

type SmallEventRecord struct {
	ID        int64     `json:"id"`
	PlayerID  int64     `json:"player_id"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

func RecordSmallEvent(ctx context.Context, q Querier, playerID int64, eventID string) error {
	_, err := q.ExecContext(ctx, `INSERT INTO small_event_history(player_id, event_id) VALUES (?, ?)`, playerID, eventID)
	return err
}

// RecentSmallEvents returns the last events of a player, newest first.
func RecentSmallEvents(ctx context.Context, q Querier, playerID int64, limit int) ([]SmallEventRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := q.QueryContext(ctx,
		`SELECT id, player_id, event_id, created_at FROM small_event_history WHERE player_id = ? ORDER BY id DESC LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SmallEventRecord
	for rows.Next() {
		var r SmallEventRecord
		var created int64
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.EventID, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = unixTime(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

type Potion struct {
	ID        int64     `json:"id"`
	PlayerID  int64     `json:"player_id"`
	Nature    string    `json:"nature"`
	Power     int       `json:"power"`
	Rarity    int       `json:"rarity"`
	CreatedAt time.Time `json:"created_at"`
}

func AddPotion(ctx context.Context, q Querier, p *Potion) error {
	res, err := q.ExecContext(ctx,
		`INSERT INTO potions(player_id, nature, power, rarity) VALUES (?, ?, ?, ?)`,
		p.PlayerID, p.Nature, p.Power, p.Rarity,
	)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func ListPotions(ctx context.Context, q Querier, playerID int64) ([]Potion, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, player_id, nature, power, rarity, created_at FROM potions WHERE player_id = ? ORDER BY id`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Potion
	for rows.Next() {
		var p Potion
		var created int64
		if err := rows.Scan(&p.ID, &p.PlayerID, &p.Nature, &p.Power, &p.Rarity, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = unixTime(created)
		out = append(out, p)
	}
	return out, rows.Err()
}
