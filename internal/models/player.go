package models

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Player holds the progression of an account. Its ID is the account ID.
type Player struct {
	ID         int64      `json:"id"`
	Level      int        `json:"level"`
	Experience int64      `json:"experience"`
	Money      int64      `json:"money"`
	Health     int64      `json:"health"`
	MaxHealth  int64      `json:"max_health"`
	MapID      int        `json:"map_id"`
	ClassID    int        `json:"class_id"`
	EffectEnd  *time.Time `json:"effect_end_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// XPToLevelUp is the experience needed to go from level to level+1.
func XPToLevelUp(level int) int64 {
	return int64(100 * max(level, 1))
}

// AddMoney never lets money go negative and returns the applied delta.
func (p *Player) AddMoney(delta int64) int64 {
	if p.Money+delta < 0 {
		delta = -p.Money
	}
	p.Money += delta
	return delta
}

// AddHealth keeps health in [0, MaxHealth] and returns the applied delta.
func (p *Player) AddHealth(delta int64) int64 {
	next := min(max(p.Health+delta, 0), p.MaxHealth)
	applied := next - p.Health
	p.Health = next
	return applied
}

// AddExperience adds xp and levels up as many times as it allows. It returns the
// number of levels gained.
func (p *Player) AddExperience(xp int64) int {
	if xp <= 0 {
		return 0
	}
	p.Experience += xp
	gained := 0
	for p.Experience >= XPToLevelUp(p.Level) {
		p.Experience -= XPToLevelUp(p.Level)
		p.Level++
		gained++
	}
	return gained
}

// ExtendEffect pushes the player's time effect back by d from now or from the current end.
func (p *Player) ExtendEffect(now time.Time, d time.Duration) {
	start := now
	if p.EffectEnd != nil && p.EffectEnd.After(now) {
		start = *p.EffectEnd
	}
	end := start.Add(d).Truncate(time.Second).UTC()
	p.EffectEnd = &end
}

func (p *Player) IsDead() bool { return p.Health <= 0 }

const playerColumns = `id, level, experience, money, health, max_health, map_id, class_id, effect_end_at, updated_at`

func GetPlayer(ctx context.Context, q Querier, id int64) (*Player, error) {
	var p Player
	var effect sql.NullInt64
	var updated int64
	err := q.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id).Scan(
		&p.ID, &p.Level, &p.Experience, &p.Money, &p.Health, &p.MaxHealth, &p.MapID, &p.ClassID, &effect, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	p.EffectEnd = nullUnixTime(effect)
	p.UpdatedAt = unixTime(updated)
	return &p, nil
}

// SavePlayer writes every mutable column back.
func SavePlayer(ctx context.Context, q Querier, p *Player) error {
	res, err := q.ExecContext(ctx,
		`UPDATE players SET level = ?, experience = ?, money = ?, health = ?, max_health = ?, map_id = ?, class_id = ?,
		 effect_end_at = ?, updated_at = CAST(strftime('%s', 'now') AS INTEGER) WHERE id = ?`,
		p.Level, p.Experience, p.Money, p.Health, p.MaxHealth, p.MapID, p.ClassID, unixOrNull(p.EffectEnd), p.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPlayerNotFound
	}
	return nil
}
