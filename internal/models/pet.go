package models

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Pet is owned by a player. At most one pet per player is active; others live in the shelter.
type Pet struct {
	ID        int64     `json:"id"`
	PlayerID  int64     `json:"player_id"`
	TypeID    int       `json:"type_id"`
	Rarity    int       `json:"rarity"`
	Feminine  bool      `json:"feminine"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// AddPet stores a pet. It becomes the active pet when the player has none.
func AddPet(ctx context.Context, q Querier, pet *Pet) error {
	active, err := GetActivePet(ctx, q, pet.PlayerID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	pet.Active = active == nil
	res, err := q.ExecContext(ctx,
		`INSERT INTO pets(player_id, type_id, rarity, feminine, active) VALUES (?, ?, ?, ?, ?)`,
		pet.PlayerID, pet.TypeID, pet.Rarity, boolToInt(pet.Feminine), boolToInt(pet.Active),
	)
	if err != nil {
		return err
	}
	if pet.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	if pet.CreatedAt.IsZero() {
		pet.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	return nil
}

const petColumns = `id, player_id, type_id, rarity, feminine, active, created_at`

func scanPet(scan func(dest ...any) error) (*Pet, error) {
	var p Pet
	var created int64
	if err := scan(&p.ID, &p.PlayerID, &p.TypeID, &p.Rarity, &p.Feminine, &p.Active, &created); err != nil {
		return nil, err
	}
	p.CreatedAt = unixTime(created)
	return &p, nil
}

func GetActivePet(ctx context.Context, q Querier, playerID int64) (*Pet, error) {
	row := q.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE player_id = ? AND active = 1`, playerID)
	p, err := scanPet(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func ListPets(ctx context.Context, q Querier, playerID int64) ([]Pet, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+petColumns+` FROM pets WHERE player_id = ? ORDER BY id`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pet
	for rows.Next() {
		p, err := scanPet(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// CountDistinctPetTypes counts the pet species a player owns, shelter included.
func CountDistinctPetTypes(ctx context.Context, q Querier, playerID int64) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(DISTINCT type_id) FROM pets WHERE player_id = ?`, playerID).Scan(&n)
	return n, err
}

// PetLookup exposes pet queries to mission code.
type PetLookup struct {
	Q Querier
}

func (l PetLookup) CountDistinctPetTypes(ctx context.Context, playerID int64) (int, error) {
	return CountDistinctPetTypes(ctx, l.Q, playerID)
}
