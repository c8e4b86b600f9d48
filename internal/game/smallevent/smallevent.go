// Package smallevent holds the random encounters a player can run into while
// travelling. Each event decides whether it may fire for a player and, when picked,
// mutates the player snapshot and appends the packets describing what happened.
package smallevent

import (
	"context"
	"fmt"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/game"
	"github.com/Crownicles/Crownicles-sub006/internal/game/fightpet"
	"github.com/Crownicles/Crownicles-sub006/internal/game/packet"
	"github.com/Crownicles/Crownicles-sub006/internal/game/witch"
	"github.com/Crownicles/Crownicles-sub006/internal/models"
	"github.com/Crownicles/Crownicles-sub006/internal/random"
)

// Session starts the interactive follow-ups some events open.
type Session interface {
	InFight(playerID int64) bool
	StartFight(playerID int64, pet fightpet.FeralPet) (*fightpet.Encounter, error)
	OpenWitch(playerID int64)
}

// Context is everything an event may read. Events change Player and NewPets only;
// the caller persists them.
type Context struct {
	Player *models.Player
	// Pet is the active pet, nil when the player has none.
	Pet      *models.Pet
	Rand     random.Source
	Now      time.Time
	Witch    *game.Registry[witch.Action]
	FightPet *game.Registry[fightpet.Action]
	Session  Session

	NewPets []models.Pet
}

type SmallEvent interface {
	// CanBeExecuted must not have side effects.
	CanBeExecuted(c *Context) bool
	ExecuteSmallEvent(ctx context.Context, resp *packet.Response, c *Context) error
}

// Pick draws one eligible event according to weights. Events without a positive
// weight are never picked.
func Pick(reg *game.Registry[SmallEvent], weights map[string]int, c *Context) (string, SmallEvent, error) {
	var ids []string
	var ws []int
	for _, id := range reg.IDs() {
		w := weights[id]
		if w <= 0 {
			continue
		}
		ev, err := reg.Get(id)
		if err != nil {
			return "", nil, err
		}
		if !ev.CanBeExecuted(c) {
			continue
		}
		ids = append(ids, id)
		ws = append(ws, w)
	}
	i, ok := random.Weighted(c.Rand, ws)
	if !ok {
		return "", nil, models.ErrNoEligibleSmallEvent
	}
	ev, _ := reg.Get(ids[i])
	return ids[i], ev, nil
}

// Forced returns the event with the given id if it can run now.
func Forced(reg *game.Registry[SmallEvent], id string, c *Context) (SmallEvent, error) {
	ev, err := reg.Get(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrUnknownSmallEvent, err)
	}
	if !ev.CanBeExecuted(c) {
		return nil, fmt.Errorf("%s: %w", id, models.ErrSmallEventNotEligible)
	}
	return ev, nil
}
