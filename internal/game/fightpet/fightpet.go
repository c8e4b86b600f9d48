// Package fightpet implements the feral pet mini-game: the player picks an action
// each round and every action resolves to a probabilistic success.
package fightpet

import (
	"errors"

	"github.com/Crownicles/Crownicles-sub006/internal/random"
)

const (
	MaxRounds = 5
	// RageLimit ends the fight as a loss as soon as it is reached.
	RageLimit = 3
)

var (
	ErrEncounterOver  = errors.New("fight is over")
	ErrActionRepeated = errors.New("action already used in this fight")
)

type FeralPet struct {
	TypeID   int
	Feminine bool
	Rarity   int
}

// PetTypeCount is the number of pet species.
const PetTypeCount = 20

// rarityWeights are the odds of pet rarities 1 to 6.
var rarityWeights = []int{50, 25, 12, 8, 4, 1}

// RandomPet draws a wild pet.
func RandomPet(rnd random.Source) FeralPet {
	rarity, _ := random.Weighted(rnd, rarityWeights)
	return FeralPet{
		TypeID:   random.IntBetween(rnd, 1, PetTypeCount),
		Feminine: random.Chance(rnd, 0.5),
		Rarity:   rarity + 1,
	}
}

// FightContext is what an action sees when resolving.
type FightContext struct {
	PlayerLevel int
	Pet         FeralPet
	// Round is 1-based.
	Round int
	Rage  int
}

func (fc *FightContext) IsLastRound() bool { return fc.Round >= MaxRounds }

// Action resolves one player choice.
type Action interface {
	ApplyOutcome(fc *FightContext, rnd random.Source) bool
}

// Encounter tracks one fight between a player and a feral pet.
type Encounter struct {
	ID       string
	PlayerID int64
	Pet      FeralPet
	Round    int
	Rage     int
	Used     map[string]bool
	Finished bool
	Won      bool
}

func NewEncounter(id string, playerID int64, pet FeralPet) *Encounter {
	return &Encounter{ID: id, PlayerID: playerID, Pet: pet, Used: map[string]bool{}}
}

// Play resolves one round with the given action. Each action can be used once per fight.
func (e *Encounter) Play(actionID string, action Action, playerLevel int, rnd random.Source) (bool, error) {
	if e.Finished {
		return false, ErrEncounterOver
	}
	if e.Used[actionID] {
		return false, ErrActionRepeated
	}
	e.Used[actionID] = true
	e.Round++

	fc := &FightContext{PlayerLevel: playerLevel, Pet: e.Pet, Round: e.Round, Rage: e.Rage}
	success := action.ApplyOutcome(fc, rnd)
	if success {
		e.Rage = max(e.Rage-1, 0)
	} else {
		e.Rage++
	}

	switch {
	case e.Rage >= RageLimit:
		e.Finished, e.Won = true, false
	case e.Round >= MaxRounds:
		e.Finished, e.Won = true, true
	}
	return success, nil
}
