// Package mission defines the contract every mission implements and the
// implementations registered by the game.
//
// A mission is assigned to a player with a Variant (its difficulty parameter),
// then every qualifying game event is offered to AreParamsMatchingVariantAndSave.
// Missions that must remember previous events beyond a counter keep a SaveBlob.
package mission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Crownicles/Crownicles-sub006/internal/random"
)

// Variant scales a mission's difficulty. It is fixed when the mission is assigned.
type Variant int

type Difficulty string

const (
	DifficultyUnspecified Difficulty = ""
	Easy                  Difficulty = "easy"
	Medium                Difficulty = "medium"
	Hard                  Difficulty = "hard"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

// ParseDifficulty accepts easy|medium|hard in any case. An empty string is the
// unspecified difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyUnspecified, Easy, Medium, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
}

// Player is the part of the player record missions may look at.
type Player struct {
	ID      int64
	Level   int
	MapID   int
	ClassID int
}

// Lookup gives missions read access to persisted state when computing initial progress.
type Lookup interface {
	CountDistinctPetTypes(ctx context.Context, playerID int64) (int, error)
}

// Mission is implemented by every registered mission. Implementations must not keep
// mutable state between calls: they are shared by every player.
type Mission interface {
	// GenerateRandomVariant picks the variant for a new assignment.
	GenerateRandomVariant(difficulty Difficulty, player Player, rnd random.Source) Variant
	// AreParamsMatchingVariantAndSave reports whether an event counts toward the mission.
	// It must not modify params or save.
	AreParamsMatchingVariantAndSave(variant Variant, params Params, save SaveBlob) bool
	// InitialNumberDone is the progress a freshly assigned mission starts with.
	InitialNumberDone(ctx context.Context, player Player, lookup Lookup) (int, error)
	// UpdateSaveBlob returns the blob to persist after a matching event, or nil when
	// the mission does not use one.
	UpdateSaveBlob(variant Variant, save SaveBlob, params Params) SaveBlob
}

// Default is the no-op mission: variant 0, every event matches, no initial progress
// and no save blob. Missions embed it and override what they need.
type Default struct{}

func (Default) GenerateRandomVariant(Difficulty, Player, random.Source) Variant { return 0 }

func (Default) AreParamsMatchingVariantAndSave(Variant, Params, SaveBlob) bool { return true }

func (Default) InitialNumberDone(context.Context, Player, Lookup) (int, error) { return 0, nil }

func (Default) UpdateSaveBlob(Variant, SaveBlob, Params) SaveBlob { return nil }

var _ Mission = Default{}
