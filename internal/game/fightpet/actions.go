package fightpet

import (
	"github.com/Crownicles/Crownicles-sub006/internal/game"
	"github.com/Crownicles/Crownicles-sub006/internal/random"
)

const (
	Scream      = "scream"
	FistHit     = "fistHit"
	Intimidate  = "intimidate"
	PetTheBeast = "petTheBeast"
	PlayDead    = "playDead"
	LastChance  = "lastChance"
	FocusEnergy = "focusEnergy"
)

// scream works better on feminine pets.
type scream struct{}

func (scream) ApplyOutcome(fc *FightContext, rnd random.Source) bool {
	if fc.Pet.Feminine {
		return random.Chance(rnd, 0.6)
	}
	return random.Chance(rnd, 0.4)
}

// fistHit: 0.5 plus 0.05 per 10 levels above the pet's rarity band.
type fistHit struct{}

func (fistHit) ApplyOutcome(fc *FightContext, rnd random.Source) bool {
	p := 0.5 + 0.05*float64(fc.PlayerLevel/10-fc.Pet.Rarity)
	return random.Chance(rnd, clamp(p, 0.1, 0.9))
}

type intimidate struct{}

func (intimidate) ApplyOutcome(fc *FightContext, rnd random.Source) bool {
	p := 0.3
	if fc.PlayerLevel >= 20 {
		p += 0.1
	}
	return random.Chance(rnd, p)
}

type petTheBeast struct{}

func (petTheBeast) ApplyOutcome(fc *FightContext, rnd random.Source) bool {
	if fc.Rage == 0 {
		return random.Chance(rnd, 0.7)
	}
	return random.Chance(rnd, 0.2)
}

type fixedChance float64

func (c fixedChance) ApplyOutcome(_ *FightContext, rnd random.Source) bool {
	return random.Chance(rnd, float64(c))
}

type lastChance struct{}

func (lastChance) ApplyOutcome(fc *FightContext, rnd random.Source) bool {
	if fc.IsLastRound() {
		return random.Chance(rnd, 0.8)
	}
	return random.Chance(rnd, 0.1)
}

// focusEnergy only works as an opening move.
type focusEnergy struct{}

func (focusEnergy) ApplyOutcome(fc *FightContext, _ random.Source) bool {
	return fc.Round == 1
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func NewRegistry() *game.Registry[Action] {
	r := game.NewRegistry[Action]("fight pet action")
	r.Register(Scream, scream{})
	r.Register(FistHit, fistHit{})
	r.Register(Intimidate, intimidate{})
	r.Register(PetTheBeast, petTheBeast{})
	r.Register(PlayDead, fixedChance(0.35))
	r.Register(LastChance, lastChance{})
	r.Register(FocusEnergy, focusEnergy{})
	return r.Seal()
}
