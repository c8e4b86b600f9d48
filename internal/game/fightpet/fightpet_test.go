package fightpet

import (
	"errors"
	"math"
	"testing"

	"github.com/Crownicles/Crownicles-sub006/internal/game"
	"github.com/Crownicles/Crownicles-sub006/internal/random"
)

func successRate(a Action, fc *FightContext, trials int, seed int64) float64 {
	src := random.New(seed)
	wins := 0
	for i := 0; i < trials; i++ {
		if a.ApplyOutcome(fc, src) {
			wins++
		}
	}
	return float64(wins) / float64(trials)
}

// TestScreamConvergesByPetSex checks the statistical success rate of scream.
func TestScreamConvergesByPetSex(t *testing.T) {
	a, err := NewRegistry().Get(Scream)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	const trials = 20000
	fem := successRate(a, &FightContext{Pet: FeralPet{Feminine: true}}, trials, 11)
	if math.Abs(fem-0.6) > 0.02 {
		t.Fatalf("feminine: expected rate near 0.6, got %.3f", fem)
	}
	masc := successRate(a, &FightContext{Pet: FeralPet{Feminine: false}}, trials, 12)
	if math.Abs(masc-0.4) > 0.02 {
		t.Fatalf("masculine: expected rate near 0.4, got %.3f", masc)
	}
}

func TestFocusEnergyOnlyOnFirstRound(t *testing.T) {
	a, _ := NewRegistry().Get(FocusEnergy)
	if !a.ApplyOutcome(&FightContext{Round: 1}, nil) {
		t.Fatal("expected success on round 1")
	}
	if a.ApplyOutcome(&FightContext{Round: 2}, nil) {
		t.Fatal("expected failure on round 2")
	}
}

func TestFistHitClamped(t *testing.T) {
	a, _ := NewRegistry().Get(FistHit)
	// Level 200 against a common pet would exceed 0.9 without clamping.
	rate := successRate(a, &FightContext{PlayerLevel: 200, Pet: FeralPet{Rarity: 1}}, 10000, 3)
	if math.Abs(rate-0.9) > 0.02 {
		t.Fatalf("expected rate near 0.9, got %.3f", rate)
	}
}

type always bool

func (a always) ApplyOutcome(*FightContext, random.Source) bool { return bool(a) }

func TestEncounterLosesAtRageLimit(t *testing.T) {
	e := NewEncounter("e1", 1, FeralPet{})
	for i, id := range []string{"a", "b", "c"} {
		if _, err := e.Play(id, always(false), 1, nil); err != nil {
			t.Fatalf("round %d: %v", i+1, err)
		}
	}
	if !e.Finished || e.Won {
		t.Fatalf("expected lost fight, got finished=%v won=%v", e.Finished, e.Won)
	}
	if _, err := e.Play("d", always(true), 1, nil); !errors.Is(err, ErrEncounterOver) {
		t.Fatalf("expected ErrEncounterOver, got %v", err)
	}
}

func TestEncounterWinsAfterMaxRounds(t *testing.T) {
	e := NewEncounter("e2", 1, FeralPet{})
	ids := []string{"a", "b", "c", "d", "e"}
	outcomes := []bool{false, false, true, true, false}
	for i := range ids {
		if _, err := e.Play(ids[i], always(outcomes[i]), 1, nil); err != nil {
			t.Fatalf("round %d: %v", i+1, err)
		}
	}
	if !e.Finished || !e.Won {
		t.Fatalf("expected won fight, got finished=%v won=%v rage=%d", e.Finished, e.Won, e.Rage)
	}
}

func TestEncounterRejectsRepeatedAction(t *testing.T) {
	e := NewEncounter("e3", 1, FeralPet{})
	if _, err := e.Play(Scream, always(true), 1, nil); err != nil {
		t.Fatalf("first play: %v", err)
	}
	if _, err := e.Play(Scream, always(true), 1, nil); !errors.Is(err, ErrActionRepeated) {
		t.Fatalf("expected ErrActionRepeated, got %v", err)
	}
}

func TestUnknownAction(t *testing.T) {
	if _, err := NewRegistry().Get("dance"); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
