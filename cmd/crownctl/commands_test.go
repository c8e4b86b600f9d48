package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Crownicles/Crownicles-sub006/internal/game/witch"
	"github.com/Crownicles/Crownicles-sub006/internal/random"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMissionsListJSON(t *testing.T) {
	out, err := execute(t, "missions", "list", "--json", "--lang", "fr")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var rows []missionRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	var found bool
	for _, r := range rows {
		if r.ID == "default" {
			t.Fatal("default mission listed")
		}
		if r.ID == "meetDifferentPlayers" {
			found = true
			if r.Description != "Rencontrer 3 joueurs différents" {
				t.Fatalf("description = %q", r.Description)
			}
		}
	}
	if !found {
		t.Fatal("meetDifferentPlayers missing")
	}
}

func TestMissionsListTable(t *testing.T) {
	out, err := execute(t, "missions", "list")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "fightMinTurns") || !strings.Contains(out, "DESCRIPTION") {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestMissionsVariant(t *testing.T) {
	out, err := execute(t, "missions", "variant", "reachLevel", "--difficulty", "hard", "--json", "--seed", "7")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var res struct {
		ID        string `json:"id"`
		Objective int    `json:"objective"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.ID != "reachLevel" || res.Objective != 40 {
		t.Fatalf("res = %+v", res)
	}

	if _, err := execute(t, "missions", "variant", "reachLevel", "--difficulty", "impossible"); err == nil {
		t.Fatal("expected an invalid difficulty error")
	}
	if _, err := execute(t, "missions", "variant", "nope"); err == nil {
		t.Fatal("expected an unknown mission error")
	}
}

func TestSmallEventsList(t *testing.T) {
	out, err := execute(t, "smallevents", "list", "--json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var rows []smallEventRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var sum float64
	for _, r := range rows {
		sum += r.Percent
	}
	if len(rows) == 0 || sum < 99.9 || sum > 100.1 {
		t.Fatalf("rows=%d percent sum=%f", len(rows), sum)
	}
}

func TestFightPetSimulate(t *testing.T) {
	out, err := execute(t, "fightpet", "simulate", "fistHit", "--trials", "200", "--seed", "1", "--json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var res fightSimulation
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Trials != 200 || res.Successes < 0 || res.Successes > 200 {
		t.Fatalf("res = %+v", res)
	}
	if _, err := execute(t, "fightpet", "simulate", "kick"); err == nil {
		t.Fatal("expected an unknown action error")
	}
}

func TestSimulateWitchRestNeverBrews(t *testing.T) {
	action, err := witch.NewRegistry().Get(witch.Rest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	res := simulateWitch(witch.Rest, action, 50, random.New(3))
	if res.Outcomes[string(witch.OutcomeNothing)] != 50 || len(res.Rarities) != 0 {
		t.Fatalf("res = %+v", res)
	}
}

func TestWitchPotionsCounts(t *testing.T) {
	out, err := execute(t, "witch", "potions", "herbs", "--trials", "300", "--seed", "5", "--json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var res witchSimulation
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	total := 0
	for _, n := range res.Outcomes {
		total += n
	}
	potions := 0
	for rarity, n := range res.Rarities {
		if rarity < witch.RarityCommon || rarity > witch.RarityRare {
			t.Fatalf("herbs brewed rarity %d", rarity)
		}
		potions += n
	}
	if total != 300 || potions != res.Outcomes[string(witch.OutcomePotion)] {
		t.Fatalf("res = %+v", res)
	}
}

func TestMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.db")
	out, err := execute(t, "migrate", "--database-path", path, "--database-driver", "sqlite", "--json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var res struct {
		Applied []string `json:"applied"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Applied) == 0 {
		t.Fatal("no migrations reported")
	}
	if _, err := execute(t, "migrate"); err == nil {
		t.Fatal("expected a missing path error")
	}
}
