package smallevent

import (
	"context"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/game"
	"github.com/Crownicles/Crownicles-sub006/internal/game/fightpet"
	"github.com/Crownicles/Crownicles-sub006/internal/game/packet"
	"github.com/Crownicles/Crownicles-sub006/internal/models"
	"github.com/Crownicles/Crownicles-sub006/internal/random"
)

const (
	DoNothing     = "doNothing"
	FindMoney     = "findMoney"
	WinHealth     = "winHealth"
	WinPersonalXP = "winPersonalXP"
	SmallBadEvent = "smallBadEvent"
	FindPet       = "findPet"
	Witch         = "witch"
	FightPet      = "fightPet"
)

const (
	WitchMinLevel    = 5
	FightPetMinLevel = 3
)

type doNothing struct{}

func (doNothing) CanBeExecuted(*Context) bool { return true }

func (doNothing) ExecuteSmallEvent(_ context.Context, resp *packet.Response, _ *Context) error {
	resp.Add(packet.SmallEventDoNothing{})
	return nil
}

type findMoney struct{}

func (findMoney) CanBeExecuted(*Context) bool { return true }

func (findMoney) ExecuteSmallEvent(_ context.Context, resp *packet.Response, c *Context) error {
	amount := int64(random.IntBetween(c.Rand, 10, 50) + 2*c.Player.Level)
	resp.Add(packet.SmallEventFindMoney{Amount: c.Player.AddMoney(amount)})
	return nil
}

type winHealth struct{}

func (winHealth) CanBeExecuted(c *Context) bool {
	return !c.Player.IsDead() && c.Player.Health < c.Player.MaxHealth
}

func (winHealth) ExecuteSmallEvent(_ context.Context, resp *packet.Response, c *Context) error {
	healed := c.Player.AddHealth(int64(random.IntBetween(c.Rand, 5, 20)))
	resp.Add(packet.SmallEventWinHealth{Amount: healed})
	return nil
}

type winPersonalXP struct{}

func (winPersonalXP) CanBeExecuted(*Context) bool { return true }

func (winPersonalXP) ExecuteSmallEvent(_ context.Context, resp *packet.Response, c *Context) error {
	xp := int64(random.IntBetween(c.Rand, 10, 40) + c.Player.Level)
	c.Player.AddExperience(xp)
	resp.Add(packet.SmallEventWinPersonalXP{Amount: xp})
	return nil
}

// smallBadEvent costs health, money or time. It never kills.
type smallBadEvent struct{}

var badKinds = []string{"health", "money", "time"}

func (smallBadEvent) CanBeExecuted(c *Context) bool { return !c.Player.IsDead() }

func (smallBadEvent) ExecuteSmallEvent(_ context.Context, resp *packet.Response, c *Context) error {
	kind, _ := random.Pick(c.Rand, badKinds)
	var amount int64
	switch kind {
	case "health":
		loss := min(int64(random.IntBetween(c.Rand, 5, 15)), c.Player.Health-1)
		amount = -c.Player.AddHealth(-loss)
	case "money":
		amount = -c.Player.AddMoney(-int64(random.IntBetween(c.Rand, 10, 50)))
	case "time":
		minutes := random.IntBetween(c.Rand, 10, 60)
		c.Player.ExtendEffect(c.Now, time.Duration(minutes)*time.Minute)
		amount = int64(minutes)
	}
	resp.Add(packet.SmallEventSmallBad{Kind: kind, Amount: amount})
	return nil
}

// findPet hands the player a wild pet. It becomes the active pet when the player has
// none, otherwise it goes to the shelter.
type findPet struct{}

func (findPet) CanBeExecuted(*Context) bool { return true }

func (findPet) ExecuteSmallEvent(_ context.Context, resp *packet.Response, c *Context) error {
	wild := fightpet.RandomPet(c.Rand)
	adopted := c.Pet == nil
	c.NewPets = append(c.NewPets, models.Pet{
		PlayerID: c.Player.ID,
		TypeID:   wild.TypeID,
		Rarity:   wild.Rarity,
		Feminine: wild.Feminine,
	})
	resp.Add(packet.SmallEventFindPet{PetTypeID: wild.TypeID, Feminine: wild.Feminine, Rarity: wild.Rarity, Adopted: adopted})
	return nil
}

// witchEvent offers the witch's actions; the choice is resolved later.
type witchEvent struct{}

func (witchEvent) CanBeExecuted(c *Context) bool {
	return c.Session != nil && c.Witch != nil && c.Player.Level >= WitchMinLevel
}

func (witchEvent) ExecuteSmallEvent(_ context.Context, resp *packet.Response, c *Context) error {
	c.Session.OpenWitch(c.Player.ID)
	resp.Add(packet.SmallEventWitchChoices{Actions: c.Witch.IDs()})
	return nil
}

type fightPetEvent struct{}

func (fightPetEvent) CanBeExecuted(c *Context) bool {
	return c.Session != nil && c.FightPet != nil &&
		c.Player.Level >= FightPetMinLevel && !c.Player.IsDead() && !c.Session.InFight(c.Player.ID)
}

func (fightPetEvent) ExecuteSmallEvent(_ context.Context, resp *packet.Response, c *Context) error {
	enc, err := c.Session.StartFight(c.Player.ID, fightpet.RandomPet(c.Rand))
	if err != nil {
		return err
	}
	resp.Add(packet.SmallEventFightPetStart{
		EncounterID: enc.ID,
		PetTypeID:   enc.Pet.TypeID,
		Feminine:    enc.Pet.Feminine,
		Rarity:      enc.Pet.Rarity,
		Actions:     c.FightPet.IDs(),
		MaxRounds:   fightpet.MaxRounds,
	})
	return nil
}

// NewRegistry returns the sealed registry of small events.
func NewRegistry() *game.Registry[SmallEvent] {
	r := game.NewRegistry[SmallEvent]("small event")
	r.Register(DoNothing, doNothing{})
	r.Register(FindMoney, findMoney{})
	r.Register(WinHealth, winHealth{})
	r.Register(WinPersonalXP, winPersonalXP{})
	r.Register(SmallBadEvent, smallBadEvent{})
	r.Register(FindPet, findPet{})
	r.Register(Witch, witchEvent{})
	r.Register(FightPet, fightPetEvent{})
	return r.Seal()
}
