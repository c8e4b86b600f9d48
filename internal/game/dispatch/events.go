package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Crownicles/Crownicles-sub006/internal/game/mission"
	"github.com/Crownicles/Crownicles-sub006/internal/game/packet"
	"github.com/Crownicles/Crownicles-sub006/internal/game/smallevent"
	"github.com/Crownicles/Crownicles-sub006/internal/game/witch"
	"github.com/Crownicles/Crownicles-sub006/internal/models"
	"go.uber.org/zap"
)

// missionEvent is a mission update implied by something that happened to the player.
type missionEvent struct {
	missionID string
	count     int
	params    mission.Params
}

func missionEventsFor(p packet.Packet) []missionEvent {
	switch v := p.(type) {
	case packet.SmallEventFindMoney:
		if v.Amount > 0 {
			return []missionEvent{{missionID: mission.EarnMoney, count: int(v.Amount)}}
		}
	case packet.SmallEventWinPersonalXP:
		if v.Amount > 0 {
			return []missionEvent{{missionID: mission.GainXP, count: int(v.Amount)}}
		}
	}
	return nil
}

func petEvents(pet models.Pet, tamed bool) []missionEvent {
	events := []missionEvent{{missionID: mission.OwnDifferentPetTypes, count: 1, params: mission.Params{"petTypeId": pet.TypeID}}}
	if tamed {
		events = append(events, missionEvent{missionID: mission.TamePetOfRarity, count: 1, params: mission.Params{"rarity": pet.Rarity}})
	}
	return events
}

// rewardEvents turns the rewards of missions completed in ps into money and xp events.
func rewardEvents(ps []packet.Packet) []missionEvent {
	var events []missionEvent
	for _, p := range ps {
		done, ok := p.(packet.MissionCompleted)
		if !ok {
			continue
		}
		if done.Money > 0 {
			events = append(events, missionEvent{missionID: mission.EarnMoney, count: int(done.Money)})
		}
		if done.XP > 0 {
			events = append(events, missionEvent{missionID: mission.GainXP, count: int(done.XP)})
		}
	}
	return events
}

// applyMissionEvents feeds events to the player's missions. Rewards of the missions
// they complete are fed back in turn, then the levels gained since startLevel go to
// reachLevel. Completed slots are closed before their rewards are fed, so a slot is
// never credited twice and the loop ends once no slot completes.
func (d *Dispatcher) applyMissionEvents(ctx context.Context, tx *sql.Tx, player *models.Player, startLevel int, events []missionEvent, resp *packet.Response) error {
	reported := startLevel
	for {
		for len(events) > 0 {
			ev := events[0]
			events = events[1:]
			before := resp.Len()
			if _, err := d.updateMissionsTx(ctx, tx, player, ev.missionID, ev.count, ev.params, resp); err != nil {
				return fmt.Errorf("update %s: %w", ev.missionID, err)
			}
			events = append(events, rewardEvents(resp.Packets()[before:])...)
		}
		gained := player.Level - reported
		if gained <= 0 {
			return nil
		}
		reported = player.Level
		events = append(events, missionEvent{missionID: mission.ReachLevel, count: gained})
	}
}

func (d *Dispatcher) smallEventContext(ctx context.Context, q models.Querier, playerID int64) (*smallevent.Context, error) {
	player, err := models.GetPlayer(ctx, q, playerID)
	if err != nil {
		return nil, err
	}
	pet, err := models.GetActivePet(ctx, q, playerID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	return &smallevent.Context{
		Player:   player,
		Pet:      pet,
		Rand:     d.rnd,
		Now:      d.now().UTC(),
		Witch:    d.witchActions,
		FightPet: d.fightActions,
		Session:  d.sessions,
	}, nil
}

// ExecuteSmallEvent triggers a small event for the player: forcedID when set, otherwise
// one drawn among the eligible events by the small event table weights.
func (d *Dispatcher) ExecuteSmallEvent(ctx context.Context, playerID int64, forcedID string) (eventID string, resp *packet.Response, err error) {
	ctx, end := d.span(ctx, "ExecuteSmallEvent", playerID)
	defer end(&err)

	hadFight, hadWitch := d.sessions.InFight(playerID), d.sessions.WitchOpen(playerID)
	resp = packet.NewResponse()
	err = d.inTx(ctx, func(tx *sql.Tx) error {
		c, err := d.smallEventContext(ctx, tx, playerID)
		if err != nil {
			return err
		}
		var ev smallevent.SmallEvent
		if forcedID != "" {
			eventID = forcedID
			ev, err = smallevent.Forced(d.smallEvents, forcedID, c)
		} else {
			eventID, ev, err = smallevent.Pick(d.smallEvents, d.tables.SmallEvents, c)
		}
		if err != nil {
			return err
		}

		startLevel := c.Player.Level
		if err := ev.ExecuteSmallEvent(ctx, resp, c); err != nil {
			return fmt.Errorf("small event %s: %w", eventID, err)
		}

		var events []missionEvent
		for _, p := range resp.Packets() {
			events = append(events, missionEventsFor(p)...)
		}
		for i := range c.NewPets {
			if err := models.AddPet(ctx, tx, &c.NewPets[i]); err != nil {
				return err
			}
			events = append(events, petEvents(c.NewPets[i], false)...)
		}
		if err := d.applyMissionEvents(ctx, tx, c.Player, startLevel, events, resp); err != nil {
			return err
		}
		if err := models.RecordSmallEvent(ctx, tx, playerID, eventID); err != nil {
			return err
		}
		return models.SavePlayer(ctx, tx, c.Player)
	})
	if err != nil {
		// Do not leave a mini-game open for an event that was rolled back.
		if !hadFight {
			d.sessions.EndFight(playerID)
		}
		if !hadWitch {
			d.sessions.CloseWitch(playerID)
		}
		return "", nil, err
	}
	d.log.Info("small event executed", zap.Int64("player_id", playerID), zap.String("event_id", eventID))
	return eventID, resp, nil
}

// FightPetAction plays one round of the player's feral pet fight. When the fight ends
// the outcome is applied: a win tames the pet (or pays money when the player already
// has one), a loss costs health.
func (d *Dispatcher) FightPetAction(ctx context.Context, playerID int64, actionID string) (resp *packet.Response, err error) {
	ctx, end := d.span(ctx, "FightPetAction", playerID)
	defer end(&err)

	action, err := d.fightActions.Get(actionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrUnknownAction, err)
	}
	player, err := models.GetPlayer(ctx, d.db, playerID)
	if err != nil {
		return nil, err
	}
	enc, success, err := d.sessions.Play(playerID, actionID, action, player.Level, d.rnd)
	if err != nil {
		return nil, err
	}

	resp = packet.NewResponse()
	resp.Add(packet.FightPetActionResult{
		EncounterID: enc.ID,
		Action:      actionID,
		Success:     success,
		Round:       enc.Round,
		Rage:        enc.Rage,
	})
	if !enc.Finished {
		return resp, nil
	}

	err = d.inTx(ctx, func(tx *sql.Tx) error {
		player, err := models.GetPlayer(ctx, tx, playerID)
		if err != nil {
			return err
		}
		startLevel := player.Level
		result := packet.FightPetEnd{EncounterID: enc.ID, Won: enc.Won}
		var events []missionEvent
		if enc.Won {
			active, err := models.GetActivePet(ctx, tx, playerID)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return err
			}
			if active == nil {
				pet := models.Pet{PlayerID: playerID, TypeID: enc.Pet.TypeID, Rarity: enc.Pet.Rarity, Feminine: enc.Pet.Feminine}
				if err := models.AddPet(ctx, tx, &pet); err != nil {
					return err
				}
				result.PetAdopted = true
				events = append(events, petEvents(pet, true)...)
			} else {
				result.Money = player.AddMoney(FightPetMoneyReward * int64(enc.Pet.Rarity))
				events = append(events, missionEvent{missionID: mission.EarnMoney, count: int(result.Money)})
			}
		} else {
			loss := FightPetHealthLoss * int64(enc.Pet.Rarity)
			result.HealthLost = -player.AddHealth(-loss)
		}
		resp.Add(result)
		if err := d.applyMissionEvents(ctx, tx, player, startLevel, events, resp); err != nil {
			return err
		}
		return models.SavePlayer(ctx, tx, player)
	})
	if err != nil {
		d.sessions.ReleaseFight(playerID)
		return nil, err
	}
	d.sessions.EndFight(playerID)
	d.log.Info("pet fight finished",
		zap.Int64("player_id", playerID),
		zap.String("encounter_id", enc.ID),
		zap.Bool("won", enc.Won),
	)
	return resp, nil
}

const (
	FightPetMoneyReward = 40
	FightPetHealthLoss  = 8
)

// WitchAction resolves the choice offered by the witch small event.
func (d *Dispatcher) WitchAction(ctx context.Context, playerID int64, actionID string) (resp *packet.Response, err error) {
	ctx, end := d.span(ctx, "WitchAction", playerID)
	defer end(&err)

	action, err := d.witchActions.Get(actionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrUnknownAction, err)
	}
	opened, ok := d.sessions.TakeWitch(playerID)
	if !ok {
		return nil, models.ErrNoWitchChoice
	}

	outcome := action.Outcome(d.rnd)
	result := packet.SmallEventWitchResult{Action: actionID, Outcome: string(outcome)}
	var potion *witch.Potion
	if outcome == witch.OutcomePotion {
		if potion = action.GeneratePotion(d.rnd); potion == nil {
			result.Outcome = string(witch.OutcomeNothing)
		} else {
			result.Potion = potion.Packet()
		}
	}

	resp = packet.NewResponse()
	err = d.inTx(ctx, func(tx *sql.Tx) error {
		player, err := models.GetPlayer(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if potion != nil {
			if err := models.AddPotion(ctx, tx, &models.Potion{
				PlayerID: playerID,
				Nature:   string(potion.Nature),
				Power:    potion.Power,
				Rarity:   potion.Rarity,
			}); err != nil {
				return err
			}
		}
		if outcome == witch.OutcomeBad {
			loss := min(int64(witch.BadOutcomeHealthLoss), max(player.Health-1, 0))
			result.HealthLost = -player.AddHealth(-loss)
			if err := models.SavePlayer(ctx, tx, player); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Let the player choose again.
		d.sessions.ReturnWitch(playerID, opened)
		return nil, err
	}
	resp.Add(result)
	return resp, nil
}

var _ smallevent.Session = (*Sessions)(nil)
