package dispatch

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Crownicles/Crownicles-sub006/internal/game"
	"github.com/Crownicles/Crownicles-sub006/internal/game/mission"
	"github.com/Crownicles/Crownicles-sub006/internal/game/packet"
	"github.com/Crownicles/Crownicles-sub006/internal/i18n"
	"github.com/Crownicles/Crownicles-sub006/internal/models"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// MissionView is a slot with its rendered description.
type MissionView struct {
	models.MissionSlot
	Description string `json:"description"`
}

// lookupMission resolves an assignable mission and its table row.
func (d *Dispatcher) lookupMission(missionID string) (mission.Mission, error) {
	if missionID == game.DefaultID {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownMission, missionID)
	}
	m, err := d.missions.Get(missionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrUnknownMission, err)
	}
	return m, nil
}

// AssignMission gives the player a new mission slot. The variant is drawn now and the
// slot starts at the mission's initial progress.
func (d *Dispatcher) AssignMission(ctx context.Context, playerID int64, missionID, difficulty string) (slot *models.MissionSlot, resp *packet.Response, err error) {
	ctx, end := d.span(ctx, "AssignMission", playerID)
	defer end(&err)

	diff, err := mission.ParseDifficulty(difficulty)
	if err != nil {
		return nil, nil, err
	}
	m, err := d.lookupMission(missionID)
	if err != nil {
		return nil, nil, err
	}
	def, ok := d.tables.Mission(missionID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q has no table entry", models.ErrUnknownMission, missionID)
	}

	resp = packet.NewResponse()
	err = d.inTx(ctx, func(tx *sql.Tx) error {
		player, err := models.GetPlayer(ctx, tx, playerID)
		if err != nil {
			return err
		}
		open, err := models.ListOpenMissionSlots(ctx, tx, playerID, "")
		if err != nil {
			return err
		}
		for _, s := range open {
			if s.MissionID == missionID {
				return models.ErrMissionAlreadyAssigned
			}
		}
		if len(open) >= d.maxSlots {
			return models.ErrMissionSlotsFull
		}

		mp := missionPlayer(player)
		variant := m.GenerateRandomVariant(diff, mp, d.rnd)
		initial, err := m.InitialNumberDone(ctx, mp, models.PetLookup{Q: tx})
		if err != nil {
			return fmt.Errorf("initial progress of %s: %w", missionID, err)
		}
		level := string(diff)
		slot = &models.MissionSlot{
			PlayerID:    playerID,
			MissionID:   missionID,
			Variant:     int(variant),
			Difficulty:  level,
			Objective:   def.Objectives.For(level),
			MoneyReward: int64(def.Money.For(level)),
			XPReward:    int64(def.XP.For(level)),
		}
		slot.NumberDone = min(max(initial, 0), slot.Objective)
		if err := models.CreateMissionSlot(ctx, tx, slot); err != nil {
			return err
		}

		tag := d.languageOf(ctx, tx, playerID)
		resp.Add(packet.MissionAssigned{
			SlotID:      slot.ID,
			MissionID:   missionID,
			Variant:     slot.Variant,
			Difficulty:  slot.Difficulty,
			NumberDone:  slot.NumberDone,
			Objective:   slot.Objective,
			Description: i18n.DescribeMission(tag, missionID, slot.Variant, slot.Objective),
		})

		// Already satisfied on assignment, e.g. reachLevel below the player's level.
		if slot.NumberDone >= slot.Objective {
			startLevel := player.Level
			before := resp.Len()
			if err := d.completeSlot(ctx, tx, player, slot, resp); err != nil {
				return err
			}
			rewards := rewardEvents(resp.Packets()[before:])
			if err := d.applyMissionEvents(ctx, tx, player, startLevel, rewards, resp); err != nil {
				return err
			}
			return models.SavePlayer(ctx, tx, player)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	d.log.Info("mission assigned",
		zap.Int64("player_id", playerID),
		zap.String("mission_id", missionID),
		zap.Int("variant", slot.Variant),
		zap.String("difficulty", slot.Difficulty),
	)
	return slot, resp, nil
}

// UpdateMissions reports count occurrences of a game event to every open slot of
// missionID. Slots whose mission rejects the params are left untouched.
func (d *Dispatcher) UpdateMissions(ctx context.Context, playerID int64, missionID string, count int, params mission.Params) (resp *packet.Response, err error) {
	ctx, end := d.span(ctx, "UpdateMissions", playerID)
	defer end(&err)

	if _, err := d.lookupMission(missionID); err != nil {
		return nil, err
	}
	resp = packet.NewResponse()
	err = d.inTx(ctx, func(tx *sql.Tx) error {
		player, err := models.GetPlayer(ctx, tx, playerID)
		if err != nil {
			return err
		}
		before := *player
		events := []missionEvent{{missionID: missionID, count: count, params: params}}
		if err := d.applyMissionEvents(ctx, tx, player, player.Level, events, resp); err != nil {
			return err
		}
		if *player != before {
			return models.SavePlayer(ctx, tx, player)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// updateMissionsTx advances matching slots and credits rewards to player. The caller
// saves player. It returns the number of slots completed.
func (d *Dispatcher) updateMissionsTx(ctx context.Context, tx *sql.Tx, player *models.Player, missionID string, count int, params mission.Params, resp *packet.Response) (int, error) {
	if count < 1 {
		count = 1
	}
	m, err := d.missions.GetOrDefault(missionID)
	if err != nil {
		return 0, err
	}
	slots, err := models.ListOpenMissionSlots(ctx, tx, player.ID, missionID)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range slots {
		slot := &slots[i]
		save, err := mission.DecodeSaveBlob(slot.SaveBlob)
		if err != nil {
			// A corrupt blob must not block the player's other missions.
			d.log.Warn("skipping mission slot with unreadable save blob",
				zap.Int64("slot_id", slot.ID), zap.Error(err))
			continue
		}
		variant := mission.Variant(slot.Variant)
		if !m.AreParamsMatchingVariantAndSave(variant, params, save) {
			continue
		}

		// count comes from clients; add only what is left to avoid overflow.
		slot.NumberDone += min(count, slot.Objective-slot.NumberDone)
		slot.SaveBlob = mission.EncodeSaveBlob(m.UpdateSaveBlob(variant, save, params))
		resp.Add(packet.MissionProgress{
			SlotID:     slot.ID,
			MissionID:  slot.MissionID,
			NumberDone: slot.NumberDone,
			Objective:  slot.Objective,
		})

		if slot.NumberDone >= slot.Objective {
			if err := d.completeSlot(ctx, tx, player, slot, resp); err != nil {
				return completed, err
			}
			completed++
			continue
		}
		if err := models.SaveMissionProgress(ctx, tx, slot); err != nil {
			return completed, err
		}
	}
	return completed, nil
}

// completeSlot closes a slot and credits its rewards to player.
func (d *Dispatcher) completeSlot(ctx context.Context, tx *sql.Tx, player *models.Player, slot *models.MissionSlot, resp *packet.Response) error {
	now := d.now().UTC()
	slot.CompletedAt = &now
	if err := models.SaveMissionProgress(ctx, tx, slot); err != nil {
		return err
	}
	money := player.AddMoney(slot.MoneyReward)
	player.AddExperience(slot.XPReward)
	resp.Add(packet.MissionCompleted{SlotID: slot.ID, MissionID: slot.MissionID, Money: money, XP: slot.XPReward})
	d.log.Info("mission completed",
		zap.Int64("player_id", player.ID),
		zap.Int64("slot_id", slot.ID),
		zap.String("mission_id", slot.MissionID),
	)
	return nil
}

// ListMissions returns the player's slots described in tag, or in the account
// language when tag is undefined.
func (d *Dispatcher) ListMissions(ctx context.Context, playerID int64, tag language.Tag, includeCompleted bool) ([]MissionView, error) {
	if tag == language.Und {
		tag = d.languageOf(ctx, d.db, playerID)
	}
	var slots []models.MissionSlot
	var err error
	if includeCompleted {
		slots, err = models.ListMissionSlots(ctx, d.db, playerID)
	} else {
		slots, err = models.ListOpenMissionSlots(ctx, d.db, playerID, "")
	}
	if err != nil {
		return nil, err
	}
	out := make([]MissionView, 0, len(slots))
	for _, s := range slots {
		out = append(out, MissionView{
			MissionSlot: s,
			Description: i18n.DescribeMission(tag, s.MissionID, s.Variant, s.Objective),
		})
	}
	return out, nil
}
