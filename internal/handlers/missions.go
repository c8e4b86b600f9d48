package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/game/dispatch"
	"github.com/Crownicles/Crownicles-sub006/internal/game/mission"
	"github.com/Crownicles/Crownicles-sub006/internal/i18n"
	"github.com/Crownicles/Crownicles-sub006/internal/models"
	"github.com/Crownicles/Crownicles-sub006/internal/tracing"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

type catalogEntry struct {
	ID          string         `json:"id"`
	Objectives  map[string]int `json:"objectives"`
	Money       map[string]int `json:"money"`
	XP          map[string]int `json:"xp"`
	Description string         `json:"description"`
}

func perDifficulty(easy, medium, hard int) map[string]int {
	return map[string]int{
		string(mission.Easy):   easy,
		string(mission.Medium): medium,
		string(mission.Hard):   hard,
	}
}

// requestLanguage reads ?lang=, returning language.Und when absent so callers can
// fall back to the account language.
func requestLanguage(c *gin.Context) language.Tag {
	v := strings.TrimSpace(c.Query("lang"))
	if v == "" {
		return language.Und
	}
	return i18n.ResolveTag(v, i18n.Default())
}

// MissionCatalogHandler lists every assignable mission with its table values.
func MissionCatalogHandler(d *dispatch.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := requestLanguage(c)
		if tag == language.Und {
			tag = i18n.Default()
		}
		ids := d.Missions().IDs()
		out := make([]catalogEntry, 0, len(ids))
		for _, id := range ids {
			def, ok := d.Tables().Mission(id)
			if !ok {
				continue
			}
			out = append(out, catalogEntry{
				ID:          id,
				Objectives:  perDifficulty(def.Objectives.Easy, def.Objectives.Medium, def.Objectives.Hard),
				Money:       perDifficulty(def.Money.Easy, def.Money.Medium, def.Money.Hard),
				XP:          perDifficulty(def.XP.Easy, def.XP.Medium, def.XP.Hard),
				Description: i18n.DescribeMission(tag, id, 0, def.Objectives.Easy),
			})
		}
		c.JSON(http.StatusOK, gin.H{"missions": out})
	}
}

func ListMyMissionsHandler(d *dispatch.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), "handlers.ListMyMissionsHandler")
		defer span.End()

		playerID, ok := requirePlayer(c)
		if !ok {
			return
		}
		all, _ := strconv.ParseBool(c.DefaultQuery("completed", "false"))
		views, err := d.ListMissions(ctx, playerID, requestLanguage(c), all)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"missions": views})
	}
}

type assignMissionRequest struct {
	MissionID  string `json:"mission_id"`
	Difficulty string `json:"difficulty"`
}

func AssignMissionHandler(d *dispatch.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), "handlers.AssignMissionHandler")
		defer span.End()

		playerID, ok := requirePlayer(c)
		if !ok {
			return
		}
		var req assignMissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeAPIError(c, models.ErrInvalidJSON)
			return
		}
		slot, resp, err := d.AssignMission(ctx, playerID, strings.TrimSpace(req.MissionID), req.Difficulty)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		now := time.Now()
		broadcastResponse(playerID, resp, now)
		c.JSON(http.StatusCreated, gin.H{"slot": slot, "packets": resp.Envelopes(now)})
	}
}

type missionEventRequest struct {
	MissionID string         `json:"mission_id"`
	Count     int            `json:"count"`
	Params    mission.Params `json:"params"`
}

// MissionEventHandler reports gameplay progress for one mission id.
func MissionEventHandler(d *dispatch.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), "handlers.MissionEventHandler")
		defer span.End()

		playerID, ok := requirePlayer(c)
		if !ok {
			return
		}
		var req missionEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeAPIError(c, models.ErrInvalidJSON)
			return
		}
		req.MissionID = strings.TrimSpace(req.MissionID)
		if req.MissionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mission_id required"})
			return
		}
		resp, err := d.UpdateMissions(ctx, playerID, req.MissionID, req.Count, req.Params)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		now := time.Now()
		broadcastResponse(playerID, resp, now)
		c.JSON(http.StatusOK, gin.H{"packets": resp.Envelopes(now)})
	}
}
