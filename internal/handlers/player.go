package handlers

import (
	"database/sql"
	"net/http"

	"github.com/Crownicles/Crownicles-sub006/internal/models"
	"github.com/Crownicles/Crownicles-sub006/internal/tracing"

	"github.com/gin-gonic/gin"
)

type playerResponse struct {
	Player       *models.Player            `json:"player"`
	XPToLevelUp  int64                     `json:"xp_to_level_up"`
	Pets         []models.Pet              `json:"pets"`
	Potions      []models.Potion           `json:"potions"`
	RecentEvents []models.SmallEventRecord `json:"recent_small_events"`
}

// GetPlayerHandler returns the authenticated player's state, pets and potions.
func GetPlayerHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), "handlers.GetPlayerHandler")
		defer span.End()

		playerID, ok := requirePlayer(c)
		if !ok {
			return
		}
		p, err := models.GetPlayer(ctx, db, playerID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		pets, err := models.ListPets(ctx, db, playerID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		potions, err := models.ListPotions(ctx, db, playerID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		recent, err := models.RecentSmallEvents(ctx, db, playerID, 0)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, playerResponse{
			Player:       p,
			XPToLevelUp:  models.XPToLevelUp(p.Level),
			Pets:         pets,
			Potions:      potions,
			RecentEvents: recent,
		})
	}
}
