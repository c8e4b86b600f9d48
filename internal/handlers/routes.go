package handlers

import (
	"database/sql"

	"github.com/Crownicles/Crownicles-sub006/internal/config"
	"github.com/Crownicles/Crownicles-sub006/internal/game/dispatch"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes wires the unauthenticated account endpoints.
func RegisterAuthRoutes(rg *gin.RouterGroup, db *sql.DB, cfg config.Config) {
	rg.POST("/auth/register", RegisterHandler(db, cfg))
	rg.POST("/auth/login", LoginHandler(db, cfg))
	rg.GET("/auth/me", MeHandler(db, cfg))
	rg.POST("/auth/logout", LogoutHandler(cfg))
}

// RegisterGameRoutes wires the player endpoints. rg must be auth-gated.
func RegisterGameRoutes(rg *gin.RouterGroup, db *sql.DB, d *dispatch.Dispatcher) {
	rg.GET("/missions", MissionCatalogHandler(d))

	rg.GET("/me/player", GetPlayerHandler(db))
	rg.PUT("/me/language", SetLanguageHandler(db))

	rg.GET("/me/missions", ListMyMissionsHandler(d))
	rg.POST("/me/missions", AssignMissionHandler(d))
	rg.POST("/me/missions/events", MissionEventHandler(d))

	rg.POST("/me/small-events", SmallEventHandler(d))
	rg.POST("/me/fight-pet/:action", FightPetActionHandler(d))
	rg.POST("/me/witch/:action", WitchActionHandler(d))
}
