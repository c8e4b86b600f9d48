package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/Crownicles/Crownicles-sub006/internal/auth"
	"github.com/Crownicles/Crownicles-sub006/internal/game"
	"github.com/Crownicles/Crownicles-sub006/internal/game/fightpet"
	"github.com/Crownicles/Crownicles-sub006/internal/game/mission"
	"github.com/Crownicles/Crownicles-sub006/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// apiError pairs a sentinel with the status and safe message returned to clients.
type apiError struct {
	target  error
	status  int
	message string
}

// Checked in order; the first errors.Is match wins.
var apiErrors = []apiError{
	{models.ErrInvalidJSON, http.StatusBadRequest, "invalid json"},
	{errUnknownMessageType, http.StatusBadRequest, "unknown message type"},
	{models.ErrPlayerNotFound, http.StatusNotFound, "player not found"},
	{models.ErrUnknownMission, http.StatusNotFound, "unknown mission"},
	{models.ErrUnknownSmallEvent, http.StatusNotFound, "unknown small event"},
	{models.ErrUnknownAction, http.StatusNotFound, "unknown action"},
	{models.ErrNotFound, http.StatusNotFound, "not found"},
	{game.ErrNotFound, http.StatusNotFound, "not found"},
	{sql.ErrNoRows, http.StatusNotFound, "not found"},
	{mission.ErrInvalidDifficulty, http.StatusBadRequest, "invalid difficulty"},
	{models.ErrInvalidLanguage, http.StatusBadRequest, "invalid language"},
	{auth.ErrPasswordValidation, http.StatusBadRequest, "invalid password"},
	{models.ErrUsernameTaken, http.StatusConflict, "username already taken"},
	{models.ErrMissionSlotsFull, http.StatusConflict, "mission slots full"},
	{models.ErrMissionAlreadyAssigned, http.StatusConflict, "mission already assigned"},
	{models.ErrNoEligibleSmallEvent, http.StatusConflict, "no eligible small event"},
	{models.ErrSmallEventNotEligible, http.StatusConflict, "small event not eligible"},
	{models.ErrEncounterInProgress, http.StatusConflict, "fight already in progress"},
	{models.ErrNoEncounter, http.StatusConflict, "no fight in progress"},
	{fightpet.ErrEncounterOver, http.StatusConflict, "fight is over"},
	{fightpet.ErrActionRepeated, http.StatusConflict, "action already used in this fight"},
	{models.ErrNoWitchChoice, http.StatusConflict, "no witch choice pending"},
}

// apiErrorFor resolves err to a status and a message safe to echo.
func apiErrorFor(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, "internal server error"
	}
	for _, e := range apiErrors {
		if errors.Is(err, e.target) {
			return e.status, e.message
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeAPIError(c *gin.Context, err error) {
	status, msg := apiErrorFor(err)
	if status >= http.StatusInternalServerError {
		// Unknown/internal errors: log details, return generic message.
		logger().Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
