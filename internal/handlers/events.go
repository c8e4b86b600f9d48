package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/game/dispatch"
	"github.com/Crownicles/Crownicles-sub006/internal/game/packet"
	"github.com/Crownicles/Crownicles-sub006/internal/models"
	"github.com/Crownicles/Crownicles-sub006/internal/tracing"

	"github.com/gin-gonic/gin"
)

type smallEventRequest struct {
	// EventID forces a specific small event; empty draws one by weight.
	EventID string `json:"event_id"`
}

// SmallEventHandler triggers a small event. The body is optional.
func SmallEventHandler(d *dispatch.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), "handlers.SmallEventHandler")
		defer span.End()

		playerID, ok := requirePlayer(c)
		if !ok {
			return
		}
		var req smallEventRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			writeAPIError(c, models.ErrInvalidJSON)
			return
		}
		eventID, resp, err := d.ExecuteSmallEvent(ctx, playerID, strings.TrimSpace(req.EventID))
		if err != nil {
			writeAPIError(c, err)
			return
		}
		now := time.Now()
		broadcastResponse(playerID, resp, now)
		c.JSON(http.StatusOK, gin.H{"event_id": eventID, "packets": resp.Envelopes(now)})
	}
}

// actionHandler adapts a per-player dispatcher action keyed by the :action path param.
func actionHandler(spanName string, run func(ctx context.Context, playerID int64, actionID string) (*packet.Response, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), spanName)
		defer span.End()

		playerID, ok := requirePlayer(c)
		if !ok {
			return
		}
		actionID := strings.TrimSpace(c.Param("action"))
		if actionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "action required"})
			return
		}
		resp, err := run(ctx, playerID, actionID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		now := time.Now()
		broadcastResponse(playerID, resp, now)
		c.JSON(http.StatusOK, gin.H{"packets": resp.Envelopes(now)})
	}
}

func FightPetActionHandler(d *dispatch.Dispatcher) gin.HandlerFunc {
	return actionHandler("handlers.FightPetActionHandler", d.FightPetAction)
}

func WitchActionHandler(d *dispatch.Dispatcher) gin.HandlerFunc {
	return actionHandler("handlers.WitchActionHandler", d.WitchAction)
}
