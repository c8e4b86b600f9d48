package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/auth"
	"github.com/Crownicles/Crownicles-sub006/internal/config"
	"github.com/Crownicles/Crownicles-sub006/internal/game/dispatch"
	"github.com/Crownicles/Crownicles-sub006/internal/game/mission"
	"github.com/Crownicles/Crownicles-sub006/internal/game/packet"
	"github.com/Crownicles/Crownicles-sub006/internal/middleware"
	"github.com/Crownicles/Crownicles-sub006/internal/models"
	ws "github.com/Crownicles/Crownicles-sub006/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var errUnknownMessageType = errors.New("unknown message type")

// wsOpTimeout bounds a dispatcher call made on behalf of a socket message.
const wsOpTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

func checkOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		// Non-browser clients (no Origin) are allowed.
		return true
	}
	originMu.RLock()
	defer originMu.RUnlock()
	if devMode && devAllowAll {
		return true
	}
	if devMode && isLocalhostOrigin(origin) {
		return true
	}
	return allowedOrigins[origin]
}

// set by config at startup
var (
	originMu       sync.RWMutex
	allowedOrigins = map[string]bool{}
	devMode        = false
	devAllowAll    = false
)

func SetWebSocketOriginPolicy(isDev bool, allowAllDev bool, origins []string) {
	originMu.Lock()
	defer originMu.Unlock()
	devMode = isDev
	devAllowAll = allowAllDev
	allowedOrigins = map[string]bool{}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			allowedOrigins[o] = true
		}
	}
}

func isLocalhostOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// WebSocketHandler upgrades the connection and joins the player's room. Every packet
// produced for the player, over HTTP or the socket, is broadcast to that room.
func WebSocketHandler(hubs func() (*ws.Hub, bool), d *dispatch.Dispatcher, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := wsToken(c, cfg)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := auth.ParseAndValidateToken(token, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		hub, ok := hubs()
		if !ok || hub == nil {
			logger().Error("websocket hub unavailable", zap.Int64("player_id", claims.PlayerID))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger().Warn("websocket upgrade failed",
				zap.String("remote", c.ClientIP()),
				zap.String("origin", c.Request.Header.Get("Origin")),
				zap.Error(err),
			)
			return
		}

		room := PlayerRoom(claims.PlayerID)
		client := ws.NewClient(conn, hub, room, claims.PlayerID)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump(func(msg []byte) {
			handleWSMessage(hub, client, d, msg)
		})

		sendDirect(client, "connected", map[string]any{
			"player_id": claims.PlayerID,
			"room":      room,
		})
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type wsActionPayload struct {
	Action string `json:"action"`
}

func handleWSMessage(hub *ws.Hub, client *ws.Client, d *dispatch.Dispatcher, msg []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
	defer cancel()

	resp, err := dispatchWSMessage(ctx, d, client.PlayerID, msg)
	if err != nil {
		status, safe := apiErrorFor(err)
		if status >= http.StatusInternalServerError {
			logger().Error("websocket message failed", zap.Int64("player_id", client.PlayerID), zap.Error(err))
		}
		sendDirect(client, packet.ErrorPacket{}.PacketName(), packet.ErrorPacket{Error: safe})
		return
	}
	if resp == nil {
		return
	}
	now := time.Now()
	for _, p := range resp.Packets() {
		hub.BroadcastAt(client.Room, p.PacketName(), p, now)
	}
}

// dispatchWSMessage translates one inbound socket message into a dispatcher call.
func dispatchWSMessage(ctx context.Context, d *dispatch.Dispatcher, playerID int64, msg []byte) (*packet.Response, error) {
	var in inboundMessage
	if err := json.Unmarshal(msg, &in); err != nil {
		return nil, models.ErrInvalidJSON
	}
	decode := func(v any) error {
		if len(in.Payload) == 0 {
			return nil
		}
		if err := json.Unmarshal(in.Payload, v); err != nil {
			return models.ErrInvalidJSON
		}
		return nil
	}

	switch in.Type {
	case "mission_event":
		var p struct {
			MissionID string         `json:"mission_id"`
			Count     int            `json:"count"`
			Params    mission.Params `json:"params"`
		}
		if err := decode(&p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.MissionID) == "" {
			return nil, fmt.Errorf("%w: mission_id required", models.ErrUnknownMission)
		}
		return d.UpdateMissions(ctx, playerID, strings.TrimSpace(p.MissionID), p.Count, p.Params)
	case "small_event":
		var p smallEventRequest
		if err := decode(&p); err != nil {
			return nil, err
		}
		_, resp, err := d.ExecuteSmallEvent(ctx, playerID, strings.TrimSpace(p.EventID))
		return resp, err
	case "fight_pet_action":
		var p wsActionPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		return d.FightPetAction(ctx, playerID, strings.TrimSpace(p.Action))
	case "witch_action":
		var p wsActionPayload
		if err := decode(&p); err != nil {
			return nil, err
		}
		return d.WitchAction(ctx, playerID, strings.TrimSpace(p.Action))
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownMessageType, in.Type)
	}
}

func sendDirect(c *ws.Client, typ string, payload any) {
	b, err := ws.Encode(typ, payload, time.Now())
	if err != nil {
		logger().Error("websocket encode failed", zap.String("type", typ), zap.Error(err))
		return
	}
	if !c.TrySend(b) {
		logger().Warn("websocket send dropped",
			zap.Int64("player_id", c.PlayerID),
			zap.String("room", c.Room),
			zap.String("type", typ),
		)
	}
}

// wsToken accepts the session cookie or bearer header, and ?token= when enabled.
func wsToken(c *gin.Context, cfg config.Config) string {
	if t := middleware.TokenFromRequest(c.Request); t != "" {
		return t
	}
	if cfg.WSAllowQueryTokens {
		return strings.TrimSpace(c.Query("token"))
	}
	return ""
}
