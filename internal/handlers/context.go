package handlers

import (
	"math"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/Crownicles/Crownicles-sub006/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var handlerLog atomic.Pointer[zap.Logger]

// SetLogger installs the logger used by handlers. A nil logger silences them.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	handlerLog.Store(l.Named("http"))
}

func logger() *zap.Logger {
	if l := handlerLog.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

func playerIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(auth.ContextPlayerID)
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, t > 0
	case int:
		return int64(t), t > 0
	case float64:
		// some decoders store numbers as float64
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return 0, false
		}
		if t <= 0 || t >= float64(math.MaxInt64) {
			return 0, false
		}
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// requirePlayer aborts with 401 when the auth middleware left no player id.
func requirePlayer(c *gin.Context) (int64, bool) {
	id, ok := playerIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}
