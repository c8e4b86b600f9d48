package auth

// CookieName is the httpOnly cookie carrying the session token for browser clients,
// read by both the HTTP middleware and the websocket upgrade.
const CookieName = "crownicles_token"

// Context keys set by the auth middleware.
const (
	ContextPlayerID = "playerID"
	ContextUsername = "username"
)
