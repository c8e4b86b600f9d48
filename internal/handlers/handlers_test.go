package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/auth"
	"github.com/Crownicles/Crownicles-sub006/internal/config"
	"github.com/Crownicles/Crownicles-sub006/internal/database"
	"github.com/Crownicles/Crownicles-sub006/internal/game/dispatch"
	"github.com/Crownicles/Crownicles-sub006/internal/game/mission"
	"github.com/Crownicles/Crownicles-sub006/internal/game/packet"
	"github.com/Crownicles/Crownicles-sub006/internal/middleware"
	"github.com/Crownicles/Crownicles-sub006/internal/models"
	"github.com/Crownicles/Crownicles-sub006/internal/random"
	ws "github.com/Crownicles/Crownicles-sub006/pkg/websocket"

	"github.com/gin-gonic/gin"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "test-secret",
		JWTIssuer:       "crownicles",
		JWTTTL:          time.Hour,
		AppEnv:          "development",
		DefaultLanguage: "en",
	}
}

type testServer struct {
	router *gin.Engine
	d      *dispatch.Dispatcher
	cfg    config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	db, err := database.OpenAndMigrate(ctx, database.DriverPureGo, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	d, err := dispatch.New(db, dispatch.Options{Rand: &random.Fixed{Ints: []int{0}, Floats: []float64{0.99}}})
	if err != nil {
		t.Fatalf("dispatch.New: %v", err)
	}
	cfg := testConfig()
	r := gin.New()
	api := r.Group("/api")
	RegisterAuthRoutes(api, db, cfg)
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg))
	RegisterGameRoutes(protected, db, d)
	return &testServer{router: r, d: d, cfg: cfg}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register creates an account and returns its token and player id.
func (s *testServer) register(t *testing.T, username string) (string, int64) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "correct horse",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}
	var out authResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	return out.Token, out.Account.ID
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

type packetsBody struct {
	EventID string `json:"event_id"`
	Packets []struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	} `json:"packets"`
}

func TestRegisterLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	token, playerID := s.register(t, "alice")
	if token == "" || playerID <= 0 {
		t.Fatalf("token=%q id=%d", token, playerID)
	}

	if w := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice", "password": "correct horse"}); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register status=%d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "wrong password"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status=%d", w.Code)
	}
	w := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "correct horse"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	var cookieSet bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == auth.CookieName && ck.Value != "" && ck.HttpOnly {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Fatal("expected the session cookie on login")
	}

	w = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status=%d", w.Code)
	}
	var me struct {
		Account models.Account `json:"account"`
	}
	decodeBody(t, w, &me)
	if me.Account.Username != "alice" || me.Account.Language != "en" {
		t.Fatalf("me = %+v", me.Account)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	s := newTestServer(t)
	cases := []map[string]string{
		{"username": "al", "password": "correct horse"},
		{"username": "alice", "password": "short"},
		{"username": "alice", "password": "correct horse", "language": "de"},
	}
	for _, body := range cases {
		if w := s.do(t, http.MethodPost, "/api/auth/register", "", body); w.Code != http.StatusBadRequest {
			t.Errorf("register %v status=%d", body, w.Code)
		}
	}
}

func TestGameRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/me/player", "/api/me/missions", "/api/missions"} {
		if w := s.do(t, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status=%d", path, w.Code)
		}
	}
	if w := s.do(t, http.MethodGet, "/api/me/player", "not-a-token", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token status=%d", w.Code)
	}
}

func TestGetPlayer(t *testing.T) {
	s := newTestServer(t)
	token, playerID := s.register(t, "alice")
	w := s.do(t, http.MethodGet, "/api/me/player", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out playerResponse
	decodeBody(t, w, &out)
	if out.Player == nil || out.Player.ID != playerID || out.Player.Level != 1 {
		t.Fatalf("player = %+v", out.Player)
	}
	if out.XPToLevelUp != models.XPToLevelUp(1) {
		t.Fatalf("xp_to_level_up = %d", out.XPToLevelUp)
	}
}

func TestMissionCatalog(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")
	w := s.do(t, http.MethodGet, "/api/missions?lang=fr", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var out struct {
		Missions []catalogEntry `json:"missions"`
	}
	decodeBody(t, w, &out)
	var found bool
	for _, m := range out.Missions {
		if m.ID == "default" {
			t.Fatal("the default mission must not be listed")
		}
		if m.ID == "meetDifferentPlayers" {
			found = true
			if m.Description != "Rencontrer 3 joueurs différents" {
				t.Fatalf("description = %q", m.Description)
			}
			if m.Objectives[string(mission.Easy)] != 3 {
				t.Fatalf("objectives = %v", m.Objectives)
			}
		}
	}
	if !found {
		t.Fatal("meetDifferentPlayers missing from the catalog")
	}
}

func TestAssignAndProgressMission(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/api/me/missions", token, assignMissionRequest{MissionID: "meetDifferentPlayers", Difficulty: "easy"})
	if w.Code != http.StatusCreated {
		t.Fatalf("assign status=%d body=%s", w.Code, w.Body.String())
	}
	var assigned packetsBody
	decodeBody(t, w, &assigned)
	if len(assigned.Packets) == 0 || assigned.Packets[0].Type != "missionAssigned" {
		t.Fatalf("assign packets = %+v", assigned.Packets)
	}

	if w := s.do(t, http.MethodPost, "/api/me/missions", token, assignMissionRequest{MissionID: "meetDifferentPlayers", Difficulty: "easy"}); w.Code != http.StatusConflict {
		t.Fatalf("duplicate assign status=%d", w.Code)
	}

	// Meeting the same player twice counts once.
	for i := 0; i < 2; i++ {
		w = s.do(t, http.MethodPost, "/api/me/missions/events", token, map[string]any{
			"mission_id": "meetDifferentPlayers",
			"params":     map[string]any{"metPlayerId": 42},
		})
		if w.Code != http.StatusOK {
			t.Fatalf("event status=%d body=%s", w.Code, w.Body.String())
		}
	}

	w = s.do(t, http.MethodGet, "/api/me/missions", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	var list struct {
		Missions []dispatch.MissionView `json:"missions"`
	}
	decodeBody(t, w, &list)
	if len(list.Missions) != 1 || list.Missions[0].NumberDone != 1 {
		t.Fatalf("missions = %+v", list.Missions)
	}
	if list.Missions[0].Description != "Meet 3 different players" {
		t.Fatalf("description = %q", list.Missions[0].Description)
	}
}

func TestAssignMissionErrors(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")
	cases := []struct {
		req  assignMissionRequest
		want int
	}{
		{assignMissionRequest{MissionID: "nope", Difficulty: "easy"}, http.StatusNotFound},
		{assignMissionRequest{MissionID: "default", Difficulty: "easy"}, http.StatusNotFound},
		{assignMissionRequest{MissionID: "earnMoney", Difficulty: "legendary"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if w := s.do(t, http.MethodPost, "/api/me/missions", token, tc.req); w.Code != tc.want {
			t.Errorf("assign %+v status=%d want %d", tc.req, w.Code, tc.want)
		}
	}
}

func TestForcedSmallEvent(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/api/me/small-events", token, smallEventRequest{EventID: "doNothing"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out packetsBody
	decodeBody(t, w, &out)
	if out.EventID != "doNothing" || len(out.Packets) != 1 || out.Packets[0].Type != "smallEventDoNothing" {
		t.Fatalf("out = %+v", out)
	}

	if w := s.do(t, http.MethodPost, "/api/me/small-events", token, smallEventRequest{EventID: "dragon"}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown event status=%d", w.Code)
	}
}

func TestRandomSmallEventWithoutBody(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")
	req := httptest.NewRequest(http.MethodPost, "/api/me/small-events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out packetsBody
	decodeBody(t, w, &out)
	if out.EventID == "" || len(out.Packets) == 0 {
		t.Fatalf("out = %+v", out)
	}
}

func TestMiniGameActionsWithoutSession(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")
	cases := []struct {
		path string
		want int
	}{
		{"/api/me/fight-pet/fistHit", http.StatusConflict},
		{"/api/me/fight-pet/kick", http.StatusNotFound},
		{"/api/me/witch/herbs", http.StatusConflict},
		{"/api/me/witch/broom", http.StatusNotFound},
	}
	for _, tc := range cases {
		if w := s.do(t, http.MethodPost, tc.path, token, nil); w.Code != tc.want {
			t.Errorf("POST %s status=%d want %d body=%s", tc.path, w.Code, tc.want, w.Body.String())
		}
	}
}

func TestDispatchWSMessage(t *testing.T) {
	s := newTestServer(t)
	_, playerID := s.register(t, "alice")
	ctx := context.Background()

	if _, err := dispatchWSMessage(ctx, s.d, playerID, []byte("{")); !errors.Is(err, models.ErrInvalidJSON) {
		t.Fatalf("invalid json err = %v", err)
	}
	if _, err := dispatchWSMessage(ctx, s.d, playerID, []byte(`{"type":"dance"}`)); !errors.Is(err, errUnknownMessageType) {
		t.Fatalf("unknown type err = %v", err)
	}
	if _, err := dispatchWSMessage(ctx, s.d, playerID, []byte(`{"type":"witch_action","payload":{"action":"herbs"}}`)); !errors.Is(err, models.ErrNoWitchChoice) {
		t.Fatalf("witch err = %v", err)
	}

	resp, err := dispatchWSMessage(ctx, s.d, playerID, []byte(`{"type":"small_event","payload":{"event_id":"doNothing"}}`))
	if err != nil {
		t.Fatalf("small_event: %v", err)
	}
	if resp.Len() != 1 || resp.Packets()[0].PacketName() != "smallEventDoNothing" {
		t.Fatalf("packets = %+v", resp.Packets())
	}

	if _, _, err := s.d.AssignMission(ctx, playerID, "meetDifferentPlayers", "easy"); err != nil {
		t.Fatalf("AssignMission: %v", err)
	}
	resp, err = dispatchWSMessage(ctx, s.d, playerID, []byte(`{"type":"mission_event","payload":{"mission_id":"meetDifferentPlayers","params":{"metPlayerId":7}}}`))
	if err != nil {
		t.Fatalf("mission_event: %v", err)
	}
	if resp.Len() != 1 || resp.Packets()[0].PacketName() != "missionProgress" {
		t.Fatalf("packets = %+v", resp.Packets())
	}
}

func TestBroadcastResponseReachesPlayerRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := ws.NewHub(nil)
	go hub.Run(ctx)
	SetHubProvider(func() (*ws.Hub, bool) { return hub, true })
	t.Cleanup(func() { SetHubProvider(nil) })

	mine := ws.NewClient(nil, hub, PlayerRoom(7), 7)
	other := ws.NewClient(nil, hub, PlayerRoom(8), 8)
	hub.Register(mine)
	hub.Register(other)

	resp := packet.NewResponse()
	resp.Add(packet.SmallEventFindMoney{Amount: 12}, packet.SmallEventDoNothing{})
	broadcastResponse(7, resp, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	for _, want := range []string{"smallEventFindMoney", "smallEventDoNothing"} {
		select {
		case msg := <-mine.Send:
			var env struct {
				Type      string `json:"type"`
				Timestamp string `json:"timestamp"`
			}
			if err := json.Unmarshal(msg, &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Type != want || env.Timestamp != "2024-05-01T12:00:00Z" {
				t.Fatalf("envelope = %+v, want type %s", env, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
	select {
	case msg := <-other.Send:
		t.Fatalf("other player received %s", msg)
	default:
	}
}

func TestCheckOrigin(t *testing.T) {
	t.Cleanup(func() { SetWebSocketOriginPolicy(false, false, nil) })
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	SetWebSocketOriginPolicy(false, false, []string{"https://crownicles.com"})
	if !checkOrigin(req("")) {
		t.Error("requests without Origin should pass")
	}
	if !checkOrigin(req("https://crownicles.com")) {
		t.Error("allowed origin rejected")
	}
	if checkOrigin(req("http://localhost:5173")) {
		t.Error("localhost must be rejected outside development")
	}

	SetWebSocketOriginPolicy(true, false, nil)
	if !checkOrigin(req("http://localhost:5173")) {
		t.Error("localhost should pass in development")
	}
	if checkOrigin(req("https://evil.example")) {
		t.Error("foreign origin accepted in development")
	}

	SetWebSocketOriginPolicy(true, true, nil)
	if !checkOrigin(req("https://evil.example")) {
		t.Error("allow-all should accept any origin in development")
	}
}

func TestAPIErrorFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.ErrMissionSlotsFull, http.StatusConflict},
		{mission.ErrInvalidDifficulty, http.StatusBadRequest},
		{models.ErrUnknownAction, http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got, _ := apiErrorFor(tc.err); got != tc.want {
			t.Errorf("apiErrorFor(%v) = %d want %d", tc.err, got, tc.want)
		}
	}
}
