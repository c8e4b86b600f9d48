package dispatch

import (
	"sync"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/game/fightpet"
	"github.com/Crownicles/Crownicles-sub006/internal/models"
	"github.com/Crownicles/Crownicles-sub006/internal/random"
	"github.com/google/uuid"
)

// SessionTTL bounds how long an unanswered witch choice or fight stays open.
const SessionTTL = 10 * time.Minute

type fightSession struct {
	enc     *fightpet.Encounter
	started time.Time
	// settling is set while the outcome of a finished fight is being persisted.
	settling    bool
	lastSuccess bool
}

// Sessions keeps the interactive mini-games in memory, one of each kind per player.
type Sessions struct {
	mu      sync.RWMutex
	fights  map[int64]*fightSession
	witches map[int64]time.Time
	now     func() time.Time
	newID   func() string
}

func NewSessions(now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{
		fights:  map[int64]*fightSession{},
		witches: map[int64]time.Time{},
		now:     now,
		newID:   uuid.NewString,
	}
}

func (s *Sessions) expired(started time.Time) bool {
	return s.now().Sub(started) > SessionTTL
}

func (s *Sessions) InFight(playerID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fights[playerID]
	return ok && !s.expired(f.started)
}

func (s *Sessions) StartFight(playerID int64, pet fightpet.FeralPet) (*fightpet.Encounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fights[playerID]; ok && !s.expired(f.started) {
		return nil, models.ErrEncounterInProgress
	}
	enc := fightpet.NewEncounter(s.newID(), playerID, pet)
	s.fights[playerID] = &fightSession{enc: enc, started: s.now()}
	return enc, nil
}

// Play resolves a round of the player's fight. The returned encounter is a copy.
// A finished fight stays until EndFight so its outcome can be persisted; until then
// Play returns the finished encounter again instead of playing a new round, and
// refuses concurrent calls while the outcome is being settled.
func (s *Sessions) Play(playerID int64, actionID string, action fightpet.Action, playerLevel int, rnd random.Source) (fightpet.Encounter, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fights[playerID]
	if !ok || s.expired(f.started) {
		delete(s.fights, playerID)
		return fightpet.Encounter{}, false, models.ErrNoEncounter
	}
	if f.enc.Finished {
		if f.settling {
			return fightpet.Encounter{}, false, models.ErrEncounterInProgress
		}
		f.settling = true
		return *f.enc, f.lastSuccess, nil
	}
	success, err := f.enc.Play(actionID, action, playerLevel, rnd)
	if err != nil {
		return fightpet.Encounter{}, false, err
	}
	f.lastSuccess = success
	f.settling = f.enc.Finished
	return *f.enc, success, nil
}

// ReleaseFight keeps a finished fight whose outcome could not be persisted, so the
// next Play settles it again.
func (s *Sessions) ReleaseFight(playerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fights[playerID]; ok {
		f.settling = false
	}
}

func (s *Sessions) EndFight(playerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fights, playerID)
}

func (s *Sessions) OpenWitch(playerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.witches[playerID] = s.now()
}

func (s *Sessions) WitchOpen(playerID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opened, ok := s.witches[playerID]
	return ok && !s.expired(opened)
}

// TakeWitch consumes the player's pending witch choice and reports when it was
// offered, for ReturnWitch.
func (s *Sessions) TakeWitch(playerID int64) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	opened, ok := s.witches[playerID]
	delete(s.witches, playerID)
	return opened, ok && !s.expired(opened)
}

// ReturnWitch puts back a choice taken by TakeWitch whose outcome was not persisted.
func (s *Sessions) ReturnWitch(playerID int64, opened time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.witches[playerID]; !ok {
		s.witches[playerID] = opened
	}
}

func (s *Sessions) CloseWitch(playerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.witches, playerID)
}
