package main

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// PlayerDrinkStat is one row of the per-player drink tally. Index is
// the position in the raw roster, so adjustments round-trip even when
// blank-named slots are filtered out of the view.
type PlayerDrinkStat struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Drinks int    `json:"drinks"`
}

// Session holds one game's mutable state: the player roster, the
// selected mode, the drink bound and the per-player drink counters.
// All mutation goes through its methods; counters are kept aligned
// with the roster. State lives for one session only and is never
// persisted.
type Session struct {
	mu             sync.Mutex
	players        []string
	drinkLog       []int
	selectedModeID string
	maxDrinks      int
	language       Language
}

func newSession() *Session {
	return &Session{
		players:   []string{"Player 1", "Player 2", "Player 3"},
		drinkLog:  []int{0, 0, 0},
		maxDrinks: 3,
		language:  fallbackLanguage,
	}
}

// syncDrinkLogLocked pads with zeroes or truncates so the counters
// stay positionally aligned with the roster.
func (s *Session) syncDrinkLogLocked() {
	switch {
	case len(s.drinkLog) < len(s.players):
		for len(s.drinkLog) < len(s.players) {
			s.drinkLog = append(s.drinkLog, 0)
		}
	case len(s.drinkLog) > len(s.players):
		s.drinkLog = s.drinkLog[:len(s.players)]
	}
}

func (s *Session) UpdatePlayer(index int, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.players) {
		return
	}
	s.players[index] = name
}

func (s *Session) AddPlayer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = append(s.players, fmt.Sprintf("Player %d", len(s.players)+1))
	s.syncDrinkLogLocked()
}

// RemovePlayer drops the slot at index. The last remaining player is
// never removed; a session always keeps at least one slot.
func (s *Session) RemovePlayer(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) <= 1 || index < 0 || index >= len(s.players) {
		return
	}
	s.players = append(s.players[:index], s.players[index+1:]...)
	s.drinkLog = append(s.drinkLog[:index], s.drinkLog[index+1:]...)
}

// SelectMode records the mode id without validating it against the
// live catalog; a dangling id degrades to mode-less filtering when a
// card is compiled.
func (s *Session) SelectMode(modeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedModeID = modeID
}

func (s *Session) ResetMode() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedModeID = ""
}

func (s *Session) IncreaseMaxDrinks() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxDrinks++
}

func (s *Session) DecreaseMaxDrinks() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxDrinks > 1 {
		s.maxDrinks--
	}
}

// SetMaxDrinks rounds to the nearest integer, then floors at 1.
func (s *Session) SetMaxDrinks(value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxDrinks = int(math.Max(1, math.Round(value)))
}

func (s *Session) SetLanguage(language Language) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.language = language
}

// AdjustDrinkTotal applies a signed delta to one player's counter,
// clamped at zero. Out-of-range indexes are a no-op.
func (s *Session) AdjustDrinkTotal(index int, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.drinkLog) {
		return
	}
	updated := s.drinkLog[index] + delta
	if updated < 0 {
		updated = 0
	}
	s.drinkLog[index] = updated
}

// RecordDrinkForPlayer credits amount drinks to the player whose
// trimmed name matches. Unknown names and non-positive amounts are
// no-ops.
func (s *Session) RecordDrinkForPlayer(playerName string, amount int) {
	if amount <= 0 {
		return
	}

	target := strings.TrimSpace(playerName)
	if target == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for index, player := range s.players {
		if strings.TrimSpace(player) == target {
			s.drinkLog[index] += amount
			return
		}
	}
}

func (s *Session) ResetDrinkStats() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for index := range s.drinkLog {
		s.drinkLog[index] = 0
	}
}

func (s *Session) Players() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := make([]string, len(s.players))
	copy(players, s.players)
	return players
}

// ActivePlayers is the trimmed, non-blank subsequence of the roster,
// original order preserved.
func (s *Session) ActivePlayers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]string, 0, len(s.players))
	for _, player := range s.players {
		trimmed := strings.TrimSpace(player)
		if trimmed != "" {
			active = append(active, trimmed)
		}
	}
	return active
}

// PlayerStats is the per-player tally, blank-named slots excluded.
func (s *Session) PlayerStats() []PlayerDrinkStat {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make([]PlayerDrinkStat, 0, len(s.players))
	for index, player := range s.players {
		trimmed := strings.TrimSpace(player)
		if trimmed == "" {
			continue
		}
		stats = append(stats, PlayerDrinkStat{
			Index:  index,
			Name:   trimmed,
			Drinks: s.drinkLog[index],
		})
	}
	return stats
}

func (s *Session) SelectedModeID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectedModeID
}

func (s *Session) MaxDrinks() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.maxDrinks
}

func (s *Session) Language() Language {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.language
}
