package main

import (
	"reflect"
	"testing"
)

func Test_Session_Defaults(t *testing.T) {
	s := newSession()

	if got := s.Players(); len(got) != 3 {
		t.Errorf("got %d default players, want 3", len(got))
	}
	if got := s.MaxDrinks(); got != 3 {
		t.Errorf("got default max drinks %d, want 3", got)
	}
	if got := s.SelectedModeID(); got != "" {
		t.Errorf("expected no mode selected initially, got %q", got)
	}
	if got := s.Language(); got != LanguageEN {
		t.Errorf("got default language %s, want en", got)
	}
}

func Test_Session_RemovePlayerKeepsLastSlot(t *testing.T) {
	s := newSession()

	s.RemovePlayer(0)
	s.RemovePlayer(0)
	if got := len(s.Players()); got != 1 {
		t.Fatalf("got %d players, want 1", got)
	}

	// Removing the last remaining player is a no-op.
	s.RemovePlayer(0)
	if got := len(s.Players()); got != 1 {
		t.Errorf("got %d players after removing the last slot, want 1", got)
	}
}

func Test_Session_RemovePlayerOutOfRange(t *testing.T) {
	s := newSession()

	s.RemovePlayer(-1)
	s.RemovePlayer(99)
	if got := len(s.Players()); got != 3 {
		t.Errorf("out-of-range removal changed the roster: %d players", got)
	}
}

func Test_Session_DrinkLogFollowsRoster(t *testing.T) {
	s := newSession()

	s.AdjustDrinkTotal(1, 4)
	s.AddPlayer()
	stats := s.PlayerStats()
	if len(stats) != 4 {
		t.Fatalf("got %d stat rows, want 4", len(stats))
	}
	if stats[3].Drinks != 0 {
		t.Errorf("new player should start at zero drinks, got %d", stats[3].Drinks)
	}
	if stats[1].Drinks != 4 {
		t.Errorf("existing counter lost on resize: got %d, want 4", stats[1].Drinks)
	}

	s.RemovePlayer(0)
	stats = s.PlayerStats()
	if len(stats) != 3 {
		t.Fatalf("got %d stat rows after removal, want 3", len(stats))
	}
	if stats[0].Drinks != 4 {
		t.Errorf("counter should follow its player after removal, got %d", stats[0].Drinks)
	}
}

func Test_Session_MaxDrinksFloor(t *testing.T) {
	s := newSession()

	s.SetMaxDrinks(1)
	s.DecreaseMaxDrinks()
	if got := s.MaxDrinks(); got != 1 {
		t.Errorf("decrease below 1 should clamp, got %d", got)
	}

	s.IncreaseMaxDrinks()
	if got := s.MaxDrinks(); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func Test_Session_SetMaxDrinksRounds(t *testing.T) {
	tests := []struct {
		value float64
		want  int
	}{
		{2.4, 2},
		{2.5, 3},
		{0.2, 1},
		{-3, 1},
	}

	for _, test := range tests {
		s := newSession()
		s.SetMaxDrinks(test.value)
		if got := s.MaxDrinks(); got != test.want {
			t.Errorf("SetMaxDrinks(%v) = %d, want %d", test.value, got, test.want)
		}
	}
}

func Test_Session_ModeSelection(t *testing.T) {
	s := newSession()

	// Mode ids are not validated against the live catalog; a dangling
	// id is treated as "no mode" at compile time.
	s.SelectMode("does-not-exist")
	if got := s.SelectedModeID(); got != "does-not-exist" {
		t.Errorf("got %q", got)
	}

	s.ResetMode()
	if got := s.SelectedModeID(); got != "" {
		t.Errorf("expected mode reset, got %q", got)
	}
}

func Test_Session_AdjustDrinkTotalClamps(t *testing.T) {
	s := newSession()

	s.AdjustDrinkTotal(0, -5)
	if got := s.PlayerStats()[0].Drinks; got != 0 {
		t.Errorf("counter went negative: %d", got)
	}

	s.AdjustDrinkTotal(0, 3)
	s.AdjustDrinkTotal(0, -1)
	if got := s.PlayerStats()[0].Drinks; got != 2 {
		t.Errorf("got %d, want 2", got)
	}

	// Out of range is a no-op, not a panic.
	s.AdjustDrinkTotal(-1, 1)
	s.AdjustDrinkTotal(99, 1)
}

func Test_Session_RecordDrinkForPlayer(t *testing.T) {
	s := newSession()
	s.UpdatePlayer(0, "  Ana  ")
	s.UpdatePlayer(1, "Beto")

	s.RecordDrinkForPlayer("Ana", 2)
	if got := s.PlayerStats()[0].Drinks; got != 2 {
		t.Errorf("trimmed-name match failed: got %d, want 2", got)
	}

	s.RecordDrinkForPlayer("nobody", 2)
	s.RecordDrinkForPlayer("Beto", 0)
	s.RecordDrinkForPlayer("Beto", -1)
	if got := s.PlayerStats()[1].Drinks; got != 0 {
		t.Errorf("no-op cases recorded drinks: got %d", got)
	}
}

func Test_Session_ResetDrinkStats(t *testing.T) {
	s := newSession()
	s.AdjustDrinkTotal(0, 3)
	s.AdjustDrinkTotal(2, 1)

	s.ResetDrinkStats()
	for _, stat := range s.PlayerStats() {
		if stat.Drinks != 0 {
			t.Errorf("player %d still has %d drinks after reset", stat.Index, stat.Drinks)
		}
	}
}

func Test_Session_ActivePlayers(t *testing.T) {
	s := newSession()
	s.UpdatePlayer(0, "  Ana ")
	s.UpdatePlayer(1, "   ")
	s.UpdatePlayer(2, "Caro")

	got := s.ActivePlayers()
	want := []string{"Ana", "Caro"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func Test_Session_PlayerStatsSkipBlankSlots(t *testing.T) {
	s := newSession()
	s.UpdatePlayer(1, "")
	s.AdjustDrinkTotal(2, 2)

	stats := s.PlayerStats()
	if len(stats) != 2 {
		t.Fatalf("got %d stat rows, want 2", len(stats))
	}
	if stats[1].Index != 2 || stats[1].Drinks != 2 {
		t.Errorf("stats should keep original indexes: %+v", stats[1])
	}
}
