package main

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func templateByID(t *testing.T, templates []RuleTemplate, id string) RuleTemplate {
	t.Helper()
	for _, template := range templates {
		if template.ID == id {
			return template
		}
	}
	t.Fatalf("no template with id %q", id)
	return RuleTemplate{}
}

func Test_CompileRule_NoPlayers(t *testing.T) {
	rule := compileRule(testRand(), nil, 3, "classic", LanguageEN, defaultRuleTemplates())
	if rule != nil {
		t.Errorf("expected nil rule for empty player list, got %q", rule.ID)
	}
}

func Test_CompileRule_DrinkBounds(t *testing.T) {
	rng := testRand()
	players := []string{"Ana", "Beto", "Caro", "Dani"}

	for _, maxDrinks := range []int{1, 3, 7} {
		for i := 0; i < 200; i++ {
			rule := compileRule(rng, players, maxDrinks, "classic", LanguageEN, defaultRuleTemplates())
			if rule == nil {
				t.Fatalf("expected a rule with %d players available", len(players))
			}
			if rule.Drinks < 1 || rule.Drinks > maxDrinks {
				t.Fatalf("drinks %d outside [1, %d]", rule.Drinks, maxDrinks)
			}
		}
	}
}

func Test_CompileRule_ParticipantsDistinct(t *testing.T) {
	rng := testRand()
	players := []string{"Ana", "Beto", "Caro", "Dani"}
	templates := defaultRuleTemplates()

	for i := 0; i < 200; i++ {
		rule := compileRule(rng, players, 3, "storyteller", LanguageEN, templates)
		if rule == nil {
			t.Fatal("expected a rule")
		}

		template := templateByID(t, templates, rule.ID)
		if len(rule.Players) != template.Participants {
			t.Fatalf("rule %q selected %d players, template wants %d", rule.ID, len(rule.Players), template.Participants)
		}

		seen := make(map[string]bool)
		for _, player := range rule.Players {
			if seen[player] {
				t.Fatalf("duplicate player %q in selection", player)
			}
			seen[player] = true

			if !containsString(players, player) {
				t.Fatalf("selected player %q not in input roster", player)
			}
		}
	}
}

func Test_CompileRule_NoLeftoverTokens(t *testing.T) {
	rng := testRand()
	players := []string{"Ana", "Beto", "Caro"}

	for i := 0; i < 200; i++ {
		rule := compileRule(rng, players, 3, "chaos", LanguageEN, defaultRuleTemplates())
		if rule == nil {
			t.Fatal("expected a rule")
		}
		if strings.Contains(rule.Text, "{{") || strings.Contains(rule.Text, "}}") {
			t.Fatalf("unsubstituted token in rendered text: %q", rule.Text)
		}
	}
}

func Test_CompileRule_LanguagePreference(t *testing.T) {
	rng := testRand()
	players := []string{"Ana", "Beto", "Caro"}

	for i := 0; i < 100; i++ {
		rule := compileRule(rng, players, 3, "classic", LanguageFR, defaultRuleTemplates())
		if rule == nil {
			t.Fatal("expected a rule")
		}
		if rule.Language != LanguageFR {
			t.Fatalf("expected a French template, got %q (%s)", rule.ID, rule.Language)
		}
	}
}

func Test_CompileRule_LanguageFallback(t *testing.T) {
	englishOnly := []RuleTemplate{
		{
			ID:           "solo",
			Title:        "Solo",
			Prompt:       "{{player_1}} drinks {{drinks}}.",
			Participants: 1,
			ModeIDs:      []string{"classic"},
			Language:     LanguageEN,
		},
	}

	rule := compileRule(testRand(), []string{"Ana"}, 2, "classic", LanguageFR, englishOnly)
	if rule == nil {
		t.Fatal("expected a fallback-language rule")
	}
	if rule.Language != LanguageEN {
		t.Errorf("expected fallback to English, got %s", rule.Language)
	}
}

func Test_CompileRule_UnknownModeFallsBack(t *testing.T) {
	rule := compileRule(testRand(), []string{"Ana", "Beto"}, 3, "does-not-exist", LanguageEN, defaultRuleTemplates())
	if rule == nil {
		t.Fatal("expected a rule even for an unknown mode id")
	}
}

func Test_CompileRule_InsufficientPlayers(t *testing.T) {
	trios := []RuleTemplate{
		{
			ID:           "trio",
			Title:        "Trio",
			Prompt:       "{{player_1}}, {{player_2}} and {{player_3}} drink {{drinks}}.",
			Participants: 3,
			ModeIDs:      []string{"classic"},
			Language:     LanguageEN,
		},
	}

	rule := compileRule(testRand(), []string{"Ana"}, 3, "classic", LanguageEN, trios)
	if rule != nil {
		t.Errorf("expected nil when no template fits the player count, got %q", rule.ID)
	}
}

func Test_CompileRule_TranslationMapSelfClosing(t *testing.T) {
	rule := compileRule(testRand(), []string{"Ana", "Beto", "Caro"}, 3, "classic", LanguageEN, defaultRuleTemplates())
	if rule == nil {
		t.Fatal("expected a rule")
	}
	if rule.TranslationMap[rule.Language] != rule.ID {
		t.Errorf("translation map does not self-close: %v", rule.TranslationMap)
	}
}

func Test_CompileRule_ExtraSlotsDegradeToModulo(t *testing.T) {
	// Declares one participant but references two slots; slot 2 falls
	// back to modulo indexing over the roster instead of crashing.
	templates := []RuleTemplate{
		{
			ID:           "overdrawn",
			Title:        "Overdrawn",
			Prompt:       "{{player_1}} toasts {{player_2}} for {{drinks}}.",
			Participants: 1,
			ModeIDs:      []string{"classic"},
			Language:     LanguageEN,
		},
	}

	rule := compileRule(testRand(), []string{"Ana", "Beto"}, 2, "classic", LanguageEN, templates)
	if rule == nil {
		t.Fatal("expected a rule")
	}
	if strings.Contains(rule.Text, "{{") {
		t.Fatalf("unsubstituted token in %q", rule.Text)
	}
	if strings.Contains(rule.Text, "Someone") {
		t.Errorf("expected modulo fallback before the literal placeholder, got %q", rule.Text)
	}
}

func Test_CompileRule_Scenario(t *testing.T) {
	rng := testRand()
	players := []string{"Ana", "Beto"}
	templates := defaultRuleTemplates()

	for i := 0; i < 100; i++ {
		rule := compileRule(rng, players, 3, "classic", LanguageEN, templates)
		if rule == nil {
			t.Fatal("expected a rule for the classic scenario")
		}
		if rule.Drinks < 1 || rule.Drinks > 3 {
			t.Fatalf("drinks %d outside [1, 3]", rule.Drinks)
		}

		template := templateByID(t, templates, rule.ID)
		if len(rule.Players) != template.Participants {
			t.Fatalf("selected %d players for a %d-participant template", len(rule.Players), template.Participants)
		}
		for _, player := range rule.Players {
			if player != "Ana" && player != "Beto" {
				t.Fatalf("unexpected player %q", player)
			}
		}
	}
}

func Test_SelectPlayers(t *testing.T) {
	rng := testRand()
	players := []string{"Ana", "Beto", "Caro", "Dani", "Eli"}

	for count := 0; count <= len(players)+2; count++ {
		selected := selectPlayers(rng, players, count)

		want := count
		if want > len(players) {
			want = len(players)
		}
		if len(selected) != want {
			t.Fatalf("selected %d players, want %d", len(selected), want)
		}

		seen := make(map[string]bool)
		for _, player := range selected {
			if seen[player] {
				t.Fatalf("duplicate %q in selection", player)
			}
			seen[player] = true
		}
	}
}
