package main

import "testing"

func Test_Tr(t *testing.T) {
	tests := []struct {
		name     string
		language Language
		key      string
		params   translationParams
		want     string
	}{
		{
			name:     "english lookup",
			language: LanguageEN,
			key:      "game.nextCard",
			want:     "Next card",
		},
		{
			name:     "french lookup",
			language: LanguageFR,
			key:      "game.nextCard",
			want:     "Carte suivante",
		},
		{
			name:     "parameter substitution",
			language: LanguageEN,
			key:      "game.maxDrinks",
			params:   translationParams{"count": 3},
			want:     "Up to 3 drinks per card",
		},
		{
			name:     "missing key falls back to the key itself",
			language: LanguageFR,
			key:      "missing.key",
			want:     "missing.key",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := tr(test.language, test.key, test.params); got != test.want {
				t.Errorf("tr(%s, %q) = %q, want %q", test.language, test.key, got, test.want)
			}
		})
	}
}

func Test_ParseLanguage(t *testing.T) {
	if got := parseLanguage("fr"); got != LanguageFR {
		t.Errorf("got %s, want fr", got)
	}
	if got := parseLanguage("de"); got != LanguageEN {
		t.Errorf("unrecognized code should fall back to en, got %s", got)
	}
	if got := parseLanguage(""); got != LanguageEN {
		t.Errorf("empty code should fall back to en, got %s", got)
	}
}

func Test_GameModeCopyFallback(t *testing.T) {
	for _, mode := range defaultGameModes() {
		fr := gameModeCopy(mode, LanguageFR)
		if fr.Name == "" {
			t.Errorf("mode %s has no French copy", mode.ID)
		}
	}

	englishOnly := GameMode{
		ID: "solo",
		Translations: map[Language]GameModeCopy{
			LanguageEN: {Name: "Solo", Tagline: "t", Description: "d"},
		},
	}
	if got := gameModeCopy(englishOnly, LanguageFR); got.Name != "Solo" {
		t.Errorf("expected fallback to English copy, got %+v", got)
	}
}
