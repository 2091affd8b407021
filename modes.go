package main

// GameModeCopy is the display copy for one mode in one language.
type GameModeCopy struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
}

// GameMode is a play style. It filters which rule templates are
// eligible; templates reference modes, not the other way around.
// A mode is only usable if it carries at least the fallback-language
// translation.
type GameMode struct {
	ID           string                    `json:"id"`
	Translations map[Language]GameModeCopy `json:"translations"`
}

// gameModeCopy resolves the display copy for language, falling back to
// English when the requested language has no entry.
func gameModeCopy(mode GameMode, language Language) GameModeCopy {
	if copyForLanguage, ok := mode.Translations[language]; ok {
		return copyForLanguage
	}
	return mode.Translations[fallbackLanguage]
}

func defaultGameModes() []GameMode {
	return []GameMode{
		{
			ID: "classic",
			Translations: map[Language]GameModeCopy{
				LanguageEN: {
					Name:        "Classic Rabatize",
					Tagline:     "Balanced mix of group prompts and quick dares.",
					Description: "The classic experience. Expect social challenges, rhythm games, and cheers that make everyone feel part of the crew.",
				},
				LanguageFR: {
					Name:        "Rabatize Classique",
					Tagline:     "Un mélange équilibré de défis de groupe et de gages rapides.",
					Description: "L’expérience classique. Des défis sociaux, des jeux de rythme et des toasts qui soudent toute la bande.",
				},
			},
		},
		{
			ID: "storyteller",
			Translations: map[Language]GameModeCopy{
				LanguageEN: {
					Name:        "Storyteller",
					Tagline:     "Spin tales, weave lies, and toast to the best improv.",
					Description: "Every card nudges the group to share a story or improvise a hilarious moment. Perfect for players who love tall tales.",
				},
				LanguageFR: {
					Name:        "Conteur",
					Tagline:     "Raconte des histoires, invente des mensonges et trinque à la meilleure impro.",
					Description: "Chaque carte pousse le groupe à raconter une histoire ou à improviser un moment hilarant. Parfait pour les beaux parleurs.",
				},
			},
		},
		{
			ID: "chaos",
			Translations: map[Language]GameModeCopy{
				LanguageEN: {
					Name:        "Chaos Mode",
					Tagline:     "Fast-paced twists with plenty of group participation.",
					Description: "Expect the unexpected: sudden challenges, partner swaps, and cheers that keep everyone guessing what comes next.",
				},
				LanguageFR: {
					Name:        "Mode Chaos",
					Tagline:     "Des rebondissements rapides et beaucoup de participation.",
					Description: "Attends-toi à l’inattendu : défis soudains, échanges de partenaires et toasts qui gardent tout le monde en haleine.",
				},
			},
		},
	}
}
