package main

import (
	"fmt"
	"strings"
)

// Language is a supported UI language code. The set is closed: remote
// config entries carrying any other code are rejected at validation.
type Language string

const (
	LanguageEN Language = "en"
	LanguageFR Language = "fr"

	fallbackLanguage = LanguageEN
)

var supportedLanguages = []Language{LanguageEN, LanguageFR}

func isSupportedLanguage(value string) bool {
	for _, language := range supportedLanguages {
		if string(language) == value {
			return true
		}
	}
	return false
}

// parseLanguage maps an arbitrary code to a supported language,
// falling back to English for anything unrecognized.
func parseLanguage(value string) Language {
	if isSupportedLanguage(value) {
		return Language(value)
	}
	return fallbackLanguage
}

type translationParams map[string]any

var translations = map[Language]map[string]string{
	LanguageEN: {
		"language.en":              "English",
		"language.fr":              "French",
		"home.title":               "Rabatize",
		"home.subtitle":            "Gather the crew and set the stage.",
		"home.playerPlaceholder":   "Player {{index}}",
		"home.addPlayer":           "+ Add player",
		"home.chooseMode":          "Choose a mode",
		"home.helperAddPlayers":    "Add at least two players to begin.",
		"modes.title":              "Select a game mode",
		"modes.subtitle":           "Each mode changes the rhythm of the night.",
		"modes.settingsTitle":      "Maximum drinks per card",
		"modes.startGame":          "Start the game",
		"game.maxDrinks":           "Up to {{count}} drinks per card",
		"game.emptyState":          "Add more players or adjust the mode to generate a rule.",
		"game.nextCard":            "Next card",
		"game.drinksLabel":         "drinks",
		"game.sessionOverview":     "Session overview",
		"game.totalRecordedDrinks": "Total drinks: {{count}}",
		"game.noPlayersTracking":   "Add players to start tracking drinks.",
		"game.recordHint":          "Tap a player to log drinks for this card.",
	},
	LanguageFR: {
		"language.en":              "Anglais",
		"language.fr":              "Français",
		"home.title":               "Rabatize",
		"home.subtitle":            "Rassemble la team et mets l’ambiance.",
		"home.playerPlaceholder":   "Joueur {{index}}",
		"home.addPlayer":           "+ Ajouter un joueur",
		"home.chooseMode":          "Choisir un mode",
		"home.helperAddPlayers":    "Ajoute au moins deux joueurs pour commencer.",
		"modes.title":              "Choisis un mode de jeu",
		"modes.subtitle":           "Chaque mode change le rythme de la soirée.",
		"modes.settingsTitle":      "Nombre max de gorgées par carte",
		"modes.startGame":          "Lancer la partie",
		"game.maxDrinks":           "Jusqu’à {{count}} gorgées par carte",
		"game.emptyState":          "Ajoute des joueurs ou ajuste le mode pour générer une règle.",
		"game.nextCard":            "Carte suivante",
		"game.drinksLabel":         "gorgées",
		"game.sessionOverview":     "Vue de la partie",
		"game.totalRecordedDrinks": "Total gorgées : {{count}}",
		"game.noPlayersTracking":   "Ajoute des joueurs pour suivre les gorgées.",
		"game.recordHint":          "Appuie sur un joueur pour enregistrer les gorgées de cette carte.",
	},
}

// tr resolves key in the requested language, falling back to English
// and finally to the key itself. Parameters substitute {{name}} tokens.
func tr(language Language, key string, params translationParams) string {
	value, ok := translations[language][key]
	if !ok {
		value, ok = translations[fallbackLanguage][key]
	}
	if !ok {
		return key
	}

	for name, param := range params {
		value = strings.ReplaceAll(value, "{{"+name+"}}", fmt.Sprint(param))
	}

	return value
}
