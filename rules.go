package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"regexp"
	"strconv"
)

// RuleTemplate is one reusable card. A template is single-language;
// TranslationMap points at the sibling template carrying the same card
// in another language (not required to be symmetric or complete).
type RuleTemplate struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Prompt         string              `json:"prompt"`
	Participants   int                 `json:"participants"`
	ModeIDs        []string            `json:"modeIds"`
	Language       Language            `json:"language"`
	TranslationMap map[Language]string `json:"translationMap,omitempty"`
}

// CompiledRule is one rendered card: a template with players and a
// drink count substituted in.
type CompiledRule struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Text           string              `json:"text"`
	Drinks         int                 `json:"drinks"`
	Players        []string            `json:"players"`
	Language       Language            `json:"language"`
	TranslationMap map[Language]string `json:"translationMap"`
}

var (
	playerToken = regexp.MustCompile(`\{\{player_(\d+)\}\}`)
	drinksToken = regexp.MustCompile(`\{\{drinks\}\}`)
)

// newRand returns a PRNG seeded from crypto/rand. Game logic takes the
// *rand.Rand as a parameter so tests can substitute a fixed seed.
func newRand() *rand.Rand {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(b[:8]),
		binary.LittleEndian.Uint64(b[8:]),
	))
}

func pickRandom(rng *rand.Rand, templates []RuleTemplate) *RuleTemplate {
	if len(templates) == 0 {
		return nil
	}
	picked := templates[rng.IntN(len(templates))]
	return &picked
}

// selectPlayers draws count distinct players via a partial
// Fisher-Yates shuffle; the output order is itself randomized.
func selectPlayers(rng *rand.Rand, players []string, count int) []string {
	pool := make([]string, len(players))
	copy(pool, players)

	if count > len(pool) {
		count = len(pool)
	}

	for i := 0; i < count; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:count]
}

// compileRule selects one applicable template and renders it against
// players. A nil result means "nothing to render" (no players, or no
// template in any tried language fits the player count); it is not an
// error. An empty modeID disables the mode filter.
//
// Templates in the requested language are tried first; if that
// language has none, the English set is tried. Within a language,
// templates matching the selected mode are preferred, but any template
// the player count allows can be drawn so a card is always produced
// when enough players exist.
func compileRule(rng *rand.Rand, players []string, maxDrinks int, modeID string, language Language, templates []RuleTemplate) *CompiledRule {
	if len(players) == 0 {
		return nil
	}

	languagesToTry := []Language{language}
	if language != fallbackLanguage {
		languagesToTry = append(languagesToTry, fallbackLanguage)
	}

	var template *RuleTemplate

	for _, candidate := range languagesToTry {
		var localized []RuleTemplate
		for _, rule := range templates {
			if rule.Language == candidate {
				localized = append(localized, rule)
			}
		}
		if len(localized) == 0 {
			continue
		}

		var applicable, fallback []RuleTemplate
		for _, rule := range localized {
			if len(players) < rule.Participants {
				continue
			}
			fallback = append(fallback, rule)
			if modeID == "" || containsString(rule.ModeIDs, modeID) {
				applicable = append(applicable, rule)
			}
		}

		template = pickRandom(rng, applicable)
		if template == nil {
			template = pickRandom(rng, fallback)
		}
		if template != nil {
			break
		}
	}

	if template == nil {
		return nil
	}

	// The session manager keeps maxDrinks >= 1; floor again so the
	// drink draw cannot panic on a bad caller.
	if maxDrinks < 1 {
		maxDrinks = 1
	}

	drinks := rng.IntN(maxDrinks) + 1
	selectedPlayers := selectPlayers(rng, players, template.Participants)

	text := playerToken.ReplaceAllStringFunc(template.Prompt, func(match string) string {
		rawIndex := playerToken.FindStringSubmatch(match)[1]
		slot, err := strconv.Atoi(rawIndex)
		if err != nil || slot < 1 {
			return "Someone"
		}
		index := slot - 1
		if index < len(selectedPlayers) {
			return selectedPlayers[index]
		}
		// Template references more slots than it declared
		// participants; degrade to modulo indexing.
		if len(players) > 0 {
			return players[index%len(players)]
		}
		return "Someone"
	})
	text = drinksToken.ReplaceAllString(text, strconv.Itoa(drinks))

	translationMap := make(map[Language]string, len(template.TranslationMap)+1)
	for mapLanguage, id := range template.TranslationMap {
		translationMap[mapLanguage] = id
	}
	translationMap[template.Language] = template.ID

	return &CompiledRule{
		ID:             template.ID,
		Title:          template.Title,
		Text:           text,
		Drinks:         drinks,
		Players:        selectedPlayers,
		Language:       template.Language,
		TranslationMap: translationMap,
	}
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func defaultRuleTemplates() []RuleTemplate {
	return []RuleTemplate{
		{
			ID:             "toast-master",
			Title:          "Toast Master",
			Participants:   1,
			ModeIDs:        []string{"classic", "storyteller", "chaos"},
			Language:       LanguageEN,
			TranslationMap: map[Language]string{LanguageFR: "toast-master-fr"},
			Prompt:         "{{player_1}} raises a toast and gives out {{drinks}} drinks to share.",
		},
		{
			ID:             "story-swap",
			Title:          "Story Swap",
			Participants:   2,
			ModeIDs:        []string{"classic", "storyteller"},
			Language:       LanguageEN,
			TranslationMap: map[Language]string{LanguageFR: "story-swap-fr"},
			Prompt:         "{{player_1}} tells a quick tale about {{player_2}}. If {{player_2}} laughs, they hand out {{drinks}} drinks; otherwise {{player_1}} drinks them.",
		},
		{
			ID:             "rabatize-chant",
			Title:          "Rabatize Chant",
			Participants:   1,
			ModeIDs:        []string{"classic", "chaos"},
			Language:       LanguageEN,
			TranslationMap: map[Language]string{LanguageFR: "rabatize-chant-fr"},
			Prompt:         "Everyone chants \"Rabatize\" while {{player_1}} counts down from five. Anyone who breaks rhythm drinks {{drinks}}.",
		},
		{
			ID:             "synchronized-clap",
			Title:          "Synchronized Clap",
			Participants:   2,
			ModeIDs:        []string{"chaos"},
			Language:       LanguageEN,
			TranslationMap: map[Language]string{LanguageFR: "synchronized-clap-fr"},
			Prompt:         "{{player_1}} and {{player_2}} perform a synchronized clap. If they miss, both drink {{drinks}}.",
		},
		{
			ID:             "story-relay",
			Title:          "Story Relay",
			Participants:   3,
			ModeIDs:        []string{"storyteller"},
			Language:       LanguageEN,
			TranslationMap: map[Language]string{LanguageFR: "story-relay-fr"},
			Prompt:         "{{player_1}} starts a story, {{player_2}} continues it, and {{player_3}} ends it. The trio hands out {{drinks}} drinks if the table applauds.",
		},
		{
			ID:             "call-out",
			Title:          "Call Out",
			Participants:   1,
			ModeIDs:        []string{"classic", "chaos"},
			Language:       LanguageEN,
			TranslationMap: map[Language]string{LanguageFR: "call-out-fr"},
			Prompt:         "Anyone who has toasted with {{player_1}} tonight drinks {{drinks}}.",
		},
		{
			ID:             "spotlight-word",
			Title:          "Spotlight Word",
			Participants:   1,
			ModeIDs:        []string{"storyteller", "classic"},
			Language:       LanguageEN,
			TranslationMap: map[Language]string{LanguageFR: "spotlight-word-fr"},
			Prompt:         "{{player_1}} picks a word. Everyone tells a mini-story using it or drinks {{drinks}}.",
		},
		{
			ID:             "seat-swap",
			Title:          "Seat Swap",
			Participants:   2,
			ModeIDs:        []string{"classic", "chaos"},
			Language:       LanguageEN,
			TranslationMap: map[Language]string{LanguageFR: "seat-swap-fr"},
			Prompt:         "{{player_1}} swaps seats with {{player_2}}. The last to sit drinks {{drinks}}.",
		},
		{
			ID:             "toast-master-fr",
			Title:          "Maître du Toast",
			Participants:   1,
			ModeIDs:        []string{"classic", "storyteller", "chaos"},
			Language:       LanguageFR,
			TranslationMap: map[Language]string{LanguageEN: "toast-master"},
			Prompt:         "{{player_1}} porte un toast et distribue {{drinks}} gorgées à partager.",
		},
		{
			ID:             "story-swap-fr",
			Title:          "Échange d’Histoires",
			Participants:   2,
			ModeIDs:        []string{"classic", "storyteller"},
			Language:       LanguageFR,
			TranslationMap: map[Language]string{LanguageEN: "story-swap"},
			Prompt:         "{{player_1}} raconte une anecdote sur {{player_2}}. Si {{player_2}} rit, il distribue {{drinks}} gorgées ; sinon {{player_1}} les boit.",
		},
		{
			ID:             "rabatize-chant-fr",
			Title:          "Chant Rabatize",
			Participants:   1,
			ModeIDs:        []string{"classic", "chaos"},
			Language:       LanguageFR,
			TranslationMap: map[Language]string{LanguageEN: "rabatize-chant"},
			Prompt:         "Tout le monde scande « Rabatize » pendant que {{player_1}} compte à rebours depuis cinq. Quiconque casse le rythme boit {{drinks}}.",
		},
		{
			ID:             "synchronized-clap-fr",
			Title:          "Clap Synchronisé",
			Participants:   2,
			ModeIDs:        []string{"chaos"},
			Language:       LanguageFR,
			TranslationMap: map[Language]string{LanguageEN: "synchronized-clap"},
			Prompt:         "{{player_1}} et {{player_2}} font un clap synchronisé. S’ils se ratent, les deux boivent {{drinks}}.",
		},
		{
			ID:             "story-relay-fr",
			Title:          "Relais d’Histoires",
			Participants:   3,
			ModeIDs:        []string{"storyteller"},
			Language:       LanguageFR,
			TranslationMap: map[Language]string{LanguageEN: "story-relay"},
			Prompt:         "{{player_1}} commence une histoire, {{player_2}} la continue et {{player_3}} la termine. Le trio distribue {{drinks}} gorgées si la table applaudit.",
		},
		{
			ID:             "call-out-fr",
			Title:          "Interpellation",
			Participants:   1,
			ModeIDs:        []string{"classic", "chaos"},
			Language:       LanguageFR,
			TranslationMap: map[Language]string{LanguageEN: "call-out"},
			Prompt:         "Quiconque a trinqué avec {{player_1}} ce soir boit {{drinks}}.",
		},
		{
			ID:             "spotlight-word-fr",
			Title:          "Mot Vedette",
			Participants:   1,
			ModeIDs:        []string{"storyteller", "classic"},
			Language:       LanguageFR,
			TranslationMap: map[Language]string{LanguageEN: "spotlight-word"},
			Prompt:         "{{player_1}} choisit un mot. Chacun raconte une mini-histoire avec ce mot ou boit {{drinks}}.",
		},
		{
			ID:             "seat-swap-fr",
			Title:          "Échange de Places",
			Participants:   2,
			ModeIDs:        []string{"classic", "chaos"},
			Language:       LanguageFR,
			TranslationMap: map[Language]string{LanguageEN: "seat-swap"},
			Prompt:         "{{player_1}} échange sa place avec {{player_2}}. Le dernier assis boit {{drinks}}.",
		},
	}
}
