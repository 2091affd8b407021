package main

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RemoteConfig resolves the rule/mode catalogs, preferring a remotely
// fetched payload and falling back to the bundled defaults on any
// failure. It always ends up Ready with non-empty catalogs; dependent
// handlers never block on it and never see an empty catalog pair.
type RemoteConfig struct {
	cfg    *Config
	client *http.Client

	mu            sync.RWMutex
	gameModes     []GameMode
	ruleTemplates []RuleTemplate
	ready         bool
	loading       bool
	lastError     string
	lastLoad      time.Time
}

// partialGameMode is a remotely supplied mode before merging: its
// translations may cover only some languages.
type partialGameMode struct {
	id           string
	translations map[Language]GameModeCopy
}

type remoteConfigResponse struct {
	modes []partialGameMode
	rules []RuleTemplate
}

func newRemoteConfig(cfg *Config) *RemoteConfig {
	return &RemoteConfig{
		cfg:           cfg,
		client:        &http.Client{Timeout: cfg.configTimeout},
		gameModes:     defaultGameModes(),
		ruleTemplates: defaultRuleTemplates(),
	}
}

func isRecord(value any) (map[string]any, bool) {
	record, ok := value.(map[string]any)
	return record, ok
}

// parseGameMode validates one remote mode entry. Malformed
// per-language translations are dropped individually; the whole entry
// is discarded only when id or translations are the wrong type, or
// when no fallback-language translation survives.
func parseGameMode(value any) *partialGameMode {
	record, ok := isRecord(value)
	if !ok {
		return nil
	}

	id, ok := record["id"].(string)
	if !ok {
		return nil
	}

	rawTranslations, ok := isRecord(record["translations"])
	if !ok {
		return nil
	}

	translations := make(map[Language]GameModeCopy)
	for code, rawCopy := range rawTranslations {
		if !isSupportedLanguage(code) {
			continue
		}
		copyRecord, ok := isRecord(rawCopy)
		if !ok {
			continue
		}

		name, nameOK := copyRecord["name"].(string)
		tagline, taglineOK := copyRecord["tagline"].(string)
		description, descriptionOK := copyRecord["description"].(string)
		if !nameOK || !taglineOK || !descriptionOK {
			continue
		}

		translations[Language(code)] = GameModeCopy{
			Name:        name,
			Tagline:     tagline,
			Description: description,
		}
	}

	if _, ok := translations[fallbackLanguage]; !ok {
		return nil
	}

	return &partialGameMode{
		id:           id,
		translations: translations,
	}
}

// parseRuleTemplate validates one remote template entry. Malformed
// translationMap entries are dropped; everything else malformed
// discards the entry.
func parseRuleTemplate(value any) *RuleTemplate {
	record, ok := isRecord(value)
	if !ok {
		return nil
	}

	id, idOK := record["id"].(string)
	title, titleOK := record["title"].(string)
	prompt, promptOK := record["prompt"].(string)
	participants, participantsOK := record["participants"].(float64)
	language, languageOK := record["language"].(string)

	if !idOK || !titleOK || !promptOK || !participantsOK ||
		math.IsNaN(participants) || participants <= 0 ||
		!languageOK || !isSupportedLanguage(language) {
		return nil
	}

	rawModeIDs, ok := record["modeIds"].([]any)
	if !ok {
		return nil
	}
	modeIDs := make([]string, 0, len(rawModeIDs))
	for _, rawModeID := range rawModeIDs {
		modeID, ok := rawModeID.(string)
		if !ok {
			return nil
		}
		modeIDs = append(modeIDs, modeID)
	}

	translationMap := make(map[Language]string)
	if rawTranslationMap, ok := isRecord(record["translationMap"]); ok {
		for code, rawID := range rawTranslationMap {
			mappedID, ok := rawID.(string)
			if !ok || !isSupportedLanguage(code) {
				continue
			}
			translationMap[Language(code)] = mappedID
		}
	}

	return &RuleTemplate{
		ID:             id,
		Title:          title,
		Prompt:         prompt,
		Participants:   int(math.Max(1, math.Round(participants))),
		ModeIDs:        modeIDs,
		Language:       Language(language),
		TranslationMap: translationMap,
	}
}

func parseConfigResponse(value any) (*remoteConfigResponse, error) {
	record, ok := isRecord(value)
	if !ok {
		return nil, &ConfigParseError{Err: errors.New("payload is not an object")}
	}

	response := &remoteConfigResponse{}

	if rawModes, ok := record["modes"].([]any); ok {
		for _, rawMode := range rawModes {
			if mode := parseGameMode(rawMode); mode != nil {
				response.modes = append(response.modes, *mode)
			}
		}
	}

	if rawRules, ok := record["rules"].([]any); ok {
		for _, rawRule := range rawRules {
			if rule := parseRuleTemplate(rawRule); rule != nil {
				response.rules = append(response.rules, *rule)
			}
		}
	}

	return response, nil
}

// mergeWithDefaults overlays remotely accepted modes onto the bundled
// defaults: the default's translations fill languages the remote entry
// left out, remote entries win per language. A merged mode still
// missing the fallback language is dropped. Zero remote modes means
// the full default catalog, never an empty one.
func mergeWithDefaults(remoteModes []partialGameMode, defaults []GameMode) []GameMode {
	if len(remoteModes) == 0 {
		return defaults
	}

	merged := make([]GameMode, 0, len(remoteModes))
	for _, mode := range remoteModes {
		translations := make(map[Language]GameModeCopy)
		for _, defaultMode := range defaults {
			if defaultMode.ID == mode.id {
				for language, copyForLanguage := range defaultMode.Translations {
					translations[language] = copyForLanguage
				}
				break
			}
		}
		for language, copyForLanguage := range mode.translations {
			translations[language] = copyForLanguage
		}

		if _, ok := translations[fallbackLanguage]; !ok {
			continue
		}

		merged = append(merged, GameMode{
			ID:           mode.id,
			Translations: translations,
		})
	}

	return merged
}

func (rc *RemoteConfig) fetch(ctx context.Context) (*remoteConfigResponse, error) {
	if rc.cfg.configURL == "" {
		return nil, errors.New("missing remote config URL (--config-url)")
	}

	endpoint := strings.TrimRight(rc.cfg.configURL, "/") + "/config"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := rc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ConfigFetchError{Status: resp.StatusCode}
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &ConfigParseError{Err: err}
	}

	return parseConfigResponse(payload)
}

// Load runs one fetch-validate-merge attempt. Any failure falls back
// to the bundled defaults and records the error; the resolver is
// always Ready afterwards. Safe to call repeatedly; concurrent calls
// are last-write-wins by design.
func (rc *RemoteConfig) Load(ctx context.Context) {
	rc.mu.Lock()
	rc.loading = true
	rc.mu.Unlock()

	gameModes := defaultGameModes()
	ruleTemplates := defaultRuleTemplates()
	lastError := ""

	response, err := rc.fetch(ctx)
	if err != nil {
		logf(rc.cfg, "CONFIG: Falling back to bundled defaults: %v", err)
		lastError = err.Error()
	} else {
		if merged := mergeWithDefaults(response.modes, gameModes); len(merged) > 0 {
			gameModes = merged
		}
		if len(response.rules) > 0 {
			ruleTemplates = response.rules
		}
		logf(rc.cfg, "CONFIG: Loaded %d modes and %d rule templates", len(gameModes), len(ruleTemplates))
	}

	rc.mu.Lock()
	rc.gameModes = gameModes
	rc.ruleTemplates = ruleTemplates
	rc.lastError = lastError
	rc.ready = true
	rc.loading = false
	rc.lastLoad = time.Now()
	rc.mu.Unlock()
}

// Reload repeats the fetch-validate-merge-fallback sequence.
func (rc *RemoteConfig) Reload(ctx context.Context) {
	rc.Load(ctx)
}

func (rc *RemoteConfig) GameModes() []GameMode {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	modes := make([]GameMode, len(rc.gameModes))
	copy(modes, rc.gameModes)
	return modes
}

func (rc *RemoteConfig) RuleTemplates() []RuleTemplate {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	templates := make([]RuleTemplate, len(rc.ruleTemplates))
	copy(templates, rc.ruleTemplates)
	return templates
}

func (rc *RemoteConfig) GameMode(id string) (GameMode, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	for _, mode := range rc.gameModes {
		if mode.ID == id {
			return mode, true
		}
	}
	return GameMode{}, false
}

type RemoteConfigStatus struct {
	Ready         bool      `json:"ready"`
	Loading       bool      `json:"loading"`
	Error         string    `json:"error,omitempty"`
	GameModes     int       `json:"gameModes"`
	RuleTemplates int       `json:"ruleTemplates"`
	LastLoad      time.Time `json:"lastLoad"`
}

func (rc *RemoteConfig) Status() RemoteConfigStatus {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	return RemoteConfigStatus{
		Ready:         rc.ready,
		Loading:       rc.loading,
		Error:         rc.lastError,
		GameModes:     len(rc.gameModes),
		RuleTemplates: len(rc.ruleTemplates),
		LastLoad:      rc.lastLoad,
	}
}
