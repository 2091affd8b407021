package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
)

// AdminRule is a backoffice rule record. Distinct from RuleTemplate:
// these records describe live-ops rules managed through the dashboard,
// not playable cards.
type AdminRule struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	IsActive    bool      `json:"isActive"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// RulePayload is the client-supplied part of a rule record; id and
// lastUpdated are always assigned server-side.
type RulePayload struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	IsActive    bool     `json:"isActive"`
}

type ModeMetrics struct {
	Retention    float64 `json:"retention"`
	Satisfaction float64 `json:"satisfaction"`
	Completion   float64 `json:"completion"`
}

// AdminGameMode is a backoffice game-mode record.
type AdminGameMode struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Difficulty  string      `json:"difficulty"`
	Status      string      `json:"status"`
	Rotation    string      `json:"rotation"`
	RuleIDs     []string    `json:"ruleIds"`
	Metrics     ModeMetrics `json:"metrics"`
	NextReview  time.Time   `json:"nextReview"`
}

type GameModePayload struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Difficulty  string      `json:"difficulty"`
	Status      string      `json:"status"`
	Rotation    string      `json:"rotation"`
	RuleIDs     []string    `json:"ruleIds"`
	Metrics     ModeMetrics `json:"metrics"`
	NextReview  time.Time   `json:"nextReview"`
}

// DeploymentActivity is a static illustrative timeline entry; there is
// no real deployment orchestration behind it.
type DeploymentActivity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
}

type Insight struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Value       string `json:"value"`
	Trend       string `json:"trend"`
}

// AdminStat is one derived dashboard statistic.
type AdminStat struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Value  string `json:"value"`
	Detail string `json:"detail,omitempty"`
}

// AdminStore holds the backoffice records in memory. There is no
// backing store and no concurrency control beyond the single mutex;
// records live for the process lifetime.
type AdminStore struct {
	mu          sync.Mutex
	rules       []AdminRule
	modes       []AdminGameMode
	deployments []DeploymentActivity
	insights    []Insight
	now         func() time.Time
}

func newAdminStore() *AdminStore {
	return &AdminStore{
		rules:       seedAdminRules(),
		modes:       seedAdminGameModes(),
		deployments: seedDeploymentActivities(),
		insights:    seedInsights(),
		now:         time.Now,
	}
}

// newRecordID generates a prefixed crypto-random record id.
func newRecordID(prefix string) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return prefix + "-" + hex.EncodeToString(buf)
}

func (s *AdminStore) Rules() []AdminRule {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules := make([]AdminRule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

func (s *AdminStore) Modes() []AdminGameMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	modes := make([]AdminGameMode, len(s.modes))
	copy(modes, s.modes)
	return modes
}

// Deployments returns the mocked timeline, most recent first.
func (s *AdminStore) Deployments() []DeploymentActivity {
	s.mu.Lock()
	defer s.mu.Unlock()

	deployments := make([]DeploymentActivity, len(s.deployments))
	copy(deployments, s.deployments)
	sort.Slice(deployments, func(i, j int) bool {
		return deployments[i].Date.After(deployments[j].Date)
	})
	return deployments
}

func (s *AdminStore) Insights() []Insight {
	s.mu.Lock()
	defer s.mu.Unlock()

	insights := make([]Insight, len(s.insights))
	copy(insights, s.insights)
	return insights
}

func (s *AdminStore) CreateRule(payload RulePayload) AdminRule {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule := AdminRule{
		ID:          newRecordID("rule"),
		Title:       payload.Title,
		Summary:     payload.Summary,
		Description: payload.Description,
		Category:    payload.Category,
		Tags:        payload.Tags,
		IsActive:    payload.IsActive,
		LastUpdated: s.now(),
	}
	s.rules = append([]AdminRule{rule}, s.rules...)
	return rule
}

func (s *AdminStore) UpdateRule(id string, payload RulePayload) (AdminRule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].ID != id {
			continue
		}
		s.rules[i].Title = payload.Title
		s.rules[i].Summary = payload.Summary
		s.rules[i].Description = payload.Description
		s.rules[i].Category = payload.Category
		s.rules[i].Tags = payload.Tags
		s.rules[i].IsActive = payload.IsActive
		s.rules[i].LastUpdated = s.now()
		return s.rules[i], true
	}
	return AdminRule{}, false
}

// DeleteRule removes the record and scrubs its id from every mode's
// associated-rule list.
func (s *AdminStore) DeleteRule(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := false
	dst := s.rules[:0]
	for _, rule := range s.rules {
		if rule.ID == id {
			deleted = true
			continue
		}
		dst = append(dst, rule)
	}
	s.rules = dst

	if !deleted {
		return false
	}

	for i := range s.modes {
		ruleIDs := s.modes[i].RuleIDs[:0]
		for _, ruleID := range s.modes[i].RuleIDs {
			if ruleID != id {
				ruleIDs = append(ruleIDs, ruleID)
			}
		}
		s.modes[i].RuleIDs = ruleIDs
	}

	return true
}

func (s *AdminStore) CreateMode(payload GameModePayload) AdminGameMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := AdminGameMode{
		ID:          newRecordID("mode"),
		Name:        payload.Name,
		Description: payload.Description,
		Difficulty:  payload.Difficulty,
		Status:      payload.Status,
		Rotation:    payload.Rotation,
		RuleIDs:     payload.RuleIDs,
		Metrics:     payload.Metrics,
		NextReview:  payload.NextReview,
	}
	s.modes = append([]AdminGameMode{mode}, s.modes...)
	return mode
}

func (s *AdminStore) UpdateMode(id string, payload GameModePayload) (AdminGameMode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.modes {
		if s.modes[i].ID != id {
			continue
		}
		s.modes[i].Name = payload.Name
		s.modes[i].Description = payload.Description
		s.modes[i].Difficulty = payload.Difficulty
		s.modes[i].Status = payload.Status
		s.modes[i].Rotation = payload.Rotation
		s.modes[i].RuleIDs = payload.RuleIDs
		s.modes[i].Metrics = payload.Metrics
		s.modes[i].NextReview = payload.NextReview
		return s.modes[i], true
	}
	return AdminGameMode{}, false
}

func (s *AdminStore) DeleteMode(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := false
	dst := s.modes[:0]
	for _, mode := range s.modes {
		if mode.ID == id {
			deleted = true
			continue
		}
		dst = append(dst, mode)
	}
	s.modes = dst
	return deleted
}

// Stats derives the dashboard headline numbers from the live records.
func (s *AdminStore) Stats() []AdminStat {
	s.mu.Lock()
	defer s.mu.Unlock()

	activeRules := 0
	for _, rule := range s.rules {
		if rule.IsActive {
			activeRules++
		}
	}

	availableModes := 0
	var nextReview time.Time
	for _, mode := range s.modes {
		if mode.Status != "Archivé" {
			availableModes++
		}
		if !mode.NextReview.IsZero() && (nextReview.IsZero() || mode.NextReview.Before(nextReview)) {
			nextReview = mode.NextReview
		}
	}

	var latestRule *AdminRule
	for i := range s.rules {
		if latestRule == nil || s.rules[i].LastUpdated.After(latestRule.LastUpdated) {
			latestRule = &s.rules[i]
		}
	}

	rulesDetail := "Certaines règles sont en pause"
	if activeRules == len(s.rules) {
		rulesDetail = "Toutes les règles sont actives"
	}

	stats := []AdminStat{
		{
			ID:     "stat-rules",
			Label:  "Règles actives",
			Value:  strconv.Itoa(activeRules) + "/" + strconv.Itoa(len(s.rules)),
			Detail: rulesDetail,
		},
		{
			ID:     "stat-modes",
			Label:  "Modes disponibles",
			Value:  strconv.Itoa(availableModes) + "/" + strconv.Itoa(len(s.modes)),
			Detail: "Inclut les modes en production et en prévisualisation",
		},
	}

	reviewStat := AdminStat{
		ID:     "stat-review",
		Label:  "Prochaine revue",
		Value:  "À planifier",
		Detail: "Aucune revue planifiée",
	}
	if !nextReview.IsZero() {
		reviewStat.Value = nextReview.Format("2006-01-02 15:04")
		reviewStat.Detail = ""
	}
	stats = append(stats, reviewStat)

	updatedStat := AdminStat{
		ID:    "stat-updated",
		Label: "Dernière mise à jour",
		Value: "—",
	}
	if latestRule != nil {
		updatedStat.Value = latestRule.Title
		updatedStat.Detail = latestRule.LastUpdated.Format("2006-01-02 15:04")
	}
	stats = append(stats, updatedStat)

	return stats
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	securityHeaders(cfg, w)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// registerAdminAPI wires the backoffice JSON API. All data lives
// in-process; there is no auth by design (see non-goals).
func registerAdminAPI(cfg *Config, store *AdminStore, mux *httprouter.Router) {
	mux.GET(cfg.prefix+"/admin/rules", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(cfg, w, http.StatusOK, store.Rules())
	})

	mux.POST(cfg.prefix+"/admin/rules", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var payload RulePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(cfg, w, http.StatusBadRequest, map[string]string{"error": "invalid rule payload"})
			return
		}
		rule := store.CreateRule(payload)
		logf(cfg, "ADMIN: Created rule %s (%q)", rule.ID, rule.Title)
		writeJSON(cfg, w, http.StatusCreated, rule)
	})

	mux.PUT(cfg.prefix+"/admin/rules/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		var payload RulePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(cfg, w, http.StatusBadRequest, map[string]string{"error": "invalid rule payload"})
			return
		}
		rule, ok := store.UpdateRule(ps.ByName("id"), payload)
		if !ok {
			writeJSON(cfg, w, http.StatusNotFound, map[string]string{"error": "rule not found"})
			return
		}
		writeJSON(cfg, w, http.StatusOK, rule)
	})

	mux.DELETE(cfg.prefix+"/admin/rules/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !store.DeleteRule(ps.ByName("id")) {
			writeJSON(cfg, w, http.StatusNotFound, map[string]string{"error": "rule not found"})
			return
		}
		logf(cfg, "ADMIN: Deleted rule %s", ps.ByName("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	mux.GET(cfg.prefix+"/admin/modes", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(cfg, w, http.StatusOK, store.Modes())
	})

	mux.POST(cfg.prefix+"/admin/modes", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var payload GameModePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(cfg, w, http.StatusBadRequest, map[string]string{"error": "invalid mode payload"})
			return
		}
		mode := store.CreateMode(payload)
		logf(cfg, "ADMIN: Created mode %s (%q)", mode.ID, mode.Name)
		writeJSON(cfg, w, http.StatusCreated, mode)
	})

	mux.PUT(cfg.prefix+"/admin/modes/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		var payload GameModePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(cfg, w, http.StatusBadRequest, map[string]string{"error": "invalid mode payload"})
			return
		}
		mode, ok := store.UpdateMode(ps.ByName("id"), payload)
		if !ok {
			writeJSON(cfg, w, http.StatusNotFound, map[string]string{"error": "mode not found"})
			return
		}
		writeJSON(cfg, w, http.StatusOK, mode)
	})

	mux.DELETE(cfg.prefix+"/admin/modes/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !store.DeleteMode(ps.ByName("id")) {
			writeJSON(cfg, w, http.StatusNotFound, map[string]string{"error": "mode not found"})
			return
		}
		logf(cfg, "ADMIN: Deleted mode %s", ps.ByName("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	mux.GET(cfg.prefix+"/admin/stats", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(cfg, w, http.StatusOK, store.Stats())
	})

	mux.GET(cfg.prefix+"/admin/deployments", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(cfg, w, http.StatusOK, store.Deployments())
	})

	mux.GET(cfg.prefix+"/admin/insights", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(cfg, w, http.StatusOK, store.Insights())
	})
}
