package main

import "time"

// Seed data for the admin store. The deployment timeline and insights
// are static illustrative data; only rules and modes are editable.

func seedAdminRules() []AdminRule {
	return []AdminRule{
		{
			ID:          "rule-progression",
			Title:       "Progression dynamique",
			Summary:     "Ajuste automatiquement les points en fonction de la difficulté courante.",
			Description: "Le barème de points est recalculé à chaque fin de partie selon la performance moyenne des joueurs pour maintenir un taux de victoire équilibré.",
			Category:    "Progression",
			Tags:        []string{"points", "équilibrage", "liveops"},
			IsActive:    true,
			LastUpdated: time.Date(2024, 9, 18, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:          "rule-fairplay",
			Title:       "Fair-play communautaire",
			Summary:     "Récompenses supplémentaires pour les joueurs signalant des comportements toxiques.",
			Description: "Les joueurs qui envoient des signalements confirmés obtiennent un bonus temporaire de points de karma visible dans le classement social.",
			Category:    "Sécurité",
			Tags:        []string{"modération", "communauté"},
			IsActive:    true,
			LastUpdated: time.Date(2024, 9, 12, 11, 40, 0, 0, time.UTC),
		},
		{
			ID:          "rule-chaines",
			Title:       "Défis en chaîne",
			Summary:     "Les défis journaliers non complétés expirent après 48h.",
			Description: "Chaque défi journalier se transforme en défi expert s'il n'est pas terminé sous 48 heures afin de créer un sentiment d'urgence maîtrisé.",
			Category:    "Engagement",
			Tags:        []string{"défis", "rétention"},
			IsActive:    true,
			LastUpdated: time.Date(2024, 9, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:          "rule-booster",
			Title:       "Booster collaboratif",
			Summary:     "Bonus d’expérience collectif activé lors des soirées communautaires.",
			Description: "Lorsque plus de 60 % d’un salon rejoint une soirée communautaire, un multiplicateur d’expérience x1.5 est appliqué à l’ensemble du lobby.",
			Category:    "Bonus",
			Tags:        []string{"évènement", "coop"},
			IsActive:    false,
			LastUpdated: time.Date(2024, 8, 28, 19, 30, 0, 0, time.UTC),
		},
	}
}

func seedAdminGameModes() []AdminGameMode {
	return []AdminGameMode{
		{
			ID:          "mode-ascension",
			Name:        "Ascension tactique",
			Description: "Mode compétitif structuré autour de paliers successifs avec révision hebdomadaire des règles actives.",
			Difficulty:  "Expert",
			Status:      "Actif",
			Rotation:    "Hebdomadaire",
			RuleIDs:     []string{"rule-progression", "rule-fairplay"},
			Metrics:     ModeMetrics{Retention: 89, Satisfaction: 4.3, Completion: 62},
			NextReview:  time.Date(2024, 9, 25, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:          "mode-exploration",
			Name:        "Expédition coopérative",
			Description: "Sessions coopératives scénarisées avec objectifs optionnels et système de karma communautaire.",
			Difficulty:  "Standard",
			Status:      "Planifié",
			Rotation:    "Mensuel",
			RuleIDs:     []string{"rule-fairplay", "rule-booster"},
			Metrics:     ModeMetrics{Retention: 72, Satisfaction: 4.6, Completion: 48},
			NextReview:  time.Date(2024, 10, 5, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:          "mode-rapide",
			Name:        "Sprint éclair",
			Description: "Parties rapides de 6 minutes pensées pour le mobile avec défis en chaîne et matchmaking accéléré.",
			Difficulty:  "Débutant",
			Status:      "Actif",
			Rotation:    "Ponctuel",
			RuleIDs:     []string{"rule-chaines"},
			Metrics:     ModeMetrics{Retention: 65, Satisfaction: 4.1, Completion: 78},
			NextReview:  time.Date(2024, 9, 22, 17, 0, 0, 0, time.UTC),
		},
	}
}

func seedDeploymentActivities() []DeploymentActivity {
	return []DeploymentActivity{
		{
			ID:          "deploy-20240918",
			Title:       "Release 2024.09.18",
			Description: "Synchronisation Vercel réussie avec activation de la règle 'Progression dynamique' et audit sécurité effectué.",
			Date:        time.Date(2024, 9, 18, 18, 20, 0, 0, time.UTC),
			Status:      "Succès",
		},
		{
			ID:          "deploy-20240911",
			Title:       "Préproduction 2024.09.11",
			Description: "Prévisualisation générée automatiquement depuis la branche feature/modes-coop sur Vercel.",
			Date:        time.Date(2024, 9, 11, 7, 35, 0, 0, time.UTC),
			Status:      "Information",
		},
		{
			ID:          "deploy-20240830",
			Title:       "Hotfix 2024.08.30",
			Description: "Rollback partiel des boosters collaboratifs suite à un taux d’erreur de 2,4 % détecté après déploiement.",
			Date:        time.Date(2024, 8, 30, 22, 10, 0, 0, time.UTC),
			Status:      "Attention",
		},
	}
}

func seedInsights() []Insight {
	return []Insight{
		{
			ID:          "insight-stability",
			Label:       "Stabilité build",
			Description: "Taux de déploiement réussi sur les 30 derniers jours.",
			Value:       "96 %",
			Trend:       "up",
		},
		{
			ID:          "insight-feedback",
			Label:       "Feedback joueurs",
			Description: "Note moyenne déclarée sur le dernier sondage in-game.",
			Value:       "4,4 / 5",
			Trend:       "stable",
		},
		{
			ID:          "insight-cycle",
			Label:       "Cycle de release",
			Description: "Durée médiane entre deux mises en production.",
			Value:       "6 jours",
			Trend:       "down",
		},
		{
			ID:          "insight-preview",
			Label:       "Prévisualisations",
			Description: "Builds de prévisualisation générés la semaine dernière.",
			Value:       "12",
			Trend:       "up",
		},
	}
}
