// internal/ai/fallback.go
package ai

import (
	"fmt"
	"strings"

	"pharmelo-backend/internal/models"
)

// constructiveHints drives the sentiment heuristic in the single-note
// fallback: feedback mentioning friction reads as constructive, the rest as
// positive.
var constructiveHints = []string{"wait", "slow", "problem", "issue", "hard", "difficult", "frustrat"}

func fallbackFeedbackAnalysis(feedback string) FeedbackAnalysis {
	sentiment := "positive"
	lower := strings.ToLower(feedback)
	for _, hint := range constructiveHints {
		if strings.Contains(lower, hint) {
			sentiment = "constructive"
			break
		}
	}

	return FeedbackAnalysis{
		Analysis:        "This feedback highlights a real aspect of the pharmacy pickup experience worth reviewing with the team.",
		Sentiment:       sentiment,
		StrategicAction: "Log this note for the next product review and follow up with the user segment it came from.",
	}
}

func fallbackBatchAnalysis(notes []models.FeedbackNote) BatchAnalysis {
	breakdown := map[string]int{"positive": 0, "constructive": 0, "negative": 0}
	for _, n := range notes {
		breakdown[fallbackFeedbackAnalysis(n.Content).Sentiment]++
	}

	return BatchAnalysis{
		TopThemes:          []string{"pickup convenience", "pharmacy availability", "communication"},
		SentimentBreakdown: breakdown,
		ExecutiveSummary: fmt.Sprintf(
			"Collected %d feedback notes. Automated summarization was unavailable; review the raw notes in the admin dashboard.",
			len(notes)),
		RecommendedFeatures: []string{"order-ready notifications", "live stock visibility"},
	}
}

func templatedNewsletter(stats models.LandingStats) NewsletterDraft {
	return NewsletterDraft{
		Subject: "Your Pharmelo update",
		Body: fmt.Sprintf(
			"Hi there,\n\nPharmelo keeps growing: %d people are on the waitlist, %d pharmacies have applied to partner with us, and our community is %d members strong.\n\nWe're getting closer to launch every week. Thanks for being early.\n\n— The Pharmelo team",
			stats.Waitlist, stats.Partners, stats.Community),
	}
}
