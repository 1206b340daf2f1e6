// internal/ai/prompts.go
package ai

import (
	"fmt"
	"strings"

	"pharmelo-backend/internal/models"
)

// Prompt builders embed the inputs verbatim. They are deterministic so the
// same inputs always produce the same request.

func feedbackPrompt(feedback, role string) string {
	var b strings.Builder
	b.WriteString("You are a product strategist for Pharmelo, a pharmacy-pickup startup.\n")
	b.WriteString(fmt.Sprintf("A user with the role %s left this feedback:\n\n", role))
	b.WriteString(fmt.Sprintf("\"%s\"\n\n", feedback))
	b.WriteString("Respond with JSON only, exactly this shape:\n")
	b.WriteString(`{"analysis": "<one-paragraph interpretation>", "sentiment": "<positive|constructive|negative>", "strategicAction": "<one concrete next step>"}`)
	return b.String()
}

func batchPrompt(notes []models.FeedbackNote) string {
	var b strings.Builder
	b.WriteString("You are a product strategist for Pharmelo, a pharmacy-pickup startup.\n")
	b.WriteString(fmt.Sprintf("Here are %d feedback notes from users:\n\n", len(notes)))
	for i, n := range notes {
		b.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, n.Role, n.Content))
	}
	b.WriteString("\nRespond with JSON only, exactly this shape:\n")
	b.WriteString(`{"top_themes": ["..."], "sentiment_breakdown": {"positive": 0, "constructive": 0, "negative": 0}, "executive_summary": "...", "recommended_features": ["..."]}`)
	return b.String()
}

func newsletterPrompt(stats models.LandingStats) string {
	var b strings.Builder
	b.WriteString("You are writing the weekly Pharmelo update newsletter.\n")
	b.WriteString(fmt.Sprintf(
		"Current traction: %d people on the waitlist, %d partner pharmacies applied, %d community members.\n\n",
		stats.Waitlist, stats.Partners, stats.Community))
	b.WriteString("Write a short, warm update for waitlist subscribers. ")
	b.WriteString("Respond with JSON only, exactly this shape:\n")
	b.WriteString(`{"subject": "<email subject>", "body": "<plain-text email body>"}`)
	return b.String()
}
