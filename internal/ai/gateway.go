// internal/ai/gateway.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	httpclient "pharmelo-backend/internal/common/http"
	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/common/metrics"
	"pharmelo-backend/internal/models"
)

var (
	ErrGenerationFailed = errors.New("AI_GENERATION_FAILED")
	ErrNoAPIKey         = errors.New("AI_KEY_MISSING")
)

// FeedbackAnalysis is the single-note response shape.
type FeedbackAnalysis struct {
	Analysis        string `json:"analysis"`
	Sentiment       string `json:"sentiment"`
	StrategicAction string `json:"strategicAction"`
}

// BatchAnalysis is the all-feedback response shape.
type BatchAnalysis struct {
	TopThemes           []string       `json:"top_themes"`
	SentimentBreakdown  map[string]int `json:"sentiment_breakdown"`
	ExecutiveSummary    string         `json:"executive_summary"`
	RecommendedFeatures []string       `json:"recommended_features"`
}

// NewsletterDraft is the campaign-draft response shape.
type NewsletterDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Gateway wraps the generative-text API. Every public method makes a single
// attempt, no retry or backoff: this is best-effort enrichment, not a
// critical path, and a thrown or unparsable response resolves to a static
// fallback of the same shape rather than an error.
type Gateway struct {
	baseURL string
	apiKey  string
	model   string
	client  *httpclient.Client
	logger  logger.Logger
}

func NewGateway(baseURL, apiKey, model string, timeout time.Duration, log logger.Logger) *Gateway {
	return &Gateway{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  httpclient.NewClient(timeout),
		logger:  log.WithFields(map[string]interface{}{"component": "ai-gateway"}),
	}
}

// AnalyzeFeedback returns {analysis, sentiment, strategicAction} for one
// free-text note, or the canned fallback when the call fails.
func (g *Gateway) AnalyzeFeedback(ctx context.Context, feedback, role string) FeedbackAnalysis {
	var out FeedbackAnalysis
	if err := g.generateJSON(ctx, feedbackPrompt(feedback, role), &out); err != nil {
		g.recordFallback("analyze_feedback", err)
		return fallbackFeedbackAnalysis(feedback)
	}
	if out.Analysis == "" || out.Sentiment == "" {
		g.recordFallback("analyze_feedback", fmt.Errorf("%w: incomplete shape", ErrGenerationFailed))
		return fallbackFeedbackAnalysis(feedback)
	}
	return out
}

// AnalyzeBatch summarizes a set of feedback notes, falling back to a canned
// digest when the call fails.
func (g *Gateway) AnalyzeBatch(ctx context.Context, notes []models.FeedbackNote) BatchAnalysis {
	var out BatchAnalysis
	if err := g.generateJSON(ctx, batchPrompt(notes), &out); err != nil {
		g.recordFallback("analyze_batch", err)
		return fallbackBatchAnalysis(notes)
	}
	if out.ExecutiveSummary == "" {
		g.recordFallback("analyze_batch", fmt.Errorf("%w: incomplete shape", ErrGenerationFailed))
		return fallbackBatchAnalysis(notes)
	}
	return out
}

// DraftNewsletter produces {subject, body} from aggregate stats. Without an
// API key, or on any failure, it degrades to the templated draft.
func (g *Gateway) DraftNewsletter(ctx context.Context, stats models.LandingStats) NewsletterDraft {
	var out NewsletterDraft
	if err := g.generateJSON(ctx, newsletterPrompt(stats), &out); err != nil {
		g.recordFallback("draft_newsletter", err)
		return templatedNewsletter(stats)
	}
	if out.Subject == "" || out.Body == "" {
		g.recordFallback("draft_newsletter", fmt.Errorf("%w: incomplete shape", ErrGenerationFailed))
		return templatedNewsletter(stats)
	}
	return out
}

func (g *Gateway) recordFallback(operation string, err error) {
	metrics.AIFallbacksTotal.WithLabelValues(operation).Inc()
	if errors.Is(err, ErrNoAPIKey) {
		g.logger.Debug("no API key configured, using templated content", map[string]interface{}{
			"operation": operation,
		})
		return
	}
	g.logger.Warn("generation failed, substituting fallback", map[string]interface{}{
		"operation": operation,
		"error":     err.Error(),
	})
}

// generateJSON performs the single API attempt and decodes the model's text
// into target. Any failure along the way is returned for fallback handling.
func (g *Gateway) generateJSON(ctx context.Context, prompt string, target interface{}) error {
	if g.apiKey == "" {
		return ErrNoAPIKey
	}

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	body, _ := json.Marshal(requestBody)
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrGenerationFailed, resp.StatusCode)
	}

	var apiResponse struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return fmt.Errorf("%w: decode error: %v", ErrGenerationFailed, err)
	}

	if len(apiResponse.Candidates) == 0 || len(apiResponse.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	text := stripCodeFences(apiResponse.Candidates[0].Content.Parts[0].Text)
	if err := json.Unmarshal([]byte(text), target); err != nil {
		return fmt.Errorf("%w: unparsable model output: %v", ErrGenerationFailed, err)
	}
	return nil
}

// stripCodeFences removes a markdown ```json wrapper the model sometimes
// adds despite the JSON mime-type instruction.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
