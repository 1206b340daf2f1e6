// internal/store/feedback.go
package store

import (
	"context"
	"encoding/json"
	"time"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/realtime"

	"github.com/google/uuid"
)

// AddFeedbackNote inserts one free-text feedback note.
func (s *Store) AddFeedbackNote(ctx context.Context, role, content string) (*models.FeedbackNote, error) {
	note := &models.FeedbackNote{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback_submissions (id, role, content, created_at)
		VALUES ($1, $2, $3, $4)`,
		note.ID, note.Role, note.Content, note.CreatedAt)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "insert feedback note")
	}

	s.publish(ctx, realtime.EventInsert, TableFeedback, note, nil)
	return note, nil
}

// ListFeedbackNotes returns all feedback, newest first. Feeds the batch
// analysis path.
func (s *Store) ListFeedbackNotes(ctx context.Context) ([]models.FeedbackNote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, created_at
		FROM feedback_submissions ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "list feedback notes")
	}
	defer rows.Close()

	var notes []models.FeedbackNote
	for rows.Next() {
		var n models.FeedbackNote
		if err := rows.Scan(&n.ID, &n.Role, &n.Content, &n.CreatedAt); err != nil {
			return nil, apperrors.FromStoreError(err, "scan feedback note")
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// AddSurveyResponse inserts one survey response with the answers map stored
// as JSONB.
func (s *Store) AddSurveyResponse(ctx context.Context, resp models.SurveyResponse) (*models.SurveyResponse, error) {
	resp.ID = uuid.New().String()
	resp.CreatedAt = time.Now().UTC()

	answersJSON, err := json.Marshal(resp.Answers)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseInsertFailed, "marshal survey answers", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO survey_responses (id, role, answers, additional_comments, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		resp.ID, resp.Role, answersJSON, resp.AdditionalComments, resp.CreatedAt)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "insert survey response")
	}

	s.publish(ctx, realtime.EventInsert, TableSurveys, &resp, nil)
	return &resp, nil
}
