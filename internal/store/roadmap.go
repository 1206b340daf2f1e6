// internal/store/roadmap.go
package store

import (
	"context"
	"database/sql"
	"time"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/realtime"

	"github.com/google/uuid"
)

// ListRoadmapPhases returns all phases ascending by order_index. The public
// view relies on this ordering invariant regardless of admin edits.
func (s *Store) ListRoadmapPhases(ctx context.Context) ([]models.RoadmapPhase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, subtitle, description, status,
		       date_display, order_index, icon_key, created_at
		FROM roadmap_phases ORDER BY order_index ASC`)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "list roadmap phases")
	}
	defer rows.Close()

	var phases []models.RoadmapPhase
	for rows.Next() {
		var p models.RoadmapPhase
		if err := rows.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Description, &p.Status,
			&p.DateDisplay, &p.OrderIndex, &p.IconKey, &p.CreatedAt); err != nil {
			return nil, apperrors.FromStoreError(err, "scan roadmap phase")
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

// CreateRoadmapPhase inserts one phase from the admin dashboard.
func (s *Store) CreateRoadmapPhase(ctx context.Context, phase models.RoadmapPhase) (*models.RoadmapPhase, error) {
	phase.ID = uuid.New().String()
	phase.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO roadmap_phases (
			id, title, subtitle, description, status,
			date_display, order_index, icon_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		phase.ID, phase.Title, phase.Subtitle, phase.Description, phase.Status,
		phase.DateDisplay, phase.OrderIndex, phase.IconKey, phase.CreatedAt)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "insert roadmap phase")
	}

	s.publish(ctx, realtime.EventInsert, TableRoadmap, &phase, nil)
	return &phase, nil
}

// UpdateRoadmapPhase rewrites the mutable fields of one phase.
func (s *Store) UpdateRoadmapPhase(ctx context.Context, phase models.RoadmapPhase) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE roadmap_phases
		SET title = $2, subtitle = $3, description = $4, status = $5,
		    date_display = $6, order_index = $7, icon_key = $8
		WHERE id = $1`,
		phase.ID, phase.Title, phase.Subtitle, phase.Description, phase.Status,
		phase.DateDisplay, phase.OrderIndex, phase.IconKey)
	if err != nil {
		return apperrors.FromStoreError(err, "update roadmap phase")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.New(apperrors.ErrCodeNotFound, "roadmap phase not found")
	}

	s.publish(ctx, realtime.EventUpdate, TableRoadmap, &phase, nil)
	return nil
}

// DeleteRoadmapPhase removes one phase by id.
func (s *Store) DeleteRoadmapPhase(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM roadmap_phases WHERE id = $1`, id)
	if err != nil {
		return apperrors.FromStoreError(err, "delete roadmap phase")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.New(apperrors.ErrCodeNotFound, "roadmap phase not found")
	}

	s.publish(ctx, realtime.EventDelete, TableRoadmap, nil, map[string]string{"id": id})
	return nil
}

// GetRoadmapPhase fetches a single phase by id.
func (s *Store) GetRoadmapPhase(ctx context.Context, id string) (*models.RoadmapPhase, error) {
	var p models.RoadmapPhase
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, subtitle, description, status,
		       date_display, order_index, icon_key, created_at
		FROM roadmap_phases WHERE id = $1`, id).
		Scan(&p.ID, &p.Title, &p.Subtitle, &p.Description, &p.Status,
			&p.DateDisplay, &p.OrderIndex, &p.IconKey, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "roadmap phase not found")
	}
	if err != nil {
		return nil, apperrors.FromStoreError(err, "get roadmap phase")
	}
	return &p, nil
}
