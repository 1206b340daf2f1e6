// internal/store/stats.go
package store

import (
	"context"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"
)

// GetLandingStats returns the precomputed aggregate counts for the landing
// page. Anonymous callers get totals only, never row-level data.
func (s *Store) GetLandingStats(ctx context.Context) (*models.LandingStats, error) {
	var stats models.LandingStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM early_partners),
			(SELECT COUNT(*) FROM waitlist_users),
			(SELECT COUNT(*) FROM saturday_community_members)`).
		Scan(&stats.Partners, &stats.Waitlist, &stats.Community)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "get landing stats")
	}
	return &stats, nil
}
