package storage

import (
	"context"
	"fmt"
)

// CountLiveSnapshots devuelve cuántas filas de estadísticas y cuotas hay para un fixture.
func (s *SQLStore) CountLiveSnapshots(ctx context.Context, fixtureID int64) (stats, odds int, err error) {
	if err = s.db.QueryRowContext(ctx, s.rebind(
		`SELECT COUNT(*) FROM live_statistics WHERE fixture_id = ?`), fixtureID,
	).Scan(&stats); err != nil {
		return 0, 0, fmt.Errorf("storage.CountLiveSnapshots: statistics: %w", err)
	}
	if err = s.db.QueryRowContext(ctx, s.rebind(
		`SELECT COUNT(*) FROM live_odds WHERE fixture_id = ?`), fixtureID,
	).Scan(&odds); err != nil {
		return 0, 0, fmt.Errorf("storage.CountLiveSnapshots: odds: %w", err)
	}
	return stats, odds, nil
}
