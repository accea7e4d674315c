package repository

import (
	"context"

	"go.uber.org/zap"
)

type PreferenceRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewPreferenceRepository(db DBTX, logger *zap.Logger) *PreferenceRepository {
	return &PreferenceRepository{
		db:     db,
		logger: logger,
	}
}

// GetAll returns the full preference map; drafting reads it whole.
func (r *PreferenceRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM user_preferences`)
	if err != nil {
		r.logger.Error("Failed to load preferences", zap.Error(err))
		return nil, translateErr(err)
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		prefs[key] = value
	}
	return prefs, rows.Err()
}

func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO user_preferences (key, value)
        VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
    `
	_, err := r.db.Exec(ctx, query, key, value)
	return translateErr(err)
}
