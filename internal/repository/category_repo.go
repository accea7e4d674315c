package repository

import (
	"context"

	"go.uber.org/zap"

	"inboxiq/internal/model"
)

type CategoryRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewCategoryRepository(db DBTX, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CategoryRepository) WithTx(tx DBTX) *CategoryRepository {
	return &CategoryRepository{db: tx, logger: r.logger}
}

// Replace swaps the email's category set wholesale. Regeneration never
// merges with stale labels.
func (r *CategoryRepository) Replace(ctx context.Context, emailUID int64, categories []model.Category) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM email_categories WHERE email_uid = $1`, emailUID); err != nil {
		return translateErr(err)
	}
	for _, c := range categories {
		_, err := r.db.Exec(ctx,
			`INSERT INTO email_categories (email_uid, key, label) VALUES ($1, $2, $3)`,
			emailUID, c.Key, c.Label,
		)
		if err != nil {
			r.logger.Error("Failed to insert category",
				zap.Int64("email_uid", emailUID),
				zap.String("key", c.Key),
				zap.Error(err),
			)
			return translateErr(err)
		}
	}
	return nil
}

func (r *CategoryRepository) ListByEmailUID(ctx context.Context, emailUID int64) ([]model.Category, error) {
	query := `
        SELECT email_uid, key, label
        FROM email_categories
        WHERE email_uid = $1
        ORDER BY key ASC
    `
	rows, err := r.db.Query(ctx, query, emailUID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.EmailUID, &c.Key, &c.Label); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
