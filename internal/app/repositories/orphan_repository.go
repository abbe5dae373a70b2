package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qpshare/qpshare/internal/app/models"
)

// OrphanRepository tracks stored objects left behind without a catalog row
type OrphanRepository struct {
	db *pgxpool.Pool
}

// NewOrphanRepository creates a new OrphanRepository
func NewOrphanRepository(db *pgxpool.Pool) *OrphanRepository {
	return &OrphanRepository{db: db}
}

// Record registers an orphaned object for the reconciliation sweep
func (r *OrphanRepository) Record(ctx context.Context, objectKey, reason string) error {
	query := squirrel.Insert("orphaned_objects").
		Columns("object_key", "reason").
		Values(objectKey, reason).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// List returns every recorded orphan, oldest first
func (r *OrphanRepository) List(ctx context.Context) ([]models.OrphanedObject, error) {
	query := squirrel.Select("id", "object_key", "reason", "created_at").
		From("orphaned_objects").
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var orphans []models.OrphanedObject
	for rows.Next() {
		var o models.OrphanedObject
		if err := rows.Scan(&o.ID, &o.ObjectKey, &o.Reason, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		orphans = append(orphans, o)
	}

	return orphans, rows.Err()
}

// Remove clears a reconciled orphan
func (r *OrphanRepository) Remove(ctx context.Context, id int64) error {
	query := squirrel.Delete("orphaned_objects").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}
