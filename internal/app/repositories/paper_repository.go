package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qpshare/qpshare/internal/app/models"
	"github.com/qpshare/qpshare/internal/db"
	"github.com/qpshare/qpshare/internal/pkg/apperrors"
)

// paperColumns is the select list shared by every paper query
var paperColumns = []string{
	"id", "subject", "university", "degree", "year",
	"exam_type", "academic_year", "file_url", "approved", "uploader_id", "created_at",
}

// PaperFields is the set of fields overwritten by the edit transitions
type PaperFields struct {
	Subject      string
	University   string
	Degree       string
	Year         int
	ExamType     *string
	AcademicYear *string
}

// PaperRepository handles database operations for papers
type PaperRepository struct {
	db *pgxpool.Pool
}

// NewPaperRepository creates a new PaperRepository
func NewPaperRepository(db *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{db: db}
}

func scanPaper(row pgx.Row) (*models.Paper, error) {
	var p models.Paper
	err := row.Scan(
		&p.ID,
		&p.Subject,
		&p.University,
		&p.Degree,
		&p.Year,
		&p.ExamType,
		&p.AcademicYear,
		&p.FileURL,
		&p.Approved,
		&p.UploaderID,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaperRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]models.Paper, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var papers []models.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		papers = append(papers, *p)
	}

	return papers, rows.Err()
}

// ListAll retrieves every paper, newest first
func (r *PaperRepository) ListAll(ctx context.Context) ([]models.Paper, error) {
	query := squirrel.Select(paperColumns...).
		From("papers").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	return r.list(ctx, query)
}

// ListApproved retrieves the approved set, newest first
func (r *PaperRepository) ListApproved(ctx context.Context) ([]models.Paper, error) {
	query := squirrel.Select(paperColumns...).
		From("papers").
		Where("approved = TRUE").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	return r.list(ctx, query)
}

// GetByID retrieves a paper by ID, nil when it does not exist
func (r *PaperRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Paper, error) {
	query := squirrel.Select(paperColumns...).
		From("papers").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	p, err := scanPaper(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return p, nil
}

// Create inserts a new paper. The store assigns ID and CreatedAt, which are
// written back into the given record.
func (r *PaperRepository) Create(ctx context.Context, paper *models.Paper) error {
	query := squirrel.Insert("papers").
		Columns("subject", "university", "degree", "year", "exam_type", "academic_year",
			"file_url", "approved", "uploader_id").
		Values(paper.Subject, paper.University, paper.Degree, paper.Year, paper.ExamType,
			paper.AcademicYear, paper.FileURL, paper.Approved, paper.UploaderID).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&paper.ID, &paper.CreatedAt); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// SetApproved flips the moderation flag of an existing paper
func (r *PaperRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	query := squirrel.Update("papers").
		Set("approved", approved).
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPaperNotFound
	}

	return nil
}

// UpdateFields overwrites the editable fields, leaving the approved flag alone
func (r *PaperRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields PaperFields) error {
	sql, args, err := updateFieldsQuery(id, fields).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPaperNotFound
	}

	return nil
}

// UpdateFieldsAndApprove applies the field patch and then approves, as one
// transaction. The edit commits fully before the approval or not at all.
func (r *PaperRepository) UpdateFieldsAndApprove(ctx context.Context, id uuid.UUID, fields PaperFields) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := updateFieldsQuery(id, fields).ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		result, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrPaperNotFound
		}

		approveSQL, approveArgs, err := squirrel.Update("papers").
			Set("approved", true).
			Where("id = ?", id).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		if _, err := tx.Exec(ctx, approveSQL, approveArgs...); err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}

		return nil
	})
}

// Delete permanently removes a paper; there is no recoverable rejected bucket
func (r *PaperRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("papers").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPaperNotFound
	}

	return nil
}

func updateFieldsQuery(id uuid.UUID, fields PaperFields) squirrel.UpdateBuilder {
	return squirrel.Update("papers").
		Set("subject", fields.Subject).
		Set("university", fields.University).
		Set("degree", fields.Degree).
		Set("year", fields.Year).
		Set("exam_type", fields.ExamType).
		Set("academic_year", fields.AcademicYear).
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)
}
