package models

import (
	"time"

	"github.com/google/uuid"
)

// Paper represents a submitted exam paper in the catalog.
// ExamType, when present, holds one of the values accepted by the
// validation package.
// A paper is publicly visible if and only if Approved is true; rejection
// deletes the row outright, so existence plus the flag encodes the whole
// moderation lifecycle.
type Paper struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Subject      string    `db:"subject" json:"subject"`
	University   string    `db:"university" json:"university"`
	Degree       string    `db:"degree" json:"degree"`
	Year         int       `db:"year" json:"year"`
	ExamType     *string   `db:"exam_type" json:"examType,omitempty"`
	AcademicYear *string   `db:"academic_year" json:"academicYear,omitempty"`
	FileURL      string    `db:"file_url" json:"fileUrl"`
	Approved     bool      `db:"approved" json:"approved"`
	UploaderID   int64     `db:"uploader_id" json:"uploaderId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
