package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/qpshare/qpshare/internal/app/models"
	"github.com/qpshare/qpshare/internal/pkg/apperrors"
	"github.com/qpshare/qpshare/internal/pkg/logger"
	"github.com/qpshare/qpshare/internal/pkg/objectstorage"
)

// paperCreator is the slice of the paper repository the orchestrator needs
type paperCreator interface {
	Create(ctx context.Context, paper *models.Paper) error
}

// orphanRecorder registers stored objects whose compensating delete failed
type orphanRecorder interface {
	Record(ctx context.Context, objectKey, reason string) error
}

// UploadInput is one paper submission: the PDF stream plus its metadata
type UploadInput struct {
	Filename     string
	Size         int64
	Body         io.Reader
	Subject      string
	University   string
	Degree       string
	Year         int
	ExamType     string
	AcademicYear string
}

// UploadService runs the two-phase submission: store the PDF bytes first,
// then insert the catalog row. A phase-2 failure deletes the just-stored
// object; when that delete also fails the key is recorded for the sweep so
// no object is silently leaked.
type UploadService struct {
	papers  paperCreator
	orphans orphanRecorder
	storage objectstorage.ObjectStorage
	search  cacheInvalidator

	now func() time.Time
}

// NewUploadService creates a new UploadService
func NewUploadService(papers paperCreator, orphans orphanRecorder, storage objectstorage.ObjectStorage, search cacheInvalidator) *UploadService {
	return &UploadService{
		papers:  papers,
		orphans: orphans,
		storage: storage,
		search:  search,
		now:     time.Now,
	}
}

// Upload validates the submission, stores the file, and creates the pending
// catalog record. Preconditions are checked in a fixed order and fail before
// any store is touched.
func (s *UploadService) Upload(ctx context.Context, uploaderID int64, in UploadInput) (*models.Paper, error) {
	if uploaderID <= 0 {
		return nil, apperrors.ErrUnauthenticated
	}
	if in.Body == nil || in.Filename == "" {
		uploadsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.ErrFileMissing
	}
	if strings.ToLower(filepath.Ext(in.Filename)) != ".pdf" {
		uploadsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.ErrNotPDF
	}

	fields, err := validatePaperFields(in.Subject, in.University, in.Degree,
		in.Year, in.ExamType, in.AcademicYear)
	if err != nil {
		uploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	key := objectstorage.ObjectKey(in.Filename, s.now())
	fileURL, err := s.storage.Put(ctx, key, "application/pdf", in.Body)
	if err != nil {
		uploadsTotal.WithLabelValues("failed").Inc()
		return nil, apperrors.NewUpstreamError(err, "failed to store the uploaded file")
	}

	paper := &models.Paper{
		Subject:      fields.Subject,
		University:   fields.University,
		Degree:       fields.Degree,
		Year:         fields.Year,
		ExamType:     fields.ExamType,
		AcademicYear: fields.AcademicYear,
		FileURL:      fileURL,
		Approved:     false,
		UploaderID:   uploaderID,
	}

	if err := s.papers.Create(ctx, paper); err != nil {
		s.compensate(ctx, key, err)
		uploadsTotal.WithLabelValues("failed").Inc()
		return nil, apperrors.NewUpstreamError(err, "failed to create the catalog record")
	}

	uploadsTotal.WithLabelValues("accepted").Inc()
	if s.search != nil {
		s.search.InvalidateCache()
	}
	logger.Info().Str("paperId", paper.ID.String()).Str("key", key).Msg("Paper submitted for review")
	return paper, nil
}

// compensate removes the object stored in phase 1 after phase 2 failed, and
// falls back to recording it as an orphan when the delete fails too.
func (s *UploadService) compensate(ctx context.Context, key string, cause error) {
	err := s.storage.Delete(ctx, key)
	if err == nil {
		return
	}
	logger.Error().Err(err).Str("key", key).Msg("Compensating delete failed, recording orphan")

	orphanedObjects.Inc()
	if err := s.orphans.Record(ctx, key, cause.Error()); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to record orphaned object")
	}
}
