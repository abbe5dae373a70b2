package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qpshare/qpshare/internal/app/models"
	"github.com/qpshare/qpshare/internal/app/models/dto"
	"github.com/qpshare/qpshare/internal/app/repositories"
	"github.com/qpshare/qpshare/internal/pkg/apperrors"
	"github.com/qpshare/qpshare/internal/pkg/logger"
	"github.com/qpshare/qpshare/internal/pkg/validation"
)

// Moderation actions accepted by Apply
const (
	ActionApprove   = "approve"
	ActionReject    = "reject"
	ActionUnapprove = "unapprove"
)

// moderationStore is the slice of the paper repository moderation needs
type moderationStore interface {
	ListAll(ctx context.Context) ([]models.Paper, error)
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields repositories.PaperFields) error
	UpdateFieldsAndApprove(ctx context.Context, id uuid.UUID, fields repositories.PaperFields) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// cacheInvalidator drops read-side snapshots after a successful mutation
type cacheInvalidator interface {
	InvalidateCache()
}

// ModerationService drives the review state machine over submitted papers
type ModerationService struct {
	papers moderationStore
	search cacheInvalidator
}

// NewModerationService creates a new ModerationService
func NewModerationService(papers moderationStore, search cacheInvalidator) *ModerationService {
	return &ModerationService{papers: papers, search: search}
}

// Apply dispatches a named moderation action on one paper
func (s *ModerationService) Apply(ctx context.Context, id uuid.UUID, action string) error {
	switch action {
	case ActionApprove:
		return s.Approve(ctx, id)
	case ActionReject:
		return s.Reject(ctx, id)
	case ActionUnapprove:
		return s.Unapprove(ctx, id)
	default:
		return apperrors.NewCustomError(apperrors.ErrInvalidAction,
			fmt.Sprintf("unknown moderation action: %s", action))
	}
}

// Approve publishes a paper to the public surface
func (s *ModerationService) Approve(ctx context.Context, id uuid.UUID) error {
	if err := s.papers.SetApproved(ctx, id, true); err != nil {
		return err
	}
	s.afterMutation(ActionApprove, id)
	return nil
}

// Unapprove pulls a published paper back to pending
func (s *ModerationService) Unapprove(ctx context.Context, id uuid.UUID) error {
	if err := s.papers.SetApproved(ctx, id, false); err != nil {
		return err
	}
	s.afterMutation(ActionUnapprove, id)
	return nil
}

// Reject permanently deletes a submission
func (s *ModerationService) Reject(ctx context.Context, id uuid.UUID) error {
	if err := s.papers.Delete(ctx, id); err != nil {
		return err
	}
	s.afterMutation(ActionReject, id)
	return nil
}

// EditFields overwrites the editable metadata of a paper. The approved flag
// is not touched.
func (s *ModerationService) EditFields(ctx context.Context, id uuid.UUID, patch dto.PaperPatch) error {
	fields, err := paperFieldsFromPatch(patch)
	if err != nil {
		return err
	}
	if err := s.papers.UpdateFields(ctx, id, fields); err != nil {
		return err
	}
	s.afterMutation("edit", id)
	return nil
}

// EditAndApprove applies the field patch and approves in one transaction.
// Validation runs before any store access, so an invalid patch leaves the
// record untouched.
func (s *ModerationService) EditAndApprove(ctx context.Context, id uuid.UUID, patch dto.PaperPatch) error {
	fields, err := paperFieldsFromPatch(patch)
	if err != nil {
		return err
	}
	if err := s.papers.UpdateFieldsAndApprove(ctx, id, fields); err != nil {
		return err
	}
	s.afterMutation("edit_and_approve", id)
	return nil
}

// Snapshot returns the full record set, newest first, with the stats the
// moderation console shows. Stats are recomputed from the snapshot itself;
// rejected submissions are deleted outright so that count stays zero.
func (s *ModerationService) Snapshot(ctx context.Context) (*dto.AdminPapersResponse, error) {
	papers, err := s.papers.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := dto.PaperStats{Total: len(papers)}
	for _, p := range papers {
		if p.Approved {
			stats.Approved++
		} else {
			stats.Pending++
		}
	}

	return &dto.AdminPapersResponse{Papers: papers, Stats: stats}, nil
}

func (s *ModerationService) afterMutation(action string, id uuid.UUID) {
	moderationActions.WithLabelValues(action).Inc()
	if s.search != nil {
		s.search.InvalidateCache()
	}
	logger.Info().Str("action", action).Str("paperId", id.String()).Msg("Moderation action applied")
}

// paperFieldsFromPatch validates the patch and converts it to the repository
// field set. Required texts are persisted in their trimmed form; the optional
// fields collapse to NULL when blank.
func paperFieldsFromPatch(patch dto.PaperPatch) (repositories.PaperFields, error) {
	return validatePaperFields(patch.Subject, patch.University, patch.Degree,
		patch.Year, patch.ExamType, patch.AcademicYear)
}

func validatePaperFields(subject, university, degree string, year int, examType, academicYear string) (repositories.PaperFields, error) {
	var fields repositories.PaperFields

	var ok bool
	if fields.Subject, ok = validation.RequiredText(subject); !ok {
		return fields, apperrors.NewValidationError("subject must not be empty")
	}
	if fields.University, ok = validation.RequiredText(university); !ok {
		return fields, apperrors.NewValidationError("university must not be empty")
	}
	if fields.Degree, ok = validation.RequiredText(degree); !ok {
		return fields, apperrors.NewValidationError("degree must not be empty")
	}

	if !validation.Year(year) {
		return fields, apperrors.NewValidationError(
			fmt.Sprintf("year must be between %d and %d", validation.YearMin, validation.YearMax))
	}
	fields.Year = year

	examType = trimOrEmpty(examType)
	if !validation.ExamType(examType) {
		return fields, apperrors.NewValidationError(
			fmt.Sprintf("examType must be one of %v", validation.ExamTypes))
	}
	fields.ExamType = optionalText(examType)
	fields.AcademicYear = optionalText(trimOrEmpty(academicYear))

	return fields, nil
}

func trimOrEmpty(value string) string {
	trimmed, _ := validation.RequiredText(value)
	return trimmed
}

func optionalText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
