package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/qpshare/qpshare/internal/app/models"
	"github.com/qpshare/qpshare/internal/app/models/dto"
	"github.com/qpshare/qpshare/internal/app/repositories"
	"github.com/qpshare/qpshare/internal/pkg/apperrors"
)

type mockPaperStore struct {
	listAllFn                func(ctx context.Context) ([]models.Paper, error)
	setApprovedFn            func(ctx context.Context, id uuid.UUID, approved bool) error
	updateFieldsFn           func(ctx context.Context, id uuid.UUID, fields repositories.PaperFields) error
	updateFieldsAndApproveFn func(ctx context.Context, id uuid.UUID, fields repositories.PaperFields) error
	deleteFn                 func(ctx context.Context, id uuid.UUID) error

	calls []string
}

func (m *mockPaperStore) ListAll(ctx context.Context) ([]models.Paper, error) {
	m.calls = append(m.calls, "ListAll")
	return m.listAllFn(ctx)
}

func (m *mockPaperStore) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	m.calls = append(m.calls, "SetApproved")
	return m.setApprovedFn(ctx, id, approved)
}

func (m *mockPaperStore) UpdateFields(ctx context.Context, id uuid.UUID, fields repositories.PaperFields) error {
	m.calls = append(m.calls, "UpdateFields")
	return m.updateFieldsFn(ctx, id, fields)
}

func (m *mockPaperStore) UpdateFieldsAndApprove(ctx context.Context, id uuid.UUID, fields repositories.PaperFields) error {
	m.calls = append(m.calls, "UpdateFieldsAndApprove")
	return m.updateFieldsAndApproveFn(ctx, id, fields)
}

func (m *mockPaperStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.calls = append(m.calls, "Delete")
	return m.deleteFn(ctx, id)
}

type spyInvalidator struct {
	invalidations int
}

func (s *spyInvalidator) InvalidateCache() {
	s.invalidations++
}

func validPatch() dto.PaperPatch {
	return dto.PaperPatch{
		Subject:      "  Operating Systems ",
		University:   "Delhi University",
		Degree:       "B.Tech",
		Year:         2022,
		ExamType:     "end-sem",
		AcademicYear: "2022-23",
	}
}

func TestApproveInvalidatesSnapshot(t *testing.T) {
	store := &mockPaperStore{
		setApprovedFn: func(ctx context.Context, id uuid.UUID, approved bool) error {
			if !approved {
				t.Error("approve must set approved=true")
			}
			return nil
		},
	}
	spy := &spyInvalidator{}
	svc := NewModerationService(store, spy)

	if err := svc.Approve(context.Background(), uuid.New()); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if spy.invalidations != 1 {
		t.Fatalf("expected one cache invalidation, got %d", spy.invalidations)
	}
}

func TestUnapproveClearsFlag(t *testing.T) {
	var gotApproved = true
	store := &mockPaperStore{
		setApprovedFn: func(ctx context.Context, id uuid.UUID, approved bool) error {
			gotApproved = approved
			return nil
		},
	}
	svc := NewModerationService(store, nil)

	if err := svc.Unapprove(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unapprove failed: %v", err)
	}
	if gotApproved {
		t.Fatal("unapprove must set approved=false")
	}
}

func TestApproveMissingPaper(t *testing.T) {
	store := &mockPaperStore{
		setApprovedFn: func(ctx context.Context, id uuid.UUID, approved bool) error {
			return apperrors.ErrPaperNotFound
		},
	}
	spy := &spyInvalidator{}
	svc := NewModerationService(store, spy)

	err := svc.Approve(context.Background(), uuid.New())
	if !errors.Is(err, apperrors.ErrPaperNotFound) {
		t.Fatalf("expected ErrPaperNotFound, got %v", err)
	}
	if spy.invalidations != 0 {
		t.Fatal("failed transition must not invalidate the snapshot")
	}
}

func TestRejectDeletesRecord(t *testing.T) {
	target := uuid.New()
	store := &mockPaperStore{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			if id != target {
				t.Errorf("deleted wrong paper: %s", id)
			}
			return nil
		},
	}
	svc := NewModerationService(store, nil)

	if err := svc.Reject(context.Background(), target); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if len(store.calls) != 1 || store.calls[0] != "Delete" {
		t.Fatalf("expected a single Delete call, got %v", store.calls)
	}
}

func TestApplyDispatchesActions(t *testing.T) {
	store := &mockPaperStore{
		setApprovedFn: func(ctx context.Context, id uuid.UUID, approved bool) error { return nil },
		deleteFn:      func(ctx context.Context, id uuid.UUID) error { return nil },
	}
	svc := NewModerationService(store, nil)

	for _, action := range []string{ActionApprove, ActionReject, ActionUnapprove} {
		if err := svc.Apply(context.Background(), uuid.New(), action); err != nil {
			t.Errorf("action %q failed: %v", action, err)
		}
	}
}

func TestApplyRejectsUnknownAction(t *testing.T) {
	store := &mockPaperStore{}
	svc := NewModerationService(store, nil)

	err := svc.Apply(context.Background(), uuid.New(), "promote")
	if !errors.Is(err, apperrors.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if len(store.calls) != 0 {
		t.Fatalf("unknown action must not touch the store, got calls %v", store.calls)
	}
}

func TestEditFieldsTrimsAndNullsOptionals(t *testing.T) {
	var got repositories.PaperFields
	store := &mockPaperStore{
		updateFieldsFn: func(ctx context.Context, id uuid.UUID, fields repositories.PaperFields) error {
			got = fields
			return nil
		},
	}
	svc := NewModerationService(store, nil)

	patch := validPatch()
	patch.ExamType = ""
	patch.AcademicYear = "  "
	if err := svc.EditFields(context.Background(), uuid.New(), patch); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	if got.Subject != "Operating Systems" {
		t.Errorf("subject not trimmed: %q", got.Subject)
	}
	if got.ExamType != nil {
		t.Errorf("blank exam type should persist as NULL, got %q", *got.ExamType)
	}
	if got.AcademicYear != nil {
		t.Errorf("blank academic year should persist as NULL, got %q", *got.AcademicYear)
	}
}

func TestEditFieldsValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.PaperPatch)
	}{
		{"blank subject", func(p *dto.PaperPatch) { p.Subject = "   " }},
		{"blank university", func(p *dto.PaperPatch) { p.University = "" }},
		{"blank degree", func(p *dto.PaperPatch) { p.Degree = "\t" }},
		{"year below range", func(p *dto.PaperPatch) { p.Year = 1899 }},
		{"year above range", func(p *dto.PaperPatch) { p.Year = 2100 }},
		{"unknown exam type", func(p *dto.PaperPatch) { p.ExamType = "quiz" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockPaperStore{}
			svc := NewModerationService(store, nil)

			patch := validPatch()
			tc.mutate(&patch)

			err := svc.EditFields(context.Background(), uuid.New(), patch)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("expected validation failure, got %v", err)
			}
			if len(store.calls) != 0 {
				t.Fatalf("invalid patch must not reach the store, got calls %v", store.calls)
			}
		})
	}
}

func TestEditAndApproveInvalidPatchTouchesNothing(t *testing.T) {
	store := &mockPaperStore{}
	spy := &spyInvalidator{}
	svc := NewModerationService(store, spy)

	patch := validPatch()
	patch.Year = 1899

	err := svc.EditAndApprove(context.Background(), uuid.New(), patch)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if len(store.calls) != 0 {
		t.Fatalf("record must be untouched after invalid composite, got calls %v", store.calls)
	}
	if spy.invalidations != 0 {
		t.Fatal("failed composite must not invalidate the snapshot")
	}
}

func TestEditAndApproveRunsAsOneUnit(t *testing.T) {
	store := &mockPaperStore{
		updateFieldsAndApproveFn: func(ctx context.Context, id uuid.UUID, fields repositories.PaperFields) error {
			return nil
		},
	}
	svc := NewModerationService(store, nil)

	if err := svc.EditAndApprove(context.Background(), uuid.New(), validPatch()); err != nil {
		t.Fatalf("composite failed: %v", err)
	}
	if len(store.calls) != 1 || store.calls[0] != "UpdateFieldsAndApprove" {
		t.Fatalf("expected the single transactional call, got %v", store.calls)
	}
}

func TestSnapshotRecomputesStats(t *testing.T) {
	store := &mockPaperStore{
		listAllFn: func(ctx context.Context) ([]models.Paper, error) {
			return []models.Paper{
				paper("A", "U1", "D1", 2020, true),
				paper("B", "U1", "D1", 2021, false),
				paper("C", "U2", "D2", 2022, true),
			}, nil
		},
	}
	svc := NewModerationService(store, nil)

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	want := dto.PaperStats{Total: 3, Pending: 1, Approved: 2, Rejected: 0}
	if snap.Stats != want {
		t.Fatalf("stats = %+v, want %+v", snap.Stats, want)
	}
	if len(snap.Papers) != 3 {
		t.Fatalf("expected the full record set, got %d", len(snap.Papers))
	}
}
