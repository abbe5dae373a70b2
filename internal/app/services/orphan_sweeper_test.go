package services

import (
	"context"
	"errors"
	"testing"

	"github.com/qpshare/qpshare/internal/app/models"
)

type mockOrphanStore struct {
	orphans []models.OrphanedObject
	removed []int64
	listErr error
}

func (m *mockOrphanStore) List(ctx context.Context) ([]models.OrphanedObject, error) {
	return m.orphans, m.listErr
}

func (m *mockOrphanStore) Remove(ctx context.Context, id int64) error {
	m.removed = append(m.removed, id)
	return nil
}

func TestSweepDeletesAndClearsOrphans(t *testing.T) {
	store := &mockStorage{}
	orphans := &mockOrphanStore{
		orphans: []models.OrphanedObject{
			{ID: 1, ObjectKey: "public/1-a.pdf"},
			{ID: 2, ObjectKey: "public/2-b.pdf"},
		},
	}
	sweeper := NewOrphanSweeper(orphans, store)

	sweeper.Sweep(context.Background())

	if len(store.deleteCalls) != 2 {
		t.Fatalf("expected both objects deleted, got %v", store.deleteCalls)
	}
	if len(orphans.removed) != 2 {
		t.Fatalf("expected both records cleared, got %v", orphans.removed)
	}
}

func TestSweepKeepsOrphanWhenDeleteFails(t *testing.T) {
	store := &mockStorage{
		deleteFn: func(ctx context.Context, key string) error {
			if key == "public/1-a.pdf" {
				return errors.New("still unreachable")
			}
			return nil
		},
	}
	orphans := &mockOrphanStore{
		orphans: []models.OrphanedObject{
			{ID: 1, ObjectKey: "public/1-a.pdf"},
			{ID: 2, ObjectKey: "public/2-b.pdf"},
		},
	}
	sweeper := NewOrphanSweeper(orphans, store)

	sweeper.Sweep(context.Background())

	if len(orphans.removed) != 1 || orphans.removed[0] != 2 {
		t.Fatalf("only the reconciled orphan should be cleared, got %v", orphans.removed)
	}
}
