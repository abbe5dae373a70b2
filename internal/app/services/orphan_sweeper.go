package services

import (
	"context"

	"github.com/qpshare/qpshare/internal/app/models"
	"github.com/qpshare/qpshare/internal/pkg/logger"
	"github.com/qpshare/qpshare/internal/pkg/objectstorage"
	"github.com/robfig/cron/v3"
)

// orphanStore is the slice of the orphan repository the sweep needs
type orphanStore interface {
	List(ctx context.Context) ([]models.OrphanedObject, error)
	Remove(ctx context.Context, id int64) error
}

// OrphanSweeper retries the delete for objects whose compensating delete
// failed during upload, clearing each record once the object is gone.
type OrphanSweeper struct {
	orphans orphanStore
	storage objectstorage.ObjectStorage
	cron    *cron.Cron
}

// NewOrphanSweeper creates a new OrphanSweeper
func NewOrphanSweeper(orphans orphanStore, storage objectstorage.ObjectStorage) *OrphanSweeper {
	return &OrphanSweeper{orphans: orphans, storage: storage}
}

// Start schedules the sweep with the given cron expression
func (s *OrphanSweeper) Start(schedule string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, func() {
		s.Sweep(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info().Str("schedule", schedule).Msg("Orphan sweep scheduled")
	return nil
}

// Stop halts the scheduled sweep
func (s *OrphanSweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep runs one reconciliation pass. Failures are logged and retried on the
// next pass.
func (s *OrphanSweeper) Sweep(ctx context.Context) {
	orphans, err := s.orphans.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Orphan sweep failed to list orphans")
		return
	}

	for _, o := range orphans {
		if err := s.storage.Delete(ctx, o.ObjectKey); err != nil {
			logger.Warn().Err(err).Str("key", o.ObjectKey).Msg("Orphan delete failed, keeping for next sweep")
			continue
		}
		if err := s.orphans.Remove(ctx, o.ID); err != nil {
			logger.Error().Err(err).Str("key", o.ObjectKey).Msg("Failed to clear reconciled orphan")
			continue
		}
		orphansSwept.Inc()
		logger.Info().Str("key", o.ObjectKey).Msg("Orphaned object removed")
	}
}
