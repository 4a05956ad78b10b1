package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/pixelastronauts/matwise-backend/pkg/logger"
	"go.uber.org/multierr"
)

const archivedRetentionDays = 90

// PriceListExpiryJobParams configure the price list maintenance job.
type PriceListExpiryJobParams struct {
	Logger     *logger.Logger
	Repository priceListMaintenanceRepo
	Retention  int
}

type priceListMaintenanceRepo interface {
	ArchiveExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewPriceListExpiryJob builds the job that archives sale price lists whose
// window has closed and purges long-archived ones.
func NewPriceListExpiryJob(params PriceListExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("price list repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = archivedRetentionDays
	}
	return &priceListExpiryJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type priceListExpiryJob struct {
	logg      *logger.Logger
	repo      priceListMaintenanceRepo
	retention int
	now       func() time.Time
}

func (j *priceListExpiryJob) Name() string { return "pricelist-expiry" }

func (j *priceListExpiryJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.archiveExpired(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := j.purgeArchived(ctx); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

// archiveExpired flips active lists past their ends_at to archived. The
// resolver's window filter already excludes them; archiving keeps the
// candidate sets it scans small.
func (j *priceListExpiryJob) archiveExpired(ctx context.Context) error {
	now := j.now().UTC()
	archived, err := j.repo.ArchiveExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("archive expired price lists: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"rows_archived": archived})
	j.logg.Info(logCtx, "price list archive sweep complete")
	return nil
}

func (j *priceListExpiryJob) purgeArchived(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteArchivedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge archived price lists: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "price list purge sweep complete")
	return nil
}
