package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pixelastronauts/matwise-backend/pkg/logger"
)

func TestPriceListExpiryJobRunsBothSweeps(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakePriceListMaintenanceRepo{archivedRows: 3, deletedRows: 1}
	job := newPriceListExpiryJob(t, repo)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !repo.lastNow.Equal(now) {
		t.Fatalf("expected archive instant %s, got %s", now, repo.lastNow)
	}
	expectedCutoff := now.UTC().Add(-archivedRetentionDays * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, repo.lastCutoff)
	}
	if repo.archiveCalls != 1 || repo.deleteCalls != 1 {
		t.Fatalf("expected one call per sweep, got archive=%d delete=%d", repo.archiveCalls, repo.deleteCalls)
	}
}

func TestPriceListExpiryJobCombinesSweepErrors(t *testing.T) {
	repo := &fakePriceListMaintenanceRepo{
		archiveErr: errors.New("archive boom"),
		deleteErr:  errors.New("purge boom"),
	}
	job := newPriceListExpiryJob(t, repo)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if repo.deleteCalls != 1 {
		t.Fatal("expected purge sweep to run despite archive failure")
	}
}

func newPriceListExpiryJob(t *testing.T, repo *fakePriceListMaintenanceRepo) *priceListExpiryJob {
	t.Helper()
	jobIface, err := NewPriceListExpiryJob(PriceListExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewPriceListExpiryJob: %v", err)
	}
	job, ok := jobIface.(*priceListExpiryJob)
	if !ok {
		t.Fatalf("expected priceListExpiryJob, got %T", jobIface)
	}
	return job
}

type fakePriceListMaintenanceRepo struct {
	lastNow      time.Time
	lastCutoff   time.Time
	archivedRows int64
	deletedRows  int64
	archiveErr   error
	deleteErr    error
	archiveCalls int
	deleteCalls  int
}

func (f *fakePriceListMaintenanceRepo) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	f.archiveCalls++
	f.lastNow = now
	if f.archiveErr != nil {
		return 0, f.archiveErr
	}
	return f.archivedRows, nil
}

func (f *fakePriceListMaintenanceRepo) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.deleteCalls++
	f.lastCutoff = cutoff
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.deletedRows, nil
}
