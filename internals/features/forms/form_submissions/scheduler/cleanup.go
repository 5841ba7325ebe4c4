package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"impala_backend/internals/features/forms/form_submissions/service"
)

// CleanupConfig mengatur job pembersihan draft.
type CleanupConfig struct {
	TTL      time.Duration // draft yang tidak disentuh selama TTL dihapus
	Schedule string        // jadwal cron, mis. "@every 1h"
	Now      func() time.Time
}

// RunDraftCleanup menjalankan satu putaran: hapus draft basi lalu panggil
// afterPurge (mis. menutup sesi renderer yang sudah idle).
func RunDraftCleanup(ctx context.Context, store service.DraftStore, cfg CleanupConfig, log logrus.FieldLogger, afterPurge func(cutoff time.Time)) {
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	cutoff := now().Add(-cfg.TTL)

	n, err := store.PurgeBefore(ctx, cutoff)
	if err != nil {
		log.WithError(err).Error("[CLEANUP] gagal menghapus draft basi")
		return
	}
	if afterPurge != nil {
		afterPurge(cutoff)
	}
	if n > 0 {
		log.WithField("deleted", n).Info("[CLEANUP] draft basi dihapus")
		return
	}
	log.Debug("[CLEANUP] tidak ada draft yang memenuhi syarat dihapus")
}

// StartDraftCleanupCron: panggil dari main.go, Stop() saat shutdown.
func StartDraftCleanupCron(store service.DraftStore, cfg CleanupConfig, log logrus.FieldLogger, afterPurge func(cutoff time.Time)) (*cron.Cron, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1h"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 72 * time.Hour
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		RunDraftCleanup(ctx, store, cfg, log, afterPurge)
	}); err != nil {
		return nil, err
	}
	c.Start()
	log.WithFields(logrus.Fields{"schedule": cfg.Schedule, "ttl": cfg.TTL.String()}).Info("[CLEANUP] cron draft aktif")
	return c, nil
}
