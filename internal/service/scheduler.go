package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// LicenseSyncer suspends drivers with expired licenses.
type LicenseSyncer interface {
	SyncExpiredLicenses(ctx context.Context) (int, error)
}

// RunLicenseSync sweeps expired licenses every interval until ctx ends.
func RunLicenseSync(ctx context.Context, syncer LicenseSyncer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := syncer.SyncExpiredLicenses(ctx)
			if err != nil {
				log.WithError(err).Error("license sync failed")
				continue
			}
			if n > 0 {
				log.WithField("suspended_count", n).Info("license sync suspended drivers")
			}
		}
	}
}
