package cron

import (
	"context"
	"time"
)

// TokenPurger removes expired and revoked session and reset tokens.
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) error
}

type MaintenanceJobs struct {
	purger TokenPurger
}

func NewMaintenanceJobs(purger TokenPurger) *MaintenanceJobs {
	return &MaintenanceJobs{purger: purger}
}

func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_tokens", 1*time.Hour, j.purger.PurgeExpiredTokens)
}
