package credential

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ExpiryWorker periodically flips credentials past their expiry date to the
// expired status so the stored status never lags the calendar.
type ExpiryWorker struct {
	repo      CredentialRepository
	interval  time.Duration
	scheduler gocron.Scheduler
}

func NewExpiryWorker(repo CredentialRepository, interval time.Duration) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpiryWorker{repo: repo, interval: interval}
}

// Start schedules the sweep. Returns after scheduling; the job runs on the
// scheduler's goroutine until Stop is called.
func (w *ExpiryWorker) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	w.scheduler = sched

	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.sweep),
	)
	if err != nil {
		return err
	}

	sched.Start()
	return nil
}

func (w *ExpiryWorker) Stop() error {
	if w.scheduler == nil {
		return nil
	}
	return w.scheduler.Shutdown()
}

func (w *ExpiryWorker) sweep() {
	expired, err := w.repo.ExpireOverdue(time.Now())
	if err != nil {
		log.Printf("[ExpiryWorker] sweep failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("[ExpiryWorker] marked %d credential(s) as expired", expired)
	}
}
