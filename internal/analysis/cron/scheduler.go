package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
)

type refresher interface {
	Refresh(ctx context.Context, countyFIPS string) error
}

// Scheduler pre-warms the demographic cache so the first analysis of the day
// never pays the cold-fetch latency.
type Scheduler struct {
	fetcher refresher
	cron    *cron.Cron
}

func NewScheduler(fetcher refresher) *Scheduler {
	return &Scheduler{
		fetcher: fetcher,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start initializes cron tasks (nightly at 12:00AM).
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("0 0 0 * * *", func() {
		s.refreshAll()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (pre-warming demographic cache nightly at 12:00AM)")
	s.cron.Start()
}

// Stop halts scheduling; a running refresh finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) refreshAll() {
	log.Println("Nightly demographic cache pre-warm started")
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	failed := 0
	for _, fips := range domain.SupportedCountyFIPS() {
		if err := s.fetcher.Refresh(ctx, fips); err != nil {
			failed++
			log.Printf("Pre-warm failed for county %s: %v", fips, err)
		}
	}

	log.Printf("Nightly pre-warm finished in %.2f seconds (%d counties failed)",
		time.Since(start).Seconds(), failed)
}
