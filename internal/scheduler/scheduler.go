// Package scheduler runs the in-process periodic jobs of the API server.
package scheduler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 10 * time.Second

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	gocron gocron.Scheduler
	client *http.Client
}

func New() (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLogger(newLogger()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{gocron: s, client: &http.Client{Timeout: pingTimeout}}, nil
}

// AddKeepalive pings url every interval. A zero interval disables the job.
func (s *Scheduler) AddKeepalive(url string, interval time.Duration) error {
	if interval <= 0 {
		log.Info().Msg("keepalive disabled")
		return nil
	}
	_, err := s.gocron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			defer cancel()
			if err := Ping(ctx, s.client, url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("keepalive: ping failed")
				return
			}
			log.Debug().Str("url", url).Msg("keepalive: ok")
		}),
		gocron.WithName("keepalive"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to add keepalive job: %w", err)
	}
	log.Info().Str("url", url).Dur("interval", interval).Msg("keepalive scheduled")
	return nil
}

func (s *Scheduler) Start() {
	s.gocron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() error {
	return s.gocron.Shutdown()
}

// Ping issues one GET and fails on transport errors or non-2xx responses.
func Ping(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("keepalive: unexpected status %d", resp.StatusCode)
	}
	return nil
}
